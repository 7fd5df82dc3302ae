// Package config_test tests default configuration values.
// Related: internal/config/defaults.go
// Tags: config, defaults
package config

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetDefaults(t *testing.T) {
	t.Parallel()

	defaults := GetDefaults()

	assert.Equal(t, "vision.json", defaults["document"])
	assert.Equal(t, "warn", defaults["log_level"])
	assert.Equal(t, "auto", defaults["color"])
	assert.Equal(t, false, defaults["json_schema"])
	assert.Len(t, defaults, 4, "every default maps to a Configuration field")
}

func TestGetDefaults_PassValidation(t *testing.T) {
	t.Parallel()

	defaults := GetDefaults()
	cfg := Configuration{
		Document:   defaults["document"].(string),
		LogLevel:   defaults["log_level"].(string),
		Color:      defaults["color"].(string),
		JSONSchema: defaults["json_schema"].(bool),
	}
	require.NoError(t, validator.New().Struct(cfg))
}
