// Package config loads plaid-vision settings from defaults, a global file, a
// local file and PLAID_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of environment variables that override config keys.
const EnvPrefix = "PLAID_"

// Configuration represents the plaid-vision configuration
type Configuration struct {
	Document   string `koanf:"document" validate:"required"`
	LogLevel   string `koanf:"log_level" validate:"oneof=debug info warn error"`
	Color      string `koanf:"color" validate:"oneof=auto always never"`
	JSONSchema bool   `koanf:"json_schema"`
}

// ValidationError describes a config value that failed validation.
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config field '%s': %s (got %v)", e.Field, e.Message, e.Value)
}

// GlobalConfigPath returns ~/.plaid/config.json, or "" when the home
// directory cannot be resolved.
func GlobalConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".plaid", "config.json")
}

// Load loads configuration from global, local, and environment sources
// Priority: Environment variables > Local config > Global config > Defaults
func Load(localConfigPath string) (*Configuration, error) {
	k := koanf.New(".")

	for key, value := range GetDefaults() {
		if err := k.Set(key, value); err != nil {
			return nil, fmt.Errorf("failed to apply default %s: %w", key, err)
		}
	}

	if globalPath := GlobalConfigPath(); globalPath != "" {
		if err := loadFile(k, globalPath); err != nil {
			return nil, fmt.Errorf("failed to load global config: %w", err)
		}
	}

	if localConfigPath != "" {
		if err := loadFile(k, localConfigPath); err != nil {
			return nil, fmt.Errorf("failed to load local config: %w", err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	cfg.Document = expandHomePath(cfg.Document)
	return &cfg, nil
}

// loadFile merges a JSON config file into k. A missing file is skipped.
func loadFile(k *koanf.Koanf, path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := k.Load(file.Provider(path), json.Parser()); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// validate checks struct tags and reports the first failing field.
func validate(cfg *Configuration) error {
	err := validator.New().Struct(cfg)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("config validation failed: %w", err)
	}

	fe := fieldErrs[0]
	return &ValidationError{
		Field:   configKey(fe.StructField()),
		Value:   fe.Value(),
		Message: describeTag(fe.Tag(), fe.Param()),
	}
}

func describeTag(tag, param string) string {
	switch tag {
	case "required":
		return "is required"
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(param, " ", ", ")
	default:
		return fmt.Sprintf("failed %q check", tag)
	}
}

// configKey maps a struct field name back to its koanf key.
func configKey(structField string) string {
	switch structField {
	case "Document":
		return "document"
	case "LogLevel":
		return "log_level"
	case "Color":
		return "color"
	case "JSONSchema":
		return "json_schema"
	default:
		return structField
	}
}

// envTransform converts environment variable names to config keys
// Example: PLAID_LOG_LEVEL -> log_level
func envTransform(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
}

// expandHomePath expands ~ to the user's home directory
func expandHomePath(path string) string {
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(homeDir, path[2:])
		}
	}
	return path
}
