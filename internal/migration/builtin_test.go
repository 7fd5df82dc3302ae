// Package migration_test tests the built-in 1.0 -> 1.1 -> 1.2 migrations.
// Related: internal/migration/builtin.go
// Tags: migration, builtin, techStack, audience, tooling
package migration

import (
	"testing"

	"github.com/plaid-labs/plaid-vision/internal/testutil"
	"github.com/plaid-labs/plaid-vision/internal/vision"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// legacyVision returns a 1.0 document using the shapes older releases wrote.
func legacyVision() vision.Document {
	return vision.Document(testutil.ValidVision("1.0",
		testutil.WithField("techStack", "frontend", "SvelteKit"),
		testutil.WithField("techStack", "backend", "Go"),
		testutil.WithField("audience", "secondaryUsers", "counter staff, delivery drivers, ,"),
		testutil.WithField("tooling", "codingAgent", "Claude Code"),
	))
}

func TestStackLayersToObjects(t *testing.T) {
	t.Parallel()

	doc := stackLayersToObjects(legacyVision())

	stack := doc["techStack"].(map[string]any)
	assert.Equal(t, map[string]any{"choice": "SvelteKit", "rationale": ""}, stack["frontend"])
	assert.Equal(t, map[string]any{"choice": "Go", "rationale": ""}, stack["backend"])
	assert.Equal(t, map[string]any{"choice": "Postgres", "rationale": "Reliable"}, stack["database"], "object layers are left alone")
	assert.Equal(t, "web", stack["appType"], "appType is not a layer")

	v, _ := doc.Version()
	assert.Equal(t, "1.1", v)
}

func TestNormalizeAudienceAndTooling(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		users     any
		agent     any
		wantUsers any
		wantAgent any
	}{
		"comma string":       {users: "a, b,,c ", agent: "cursor", wantUsers: []any{"a", "b", "c"}, wantAgent: "cursor"},
		"blank string":       {users: "  ", agent: "claude", wantUsers: []any{}, wantAgent: "claude-code"},
		"already a list":     {users: []any{"x"}, agent: "GitHub Copilot", wantUsers: []any{"x"}, wantAgent: "copilot"},
		"unknown agent kept": {users: []any{}, agent: "zed", wantUsers: []any{}, wantAgent: "zed"},
		"non-string agent":   {users: []any{}, agent: true, wantUsers: []any{}, wantAgent: true},
	}

	for name, tc := range tests {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			doc := vision.Document(testutil.ValidVision("1.1",
				testutil.WithField("audience", "secondaryUsers", tc.users),
				testutil.WithField("tooling", "codingAgent", tc.agent),
			))

			doc = normalizeAudienceAndTooling(doc)

			assert.Equal(t, tc.wantUsers, doc["audience"].(map[string]any)["secondaryUsers"])
			assert.Equal(t, tc.wantAgent, doc["tooling"].(map[string]any)["codingAgent"])
			v, _ := doc.Version()
			assert.Equal(t, "1.2", v)
		})
	}
}

func TestBuiltin_LegacyDocumentBecomesValid(t *testing.T) {
	t.Parallel()

	reg, err := Default()
	require.NoError(t, err)
	d := NewDriver(reg, WithClock(fixedClock))

	result := d.Migrate(legacyVision())
	require.True(t, result.Success, result.Error)
	assert.Equal(t, []string{"1.0 → 1.1", "1.1 → 1.2"}, result.AppliedTransitions)

	validation := vision.NewValidator(vision.CurrentVersion).Validate(result.Document)
	assert.True(t, validation.Valid, "errors: %v", validation.Errors)
	assert.Equal(t, []string{
		"techStack.frontend.rationale is empty, consider adding reasoning",
		"techStack.backend.rationale is empty, consider adding reasoning",
	}, validation.Warnings)
}
