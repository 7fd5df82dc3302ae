// Package testutil provides test utilities and helpers for plaid-vision tests.
package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

// VisionOption modifies a fixture document before it is returned or written.
type VisionOption func(doc map[string]any)

// ValidVision returns a complete document at the given schema version that
// validates with no errors and no warnings. Every call returns a fresh map.
func ValidVision(version string, opts ...VisionOption) map[string]any {
	doc := map[string]any{
		"meta": map[string]any{
			"version":      version,
			"createdAt":    "2026-01-05T10:00:00.000Z",
			"updatedAt":    "2026-01-05T10:00:00.000Z",
			"plaidVersion": "0.9.0",
		},
		"creator": map[string]any{
			"name":       "Sam Rivera",
			"expertise":  "Product design",
			"background": "Ten years building tools for small teams",
		},
		"purpose": map[string]any{
			"whoYouHelp":            "Independent bakers",
			"problemYouSolve":       "Order tracking lives in paper notebooks",
			"desiredTransformation": "Orders are never lost",
			"whyYou":                "I grew up in a bakery",
		},
		"product": map[string]any{
			"name":                  "Crumb",
			"oneLiner":              "Order tracking for small bakeries",
			"howItWorks":            "Customers order online, bakers see a daily prep list",
			"magicMoment":           "The morning prep list builds itself",
			"marketDifferentiation": "Built for a single storefront, not a chain",
			"platform":              "web",
			"keyCapabilities":       []any{"Online ordering", "Daily prep list"},
		},
		"audience": map[string]any{
			"primaryUser":         "Bakery owner",
			"currentAlternatives": "Paper notebooks and phone calls",
			"frustrations":        "Missed and duplicated orders",
			"secondaryUsers":      []any{"Counter staff"},
		},
		"business": map[string]any{
			"revenueModel":   "subscription",
			"initialGoal":    "Ten paying bakeries",
			"sixMonthVision": "Two hundred bakeries",
			"constraints":    "Solo founder, evenings only",
			"goToMarket":     "Local baker associations",
		},
		"feeling": map[string]any{
			"brandPersonality": "Warm and practical",
			"visualMood":       "Flour white and crust brown",
			"toneOfVoice":      "Friendly",
			"antiPatterns":     "Enterprise jargon",
		},
		"techStack": map[string]any{
			"appType":  "web",
			"frontend": map[string]any{"choice": "Next.js", "rationale": "Familiar"},
			"backend":  map[string]any{"choice": "Go", "rationale": "Simple deploys"},
			"database": map[string]any{"choice": "Postgres", "rationale": "Reliable"},
			"auth":     map[string]any{"choice": "Clerk", "rationale": "Fast to set up"},
			"payments": map[string]any{"choice": "Stripe", "rationale": "Subscriptions built in"},
		},
		"tooling": map[string]any{
			"codingAgent": "claude-code",
		},
	}
	for _, opt := range opts {
		opt(doc)
	}
	return doc
}

// WithSection replaces a whole top-level section.
func WithSection(name string, value any) VisionOption {
	return func(doc map[string]any) {
		doc[name] = value
	}
}

// WithoutSection removes a top-level section.
func WithoutSection(name string) VisionOption {
	return func(doc map[string]any) {
		delete(doc, name)
	}
}

// WithField sets section.field, leaving the rest of the section intact.
func WithField(section, field string, value any) VisionOption {
	return func(doc map[string]any) {
		if obj, ok := doc[section].(map[string]any); ok {
			obj[field] = value
		}
	}
}

// WithoutField removes section.field.
func WithoutField(section, field string) VisionOption {
	return func(doc map[string]any) {
		if obj, ok := doc[section].(map[string]any); ok {
			delete(obj, field)
		}
	}
}

// CreateTempVision writes a fixture document to dir/vision.json and returns its path.
func CreateTempVision(t *testing.T, dir string, doc map[string]any) string {
	t.Helper()

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		t.Fatalf("failed to marshal vision fixture: %v", err)
	}
	path := filepath.Join(dir, "vision.json")
	WriteFile(t, path, string(data)+"\n")
	return path
}

// ReadJSON reads and decodes a JSON object from path.
func ReadJSON(t *testing.T, path string) map[string]any {
	t.Helper()

	var doc map[string]any
	if err := json.Unmarshal([]byte(ReadFile(t, path)), &doc); err != nil {
		t.Fatalf("failed to decode %s: %v", path, err)
	}
	return doc
}

// WriteFile writes content to a file, creating parent directories if needed.
func WriteFile(t *testing.T, path, content string) {
	t.Helper()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("failed to create directory %s: %v", dir, err)
	}

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write file %s: %v", path, err)
	}
}

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// ReadFile reads file content, failing the test on error.
func ReadFile(t *testing.T, path string) string {
	t.Helper()

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read file %s: %v", path, err)
	}

	return string(content)
}

// configEnvVars lists the environment variables the config loader reads.
var configEnvVars = []string{
	"PLAID_DOCUMENT",
	"PLAID_LOG_LEVEL",
	"PLAID_COLOR",
	"PLAID_JSON_SCHEMA",
}

// ClearConfigEnv blanks every PLAID_* variable the config loader reads so a
// developer's shell cannot leak into a test. t.Setenv restores them afterwards.
func ClearConfigEnv(t *testing.T) {
	t.Helper()

	for _, key := range configEnvVars {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}
