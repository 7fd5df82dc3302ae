package migration

import (
	"strings"

	"github.com/plaid-labs/plaid-vision/internal/vision"
)

// Builtin returns the migrations shipped with this release, oldest first.
func Builtin() []Migration {
	return []Migration{
		{
			From:        "1.0",
			To:          "1.1",
			Description: "techStack layers become {choice, rationale} objects",
			Apply:       stackLayersToObjects,
		},
		{
			From:        "1.1",
			To:          "1.2",
			Description: "audience.secondaryUsers becomes a list; legacy codingAgent names are normalized",
			Apply:       normalizeAudienceAndTooling,
		},
	}
}

// Default returns the built-in registry targeting vision.CurrentVersion.
func Default() (*Registry, error) {
	return NewRegistry(vision.CurrentVersion, Builtin()...)
}

// stackLayersToObjects rewrites layers stored as bare strings ("frontend": "React")
// into {"choice": "React", "rationale": ""}.
func stackLayersToObjects(doc vision.Document) vision.Document {
	if stack, ok := doc.Section(vision.SectionTechStack); ok {
		for _, layer := range vision.StackLayers {
			if choice, ok := stack[layer].(string); ok {
				stack[layer] = map[string]any{"choice": choice, "rationale": ""}
			}
		}
	}
	doc.SetMeta("version", "1.1")
	return doc
}

// legacyAgents maps codingAgent spellings accepted before 1.2.
var legacyAgents = map[string]string{
	"claude":         "claude-code",
	"claude code":    "claude-code",
	"github-copilot": "copilot",
	"github copilot": "copilot",
}

func normalizeAudienceAndTooling(doc vision.Document) vision.Document {
	if audience, ok := doc.Section(vision.SectionAudience); ok {
		if users, ok := audience["secondaryUsers"].(string); ok {
			audience["secondaryUsers"] = splitList(users)
		}
	}
	if tooling, ok := doc.Section(vision.SectionTooling); ok {
		if agent, ok := tooling["codingAgent"].(string); ok {
			if renamed, ok := legacyAgents[strings.ToLower(strings.TrimSpace(agent))]; ok {
				tooling["codingAgent"] = renamed
			}
		}
	}
	doc.SetMeta("version", "1.2")
	return doc
}

// splitList splits a comma separated string, dropping blank entries.
func splitList(s string) []any {
	items := []any{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			items = append(items, part)
		}
	}
	return items
}
