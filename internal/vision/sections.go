package vision

const revenueModelFree = "free"

// Allowed enum values.
var (
	Platforms     = []string{"web", "mobile", "desktop", "cross-platform"}
	RevenueModels = []string{"subscription", "freemium", "one-time", "marketplace", "ad-supported", revenueModelFree}
	AppTypes      = []string{"web", "mobile", "desktop", "cross-platform"}
	CodingAgents  = []string{"claude-code", "cursor", "windsurf", "copilot", "other"}
	StackLayers   = []string{"frontend", "backend", "database", "auth", "payments"}
)

// section is one required top-level object and the rules applied to it, in order.
type section struct {
	name        string
	description string
	rules       []rule
}

// defaultSections returns the rule table for the current schema.
func defaultSections() []section {
	return []section{
		{
			name:        SectionMeta,
			description: "Document metadata",
			rules: []rule{
				requiredString{field: "createdAt", desc: "Creation timestamp"},
				requiredString{field: "updatedAt", desc: "Last modification timestamp"},
				schemaVersion{field: "version"},
				optionalString{field: "plaidVersion", desc: "PLAID release that wrote the document"},
			},
		},
		{
			name:        SectionCreator,
			description: "Who is building the product",
			rules: []rule{
				requiredString{field: "name", desc: "Creator name"},
				requiredString{field: "expertise", desc: "Relevant expertise"},
				requiredString{field: "background", desc: "Background story"},
			},
		},
		{
			name:        SectionPurpose,
			description: "Why the product exists",
			rules: []rule{
				requiredString{field: "whoYouHelp", desc: "People the product serves"},
				requiredString{field: "problemYouSolve", desc: "Problem being solved"},
				requiredString{field: "desiredTransformation", desc: "Outcome for the user"},
				requiredString{field: "whyYou", desc: "Why this creator"},
			},
		},
		{
			name:        SectionProduct,
			description: "What the product is",
			rules: []rule{
				requiredString{field: "name", desc: "Product name"},
				requiredString{field: "oneLiner", desc: "One sentence pitch"},
				requiredString{field: "howItWorks", desc: "How it works"},
				requiredString{field: "magicMoment", desc: "The moment users get it"},
				requiredString{field: "marketDifferentiation", desc: "What sets it apart"},
				enumField{field: "platform", values: Platforms, desc: "Target platform"},
				stringList{field: "keyCapabilities", minOne: true, itemsNonEmpty: true, desc: "Key capabilities, at least one"},
			},
		},
		{
			name:        SectionAudience,
			description: "Who uses the product",
			rules: []rule{
				requiredString{field: "primaryUser", desc: "Primary user"},
				requiredString{field: "currentAlternatives", desc: "What they use today"},
				requiredString{field: "frustrations", desc: "Their frustrations"},
				stringList{
					field:     "secondaryUsers",
					emptyHint: "consider adding at least one secondary user",
					desc:      "Secondary user groups",
				},
			},
		},
		{
			name:        SectionBusiness,
			description: "How the product makes money",
			rules: []rule{
				enumField{field: "revenueModel", values: RevenueModels, desc: "Revenue model"},
				requiredString{field: "initialGoal", desc: "First milestone"},
				requiredString{field: "sixMonthVision", desc: "Where it is in six months"},
				requiredString{field: "constraints", desc: "Budget, time and other constraints"},
				requiredString{field: "goToMarket", desc: "Go-to-market plan"},
			},
		},
		{
			name:        SectionFeeling,
			description: "Brand and tone",
			rules: []rule{
				requiredString{field: "brandPersonality", desc: "Brand personality"},
				requiredString{field: "visualMood", desc: "Visual mood"},
				requiredString{field: "toneOfVoice", desc: "Tone of voice"},
				requiredString{field: "antiPatterns", desc: "What to avoid"},
			},
		},
		{
			name:        SectionTechStack,
			description: "Technology choices per layer",
			rules: []rule{
				enumField{field: "appType", values: AppTypes, desc: "Application type"},
				stackLayer{layer: "frontend", desc: "Frontend layer"},
				stackLayer{layer: "backend", desc: "Backend layer"},
				stackLayer{layer: "database", desc: "Database layer"},
				stackLayer{layer: "auth", desc: "Authentication layer"},
				stackLayer{layer: "payments", exemptWhenFree: true, desc: "Payments layer"},
			},
		},
		{
			name:        SectionTooling,
			description: "Development tooling",
			rules: []rule{
				enumField{field: "codingAgent", values: CodingAgents, desc: "Coding agent"},
				requiredWhen{field: "codingAgentName", dependsOn: "codingAgent", equals: "other", desc: "Name of the coding agent"},
			},
		},
	}
}
