package vision

// FieldType represents the expected type of a schema field.
type FieldType string

const (
	FieldTypeString FieldType = "string"
	FieldTypeArray  FieldType = "array"
	FieldTypeObject FieldType = "object"
)

// SchemaField describes one field of the vision schema for display.
type SchemaField struct {
	Name        string        `yaml:"name"`
	Type        FieldType     `yaml:"type"`
	Required    bool          `yaml:"required"`
	Enum        []string      `yaml:"enum,omitempty"`
	Description string        `yaml:"description,omitempty"`
	Children    []SchemaField `yaml:"children,omitempty"`
}

// Schema is the description of a schema version, derived from the rule table.
type Schema struct {
	Version     string        `yaml:"version"`
	Description string        `yaml:"description"`
	Fields      []SchemaField `yaml:"fields"`
}

// Describe returns the schema enforced by the validator, one entry per section.
func (v *Validator) Describe() *Schema {
	schema := &Schema{
		Version:     v.version,
		Description: "PLAID vision document: who the product is for, what it does, and how it will be built",
	}
	for _, sec := range v.sections {
		field := SchemaField{
			Name:        sec.name,
			Type:        FieldTypeObject,
			Required:    true,
			Description: sec.description,
		}
		for _, r := range sec.rules {
			field.Children = append(field.Children, r.describe())
		}
		schema.Fields = append(schema.Fields, field)
	}
	return schema
}
