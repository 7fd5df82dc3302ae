package vision

import "fmt"

// Validator checks documents against one schema version. It holds no mutable
// state and may be reused.
type Validator struct {
	version  string
	sections []section
}

// NewValidator creates a validator that requires meta.version to equal version.
func NewValidator(version string) *Validator {
	return &Validator{version: version, sections: defaultSections()}
}

// Version returns the schema version the validator enforces.
func (v *Validator) Version() string {
	return v.version
}

// Validate checks the document and returns every error and warning found.
// If any required section is missing or not an object, only those errors are
// returned and no field checks run. The document is not modified.
func (v *Validator) Validate(doc Document) *Result {
	result := NewResult()

	for _, name := range RequiredSections() {
		value, present := doc[name]
		switch {
		case !present || value == nil:
			result.AddError(fmt.Sprintf("Missing required section: %s", name))
		case !isObject(value):
			result.AddError(fmt.Sprintf("Section %q must be an object", name))
		}
	}
	if result.HasErrors() {
		return result
	}

	ctx := &checkContext{result: result, version: v.version}
	if business, ok := doc.Section(SectionBusiness); ok {
		ctx.revenueModel, _ = business["revenueModel"].(string)
	}

	for _, sec := range v.sections {
		obj, _ := doc.Section(sec.name)
		for _, r := range sec.rules {
			r.check(ctx, sec.name, obj)
		}
	}

	return result
}
