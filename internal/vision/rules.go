package vision

import (
	"fmt"
	"strings"
)

// checkContext carries the state shared by every rule in one validation run.
type checkContext struct {
	result *Result
	// version is the schema version meta.version must match.
	version string
	// revenueModel is business.revenueModel, or "" when it is not a string.
	revenueModel string
}

// rule is one check applied to a section object.
type rule interface {
	check(ctx *checkContext, label string, section map[string]any)
	describe() SchemaField
}

// requiredString requires a non-empty string.
type requiredString struct {
	field string
	desc  string
}

func (r requiredString) check(ctx *checkContext, label string, section map[string]any) {
	checkNonEmptyString(section, r.field, label, ctx.result)
}

func (r requiredString) describe() SchemaField {
	return SchemaField{Name: r.field, Type: FieldTypeString, Required: true, Description: r.desc}
}

// optionalString warns when the field is absent and errors when it is not a string.
type optionalString struct {
	field string
	desc  string
}

func (r optionalString) check(ctx *checkContext, label string, section map[string]any) {
	v, present := section[r.field]
	if !present || v == nil {
		ctx.result.AddWarning(fmt.Sprintf("%s.%s is missing", label, r.field))
		return
	}
	if _, ok := v.(string); !ok {
		ctx.result.AddError(fmt.Sprintf("%s.%s must be a string", label, r.field))
	}
}

func (r optionalString) describe() SchemaField {
	return SchemaField{Name: r.field, Type: FieldTypeString, Description: r.desc}
}

// enumField requires one of a fixed set of strings.
type enumField struct {
	field  string
	values []string
	desc   string
}

func (r enumField) check(ctx *checkContext, label string, section map[string]any) {
	checkEnum(section, r.field, label, r.values, ctx.result)
}

func (r enumField) describe() SchemaField {
	return SchemaField{Name: r.field, Type: FieldTypeString, Required: true, Enum: r.values, Description: r.desc}
}

// schemaVersion requires the field to equal the validator's target version.
type schemaVersion struct {
	field string
}

func (r schemaVersion) check(ctx *checkContext, label string, section map[string]any) {
	before := len(ctx.result.Errors)
	checkNonEmptyString(section, r.field, label, ctx.result)
	if len(ctx.result.Errors) > before {
		return
	}
	if got := section[r.field].(string); got != ctx.version {
		ctx.result.AddError(fmt.Sprintf("%s.%s is %q, expected %q", label, r.field, got, ctx.version))
	}
}

func (r schemaVersion) describe() SchemaField {
	return SchemaField{Name: r.field, Type: FieldTypeString, Required: true, Description: "Schema version of this document"}
}

// stringList requires an array. An empty array is an error when minOne is set
// and a warning otherwise. itemsNonEmpty checks every element.
type stringList struct {
	field         string
	minOne        bool
	itemsNonEmpty bool
	emptyHint     string
	desc          string
}

func (r stringList) check(ctx *checkContext, label string, section map[string]any) {
	path := label + "." + r.field
	items, ok := section[r.field].([]any)
	if !ok {
		ctx.result.AddError(path + " must be an array")
		return
	}
	if len(items) == 0 {
		if r.minOne {
			ctx.result.AddError(path + " must have at least 1 item")
		} else {
			ctx.result.AddWarning(fmt.Sprintf("%s is empty, %s", path, r.emptyHint))
		}
		return
	}
	if !r.itemsNonEmpty {
		return
	}
	for i, item := range items {
		if !isNonEmptyString(item) {
			ctx.result.AddError(fmt.Sprintf("%s[%d] must be a non-empty string", path, i))
		}
	}
}

func (r stringList) describe() SchemaField {
	return SchemaField{Name: r.field, Type: FieldTypeArray, Required: true, Description: r.desc}
}

// stackLayer checks one techStack layer object {choice, rationale}. When
// exemptWhenFree is set and the revenue model is free, the layer may be
// absent and its choice may be empty.
type stackLayer struct {
	layer          string
	exemptWhenFree bool
	desc           string
}

func (r stackLayer) check(ctx *checkContext, label string, section map[string]any) {
	exempt := r.exemptWhenFree && ctx.revenueModel == revenueModelFree
	path := label + "." + r.layer

	v, present := section[r.layer]
	if !present || v == nil {
		if !exempt {
			ctx.result.AddError(path + " is missing")
		}
		return
	}
	layer, ok := v.(map[string]any)
	if !ok {
		ctx.result.AddError(path + ` must be an object with "choice" and "rationale"`)
		return
	}
	if !exempt {
		checkNonEmptyString(layer, "choice", path, ctx.result)
	}

	switch rationale := layer["rationale"].(type) {
	case nil:
		ctx.result.AddWarning(path + ".rationale is empty, consider adding reasoning")
	case string:
		if strings.TrimSpace(rationale) == "" {
			ctx.result.AddWarning(path + ".rationale is empty, consider adding reasoning")
		}
	default:
		ctx.result.AddWarning(path + ".rationale must be a string")
	}
}

func (r stackLayer) describe() SchemaField {
	desc := r.desc
	if r.exemptWhenFree {
		desc += " (optional when business.revenueModel is free)"
	}
	return SchemaField{
		Name:        r.layer,
		Type:        FieldTypeObject,
		Required:    !r.exemptWhenFree,
		Description: desc,
		Children: []SchemaField{
			{Name: "choice", Type: FieldTypeString, Required: true, Description: "Selected technology"},
			{Name: "rationale", Type: FieldTypeString, Description: "Why it was chosen"},
		},
	}
}

// requiredWhen requires a non-empty string when another field holds a given value.
type requiredWhen struct {
	field     string
	dependsOn string
	equals    string
	desc      string
}

func (r requiredWhen) check(ctx *checkContext, label string, section map[string]any) {
	if section[r.dependsOn] != r.equals {
		return
	}
	if !isNonEmptyString(section[r.field]) {
		ctx.result.AddError(fmt.Sprintf("%s.%s is required when %s is %q", label, r.field, r.dependsOn, r.equals))
	}
}

func (r requiredWhen) describe() SchemaField {
	return SchemaField{
		Name:        r.field,
		Type:        FieldTypeString,
		Description: fmt.Sprintf("%s (required when %s is %q)", r.desc, r.dependsOn, r.equals),
	}
}
