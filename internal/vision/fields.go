package vision

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
)

// checkNonEmptyString appends at most one error for container[field]:
// missing (absent or null), not a string, or blank after trimming.
func checkNonEmptyString(container map[string]any, field, label string, result *Result) {
	v, present := container[field]
	if !present || v == nil {
		result.AddError(fmt.Sprintf("%s.%s is missing", label, field))
		return
	}
	s, ok := v.(string)
	if !ok {
		result.AddError(fmt.Sprintf("%s.%s must be a string", label, field))
		return
	}
	if strings.TrimSpace(s) == "" {
		result.AddError(fmt.Sprintf("%s.%s is empty", label, field))
	}
}

// checkEnum reports an error unless container[field] is one of allowed.
func checkEnum(container map[string]any, field, label string, allowed []string, result *Result) bool {
	v := container[field]
	if s, ok := v.(string); ok && slices.Contains(allowed, s) {
		return true
	}
	result.AddError(fmt.Sprintf("%s.%s must be one of: %s. Got: %s",
		label, field, strings.Join(allowed, ", "), describeValue(v)))
	return false
}

// isNonEmptyString reports whether v is a string with non-whitespace content.
func isNonEmptyString(v any) bool {
	s, ok := v.(string)
	return ok && strings.TrimSpace(s) != ""
}

// isObject reports whether v decoded from a JSON object.
func isObject(v any) bool {
	_, ok := v.(map[string]any)
	return ok
}

// describeValue renders a value the way it appeared in the document.
func describeValue(v any) string {
	if v == nil {
		return "null"
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}
