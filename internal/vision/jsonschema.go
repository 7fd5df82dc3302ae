package vision

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"sort"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// JSONSchemaURL identifies the embedded JSON Schema for the current version.
const JSONSchemaURL = "https://plaid.dev/schemas/vision-1.2.json"

//go:embed schema/vision.schema.json
var jsonSchemaSource []byte

// JSONSchemaSource returns the embedded JSON Schema document.
func JSONSchemaSource() []byte {
	return bytes.Clone(jsonSchemaSource)
}

// CompileJSONSchema compiles the embedded JSON Schema.
func CompileJSONSchema() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(JSONSchemaURL, bytes.NewReader(jsonSchemaSource)); err != nil {
		return nil, fmt.Errorf("loading JSON schema: %w", err)
	}
	schema, err := compiler.Compile(JSONSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("compiling JSON schema: %w", err)
	}
	return schema, nil
}

// SchemaFindings validates the document against the compiled JSON Schema and
// returns one "schema: <path>: <message>" line per violation, sorted.
// Findings are advisory and the rule-based Validator stays authoritative. The
// schema covers the payments exemption with an if/else on business.revenueModel.
func SchemaFindings(schema *jsonschema.Schema, doc Document) []string {
	err := schema.Validate(toPlain(doc))
	if err == nil {
		return nil
	}

	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return []string{fmt.Sprintf("schema: %v", err)}
	}

	var findings []string
	collectSchemaErrors(&findings, ve)
	sort.Strings(findings)
	return findings
}

func collectSchemaErrors(findings *[]string, err *jsonschema.ValidationError) {
	if err == nil {
		return
	}
	if len(err.Causes) == 0 {
		path := jsonPointerToPath(err.InstanceLocation)
		if path == "" {
			path = "(root)"
		}
		*findings = append(*findings, fmt.Sprintf("schema: %s: %s", path, err.Message))
		return
	}
	for _, cause := range err.Causes {
		collectSchemaErrors(findings, cause)
	}
}

// jsonPointerToPath converts "/product/keyCapabilities/0" into "product.keyCapabilities[0]".
func jsonPointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "#")
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return ""
	}

	var sb strings.Builder
	for i, part := range strings.Split(ptr, "/") {
		part = strings.ReplaceAll(strings.ReplaceAll(part, "~1", "/"), "~0", "~")
		if isIndex(part) {
			sb.WriteString("[" + part + "]")
			continue
		}
		if i > 0 {
			sb.WriteByte('.')
		}
		sb.WriteString(part)
	}
	return sb.String()
}

func isIndex(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// toPlain strips the Document type so the schema library sees a plain JSON map.
func toPlain(doc Document) any {
	return map[string]any(doc)
}
