// Package vision models PLAID vision documents and validates them against the
// current schema version. The rule set is hand-coded per field: each section is
// an ordered list of small rules composed from the field checks in fields.go.
package vision

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/mitchellh/copystructure"
)

// CurrentVersion is the schema version every valid document must declare in meta.version.
const CurrentVersion = "1.2"

// Section names in the order they are checked.
const (
	SectionMeta      = "meta"
	SectionCreator   = "creator"
	SectionPurpose   = "purpose"
	SectionProduct   = "product"
	SectionAudience  = "audience"
	SectionBusiness  = "business"
	SectionFeeling   = "feeling"
	SectionTechStack = "techStack"
	SectionTooling   = "tooling"
)

// RequiredSections lists the top-level sections every document must contain.
func RequiredSections() []string {
	return []string{
		SectionMeta, SectionCreator, SectionPurpose, SectionProduct,
		SectionAudience, SectionBusiness, SectionFeeling, SectionTechStack, SectionTooling,
	}
}

// Document is a decoded vision.json. Numbers are kept as json.Number so a
// rewrite reproduces them exactly.
type Document map[string]any

// Decode parses JSON bytes into a Document. The top-level value must be an object.
func Decode(data []byte) (Document, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("unexpected end of JSON input")
		}
		return nil, err
	}
	if dec.More() {
		return nil, fmt.Errorf("unexpected data after top-level JSON value")
	}

	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("top-level value must be a JSON object, got %s", kindOf(raw))
	}
	return Document(obj), nil
}

// Encode renders the document as 2-space indented JSON with a trailing
// newline. Object keys are sorted.
func (d Document) Encode() ([]byte, error) {
	return d.EncodeLike(nil)
}

// EncodeLike renders the document like Encode, but every object keeps the key
// order it has in original, the JSON the document was decoded from. Keys
// original does not have follow in sorted order.
func (d Document) EncodeLike(original []byte) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	value := orderedValue{value: map[string]any(d), order: readKeyOrder(original)}
	if err := enc.Encode(value); err != nil {
		return nil, fmt.Errorf("encoding document: %w", err)
	}
	return buf.Bytes(), nil
}

// Clone returns a deep copy of the document.
func (d Document) Clone() (Document, error) {
	if d == nil {
		return nil, nil
	}
	copied, err := copystructure.Copy(map[string]any(d))
	if err != nil {
		return nil, fmt.Errorf("copying document: %w", err)
	}
	return Document(copied.(map[string]any)), nil
}

// Section returns the named top-level section when it is a JSON object.
func (d Document) Section(name string) (map[string]any, bool) {
	obj, ok := d[name].(map[string]any)
	return obj, ok
}

// Version returns meta.version when meta is an object and version is a string.
func (d Document) Version() (string, bool) {
	meta, ok := d.Section(SectionMeta)
	if !ok {
		return "", false
	}
	v, ok := meta["version"].(string)
	return v, ok
}

// SetMeta sets a meta field, creating the meta object if it is missing or malformed.
func (d Document) SetMeta(field string, value any) {
	meta, ok := d.Section(SectionMeta)
	if !ok {
		meta = map[string]any{}
		d[SectionMeta] = meta
	}
	meta[field] = value
}

// kindOf names the JSON kind of a decoded value for error messages.
func kindOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case json.Number, float64, int:
		return "number"
	case bool:
		return "boolean"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
