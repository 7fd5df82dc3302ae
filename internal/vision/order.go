package vision

import (
	"bytes"
	"encoding/json"
	"sort"

	"gopkg.in/yaml.v3"
)

// keyOrder is the key order of one JSON object, plus the orders of the
// objects nested in its fields or array elements.
type keyOrder struct {
	keys     []string
	fields   map[string]*keyOrder
	elements []*keyOrder
}

// readKeyOrder records the key order of every object in data. JSON is a
// subset of YAML, so yaml.v3's node tree keeps keys as they were written.
// It returns nil when data cannot be read, and callers fall back to sorted keys.
func readKeyOrder(data []byte) *keyOrder {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil
	}
	return orderFromNode(root.Content[0])
}

func orderFromNode(node *yaml.Node) *keyOrder {
	switch node.Kind {
	case yaml.MappingNode:
		o := &keyOrder{fields: make(map[string]*keyOrder, len(node.Content)/2)}
		for i := 0; i+1 < len(node.Content); i += 2 {
			key := node.Content[i].Value
			if _, seen := o.fields[key]; !seen {
				o.keys = append(o.keys, key)
			}
			o.fields[key] = orderFromNode(node.Content[i+1])
		}
		return o
	case yaml.SequenceNode:
		o := &keyOrder{}
		for _, child := range node.Content {
			o.elements = append(o.elements, orderFromNode(child))
		}
		return o
	default:
		return nil
	}
}

func (o *keyOrder) field(key string) *keyOrder {
	if o == nil {
		return nil
	}
	return o.fields[key]
}

func (o *keyOrder) element(i int) *keyOrder {
	if o == nil || i >= len(o.elements) {
		return nil
	}
	return o.elements[i]
}

// keysOf returns the keys of obj: recorded keys first, in their recorded
// order, then keys the recorded object did not have, sorted.
func (o *keyOrder) keysOf(obj map[string]any) []string {
	keys := make([]string, 0, len(obj))
	placed := make(map[string]bool, len(obj))
	if o != nil {
		for _, key := range o.keys {
			if _, ok := obj[key]; ok {
				keys = append(keys, key)
				placed[key] = true
			}
		}
	}
	start := len(keys)
	for key := range obj {
		if !placed[key] {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys[start:])
	return keys
}

// orderedValue marshals a decoded JSON value with object keys in a given order.
type orderedValue struct {
	value any
	order *keyOrder
}

func (v orderedValue) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	switch val := v.value.(type) {
	case map[string]any:
		buf.WriteByte('{')
		for i, key := range v.order.keysOf(val) {
			if i > 0 {
				buf.WriteByte(',')
			}
			name, err := marshalScalar(key)
			if err != nil {
				return nil, err
			}
			child, err := orderedValue{value: val[key], order: v.order.field(key)}.MarshalJSON()
			if err != nil {
				return nil, err
			}
			buf.Write(name)
			buf.WriteByte(':')
			buf.Write(child)
		}
		buf.WriteByte('}')
	case []any:
		buf.WriteByte('[')
		for i, item := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			child, err := orderedValue{value: item, order: v.order.element(i)}.MarshalJSON()
			if err != nil {
				return nil, err
			}
			buf.Write(child)
		}
		buf.WriteByte(']')
	default:
		return marshalScalar(val)
	}
	return buf.Bytes(), nil
}

// marshalScalar encodes a leaf value without HTML escaping.
func marshalScalar(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
