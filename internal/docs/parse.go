package docs

import (
	"encoding/json"
	"fmt"
)

// Parse decodes rustdoc JSON bytes.
func Parse(data []byte) (*RustdocCrate, error) {
	var crate RustdocCrate
	if err := json.Unmarshal(data, &crate); err != nil {
		return nil, fmt.Errorf("unmarshaling rustdoc JSON: %w", err)
	}
	if _, ok := crate.Index[fmt.Sprint(crate.Root)]; !ok {
		return nil, fmt.Errorf("rustdoc JSON has no root item %d", crate.Root)
	}
	return &crate, nil
}

// innerKind extracts the kind from the inner JSON's single key.
func innerKind(inner json.RawMessage) string {
	if len(inner) == 0 {
		return "unknown"
	}
	var outer map[string]json.RawMessage
	if err := json.Unmarshal(inner, &outer); err != nil {
		return "unknown"
	}
	for k := range outer {
		return k
	}
	return "unknown"
}

// unwrapInner returns the payload stored under kind in the inner JSON.
func unwrapInner(inner json.RawMessage, kind string) json.RawMessage {
	if len(inner) == 0 {
		return nil
	}
	var outer map[string]json.RawMessage
	if err := json.Unmarshal(inner, &outer); err != nil {
		return nil
	}
	data, ok := outer[kind]
	if !ok {
		return nil
	}
	return data
}

// childIDs lists the item IDs directly contained in an item of the given
// kind, in declaration order.
func childIDs(inner json.RawMessage, kind string) ([]int, error) {
	data := unwrapInner(inner, kind)
	if data == nil {
		return nil, nil
	}

	var c containers
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decoding %s contents: %w", kind, err)
	}

	switch kind {
	case "module", "trait", "impl":
		return c.Items, nil
	case "struct":
		fields, err := structFields(c.Kind)
		if err != nil {
			return nil, err
		}
		return append(fields, c.Impls...), nil
	case "union":
		return append(c.Fields, c.Impls...), nil
	case "enum":
		return append(c.Variants, c.Impls...), nil
	case "variant":
		return structFields(c.Kind)
	default:
		return nil, nil
	}
}

// structFields reads the named fields of a struct or struct-like variant.
// Tuple members may be null for stripped fields; unit kinds have none.
func structFields(kind json.RawMessage) ([]int, error) {
	if len(kind) == 0 {
		return nil, nil
	}
	var unit string
	if json.Unmarshal(kind, &unit) == nil {
		return nil, nil
	}

	var k struct {
		Plain *struct {
			Fields []int `json:"fields"`
		} `json:"plain"`
		Struct *struct {
			Fields []int `json:"fields"`
		} `json:"struct"`
		Tuple []*int `json:"tuple"`
	}
	if err := json.Unmarshal(kind, &k); err != nil {
		return nil, fmt.Errorf("decoding struct kind: %w", err)
	}

	switch {
	case k.Plain != nil:
		return k.Plain.Fields, nil
	case k.Struct != nil:
		return k.Struct.Fields, nil
	default:
		var ids []int
		for _, id := range k.Tuple {
			if id != nil {
				ids = append(ids, *id)
			}
		}
		return ids, nil
	}
}
