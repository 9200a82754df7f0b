package mapping

import (
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"

	"kontent-migrator/internal/common"
)

// --- StringOrArray YAML methods ---

// UnmarshalYAML implements custom YAML unmarshaling for StringOrArray.
// Accepts either a single string or an array of strings.
func (s *StringOrArray) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var str string

		err := node.Decode(&str)
		if err != nil {
			return err
		}

		if str != "" {
			*s = StringOrArray{str}
		} else {
			*s = StringOrArray{}
		}

		return nil

	case yaml.SequenceNode:
		var arr []string

		err := node.Decode(&arr)
		if err != nil {
			return err
		}

		*s = arr

		return nil

	default:
		return fmt.Errorf("expected string or array, got %v", node.Kind)
	}
}

// MarshalYAML implements custom YAML marshaling for StringOrArray.
// Outputs a single string if length is 1, otherwise an array.
func (s StringOrArray) MarshalYAML() (any, error) {
	if len(s) == 1 {
		return s[0], nil
	}

	return []string(s), nil
}

// First returns the first element or empty string if empty.
func (s StringOrArray) First() string {
	if v, ok := common.First(s); ok {
		return v
	}

	return ""
}

// IsEmpty returns true if the array is empty.
func (s StringOrArray) IsEmpty() bool {
	return common.IsEmpty(s)
}

// Contains returns true if the array contains the given string.
func (s StringOrArray) Contains(str string) bool {
	return slices.Contains(s, str)
}

// --- FieldEntry YAML methods ---

var fieldEntryKeys = []string{"source", "target", "note", "compatible", "conversion", "warnings"}

// fieldEntryFields mirrors FieldEntry without its YAML methods.
type fieldEntryFields FieldEntry

// UnmarshalYAML implements custom YAML unmarshaling for FieldEntry.
// Accepts:
//   - Full mapping: {source: body, target: content}
//   - Shorthand: {body: content}
//   - Shorthand unmapping: {legacy: ~}
func (e *FieldEntry) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected field entry mapping, got %v", node.Line, node.Kind)
	}

	if len(node.Content) == 2 && !slices.Contains(fieldEntryKeys, node.Content[0].Value) {
		return parseShorthandEntry(node, e)
	}

	var raw fieldEntryFields

	err := node.Decode(&raw)
	if err != nil {
		return err
	}

	if raw.Source == "" {
		return fmt.Errorf("line %d: field entry must specify source", node.Line)
	}

	*e = FieldEntry(raw)

	return nil
}

func parseShorthandEntry(node *yaml.Node, e *FieldEntry) error {
	key, value := node.Content[0], node.Content[1]

	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: shorthand entry %q must map to a codename", node.Line, key.Value)
	}

	target := value.Value
	if value.Tag == "!!null" {
		target = ""
	}

	*e = FieldEntry{Source: key.Value, Target: target}

	return nil
}
