package migration

import (
	"fmt"

	"kontent-migrator/internal/element"
	"kontent-migrator/internal/kontent"
	"kontent-migrator/internal/mapping"
	"kontent-migrator/internal/transform"
)

// BuildElements transforms the variant values of the given mappings into
// target element values. Mappings without a target or without a conversion
// are skipped. Source elements are looked up by ID first, then by codename.
//
// When two mappings write the same target element the later one wins.
// Required target elements whose value cannot be produced get the default
// value of their type.
func BuildElements(mappings []mapping.FieldMapping, variant *kontent.Variant) ([]kontent.ElementValue, []string) {
	var (
		values   []kontent.ElementValue
		warnings []string
		index    = map[string]int{}
	)

	for _, m := range mappings {
		if m.TargetField == nil || !m.CanTransform {
			continue
		}

		raw, ok := variant.Value(m.SourceField.ID, m.SourceField.Codename)
		if !ok {
			continue
		}

		value, warning := convert(raw, m.SourceField, *m.TargetField)
		if warning != "" {
			warnings = append(warnings, warning)
		}

		if value == nil {
			continue
		}

		ev := kontent.ElementValue{
			Element: element.Reference{Codename: m.TargetField.Codename},
			Value:   value,
		}
		if m.TargetField.Type == element.TypeURLSlug {
			ev.Mode = "custom"
		}

		if i, ok := index[m.TargetField.Codename]; ok {
			values[i] = ev
			continue
		}

		index[m.TargetField.Codename] = len(values)
		values = append(values, ev)
	}

	return values, warnings
}

// convert returns the target value, or nil when nothing should be written.
func convert(raw any, source, target element.Descriptor) (any, string) {
	if !transform.Supported(source.Type, target.Type) {
		return nil, fmt.Sprintf("%s: no conversion from %s to %s", source.Name, source.Type, target.Type)
	}

	value := transform.Transform(raw, source.Type, target.Type)
	if value != nil {
		return value, ""
	}

	var warning string
	if raw != nil {
		warning = fmt.Sprintf("%s: value could not be converted to %s", source.Name, target.Type)
	}

	if target.IsRequired {
		return transform.DefaultValue(target.Type), warning
	}

	return nil, warning
}
