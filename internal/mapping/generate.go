package mapping

import (
	"kontent-migrator/internal/element"
	"kontent-migrator/internal/match"
)

// Generate proposes one mapping per source element, in source order.
//
// Each source element is matched against all target elements by, in order:
//  1. exact codename (case-sensitive)
//  2. exact name (case-insensitive)
//  3. fuzzy word overlap of the names (see match.BestNameMatch)
//
// Matched pairs are resolved with match.Resolve; unmatched elements are left
// without a target. A target element may be proposed for several sources.
func Generate(sourceFields, targetFields []element.Descriptor) []FieldMapping {
	mappings := make([]FieldMapping, 0, len(sourceFields))

	for _, source := range sourceFields {
		target := findTarget(source, targetFields)
		mappings = append(mappings, newFieldMapping(source, target, warnNoMatch))
	}

	return mappings
}

func findTarget(source element.Descriptor, targets []element.Descriptor) *element.Descriptor {
	for i := range targets {
		if targets[i].Codename == source.Codename {
			return &targets[i]
		}
	}

	for i := range targets {
		if match.SameName(targets[i].Name, source.Name) {
			return &targets[i]
		}
	}

	if idx, _ := match.BestNameMatch(source, targets); idx >= 0 {
		return &targets[idx]
	}

	return nil
}
