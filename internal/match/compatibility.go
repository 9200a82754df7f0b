package match

import (
	"fmt"
	"slices"
	"strings"

	"kontent-migrator/internal/element"
)

// Verdict is the outcome of checking one source/target element pair.
type Verdict struct {
	// IsCompatible is false when values cannot be carried over without loss
	// or manual work.
	IsCompatible bool
	// CanTransform reports whether an automatic value conversion exists.
	CanTransform bool
	// Warnings explains constraint mismatches in the order they were found.
	Warnings []string
}

func compatible(warnings []string) Verdict {
	return Verdict{IsCompatible: true, CanTransform: true, Warnings: warnings}
}

func incompatible(warnings []string) Verdict {
	return Verdict{IsCompatible: false, CanTransform: false, Warnings: warnings}
}

// compatibility lists, per source type, the target types it may map into.
var compatibility = map[element.Type][]element.Type{
	element.TypeText:           {element.TypeText, element.TypeRichText, element.TypeURLSlug},
	element.TypeRichText:       {element.TypeRichText, element.TypeText},
	element.TypeNumber:         {element.TypeNumber, element.TypeText},
	element.TypeMultipleChoice: {element.TypeMultipleChoice, element.TypeText},
	element.TypeDateTime:       {element.TypeDateTime, element.TypeText},
	element.TypeAsset:          {element.TypeAsset},
	element.TypeLinkedItems:    {element.TypeLinkedItems},
	element.TypeTaxonomy:       {element.TypeTaxonomy, element.TypeMultipleChoice},
	element.TypeURLSlug:        {element.TypeURLSlug, element.TypeText},
	element.TypeCustom:         {element.TypeCustom, element.TypeText},
}

type typePair struct {
	source element.Type
	target element.Type
}

// conversionNotes are informational warnings for cross-type conversions.
var conversionNotes = map[typePair]string{
	{element.TypeRichText, element.TypeText}: "Rich text will be converted to plain text (HTML tags removed)",
	{element.TypeText, element.TypeRichText}: "Text will be wrapped in paragraph tags",
	{element.TypeNumber, element.TypeText}:   "Numbers will be converted to text strings",
	{element.TypeText, element.TypeNumber}:   "Text must contain valid numeric values or will be null",
}

const (
	warnTaxonomyToChoice = "Taxonomy terms must be manually mapped to multiple choice options"
	warnURLSlug          = "Content will be converted to URL-friendly format"
)

// CompatibleTargets returns the target types a source type may map into.
// The returned slice must not be modified.
func CompatibleTargets(source element.Type) []element.Type {
	return compatibility[source]
}

// IsTypeCompatible reports whether the compatibility table allows source -> target.
func IsTypeCompatible(source, target element.Type) bool {
	return slices.Contains(compatibility[source], target)
}

// Resolve decides whether values of source can be carried into target.
// The type table is checked first and dominates every other rule; same-type
// pairs are then checked against their constraints, and different-type pairs
// get a note describing the conversion.
func Resolve(source, target element.Descriptor) Verdict {
	if !IsTypeCompatible(source.Type, target.Type) {
		return incompatible([]string{
			fmt.Sprintf("Incompatible types: %s cannot be converted to %s", source.Type, target.Type),
		})
	}

	if source.Type == target.Type {
		return resolveSameType(source, target)
	}

	return resolveConversion(source, target)
}

func resolveSameType(source, target element.Descriptor) Verdict {
	var warnings []string

	if target.IsRequired && !source.IsRequired {
		warnings = append(warnings,
			fmt.Sprintf("Target field '%s' is required but source is optional", target.Name))
	}

	switch src := source.ConstraintsFor().(type) {
	case element.TextConstraints:
		dst, _ := target.ConstraintsFor().(element.TextConstraints)
		return checkTextLength(src, dst, warnings)
	case element.RichTextConstraints:
		dst, _ := target.ConstraintsFor().(element.RichTextConstraints)
		return checkRichTextBlocks(src, dst, warnings)
	case element.ChoiceConstraints:
		dst, _ := target.ConstraintsFor().(element.ChoiceConstraints)
		return checkChoiceOptions(src, dst, warnings)
	case element.AssetConstraints:
		dst, _ := target.ConstraintsFor().(element.AssetConstraints)
		return checkAssetLimits(src, dst, warnings)
	case element.LinkedItemsConstraints:
		dst, _ := target.ConstraintsFor().(element.LinkedItemsConstraints)
		return checkLinkedTypes(src, dst, warnings)
	}

	// Taxonomy is compared even when one side carries no group information.
	if source.Type == element.TypeTaxonomy {
		src, _ := source.ConstraintsFor().(element.TaxonomyConstraints)
		dst, _ := target.ConstraintsFor().(element.TaxonomyConstraints)

		return checkTaxonomyGroup(src, dst, warnings)
	}

	return compatible(warnings)
}

func checkTextLength(src, dst element.TextConstraints, warnings []string) Verdict {
	if src.MaxLength != nil && dst.MaxLength != nil && *dst.MaxLength < *src.MaxLength {
		warnings = append(warnings, fmt.Sprintf(
			"Target field has shorter length limit (%d vs %d)", *dst.MaxLength, *src.MaxLength))
	}

	return compatible(warnings)
}

func checkRichTextBlocks(src, dst element.RichTextConstraints, warnings []string) Verdict {
	if src.AllowedBlocks != nil && dst.AllowedBlocks != nil {
		missing := missingFrom(src.AllowedBlocks, dst.AllowedBlocks)
		if len(missing) > 0 {
			warnings = append(warnings, fmt.Sprintf(
				"Target field doesn't support these blocks: %s", strings.Join(missing, ", ")))
		}
	}

	return compatible(warnings)
}

func checkChoiceOptions(src, dst element.ChoiceConstraints, warnings []string) Verdict {
	if src.Options != nil && dst.Options != nil {
		missing := missingFrom(src.Codenames(), dst.Codenames())
		if len(missing) > 0 {
			warnings = append(warnings, fmt.Sprintf(
				"Target field is missing these options: %s", strings.Join(missing, ", ")))

			return incompatible(warnings)
		}
	}

	return compatible(warnings)
}

func checkTaxonomyGroup(src, dst element.TaxonomyConstraints, warnings []string) Verdict {
	if src.GroupID != dst.GroupID {
		warnings = append(warnings, "Different taxonomy groups - manual term mapping required")
		return incompatible(warnings)
	}

	return compatible(warnings)
}

func checkAssetLimits(src, dst element.AssetConstraints, warnings []string) Verdict {
	if src.AllowedFileTypes != "" && dst.AllowedFileTypes != "" && src.AllowedFileTypes != dst.AllowedFileTypes {
		warnings = append(warnings, "Different file type restrictions may cause validation errors")
	}

	if src.CountLimit != nil && dst.CountLimit != nil && *dst.CountLimit < *src.CountLimit {
		warnings = append(warnings, fmt.Sprintf(
			"Target allows fewer assets (%d vs %d)", *dst.CountLimit, *src.CountLimit))
	}

	return compatible(warnings)
}

func checkLinkedTypes(src, dst element.LinkedItemsConstraints, warnings []string) Verdict {
	if src.AllowedContentTypes != nil && dst.AllowedContentTypes != nil {
		missing := missingFrom(src.Codenames(), dst.Codenames())
		if len(missing) > 0 {
			warnings = append(warnings, fmt.Sprintf(
				"Target doesn't allow these content types: %s", strings.Join(missing, ", ")))

			return incompatible(warnings)
		}
	}

	return compatible(warnings)
}

func resolveConversion(source, target element.Descriptor) Verdict {
	pair := typePair{source.Type, target.Type}

	// Term-to-option mapping is left to the operator on purpose.
	if pair == (typePair{element.TypeTaxonomy, element.TypeMultipleChoice}) {
		return incompatible([]string{warnTaxonomyToChoice})
	}

	if note, ok := conversionNotes[pair]; ok {
		return compatible([]string{note})
	}

	if target.Type == element.TypeURLSlug {
		return compatible([]string{warnURLSlug})
	}

	return compatible(nil)
}

// missingFrom returns the values of have that are absent from want, in order.
func missingFrom(have, want []string) []string {
	var missing []string

	for _, v := range have {
		if !slices.Contains(want, v) {
			missing = append(missing, v)
		}
	}

	return missing
}
