package transform

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"kontent-migrator/internal/element"
)

// Transform converts value from the source element type to the target
// element type. Equal types return value unchanged. Pairs without a rule
// return nil; use Supported to tell them apart from failed conversions.
func Transform(value any, source, target element.Type) any {
	if source == target {
		return value
	}

	switch target {
	case element.TypeText:
		return toText(value, source)
	case element.TypeRichText:
		return toRichText(value, source)
	case element.TypeNumber:
		return toNumber(value, source)
	case element.TypeDateTime:
		return toDateTime(value, source)
	case element.TypeURLSlug:
		return Slugify(plainText(value, source))
	case element.TypeMultipleChoice:
		// Options cannot be derived from other values.
		return []any{}
	default:
		return nil
	}
}

// Supported reports whether Transform has a rule for the pair.
func Supported(source, target element.Type) bool {
	if source == target {
		return true
	}

	switch target {
	case element.TypeText, element.TypeRichText, element.TypeNumber,
		element.TypeDateTime, element.TypeURLSlug, element.TypeMultipleChoice:
		return true
	default:
		return false
	}
}

// DefaultValue returns the empty value accepted by the Management API for a
// required element of type t, or nil when the element may be sent as null.
func DefaultValue(t element.Type) any {
	switch t {
	case element.TypeText, element.TypeRichText, element.TypeURLSlug, element.TypeCustom:
		return ""
	case element.TypeNumber:
		return 0.0
	case element.TypeLinkedItems, element.TypeAsset, element.TypeMultipleChoice, element.TypeTaxonomy:
		return []any{}
	default:
		return nil
	}
}

func toText(value any, source element.Type) string {
	switch source {
	case element.TypeRichText:
		return StripTags(TextOf(value))
	case element.TypeDateTime:
		raw := TextOf(value)
		if t, ok := ParseDate(value); ok {
			return FormatDate(t)
		}

		return raw
	default:
		return TextOf(value)
	}
}

func toRichText(value any, source element.Type) string {
	text := TextOf(value)
	if source == element.TypeDateTime {
		text = toText(value, source)
	}

	return "<p>" + text + "</p>"
}

func toNumber(value any, source element.Type) any {
	if f, ok := numberOf(value); ok {
		return f
	}

	text := strings.TrimSpace(plainText(value, source))
	if !decimalPattern.MatchString(text) {
		return nil
	}

	f, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}

	return f
}

func toDateTime(value any, source element.Type) any {
	if source == element.TypeRichText {
		value = StripTags(TextOf(value))
	}

	t, ok := ParseDate(value)
	if !ok {
		return nil
	}

	return FormatDate(t)
}

// plainText is the text form of value with markup removed.
func plainText(value any, source element.Type) string {
	if source == element.TypeRichText {
		return StripTags(TextOf(value))
	}

	return TextOf(value)
}

// TextOf renders an element value as text.
// Lists are joined with ", "; references render as their name, codename or
// ID, whichever is present first. nil renders as "".
func TextOf(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	case time.Time:
		return FormatDate(v)
	case element.Reference:
		return v.Label()
	case map[string]any:
		return referenceLabel(v)
	case []string:
		return strings.Join(v, ", ")
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			if s := TextOf(item); s != "" {
				parts = append(parts, s)
			}
		}

		return strings.Join(parts, ", ")
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return ""
		}

		return string(data)
	}
}

func referenceLabel(ref map[string]any) string {
	for _, key := range []string{"name", "codename", "id"} {
		if s, ok := ref[key].(string); ok && s != "" {
			return s
		}
	}

	if v, ok := ref["value"]; ok {
		return TextOf(v)
	}

	return ""
}

func numberOf(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
