package match

import (
	"strings"
)

// TokenizeName splits a display name into lower-cased words.
// Runs of whitespace separate words; empty words are dropped.
//
// Examples:
//   - "Published Date" -> ["published", "date"]
//   - "  SEO   title " -> ["seo", "title"]
func TokenizeName(name string) []string {
	return strings.Fields(strings.ToLower(name))
}

// NormalizeCodename folds a codename or name for edit-distance comparison:
// lower case with '_', '-' and spaces removed.
//
// Examples:
//   - "meta_title" -> "metatitle"
//   - "Meta Title" -> "metatitle"
func NormalizeCodename(s string) string {
	var b strings.Builder

	b.Grow(len(s))

	for _, r := range strings.ToLower(s) {
		if isSeparator(r) {
			continue
		}

		b.WriteRune(r)
	}

	return b.String()
}

// isSeparator returns true if the rune is a common separator.
func isSeparator(r rune) bool {
	return r == '_' || r == '-' || r == ' ' || r == '\t'
}

// SameName reports whether two display names are equal ignoring case.
func SameName(a, b string) bool {
	return strings.ToLower(a) == strings.ToLower(b)
}
