package transform

import (
	"math"
	"regexp"
	"strings"
	"time"
)

// MaxSlugLength is the longest slug Slugify produces, in bytes.
const MaxSlugLength = 50

// maxUnixMillis bounds numeric dates to ±100,000,000 days around the epoch.
const maxUnixMillis = 8.64e15

var (
	tagPattern     = regexp.MustCompile(`<[^>]*>`)
	slugSeparators = regexp.MustCompile(`[^a-z0-9]+`)
	decimalPattern = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)
)

// StripTags removes every <...> sequence and trims the result.
// Entities are left as they are.
func StripTags(html string) string {
	return strings.TrimSpace(tagPattern.ReplaceAllString(html, ""))
}

// Slugify lower-cases s, replaces each run of characters outside [a-z0-9]
// with one hyphen, trims hyphens from both ends and cuts the result to
// MaxSlugLength.
func Slugify(s string) string {
	slug := slugSeparators.ReplaceAllString(strings.ToLower(s), "-")
	slug = strings.Trim(slug, "-")

	if len(slug) > MaxSlugLength {
		slug = slug[:MaxSlugLength]
	}

	return slug
}

// dateLayouts are tried in order by ParseDate.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
	time.RFC1123Z,
	time.RFC1123,
	"01/02/2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
}

// isoLayout matches the ISO-8601 form used by the Management API.
const isoLayout = "2006-01-02T15:04:05.000Z07:00"

// ParseDate interprets value as a point in time. Numbers are Unix
// milliseconds within ±8.64e15; strings are matched against a fixed set of layouts.
// Times without a zone are taken as UTC.
func ParseDate(value any) (time.Time, bool) {
	if t, ok := value.(time.Time); ok {
		return t, true
	}

	if ms, ok := numberOf(value); ok {
		if math.IsNaN(ms) || math.Abs(ms) > maxUnixMillis {
			return time.Time{}, false
		}

		return time.UnixMilli(int64(ms)).UTC(), true
	}

	s, ok := value.(string)
	if !ok {
		return time.Time{}, false
	}

	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

// FormatDate renders t in UTC as ISO-8601 with milliseconds.
func FormatDate(t time.Time) string {
	return t.UTC().Format(isoLayout)
}
