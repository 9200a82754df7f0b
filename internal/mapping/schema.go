package mapping

// MappingFile is the root of a YAML mapping definition file.
// It is the authoritative, human-reviewed form of a MigrationConfig.
type MappingFile struct {
	// Version of the mapping schema (for future compatibility).
	Version string `yaml:"version,omitempty"`

	// Source content type codename.
	Source string `yaml:"source"`

	// Target content type codename.
	Target string `yaml:"target"`

	// Language codename of the variants to migrate.
	Language string `yaml:"language,omitempty"`

	// OneToOne maps source element codenames to target element codenames.
	// Priority: highest (applied first).
	// Example: { "title": "headline", "body": "content" }
	OneToOne map[string]string `yaml:"121,omitempty"`

	// Fields lists explicit entries. An entry without target leaves the
	// source element unmapped.
	// Priority: second highest (after 121).
	Fields []FieldEntry `yaml:"fields,omitempty"`

	// Ignore lists source element codenames that are not migrated.
	// Priority: third (after fields).
	Ignore StringOrArray `yaml:"ignore,omitempty"`

	// Auto contains generated suggestions.
	// Lowest priority; entries here are overridden by 121, fields or ignore.
	Auto []FieldEntry `yaml:"auto,omitempty"`
}

// FieldEntry pairs a source element codename with a target element codename.
// YAML formats supported:
//   - Full: {source: body, target: content, note: "..."}
//   - Shorthand: {body: content}
type FieldEntry struct {
	Source string `yaml:"source"`
	Target string `yaml:"target,omitempty"`
	Note   string `yaml:"note,omitempty"`

	// The remaining fields are written by Export for the reviewer and are
	// ignored when the file is applied.
	Compatible *bool    `yaml:"compatible,omitempty"`
	Conversion string   `yaml:"conversion,omitempty"`
	Warnings   []string `yaml:"warnings,omitempty"`
}

// IsUnmapped returns true if the entry explicitly leaves the source unmapped.
func (e FieldEntry) IsUnmapped() bool {
	return e.Target == ""
}

// StringOrArray is a list of strings that can also be written as one string.
type StringOrArray []string

// EntrySource indicates which section of a mapping file decided a mapping.
type EntrySource int

const (
	// EntrySourceOneToOne - from the 121 shorthand (highest priority).
	EntrySourceOneToOne EntrySource = iota
	// EntrySourceFields - from the explicit fields section.
	EntrySourceFields
	// EntrySourceIgnore - from the ignore list.
	EntrySourceIgnore
	// EntrySourceAuto - from the auto section.
	EntrySourceAuto
	// EntrySourceGenerated - not mentioned in the file, generated on load.
	EntrySourceGenerated
)

// String returns a human-readable source name.
func (s EntrySource) String() string {
	switch s {
	case EntrySourceOneToOne:
		return "yaml:121"
	case EntrySourceFields:
		return "yaml:fields"
	case EntrySourceIgnore:
		return "yaml:ignore"
	case EntrySourceAuto:
		return "yaml:auto"
	case EntrySourceGenerated:
		return "generated"
	default:
		return "unknown"
	}
}
