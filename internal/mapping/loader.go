package mapping

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// LoadFile loads and parses a YAML mapping file from the given path.
func LoadFile(path string) (*MappingFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read mapping file %s: %w", path, err)
	}

	return Parse(data)
}

// Parse parses YAML data into a MappingFile.
func Parse(data []byte) (*MappingFile, error) {
	var mf MappingFile

	err := yaml.Unmarshal(data, &mf)
	if err != nil {
		return nil, fmt.Errorf("failed to parse mapping YAML: %w", err)
	}

	applyDefaults(&mf)

	return &mf, nil
}

// applyDefaults fills in default values for optional fields.
func applyDefaults(mf *MappingFile) {
	if mf.Version == "" {
		mf.Version = defaultVersion
	}
}

// Marshal serializes a MappingFile to YAML.
func Marshal(mf *MappingFile) ([]byte, error) {
	return yaml.Marshal(mf)
}

// WriteFile writes a MappingFile to the given path.
func WriteFile(mf *MappingFile, path string) error {
	data, err := Marshal(mf)
	if err != nil {
		return fmt.Errorf("failed to marshal mapping: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write mapping file %s: %w", path, err)
	}

	return nil
}

// explicitEntries returns the 121 shorthand expanded into field entries,
// sorted by source codename, followed by the fields section.
// 121 entries come first so they win over fields for the same source.
func explicitEntries(mf *MappingFile) []FieldEntry {
	sources := make([]string, 0, len(mf.OneToOne))
	for source := range mf.OneToOne {
		sources = append(sources, source)
	}

	sort.Strings(sources)

	entries := make([]FieldEntry, 0, len(sources)+len(mf.Fields))
	for _, source := range sources {
		entries = append(entries, FieldEntry{Source: source, Target: mf.OneToOne[source]})
	}

	return append(entries, mf.Fields...)
}

// Export turns a configuration into a mapping file for review.
// Every mapping lands in the auto section together with its verdict.
func Export(cfg *MigrationConfig) *MappingFile {
	mf := &MappingFile{
		Version:  defaultVersion,
		Source:   cfg.SourceContentType.Codename,
		Target:   cfg.TargetContentType.Codename,
		Language: cfg.Language,
		Auto:     make([]FieldEntry, 0, len(cfg.FieldMappings)),
	}

	for i := range cfg.FieldMappings {
		m := &cfg.FieldMappings[i]

		entry := FieldEntry{Source: m.SourceField.Codename}
		if m.TargetField != nil {
			compatible := m.IsCompatible
			entry.Target = m.TargetField.Codename
			entry.Compatible = &compatible
			entry.Conversion = m.TransformationType()
		}

		if len(m.Warnings) > 0 {
			entry.Warnings = append([]string(nil), m.Warnings...)
		}

		mf.Auto = append(mf.Auto, entry)
	}

	return mf
}
