package mapping

import (
	"fmt"

	"kontent-migrator/internal/element"
)

// Apply validates a mapping file against the two content types and turns it
// into a MigrationConfig.
//
// Mappings start from Generate and are then overridden section by section:
// 121 first, then fields, then ignore, then auto. The first section that
// mentions a source element decides its target; later sections are skipped
// for that element. Elements the file does not mention keep the generated
// mapping.
//
// language is used when the file does not name one.
func Apply(mf *MappingFile, source, target element.ContentType, language string) (*MigrationConfig, error) {
	diags := Validate(mf, &source, &target)
	if err := diags.Error(); err != nil {
		return nil, fmt.Errorf("invalid mapping file: %w", err)
	}

	return build(mf, source, target, language), nil
}

func build(mf *MappingFile, source, target element.ContentType, language string) *MigrationConfig {
	if mf.Language != "" {
		language = mf.Language
	}

	cfg := NewMigrationConfig(source, target, language)

	decided := make(map[string]bool, len(cfg.FieldMappings))
	assign := func(e FieldEntry) {
		if decided[e.Source] {
			return
		}

		fm, ok := cfg.Mapping(e.Source)
		if !ok {
			return
		}

		decided[e.Source] = true

		if e.IsUnmapped() {
			fm.Retarget(nil)
			return
		}

		if t, ok := cfg.TargetContentType.Element(e.Target); ok {
			fm.Retarget(t)
		}
	}

	for _, e := range explicitEntries(mf) {
		assign(e)
	}

	for _, codename := range mf.Ignore {
		if decided[codename] {
			continue
		}

		if fm, ok := cfg.Mapping(codename); ok {
			decided[codename] = true
			fm.retarget(nil, warnIgnored)
		}
	}

	for _, e := range mf.Auto {
		assign(e)
	}

	return cfg
}

// Origins reports which section of the file decided each source element.
// Elements not mentioned by the file are reported as EntrySourceGenerated.
func Origins(mf *MappingFile, source element.ContentType) map[string]EntrySource {
	out := make(map[string]EntrySource, len(source.Elements))
	mark := func(codename string, origin EntrySource) {
		if _, seen := out[codename]; !seen {
			out[codename] = origin
		}
	}

	for codename := range mf.OneToOne {
		mark(codename, EntrySourceOneToOne)
	}

	for _, e := range mf.Fields {
		mark(e.Source, EntrySourceFields)
	}

	for _, codename := range mf.Ignore {
		mark(codename, EntrySourceIgnore)
	}

	for _, e := range mf.Auto {
		mark(e.Source, EntrySourceAuto)
	}

	for _, el := range source.Elements {
		mark(el.Codename, EntrySourceGenerated)
	}

	// Drop codenames the source type does not have.
	for codename := range out {
		if _, ok := source.Element(codename); !ok {
			delete(out, codename)
		}
	}

	return out
}
