package mapping

import (
	"fmt"
	"strings"

	"kontent-migrator/internal/element"
	"kontent-migrator/internal/match"
)

const (
	warnNoMatch    = "No matching field found"
	warnNoTarget   = "No target field selected"
	warnIgnored    = "Ignored by mapping file"
	defaultVersion = "1"
)

// FieldMapping pairs one source element with an optional target element.
// IsCompatible, CanTransform, TransformationNeeded and Warnings are derived
// from the pair and must be refreshed through Retarget when the target changes.
type FieldMapping struct {
	SourceField          element.Descriptor  `json:"source_field"`
	TargetField          *element.Descriptor `json:"target_field"`
	IsCompatible         bool                `json:"is_compatible"`
	TransformationNeeded bool                `json:"transformation_needed"`
	CanTransform         bool                `json:"can_transform"`
	Warnings             []string            `json:"warnings"`
}

// newFieldMapping resolves source against target (nil for unmapped).
func newFieldMapping(source element.Descriptor, target *element.Descriptor, unmappedWarning string) FieldMapping {
	fm := FieldMapping{SourceField: source}
	fm.retarget(target, unmappedWarning)

	return fm
}

// Retarget replaces the target element and re-runs the resolver for this
// entry only. A nil target leaves the source unmapped.
func (m *FieldMapping) Retarget(target *element.Descriptor) {
	m.retarget(target, warnNoTarget)
}

func (m *FieldMapping) retarget(target *element.Descriptor, unmappedWarning string) {
	if target == nil {
		m.TargetField = nil
		m.IsCompatible = false
		m.CanTransform = false
		m.TransformationNeeded = false
		m.Warnings = []string{unmappedWarning}

		return
	}

	t := *target
	v := match.Resolve(m.SourceField, t)

	m.TargetField = &t
	m.IsCompatible = v.IsCompatible
	m.CanTransform = v.CanTransform
	m.TransformationNeeded = m.SourceField.Type != t.Type
	m.Warnings = v.Warnings

	if m.Warnings == nil {
		m.Warnings = []string{}
	}
}

// IsMapped returns true if a target element is assigned.
func (m *FieldMapping) IsMapped() bool {
	return m.TargetField != nil
}

// IsValid returns true if the mapping can be used by a migration.
func (m *FieldMapping) IsValid() bool {
	return m.TargetField != nil && m.IsCompatible
}

// TransformationType returns "direct" or "source -> target".
func (m *FieldMapping) TransformationType() string {
	if m.TargetField == nil || !m.TransformationNeeded {
		return "direct"
	}

	return fmt.Sprintf("%s -> %s", m.SourceField.Type, m.TargetField.Type)
}

// Hint describes the mapping in one line for operators.
func Hint(m FieldMapping) string {
	if m.TargetField == nil {
		return warnNoTarget
	}

	if !m.IsCompatible {
		text := "Incompatible types"
		if len(m.Warnings) > 0 {
			text = strings.Join(m.Warnings, "; ")
		}

		return "Incompatible: " + text
	}

	if m.TransformationNeeded {
		detail := ""
		if len(m.Warnings) > 0 {
			detail = " (" + strings.Join(m.Warnings, "; ") + ")"
		}

		return fmt.Sprintf("Transformation: %s -> %s%s", m.SourceField.Type, m.TargetField.Type, detail)
	}

	return "Direct mapping possible"
}

// MigrationConfig groups everything needed to migrate items of one content
// type into another.
type MigrationConfig struct {
	SourceContentType element.ContentType `json:"source_content_type"`
	TargetContentType element.ContentType `json:"target_content_type"`
	FieldMappings     []FieldMapping      `json:"field_mappings"`
	Language          string              `json:"language"`
}

// NewMigrationConfig generates the initial mappings for a content type pair.
func NewMigrationConfig(source, target element.ContentType, language string) *MigrationConfig {
	return &MigrationConfig{
		SourceContentType: source,
		TargetContentType: target,
		FieldMappings:     Generate(source.Elements, target.Elements),
		Language:          language,
	}
}

// TypePair returns "source->target" using content type codenames.
func (c *MigrationConfig) TypePair() string {
	return c.SourceContentType.Codename + "->" + c.TargetContentType.Codename
}

// ValidMappings returns the mappings that have a compatible target.
func (c *MigrationConfig) ValidMappings() []FieldMapping {
	var out []FieldMapping

	for _, m := range c.FieldMappings {
		if m.IsValid() {
			out = append(out, m)
		}
	}

	return out
}

// SetTarget assigns the target element with the given codename to the
// mapping of the given source codename. An empty target codename unmaps it.
// Other mappings are left untouched.
func (c *MigrationConfig) SetTarget(sourceCodename, targetCodename string) error {
	idx := c.indexOf(sourceCodename)
	if idx < 0 {
		return fmt.Errorf("source element %q not found in %s", sourceCodename, c.SourceContentType.Codename)
	}

	if targetCodename == "" {
		c.FieldMappings[idx].Retarget(nil)
		return nil
	}

	target, ok := c.TargetContentType.Element(targetCodename)
	if !ok {
		return fmt.Errorf("target element %q not found in %s", targetCodename, c.TargetContentType.Codename)
	}

	c.FieldMappings[idx].Retarget(target)

	return nil
}

// Mapping returns the mapping of the given source codename.
func (c *MigrationConfig) Mapping(sourceCodename string) (*FieldMapping, bool) {
	idx := c.indexOf(sourceCodename)
	if idx < 0 {
		return nil, false
	}

	return &c.FieldMappings[idx], true
}

func (c *MigrationConfig) indexOf(sourceCodename string) int {
	for i := range c.FieldMappings {
		if c.FieldMappings[i].SourceField.Codename == sourceCodename {
			return i
		}
	}

	return -1
}
