// Package mapping builds and edits the field mappings of a migration.
//
// It provides:
//   - Generate: best-effort one-to-one mapping of source to target elements
//   - FieldMapping.Retarget: re-resolves one entry after a manual change
//   - MigrationConfig: the selected content types, mappings and language
//   - MappingFile: the human-reviewed YAML form of a mapping
//     (121 shorthand, explicit fields, ignore list, auto suggestions)
//   - Validate / Apply: check a mapping file against live content types
//     and turn it into field mappings
package mapping
