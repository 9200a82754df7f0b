// Package diagnostic provides structured errors, warnings and notes
// produced while checking a mapping file against two content types.
//
// Key capabilities:
//   - Unknown element codenames in the mapping file
//   - Incompatible or lossy element pairs
//   - Required target elements left without a source
//   - Suggestions for unmapped source elements
package diagnostic
