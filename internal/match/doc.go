// Package match decides how elements of two content types pair up.
//
// Key functions:
//   - Resolve: checks a source/target element pair against the type
//     compatibility table and the per-type constraints
//   - NameScore: word-overlap similarity between two display names
//   - BestNameMatch: picks the best fuzzy candidate above the threshold
//   - Suggest: ranks target codenames by edit distance for unmapped fields
package match
