// Package element models Kontent.ai content types and their element
// (field) definitions.
//
// Key types:
//   - Type: the fixed element type enumeration (text, rich_text, ...)
//   - Descriptor: one element definition of a content type
//   - Constraints: per-type constraint variants (max length, allowed blocks,
//     choice options, taxonomy group, asset limits, allowed linked types)
//   - ContentType: a named schema holding an ordered list of descriptors
package element
