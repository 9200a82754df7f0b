// Package migration moves content items from one content type to another
// and copies content types between environments.
//
// Items are migrated one at a time: the source variant is read, a new item
// is created in the target type and its variant is written with the mapped
// and transformed values. A failing item is recorded and the run continues
// with the next one.
package migration
