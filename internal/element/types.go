package element

import (
	"strings"
	"time"
)

// Type is the element type as reported by the Management API.
type Type string

const (
	TypeUnknown        Type = ""
	TypeText           Type = "text"
	TypeRichText       Type = "rich_text"
	TypeNumber         Type = "number"
	TypeDateTime       Type = "date_time"
	TypeMultipleChoice Type = "multiple_choice"
	TypeAsset          Type = "asset"
	TypeLinkedItems    Type = "modular_content"
	TypeTaxonomy       Type = "taxonomy"
	TypeURLSlug        Type = "url_slug"
	TypeCustom         Type = "custom"
)

// AllTypes lists every recognized element type in API order.
var AllTypes = []Type{
	TypeText,
	TypeRichText,
	TypeNumber,
	TypeDateTime,
	TypeMultipleChoice,
	TypeAsset,
	TypeLinkedItems,
	TypeTaxonomy,
	TypeURLSlug,
	TypeCustom,
}

// ParseType converts an API type string into a Type.
// Unrecognized values (guidelines, snippets, subpages, ...) yield TypeUnknown.
func ParseType(s string) Type {
	t := Type(strings.TrimSpace(s))
	if t.IsValid() {
		return t
	}

	return TypeUnknown
}

// IsValid returns true if the type is part of the supported enumeration.
func (t Type) IsValid() bool {
	switch t {
	case TypeText, TypeRichText, TypeNumber, TypeDateTime, TypeMultipleChoice,
		TypeAsset, TypeLinkedItems, TypeTaxonomy, TypeURLSlug, TypeCustom:
		return true
	default:
		return false
	}
}

// String returns the API representation of the type.
func (t Type) String() string {
	if t == TypeUnknown {
		return "unknown"
	}

	return string(t)
}

// Label returns the human-readable name shown to editors.
func (t Type) Label() string {
	switch t {
	case TypeText:
		return "Text"
	case TypeRichText:
		return "Rich Text"
	case TypeNumber:
		return "Number"
	case TypeDateTime:
		return "Date & Time"
	case TypeMultipleChoice:
		return "Multiple Choice"
	case TypeAsset:
		return "Asset"
	case TypeLinkedItems:
		return "Linked Items"
	case TypeTaxonomy:
		return "Taxonomy"
	case TypeURLSlug:
		return "URL Slug"
	case TypeCustom:
		return "Custom Element"
	default:
		return "Unknown"
	}
}

// Reference points at another object (option, term, content type, asset or item).
// Any subset of the fields may be set.
type Reference struct {
	ID       string `json:"id,omitempty" yaml:"id,omitempty"`
	Codename string `json:"codename,omitempty" yaml:"codename,omitempty"`
	Name     string `json:"name,omitempty" yaml:"name,omitempty"`
}

// Label returns the most readable identifier of the reference.
func (r Reference) Label() string {
	switch {
	case r.Name != "":
		return r.Name
	case r.Codename != "":
		return r.Codename
	default:
		return r.ID
	}
}

// Descriptor describes one element (field) of a content type.
// Descriptors are built from API responses and are not modified afterwards.
type Descriptor struct {
	ID          string      `json:"id" yaml:"id"`
	Name        string      `json:"name" yaml:"name"`
	Codename    string      `json:"codename" yaml:"codename"`
	Type        Type        `json:"type" yaml:"type"`
	IsRequired  bool        `json:"is_required" yaml:"is_required"`
	Guidelines  string      `json:"guidelines,omitempty" yaml:"guidelines,omitempty"`
	Constraints Constraints `json:"-" yaml:"-"`
}

// String returns "Name (codename)".
func (d Descriptor) String() string {
	return d.Name + " (" + d.Codename + ")"
}

// ContentGroup is a tab of a content type.
type ContentGroup struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Codename string `json:"codename"`
}

// ContentType is a named schema made of ordered element descriptors.
type ContentType struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Codename      string         `json:"codename"`
	LastModified  time.Time      `json:"last_modified"`
	Elements      []Descriptor   `json:"elements"`
	ContentGroups []ContentGroup `json:"content_groups,omitempty"`
}

// Element returns the element with the given codename.
func (ct *ContentType) Element(codename string) (*Descriptor, bool) {
	for i := range ct.Elements {
		if ct.Elements[i].Codename == codename {
			return &ct.Elements[i], true
		}
	}

	return nil, false
}

// ElementByID returns the element with the given ID.
func (ct *ContentType) ElementByID(id string) (*Descriptor, bool) {
	for i := range ct.Elements {
		if ct.Elements[i].ID == id {
			return &ct.Elements[i], true
		}
	}

	return nil, false
}

// RequiredElements returns the codenames of all required elements.
func (ct *ContentType) RequiredElements() []string {
	var out []string

	for _, e := range ct.Elements {
		if e.IsRequired {
			out = append(out, e.Codename)
		}
	}

	return out
}

// FindContentType looks a content type up by codename.
func FindContentType(types []ContentType, codename string) (*ContentType, bool) {
	for i := range types {
		if types[i].Codename == codename {
			return &types[i], true
		}
	}

	return nil, false
}
