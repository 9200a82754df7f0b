package kontent

import (
	"time"

	"kontent-migrator/internal/element"
)

// Language is a language configured in an environment.
type Language struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Codename  string `json:"codename"`
	IsActive  bool   `json:"is_active"`
	IsDefault bool   `json:"is_default"`
}

// Item is the language-independent part of a content item.
type Item struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Codename     string            `json:"codename"`
	Type         element.Reference `json:"type"`
	ExternalID   string            `json:"external_id,omitempty"`
	LastModified time.Time         `json:"last_modified"`
}

// ElementValue is the value of one element in a language variant.
type ElementValue struct {
	Element element.Reference `json:"element"`
	Value   any               `json:"value"`
	// Mode is set on URL slug elements ("autogenerated" or "custom").
	Mode string `json:"mode,omitempty"`
}

// Variant is a content item in one language.
type Variant struct {
	Item         element.Reference `json:"item"`
	Language     element.Reference `json:"language"`
	Elements     []ElementValue    `json:"elements"`
	LastModified time.Time         `json:"last_modified"`
}

// Value returns the value of the element with the given ID or codename.
func (v *Variant) Value(id, codename string) (any, bool) {
	for _, e := range v.Elements {
		if (id != "" && e.Element.ID == id) || (codename != "" && e.Element.Codename == codename) {
			return e.Value, true
		}
	}

	return nil, false
}

// ItemData is everything needed to migrate one item.
type ItemData struct {
	Item    Item
	Variant Variant
}

// ItemSummary is an item as listed by the Delivery API.
type ItemSummary struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Codename     string    `json:"codename"`
	Language     string    `json:"language"`
	Type         string    `json:"type"`
	LastModified time.Time `json:"last_modified"`
}

// PatchOperation is one JSON patch operation on a content type.
type PatchOperation struct {
	Op    string `json:"op"`
	Path  string `json:"path"`
	Value any    `json:"value,omitempty"`
}

// AddElement returns an addInto operation appending the element to a content type.
func AddElement(d element.Descriptor) PatchOperation {
	return PatchOperation{Op: "addInto", Path: "/elements", Value: elementToWire(d)}
}

type limitJSON struct {
	Value     int    `json:"value"`
	AppliesTo string `json:"applies_to,omitempty"`
	Condition string `json:"condition,omitempty"`
}

type elementJSON struct {
	ID         string `json:"id,omitempty"`
	Name       string `json:"name,omitempty"`
	Codename   string `json:"codename,omitempty"`
	Type       string `json:"type"`
	IsRequired bool   `json:"is_required,omitempty"`
	Guidelines string `json:"guidelines,omitempty"`

	MaximumTextLength   *limitJSON          `json:"maximum_text_length,omitempty"`
	AllowedBlocks       []string            `json:"allowed_blocks,omitempty"`
	Mode                string              `json:"mode,omitempty"`
	Options             []element.Option    `json:"options,omitempty"`
	TaxonomyGroup       *element.Reference  `json:"taxonomy_group,omitempty"`
	AllowedFileTypes    string              `json:"allowed_file_types,omitempty"`
	AssetCountLimit     *limitJSON          `json:"asset_count_limit,omitempty"`
	ItemCountLimit      *limitJSON          `json:"item_count_limit,omitempty"`
	AllowedContentTypes []element.Reference `json:"allowed_content_types,omitempty"`
	ContentGroup        *element.Reference  `json:"content_group,omitempty"`
}

type contentTypeJSON struct {
	ID            string                 `json:"id,omitempty"`
	Name          string                 `json:"name"`
	Codename      string                 `json:"codename"`
	LastModified  time.Time              `json:"last_modified,omitzero"`
	Elements      []elementJSON          `json:"elements"`
	ContentGroups []element.ContentGroup `json:"content_groups,omitempty"`
}

type typesPage struct {
	Types []contentTypeJSON `json:"types"`
}

type languagesPage struct {
	Languages []Language `json:"languages"`
}

func limitValue(l *limitJSON) *int {
	if l == nil {
		return nil
	}

	return element.IntPtr(l.Value)
}

func (e elementJSON) descriptor() element.Descriptor {
	d := element.Descriptor{
		ID:         e.ID,
		Name:       e.Name,
		Codename:   e.Codename,
		Type:       element.ParseType(e.Type),
		IsRequired: e.IsRequired,
		Guidelines: e.Guidelines,
	}

	switch d.Type {
	case element.TypeText:
		d.Constraints = element.TextConstraints{MaxLength: limitValue(e.MaximumTextLength)}
	case element.TypeRichText:
		d.Constraints = element.RichTextConstraints{
			AllowedBlocks: e.AllowedBlocks,
			MaxLength:     limitValue(e.MaximumTextLength),
		}
	case element.TypeMultipleChoice:
		options := e.Options
		if options == nil {
			options = []element.Option{}
		}

		d.Constraints = element.ChoiceConstraints{Options: options, Mode: element.ChoiceMode(e.Mode)}
	case element.TypeTaxonomy:
		var c element.TaxonomyConstraints
		if e.TaxonomyGroup != nil {
			c.GroupID = e.TaxonomyGroup.ID
			c.GroupCodename = e.TaxonomyGroup.Codename
		}

		d.Constraints = c
	case element.TypeAsset:
		d.Constraints = element.AssetConstraints{
			AllowedFileTypes: e.AllowedFileTypes,
			CountLimit:       limitValue(e.AssetCountLimit),
		}
	case element.TypeLinkedItems:
		d.Constraints = element.LinkedItemsConstraints{
			AllowedContentTypes: e.AllowedContentTypes,
			CountLimit:          limitValue(e.ItemCountLimit),
		}
	}

	return d
}

// elementToWire builds the request body of a new element. IDs are left out
// so the target environment assigns its own.
func elementToWire(d element.Descriptor) elementJSON {
	e := elementJSON{
		Name:       d.Name,
		Codename:   d.Codename,
		Type:       string(d.Type),
		IsRequired: d.IsRequired,
		Guidelines: d.Guidelines,
	}

	switch c := d.ConstraintsFor().(type) {
	case element.TextConstraints:
		e.MaximumTextLength = wireLimit(c.MaxLength, "characters", "")
	case element.RichTextConstraints:
		e.AllowedBlocks = c.AllowedBlocks
		e.MaximumTextLength = wireLimit(c.MaxLength, "characters", "")
	case element.ChoiceConstraints:
		e.Mode = string(c.Mode)
		if e.Mode == "" {
			e.Mode = string(element.ChoiceSingle)
		}

		for _, o := range c.Options {
			e.Options = append(e.Options, element.Option{Name: o.Name, Codename: o.Codename})
		}
	case element.TaxonomyConstraints:
		e.TaxonomyGroup = &element.Reference{ID: c.GroupID}
		if c.GroupCodename != "" {
			e.TaxonomyGroup = &element.Reference{Codename: c.GroupCodename}
		}
	case element.AssetConstraints:
		e.AllowedFileTypes = c.AllowedFileTypes
		e.AssetCountLimit = wireLimit(c.CountLimit, "", "at_most")
	case element.LinkedItemsConstraints:
		e.AllowedContentTypes = c.AllowedContentTypes
		e.ItemCountLimit = wireLimit(c.CountLimit, "", "at_most")
	}

	return e
}

func wireLimit(v *int, appliesTo, condition string) *limitJSON {
	if v == nil {
		return nil
	}

	return &limitJSON{Value: *v, AppliesTo: appliesTo, Condition: condition}
}

func (t contentTypeJSON) contentType() element.ContentType {
	ct := element.ContentType{
		ID:            t.ID,
		Name:          t.Name,
		Codename:      t.Codename,
		LastModified:  t.LastModified,
		Elements:      make([]element.Descriptor, 0, len(t.Elements)),
		ContentGroups: t.ContentGroups,
	}

	for _, e := range t.Elements {
		ct.Elements = append(ct.Elements, e.descriptor())
	}

	return ct
}

// contentTypeToWire builds the request body of a new content type.
// Elements of unsupported types are dropped and returned as skipped codenames.
func contentTypeToWire(ct element.ContentType) (contentTypeJSON, []string) {
	body := contentTypeJSON{
		Name:     ct.Name,
		Codename: ct.Codename,
		Elements: make([]elementJSON, 0, len(ct.Elements)),
	}

	var skipped []string

	for _, d := range ct.Elements {
		if !d.Type.IsValid() {
			skipped = append(skipped, d.Codename)
			continue
		}

		body.Elements = append(body.Elements, elementToWire(d))
	}

	return body, skipped
}
