package element

// Constraints is the type-specific part of an element definition.
// Exactly one variant exists per element type that carries constraints;
// callers switch on the concrete type.
type Constraints interface {
	ElementType() Type
}

// TextConstraints holds limits of a text element.
type TextConstraints struct {
	// MaxLength is the maximum_text_length value, nil when not declared.
	MaxLength *int
}

// ElementType implements Constraints.
func (TextConstraints) ElementType() Type { return TypeText }

// RichTextConstraints holds limits of a rich text element.
type RichTextConstraints struct {
	// AllowedBlocks is nil when the element does not restrict blocks.
	AllowedBlocks []string
	MaxLength     *int
}

// ElementType implements Constraints.
func (RichTextConstraints) ElementType() Type { return TypeRichText }

// Option is one value of a multiple choice element.
type Option struct {
	ID       string `json:"id,omitempty"`
	Name     string `json:"name"`
	Codename string `json:"codename"`
}

// ChoiceMode is "single" or "multiple".
type ChoiceMode string

const (
	ChoiceSingle   ChoiceMode = "single"
	ChoiceMultiple ChoiceMode = "multiple"
)

// ChoiceConstraints holds the option list of a multiple choice element.
type ChoiceConstraints struct {
	// Options is nil when the option list is unknown.
	Options []Option
	Mode    ChoiceMode
}

// ElementType implements Constraints.
func (ChoiceConstraints) ElementType() Type { return TypeMultipleChoice }

// Codenames returns the option codenames in declaration order.
func (c ChoiceConstraints) Codenames() []string {
	out := make([]string, 0, len(c.Options))
	for _, o := range c.Options {
		out = append(out, o.Codename)
	}

	return out
}

// TaxonomyConstraints references the taxonomy group backing the element.
type TaxonomyConstraints struct {
	GroupID       string
	GroupCodename string
}

// ElementType implements Constraints.
func (TaxonomyConstraints) ElementType() Type { return TypeTaxonomy }

// AssetConstraints holds asset restrictions.
type AssetConstraints struct {
	// AllowedFileTypes is "any" or "adjustable"; empty when not declared.
	AllowedFileTypes string
	CountLimit       *int
}

// ElementType implements Constraints.
func (AssetConstraints) ElementType() Type { return TypeAsset }

// LinkedItemsConstraints restricts which content types may be linked.
type LinkedItemsConstraints struct {
	// AllowedContentTypes is nil when any content type may be linked.
	AllowedContentTypes []Reference
	CountLimit          *int
}

// ElementType implements Constraints.
func (LinkedItemsConstraints) ElementType() Type { return TypeLinkedItems }

// Codenames returns the codenames (or IDs when codenames are unknown) of the
// allowed content types.
func (c LinkedItemsConstraints) Codenames() []string {
	out := make([]string, 0, len(c.AllowedContentTypes))
	for _, r := range c.AllowedContentTypes {
		if r.Codename != "" {
			out = append(out, r.Codename)
		} else {
			out = append(out, r.ID)
		}
	}

	return out
}

// ConstraintsFor returns the descriptor's constraints only when they belong
// to the descriptor's own type.
func (d Descriptor) ConstraintsFor() Constraints {
	if d.Constraints == nil || d.Constraints.ElementType() != d.Type {
		return nil
	}

	return d.Constraints
}

// IntPtr is a small helper for building optional limits.
func IntPtr(v int) *int { return &v }
