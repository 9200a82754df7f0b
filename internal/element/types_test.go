package element

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseType(t *testing.T) {
	for _, typ := range AllTypes {
		assert.Equal(t, typ, ParseType(string(typ)))
		assert.True(t, typ.IsValid())
	}

	assert.Equal(t, TypeText, ParseType(" text "))
	assert.Equal(t, TypeUnknown, ParseType("guidelines"))
	assert.Equal(t, TypeUnknown, ParseType("snippet"))
	assert.False(t, TypeUnknown.IsValid())
}

func TestType_StringAndLabel(t *testing.T) {
	assert.Equal(t, "modular_content", TypeLinkedItems.String())
	assert.Equal(t, "unknown", TypeUnknown.String())
	assert.Equal(t, "Linked Items", TypeLinkedItems.Label())
	assert.Equal(t, "Date & Time", TypeDateTime.Label())
	assert.Equal(t, "Unknown", Type("subpages").Label())
}

func TestReference_Label(t *testing.T) {
	assert.Equal(t, "News", Reference{ID: "1", Codename: "news", Name: "News"}.Label())
	assert.Equal(t, "news", Reference{ID: "1", Codename: "news"}.Label())
	assert.Equal(t, "1", Reference{ID: "1"}.Label())
}

func TestContentType_Lookups(t *testing.T) {
	ct := ContentType{Codename: "article", Elements: []Descriptor{
		{ID: "e1", Name: "Title", Codename: "title", Type: TypeText, IsRequired: true},
		{ID: "e2", Name: "Body", Codename: "body", Type: TypeRichText},
		{ID: "e3", Name: "Slug", Codename: "slug", Type: TypeURLSlug, IsRequired: true},
	}}

	d, ok := ct.Element("body")
	require.True(t, ok)
	assert.Equal(t, "e2", d.ID)
	assert.Equal(t, "Body (body)", d.String())

	d, ok = ct.ElementByID("e3")
	require.True(t, ok)
	assert.Equal(t, "slug", d.Codename)

	_, ok = ct.Element("missing")
	assert.False(t, ok)

	assert.Equal(t, []string{"title", "slug"}, ct.RequiredElements())

	types := []ContentType{{Codename: "a"}, ct}
	found, ok := FindContentType(types, "article")
	require.True(t, ok)
	assert.Len(t, found.Elements, 3)

	_, ok = FindContentType(types, "blog")
	assert.False(t, ok)
}

func TestDescriptor_ConstraintsFor(t *testing.T) {
	d := Descriptor{Type: TypeText, Constraints: TextConstraints{MaxLength: IntPtr(10)}}
	assert.Equal(t, TextConstraints{MaxLength: IntPtr(10)}, d.ConstraintsFor())

	d.Type = TypeRichText
	assert.Nil(t, d.ConstraintsFor())

	d.Constraints = nil
	assert.Nil(t, d.ConstraintsFor())
}

func TestConstraintCodenames(t *testing.T) {
	choice := ChoiceConstraints{Options: []Option{{Codename: "red"}, {Codename: "blue"}}}
	assert.Equal(t, []string{"red", "blue"}, choice.Codenames())

	linked := LinkedItemsConstraints{AllowedContentTypes: []Reference{{Codename: "author"}, {ID: "t-2"}}}
	assert.Equal(t, []string{"author", "t-2"}, linked.Codenames())
}
