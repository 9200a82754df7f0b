package mapping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kontent-migrator/internal/element"
)

func targetCodename(m FieldMapping) string {
	if m.TargetField == nil {
		return ""
	}

	return m.TargetField.Codename
}

func TestGenerate_ArticleToBlogPost(t *testing.T) {
	src, dst := articleType(), blogPostType()

	mappings := Generate(src.Elements, dst.Elements)
	require.Len(t, mappings, len(src.Elements))

	tests := []struct {
		source     string
		target     string
		compatible bool
		warnings   []string
	}{
		{"title", "title", true, []string{"Target field 'Title' is required but source is optional"}},
		{"body", "main_content", true, []string{}},
		{"author_bio", "bio", true, []string{}},
		{"hero", "", false, []string{"No matching field found"}},
		{"tags", "tags", false, []string{"Different taxonomy groups - manual term mapping required"}},
		{"legacy", "", false, []string{"No matching field found"}},
	}

	for i, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			m := mappings[i]
			assert.Equal(t, tt.source, m.SourceField.Codename)
			assert.Equal(t, tt.target, targetCodename(m))
			assert.Equal(t, tt.compatible, m.IsCompatible)
			assert.Equal(t, tt.warnings, m.Warnings)
		})
	}
}

func TestGenerate_CodenameBeatsName(t *testing.T) {
	source := []element.Descriptor{{Name: "Heading", Codename: "title", Type: element.TypeText}}
	targets := []element.Descriptor{
		{Name: "Heading", Codename: "heading", Type: element.TypeText},
		{Name: "Name", Codename: "title", Type: element.TypeText},
	}

	mappings := Generate(source, targets)
	assert.Equal(t, "title", targetCodename(mappings[0]))
}

func TestGenerate_NameIsCaseInsensitive(t *testing.T) {
	source := []element.Descriptor{{Name: "SEO Title", Codename: "seo", Type: element.TypeText}}
	targets := []element.Descriptor{{Name: "seo title", Codename: "meta_title", Type: element.TypeText}}

	assert.Equal(t, "meta_title", targetCodename(Generate(source, targets)[0]))
}

func TestGenerate_HalfOverlapIsNotEnough(t *testing.T) {
	source := []element.Descriptor{{Name: "Published Date", Codename: "published", Type: element.TypeDateTime}}
	targets := []element.Descriptor{{Name: "Publication Date", Codename: "publication", Type: element.TypeDateTime}}

	m := Generate(source, targets)[0]
	assert.Nil(t, m.TargetField)
	assert.Equal(t, []string{"No matching field found"}, m.Warnings)
}

func TestGenerate_TargetMayBeProposedTwice(t *testing.T) {
	source := []element.Descriptor{
		{Name: "Title", Codename: "title", Type: element.TypeText},
		{Name: "title", Codename: "title_alt", Type: element.TypeText},
	}
	targets := []element.Descriptor{{Name: "Title", Codename: "title", Type: element.TypeText}}

	mappings := Generate(source, targets)
	assert.Equal(t, "title", targetCodename(mappings[0]))
	assert.Equal(t, "title", targetCodename(mappings[1]))
}

func TestGenerate_Empty(t *testing.T) {
	assert.Empty(t, Generate(nil, blogPostType().Elements))

	m := Generate(articleType().Elements[:1], nil)
	require.Len(t, m, 1)
	assert.False(t, m[0].IsMapped())
}

func TestGenerate_IsDeterministic(t *testing.T) {
	src := articleType()
	dst := blogPostType()
	dst.Elements = append([]element.Descriptor{
		{ID: "t7", Name: "Body Copy Html", Codename: "body_html", Type: element.TypeRichText},
		{ID: "t8", Name: "Body Copy Text", Codename: "body_text", Type: element.TypeRichText},
	}, dst.Elements...)

	first := Generate(src.Elements, dst.Elements)
	assert.Equal(t, "body_html", targetCodename(first[1]))

	for range 20 {
		assert.Equal(t, first, Generate(src.Elements, dst.Elements))
	}
}
