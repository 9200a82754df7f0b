package mapping

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_AllSections(t *testing.T) {
	yamlContent := `
source: article
target: blog_post
language: en-US
121:
  hero: image
  body: main_content
fields:
  - source: tags
    target: tags
    note: groups are aligned by hand
  - legacy: ~
  - author_bio: bio
ignore: legacy
auto:
  - source: title
    target: title
    compatible: true
    conversion: direct
`

	mf, err := Parse([]byte(yamlContent))
	require.NoError(t, err)

	assert.Equal(t, "1", mf.Version)
	assert.Equal(t, "article", mf.Source)
	assert.Equal(t, "blog_post", mf.Target)
	assert.Equal(t, "en-US", mf.Language)
	assert.Equal(t, map[string]string{"hero": "image", "body": "main_content"}, mf.OneToOne)

	require.Len(t, mf.Fields, 3)
	assert.Equal(t, FieldEntry{Source: "tags", Target: "tags", Note: "groups are aligned by hand"}, mf.Fields[0])
	assert.Equal(t, FieldEntry{Source: "legacy"}, mf.Fields[1])
	assert.True(t, mf.Fields[1].IsUnmapped())
	assert.Equal(t, FieldEntry{Source: "author_bio", Target: "bio"}, mf.Fields[2])

	assert.Equal(t, StringOrArray{"legacy"}, mf.Ignore)
	assert.Equal(t, "legacy", mf.Ignore.First())

	require.Len(t, mf.Auto, 1)
	require.NotNil(t, mf.Auto[0].Compatible)
	assert.True(t, *mf.Auto[0].Compatible)
	assert.Equal(t, "direct", mf.Auto[0].Conversion)
}

func TestParse_IgnoreList(t *testing.T) {
	mf, err := Parse([]byte("source: a\ntarget: b\nignore: [x, y]\n"))
	require.NoError(t, err)

	assert.Equal(t, StringOrArray{"x", "y"}, mf.Ignore)
	assert.True(t, mf.Ignore.Contains("y"))
	assert.False(t, mf.Ignore.Contains("z"))
}

func TestParse_KeepsVersion(t *testing.T) {
	mf, err := Parse([]byte("version: \"2\"\nsource: a\ntarget: b\n"))
	require.NoError(t, err)
	assert.Equal(t, "2", mf.Version)
	assert.True(t, mf.Ignore.IsEmpty())
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errMsg  string
	}{
		{"malformed", "source: [a\n", "failed to parse mapping YAML"},
		{"entry without source", "fields:\n  - target: x\n", "must specify source"},
		{"entry is a scalar", "fields:\n  - body\n", "expected field entry mapping"},
		{"shorthand to a list", "fields:\n  - body: [a, b]\n", "must map to a codename"},
		{"ignore is a mapping", "ignore:\n  a: b\n", "expected string or array"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestWriteFileLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "article.yaml")

	mf := &MappingFile{
		Source:   "article",
		Target:   "blog_post",
		OneToOne: map[string]string{"hero": "image"},
		Fields:   []FieldEntry{{Source: "legacy"}},
		Ignore:   StringOrArray{"tags"},
	}

	require.NoError(t, WriteFile(mf, path))

	loaded, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "1", loaded.Version)
	assert.Equal(t, mf.OneToOne, loaded.OneToOne)
	assert.Equal(t, mf.Fields, loaded.Fields)
	assert.Equal(t, mf.Ignore, loaded.Ignore)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read mapping file")
}

func TestMarshal_IgnoreSingleValueIsScalar(t *testing.T) {
	data, err := Marshal(&MappingFile{Source: "a", Target: "b", Ignore: StringOrArray{"x"}})
	require.NoError(t, err)
	assert.Contains(t, string(data), "ignore: x\n")
}

func TestExplicitEntries_OneToOneFirstAndSorted(t *testing.T) {
	mf := &MappingFile{
		OneToOne: map[string]string{"b": "y", "a": "x"},
		Fields:   []FieldEntry{{Source: "c", Target: "z"}},
	}

	assert.Equal(t, []FieldEntry{
		{Source: "a", Target: "x"},
		{Source: "b", Target: "y"},
		{Source: "c", Target: "z"},
	}, explicitEntries(mf))
}

func TestExport(t *testing.T) {
	cfg := NewMigrationConfig(articleType(), blogPostType(), "en-US")
	require.NoError(t, cfg.SetTarget("body", "summary"))

	mf := Export(cfg)

	assert.Equal(t, "article", mf.Source)
	assert.Equal(t, "blog_post", mf.Target)
	assert.Equal(t, "en-US", mf.Language)
	require.Len(t, mf.Auto, len(cfg.FieldMappings))

	body := mf.Auto[1]
	assert.Equal(t, "summary", body.Target)
	require.NotNil(t, body.Compatible)
	assert.True(t, *body.Compatible)
	assert.Equal(t, "rich_text -> text", body.Conversion)
	assert.Equal(t, []string{"Rich text will be converted to plain text (HTML tags removed)"}, body.Warnings)

	hero := mf.Auto[3]
	assert.True(t, hero.IsUnmapped())
	assert.Nil(t, hero.Compatible)
	assert.Equal(t, []string{"No matching field found"}, hero.Warnings)

	// Applying the export reproduces the configuration.
	applied, err := Apply(mf, articleType(), blogPostType(), "")
	require.NoError(t, err)
	assert.Equal(t, cfg.FieldMappings[1], applied.FieldMappings[1])
	assert.Equal(t, "en-US", applied.Language)
}
