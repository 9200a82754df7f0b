package mapping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kontent-migrator/internal/element"
)

func TestMigrationConfig_ValidMappings(t *testing.T) {
	cfg := NewMigrationConfig(articleType(), blogPostType(), "default")

	assert.Equal(t, "article->blog_post", cfg.TypePair())
	assert.Equal(t, "default", cfg.Language)

	valid := cfg.ValidMappings()
	require.Len(t, valid, 3)
	assert.Equal(t, "title", valid[0].SourceField.Codename)
	assert.Equal(t, "body", valid[1].SourceField.Codename)
	assert.Equal(t, "author_bio", valid[2].SourceField.Codename)
}

func TestMigrationConfig_SetTarget(t *testing.T) {
	cfg := NewMigrationConfig(articleType(), blogPostType(), "default")
	before := cfg.FieldMappings[0]

	require.NoError(t, cfg.SetTarget("hero", "image"))

	hero, ok := cfg.Mapping("hero")
	require.True(t, ok)
	assert.Equal(t, "image", hero.TargetField.Codename)
	assert.True(t, hero.IsCompatible)
	assert.False(t, hero.TransformationNeeded)
	assert.Empty(t, hero.Warnings)

	// Other entries keep their verdicts.
	assert.Equal(t, before, cfg.FieldMappings[0])
	assert.Len(t, cfg.ValidMappings(), 4)
}

func TestMigrationConfig_SetTargetCrossType(t *testing.T) {
	cfg := NewMigrationConfig(articleType(), blogPostType(), "default")

	require.NoError(t, cfg.SetTarget("body", "summary"))

	body, _ := cfg.Mapping("body")
	assert.True(t, body.IsCompatible)
	assert.True(t, body.TransformationNeeded)
	assert.Equal(t, "rich_text -> text", body.TransformationType())
	assert.Equal(t, []string{"Rich text will be converted to plain text (HTML tags removed)"}, body.Warnings)
}

func TestMigrationConfig_Unassign(t *testing.T) {
	cfg := NewMigrationConfig(articleType(), blogPostType(), "default")

	require.NoError(t, cfg.SetTarget("title", ""))

	title, _ := cfg.Mapping("title")
	assert.Nil(t, title.TargetField)
	assert.False(t, title.IsCompatible)
	assert.False(t, title.CanTransform)
	assert.Equal(t, []string{"No target field selected"}, title.Warnings)
	assert.Len(t, cfg.ValidMappings(), 2)
}

func TestMigrationConfig_SetTargetErrors(t *testing.T) {
	cfg := NewMigrationConfig(articleType(), blogPostType(), "default")

	err := cfg.SetTarget("missing", "title")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `source element "missing"`)

	err = cfg.SetTarget("title", "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `target element "nope"`)
}

func TestFieldMapping_RetargetCopiesTarget(t *testing.T) {
	dst := blogPostType()
	m := newFieldMapping(articleType().Elements[0], nil, warnNoMatch)

	m.Retarget(&dst.Elements[0])
	dst.Elements[0].Codename = "changed"

	assert.Equal(t, "title", m.TargetField.Codename)
}

func TestHint(t *testing.T) {
	cfg := NewMigrationConfig(articleType(), blogPostType(), "default")

	hero, _ := cfg.Mapping("hero")
	assert.Equal(t, "No target field selected", Hint(*hero))

	tags, _ := cfg.Mapping("tags")
	assert.Equal(t, "Incompatible: Different taxonomy groups - manual term mapping required", Hint(*tags))

	body, _ := cfg.Mapping("body")
	assert.Equal(t, "Direct mapping possible", Hint(*body))

	require.NoError(t, cfg.SetTarget("body", "summary"))
	body, _ = cfg.Mapping("body")
	assert.Equal(t,
		"Transformation: rich_text -> text (Rich text will be converted to plain text (HTML tags removed))",
		Hint(*body))

	asset := newFieldMapping(
		element.Descriptor{Codename: "a", Type: element.TypeAsset},
		&element.Descriptor{Codename: "b", Type: element.TypeText},
		warnNoMatch)
	assert.Equal(t, "Incompatible: Incompatible types: asset cannot be converted to text", Hint(asset))
}
