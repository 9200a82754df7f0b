package migration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kontent-migrator/internal/element"
)

func linkedType(codename string, allowed ...string) element.ContentType {
	refs := make([]element.Reference, 0, len(allowed))
	for _, a := range allowed {
		refs = append(refs, element.Reference{Codename: a})
	}

	return element.ContentType{Codename: codename, Elements: []element.Descriptor{{
		Codename:    "related",
		Type:        element.TypeLinkedItems,
		Constraints: element.LinkedItemsConstraints{AllowedContentTypes: refs},
	}}}
}

func codenamesOf(types []element.ContentType) []string {
	out := make([]string, 0, len(types))
	for _, ct := range types {
		out = append(out, ct.Codename)
	}

	return out
}

func TestOrderByReferences(t *testing.T) {
	types := []element.ContentType{
		linkedType("article", "author", "category"),
		linkedType("author", "image", "external"),
		{Codename: "category"},
		{Codename: "image"},
	}

	ordered, err := orderByReferences(types)
	require.NoError(t, err)
	assert.Equal(t, []string{"category", "image", "author", "article"}, codenamesOf(ordered))
}

func TestOrderByReferences_KeepsOrderWithoutReferences(t *testing.T) {
	types := []element.ContentType{{Codename: "b"}, {Codename: "a"}, linkedType("c", "c")}

	ordered, err := orderByReferences(types)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a", "c"}, codenamesOf(ordered))
}

func TestOrderByReferences_Cycle(t *testing.T) {
	types := []element.ContentType{linkedType("a", "b"), linkedType("b", "a")}

	ordered, err := orderByReferences(types)
	require.ErrorIs(t, err, errReferenceCycle)
	assert.Equal(t, []string{"a", "b"}, codenamesOf(ordered))
}

func TestTopoSort_OutOfRange(t *testing.T) {
	_, err := topoSort(2, func(int) []int { return []int{5} })
	require.Error(t, err)
}

func TestOrderByReferences_MatchesByID(t *testing.T) {
	article := element.ContentType{ID: "t-article", Codename: "article", Elements: []element.Descriptor{{
		Codename: "authors",
		Type:     element.TypeLinkedItems,
		Constraints: element.LinkedItemsConstraints{
			AllowedContentTypes: []element.Reference{{ID: "t-author"}, {ID: "t-unknown"}},
		},
	}}}
	author := element.ContentType{ID: "t-author", Codename: "author"}

	ordered, err := orderByReferences([]element.ContentType{article, author})
	require.NoError(t, err)
	assert.Equal(t, []string{"author", "article"}, codenamesOf(ordered))
}
