package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"kontent-migrator/internal/kontent"
)

func TestSelection_Apply(t *testing.T) {
	items := []kontent.ItemSummary{
		{ID: "1", Codename: "first"},
		{ID: "2", Codename: "second"},
		{ID: "3", Codename: "third"},
	}

	assert.Equal(t, items, (&selection{}).apply(items))
	assert.Equal(t, items[:2], (&selection{limit: 2}).apply(items))
	assert.Equal(t, []kontent.ItemSummary{items[0], items[2]},
		(&selection{items: []string{"third", "1"}}).apply(items))
	assert.Equal(t, []kontent.ItemSummary{items[0]},
		(&selection{items: []string{"third", "1"}, limit: 1}).apply(items))

	// The input is not modified.
	assert.Equal(t, "second", items[1].Codename)
}
