package migration

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"kontent-migrator/internal/element"
	"kontent-migrator/internal/journal"
	"kontent-migrator/internal/kontent"
	"kontent-migrator/internal/mapping"
)

var errFake = errors.New("boom")

type fakeSource struct {
	items map[string]*kontent.ItemData
}

func (f *fakeSource) GetItemData(_ context.Context, itemID, _ string) (*kontent.ItemData, error) {
	data, ok := f.items[itemID]
	if !ok {
		return nil, fmt.Errorf("failed to read item %s: %w", itemID, kontent.ErrNotFound)
	}

	return data, nil
}

type upsert struct {
	itemID     string
	languageID string
	elements   []kontent.ElementValue
}

type fakeTarget struct {
	failNames map[string]bool
	created   []kontent.Item
	upserts   []upsert
}

func (f *fakeTarget) CreateItem(_ context.Context, name, typeCodename, externalID string) (*kontent.Item, error) {
	if f.failNames[name] {
		return nil, errFake
	}

	item := kontent.Item{
		ID:         fmt.Sprintf("new-%d", len(f.created)+1),
		Name:       name,
		Type:       element.Reference{Codename: typeCodename},
		ExternalID: externalID,
	}
	f.created = append(f.created, item)

	return &item, nil
}

func (f *fakeTarget) UpsertLanguageVariant(
	_ context.Context, itemID, languageID string, elements []kontent.ElementValue,
) (*kontent.Variant, error) {
	f.upserts = append(f.upserts, upsert{itemID: itemID, languageID: languageID, elements: elements})

	return &kontent.Variant{
		Item:     element.Reference{ID: itemID},
		Language: element.Reference{ID: languageID},
		Elements: elements,
	}, nil
}

type fakeRecorder struct {
	mu       sync.Mutex
	info     journal.RunInfo
	items    []journal.RunItem
	finished bool
	success  int
	failed   int
}

func (f *fakeRecorder) StartRun(_ context.Context, info journal.RunInfo) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.info = info

	return "run-1", nil
}

func (f *fakeRecorder) RecordItem(_ context.Context, _ string, item journal.RunItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.items = append(f.items, item)

	return nil
}

func (f *fakeRecorder) FinishRun(_ context.Context, _ string, successful, failed int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.finished = true
	f.success = successful
	f.failed = failed

	return nil
}

func articleType() element.ContentType {
	return element.ContentType{
		ID:       "article-id",
		Name:     "Article",
		Codename: "article",
		Elements: []element.Descriptor{
			{ID: "e-title", Name: "Title", Codename: "title", Type: element.TypeText},
			{ID: "e-body", Name: "Body", Codename: "body", Type: element.TypeRichText},
		},
	}
}

func blogType() element.ContentType {
	return element.ContentType{
		ID:       "blog-id",
		Name:     "Blog",
		Codename: "blog",
		Elements: []element.Descriptor{
			{ID: "t-title", Name: "Title", Codename: "title", Type: element.TypeText, IsRequired: true},
			{ID: "t-body", Name: "Body", Codename: "body", Type: element.TypeText},
		},
	}
}

func articleConfig() *mapping.MigrationConfig {
	return mapping.NewMigrationConfig(articleType(), blogType(), "en")
}

func itemData(id, languageID string, values map[string]any) *kontent.ItemData {
	data := &kontent.ItemData{
		Item:    kontent.Item{ID: id, Name: "Item " + id},
		Variant: kontent.Variant{Item: element.Reference{ID: id}, Language: element.Reference{ID: languageID}},
	}

	for _, codename := range []string{"title", "body"} {
		if v, ok := values[codename]; ok {
			data.Variant.Elements = append(data.Variant.Elements, kontent.ElementValue{
				Element: element.Reference{ID: "e-" + codename},
				Value:   v,
			})
		}
	}

	return data
}
