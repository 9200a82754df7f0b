package migration

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kontent-migrator/internal/element"
	"kontent-migrator/internal/kontent"
)

type fakeTypeClient struct {
	types       []element.ContentType
	connErr     error
	addErr      error
	dropCreated bool
	patches     map[string][]kontent.PatchOperation
}

func (f *fakeTypeClient) ListContentTypes(context.Context) ([]element.ContentType, error) {
	return append([]element.ContentType(nil), f.types...), nil
}

func (f *fakeTypeClient) AddContentType(_ context.Context, ct element.ContentType) (element.ContentType, []string, error) {
	if f.addErr != nil {
		return element.ContentType{}, nil, f.addErr
	}

	var skipped []string

	for _, d := range ct.Elements {
		if !d.Type.IsValid() {
			skipped = append(skipped, d.Codename)
		}
	}

	if !f.dropCreated {
		f.types = append(f.types, ct)
	}

	return ct, skipped, nil
}

func (f *fakeTypeClient) ModifyContentType(
	_ context.Context, codename string, ops []kontent.PatchOperation,
) (element.ContentType, error) {
	if f.patches == nil {
		f.patches = map[string][]kontent.PatchOperation{}
	}

	f.patches[codename] = append(f.patches[codename], ops...)

	return element.ContentType{Codename: codename}, nil
}

func (f *fakeTypeClient) TestConnection(context.Context) error {
	return f.connErr
}

var (
	older = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	newer = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
)

func syncFixtures() (*fakeTypeClient, *fakeTypeClient) {
	source := &fakeTypeClient{types: []element.ContentType{
		{Codename: "article", LastModified: newer, Elements: []element.Descriptor{
			{Codename: "title", Name: "Title", Type: element.TypeText},
			{Codename: "summary", Name: "Summary", Type: element.TypeText},
			{Codename: "note", Name: "Note", Type: element.TypeUnknown},
		}},
		{Codename: "author", LastModified: newer, Elements: []element.Descriptor{
			{Codename: "name", Name: "Name", Type: element.TypeText},
			{Codename: "legacy", Name: "Legacy", Type: element.TypeUnknown},
		}},
		{Codename: "page", LastModified: older},
	}}
	target := &fakeTypeClient{types: []element.ContentType{
		{Codename: "article", LastModified: older, Elements: []element.Descriptor{
			{Codename: "title", Name: "Title", Type: element.TypeText},
		}},
		{Codename: "page", LastModified: newer},
	}}

	return source, target
}

func TestCompare(t *testing.T) {
	source, target := syncFixtures()

	plan, err := NewTypeSyncer(source, target, nil).
		Compare(context.Background(), []string{"article", "author", "page", "missing"})
	require.NoError(t, err)

	require.Len(t, plan.ToCreate, 1)
	assert.Equal(t, "author", plan.ToCreate[0].Codename)
	require.Len(t, plan.ToUpdate, 1)
	assert.Equal(t, "article", plan.ToUpdate[0].Codename)
	assert.Equal(t, []string{"page"}, plan.UpToDate)
	assert.Equal(t, []TypeConflict{{Codename: "missing", Reason: "Content type not found in source environment"}},
		plan.Conflicts)
}

func TestValidate(t *testing.T) {
	source, target := syncFixtures()
	target.connErr = errFake

	err := NewTypeSyncer(source, target, nil).Validate(context.Background(), nil)
	require.ErrorIs(t, err, ErrNoTypesSelected)
	require.ErrorIs(t, err, errFake)
	assert.Contains(t, err.Error(), "cannot connect to target environment")
	assert.NotContains(t, err.Error(), "source environment")
}

func TestSync_CreatesAndSkipsOutdatedWithoutOverwrite(t *testing.T) {
	source, target := syncFixtures()

	var steps []SyncStep

	result, err := NewTypeSyncer(source, target, nil).Sync(context.Background(),
		[]string{"article", "author"}, SyncOptions{}, func(s SyncStatus) {
			steps = append(steps, s.Step)
		})
	require.NoError(t, err)

	assert.Equal(t, []string{"author"}, result.Created)
	assert.Equal(t, []string{"article"}, result.Skipped)
	assert.Empty(t, result.Updated)
	assert.Empty(t, result.Errors)
	assert.Equal(t, map[string][]string{"author": {"legacy"}}, result.SkippedElements)
	assert.Empty(t, target.patches)

	assert.Equal(t, []SyncStep{
		StepConnecting, StepAnalyzingSource, StepAnalyzingTarget, StepComparing,
		StepMigratingTypes, StepMigratingTypes, StepValidating, StepCompleted,
	}, steps)
}

func TestSync_OverwriteAddsMissingElements(t *testing.T) {
	source, target := syncFixtures()

	result, err := NewTypeSyncer(source, target, nil).Sync(context.Background(),
		[]string{"article"}, SyncOptions{OverwriteExisting: true}, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"article"}, result.Updated)
	require.Len(t, target.patches["article"], 1)
	op := target.patches["article"][0]
	assert.Equal(t, "addInto", op.Op)
	assert.Equal(t, "/elements", op.Path)
	assert.Equal(t, []string{"note"}, result.SkippedElements["article"])
}

func TestSync_ConflictsAbortUnlessDryRun(t *testing.T) {
	source, target := syncFixtures()
	syncer := NewTypeSyncer(source, target, nil)

	result, err := syncer.Sync(context.Background(), []string{"author", "missing"}, SyncOptions{}, nil)
	require.ErrorIs(t, err, ErrTypeConflicts)
	assert.Len(t, result.Plan.Conflicts, 1)
	assert.Empty(t, result.Created)
	assert.Len(t, target.types, 2)

	var last SyncStatus

	result, err = syncer.Sync(context.Background(), []string{"author", "missing"}, SyncOptions{DryRun: true},
		func(s SyncStatus) { last = s })
	require.NoError(t, err)
	assert.Len(t, result.Plan.ToCreate, 1)
	assert.Empty(t, result.Created)
	assert.Equal(t, SyncStatus{Step: StepCompleted, Percent: 100, Message: "Dry run completed"}, last)
}

func TestSync_ReportsFailuresPerType(t *testing.T) {
	source, target := syncFixtures()
	target.dropCreated = true

	result, err := NewTypeSyncer(source, target, nil).Sync(context.Background(),
		[]string{"author"}, SyncOptions{}, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"author"}, result.Created)
	assert.Equal(t, []TypeConflict{{Codename: "author", Reason: "Content type was not found after migration"}},
		result.Errors)

	source, target = syncFixtures()
	target.addErr = errFake

	result, err = NewTypeSyncer(source, target, nil).Sync(context.Background(),
		[]string{"author"}, SyncOptions{}, nil)
	require.NoError(t, err)
	assert.Empty(t, result.Created)
	assert.Equal(t, []TypeConflict{{Codename: "author", Reason: "boom"}}, result.Errors)
}

func TestCompare_CreatesReferencedTypesFirst(t *testing.T) {
	source := &fakeTypeClient{types: []element.ContentType{
		linkedType("article", "author"),
		{Codename: "author"},
	}}

	plan, err := NewTypeSyncer(source, &fakeTypeClient{}, nil).
		Compare(context.Background(), []string{"article", "author"})
	require.NoError(t, err)
	assert.Equal(t, []string{"author", "article"}, codenamesOf(plan.ToCreate))
}

func TestCompare_LinkedItemsReferenceCodenames(t *testing.T) {
	article := element.ContentType{ID: "t-article", Codename: "article", Elements: []element.Descriptor{{
		Codename: "authors",
		Type:     element.TypeLinkedItems,
		Constraints: element.LinkedItemsConstraints{
			AllowedContentTypes: []element.Reference{{ID: "t-author"}, {ID: "t-gone"}},
		},
	}}}
	source := &fakeTypeClient{types: []element.ContentType{article, {ID: "t-author", Codename: "author"}}}

	plan, err := NewTypeSyncer(source, &fakeTypeClient{}, nil).
		Compare(context.Background(), []string{"article", "author"})
	require.NoError(t, err)
	require.Equal(t, []string{"author", "article"}, codenamesOf(plan.ToCreate))

	linked, ok := plan.ToCreate[1].Elements[0].Constraints.(element.LinkedItemsConstraints)
	require.True(t, ok)
	assert.Equal(t, []element.Reference{{Codename: "author"}, {ID: "t-gone"}}, linked.AllowedContentTypes)

	original := source.types[0].Elements[0].Constraints.(element.LinkedItemsConstraints)
	assert.Equal(t, "t-author", original.AllowedContentTypes[0].ID)
}
