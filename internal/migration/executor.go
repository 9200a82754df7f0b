package migration

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"kontent-migrator/internal/journal"
	"kontent-migrator/internal/kontent"
	"kontent-migrator/internal/logger"
	"kontent-migrator/internal/mapping"
)

const (
	// DefaultItemDelay is the minimum time between the starts of two items.
	DefaultItemDelay = 200 * time.Millisecond
	// DefaultNameSuffix is appended to the names of created items.
	DefaultNameSuffix = " (Migrated)"
)

var (
	// ErrNoValidMappings is returned when no mapping has a compatible target.
	ErrNoValidMappings = errors.New("no valid field mappings found")
	// ErrMissingLanguage is returned when a source variant carries no language ID.
	ErrMissingLanguage = errors.New("source item language ID is missing")
)

// Source reads items to migrate.
type Source interface {
	GetItemData(ctx context.Context, itemID, language string) (*kontent.ItemData, error)
}

// Target receives migrated items.
type Target interface {
	CreateItem(ctx context.Context, name, typeCodename, externalID string) (*kontent.Item, error)
	UpsertLanguageVariant(
		ctx context.Context, itemID, languageID string, elements []kontent.ElementValue,
	) (*kontent.Variant, error)
}

// Recorder persists runs and item outcomes. *journal.Journal implements it.
type Recorder interface {
	StartRun(ctx context.Context, info journal.RunInfo) (string, error)
	RecordItem(ctx context.Context, runID string, item journal.RunItem) error
	FinishRun(ctx context.Context, runID string, successful, failed int) error
}

// ItemError describes why one item failed.
type ItemError struct {
	ItemID   string `json:"item_id"`
	ItemName string `json:"item_name"`
	Error    string `json:"error"`
}

// Progress is reported after every item and returned at the end of a run.
type Progress struct {
	RunID      string      `json:"run_id"`
	Total      int         `json:"total"`
	Processed  int         `json:"processed"`
	Successful int         `json:"successful"`
	Failed     int         `json:"failed"`
	Errors     []ItemError `json:"errors"`
}

func (p Progress) clone() Progress {
	p.Errors = append([]ItemError(nil), p.Errors...)
	return p
}

// ProgressFunc receives a copy of the progress after each item.
type ProgressFunc func(Progress)

// ItemResult is the outcome of one item.
type ItemResult struct {
	ItemID    string     `json:"item_id"`
	ItemName  string     `json:"item_name"`
	NewItemID string     `json:"new_item_id,omitempty"`
	Status    ItemStatus `json:"status"`
	Error     string     `json:"error,omitempty"`
	Warnings  []string   `json:"warnings,omitempty"`
}

// Executor runs migrations sequentially, one item in flight.
type Executor struct {
	source     Source
	target     Target
	limiter    *rate.Limiter
	nameSuffix string
	recorder   Recorder
	metrics    *Collector
	log        *logger.Logger
}

// Option configures an Executor.
type Option func(*Executor)

// WithItemDelay sets the minimum time between item starts. Zero disables pacing.
func WithItemDelay(d time.Duration) Option {
	return func(e *Executor) {
		e.limiter = newLimiter(d)
	}
}

// WithNameSuffix sets the suffix appended to created item names.
func WithNameSuffix(suffix string) Option {
	return func(e *Executor) {
		e.nameSuffix = suffix
	}
}

// WithRecorder records runs and item outcomes.
func WithRecorder(r Recorder) Option {
	return func(e *Executor) {
		e.recorder = r
	}
}

// WithMetrics reports item outcomes to the collector.
func WithMetrics(c *Collector) Option {
	return func(e *Executor) {
		e.metrics = c
	}
}

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(e *Executor) {
		e.log = l
	}
}

// NewExecutor creates an executor reading from source and writing to target.
func NewExecutor(source Source, target Target, opts ...Option) *Executor {
	e := &Executor{
		source:     source,
		target:     target,
		limiter:    newLimiter(DefaultItemDelay),
		nameSuffix: DefaultNameSuffix,
		log:        logger.Discard(),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

func newLimiter(d time.Duration) *rate.Limiter {
	if d <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}

	return rate.NewLimiter(rate.Every(d), 1)
}

// Execute migrates items using the valid mappings of cfg.
//
// Each item gets a new item named "<name><suffix>" in the target type whose
// variant, in the language of the source variant, holds the transformed
// values. Item failures are collected in the progress and do not stop the
// run. Cancelling ctx stops the run before the next item; created items are
// not rolled back.
func (e *Executor) Execute(
	ctx context.Context,
	cfg *mapping.MigrationConfig,
	items []kontent.ItemSummary,
	onProgress ProgressFunc,
) (Progress, error) {
	progress := Progress{Total: len(items), Errors: []ItemError{}}

	valid := cfg.ValidMappings()
	if len(valid) == 0 {
		return progress, ErrNoValidMappings
	}

	progress.RunID = e.startRun(ctx, cfg, len(items), false)

	log := e.log.WithFields(logger.Fields{"run": progress.RunID, "types": cfg.TypePair(), "language": cfg.Language})
	log.Infof("migrating %d items with %d field mappings", len(items), len(valid))

	e.metrics.runStarted()
	defer e.metrics.runFinished()

	for _, item := range items {
		if err := e.limiter.Wait(ctx); err != nil {
			e.finishRun(context.WithoutCancel(ctx), progress)
			return progress, fmt.Errorf("migration stopped after %d of %d items: %w",
				progress.Processed, progress.Total, contextErr(ctx, err))
		}

		started := time.Now()
		res := e.migrateItem(ctx, cfg, valid, item, progress.RunID)
		e.metrics.itemDone(res.Status, time.Since(started).Seconds())

		progress.Processed++

		if res.Status == ItemSucceeded {
			progress.Successful++

			log.WithFields(logger.Fields{"item": item.ID, "new_item": res.NewItemID}).Debug("item migrated")
		} else {
			progress.Failed++
			progress.Errors = append(progress.Errors, ItemError{ItemID: item.ID, ItemName: item.Name, Error: res.Error})

			log.WithFields(logger.Fields{"item": item.ID}).Warnf("item failed: %s", res.Error)
		}

		e.recordItem(ctx, progress.RunID, res)

		if onProgress != nil {
			onProgress(progress.clone())
		}
	}

	e.finishRun(ctx, progress)
	log.Infof("migration finished: %d succeeded, %d failed", progress.Successful, progress.Failed)

	return progress, nil
}

func contextErr(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}

	return err
}

func (e *Executor) migrateItem(
	ctx context.Context,
	cfg *mapping.MigrationConfig,
	mappings []mapping.FieldMapping,
	item kontent.ItemSummary,
	runID string,
) ItemResult {
	res := ItemResult{ItemID: item.ID, ItemName: item.Name, Status: ItemFailed}

	data, err := e.source.GetItemData(ctx, item.ID, cfg.Language)
	if err != nil {
		res.Error = err.Error()
		return res
	}

	// Checked before creating anything so a bad variant leaves no orphan item.
	languageID := data.Variant.Language.ID
	if languageID == "" {
		res.Error = ErrMissingLanguage.Error()
		return res
	}

	elements, warnings := BuildElements(mappings, &data.Variant)
	res.Warnings = warnings

	created, err := e.target.CreateItem(ctx, item.Name+e.nameSuffix, cfg.TargetContentType.Codename,
		externalID(runID, item.ID))
	if err != nil {
		res.Error = err.Error()
		return res
	}

	res.NewItemID = created.ID

	if _, err := e.target.UpsertLanguageVariant(ctx, created.ID, languageID, elements); err != nil {
		res.Error = err.Error()
		return res
	}

	res.Status = ItemSucceeded

	return res
}

// externalID is stable for an item within a run, so a retried create is
// rejected by the API instead of producing a duplicate.
func externalID(runID, itemID string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(runID+"/"+itemID)).String()
}

func (e *Executor) startRun(ctx context.Context, cfg *mapping.MigrationConfig, total int, dryRun bool) string {
	if e.recorder != nil {
		id, err := e.recorder.StartRun(ctx, journal.RunInfo{
			SourceType: cfg.SourceContentType.Codename,
			TargetType: cfg.TargetContentType.Codename,
			Language:   cfg.Language,
			Total:      total,
			DryRun:     dryRun,
		})
		if err == nil {
			return id
		}

		e.log.WithError(err).Warn("failed to record run start")
	}

	return uuid.NewString()
}

func (e *Executor) recordItem(ctx context.Context, runID string, res ItemResult) {
	if e.recorder == nil {
		return
	}

	err := e.recorder.RecordItem(ctx, runID, journal.RunItem{
		ItemID:    res.ItemID,
		ItemName:  res.ItemName,
		NewItemID: res.NewItemID,
		Status:    res.Status.String(),
		Error:     res.Error,
		Warnings:  res.Warnings,
	})
	if err != nil {
		e.log.WithError(err).WithField("item", res.ItemID).Warn("failed to record item")
	}
}

func (e *Executor) finishRun(ctx context.Context, p Progress) {
	if e.recorder == nil {
		return
	}

	if err := e.recorder.FinishRun(ctx, p.RunID, p.Successful, p.Failed); err != nil {
		e.log.WithError(err).Warn("failed to record run end")
	}
}
