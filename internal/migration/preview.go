package migration

import (
	"context"
	"fmt"

	"kontent-migrator/internal/kontent"
	"kontent-migrator/internal/logger"
	"kontent-migrator/internal/mapping"
	"kontent-migrator/internal/transform"
)

// PreviewField shows what one mapping would write for one item.
type PreviewField struct {
	SourceField        string `json:"source_field"`
	SourceValue        any    `json:"source_value"`
	TargetField        string `json:"target_field"`
	TransformedValue   any    `json:"transformed_value"`
	TransformationType string `json:"transformation_type"`
}

// ItemPreview is the dry-run result for one item.
type ItemPreview struct {
	ItemID   string         `json:"item_id"`
	ItemName string         `json:"item_name"`
	Fields   []PreviewField `json:"fields"`
	Warnings []string       `json:"warnings"`
	Error    string         `json:"error,omitempty"`
}

// Preview reads items and shows the transformed values without writing to
// the target. The run is recorded as a dry run.
func (e *Executor) Preview(
	ctx context.Context,
	cfg *mapping.MigrationConfig,
	items []kontent.ItemSummary,
) ([]ItemPreview, error) {
	valid := cfg.ValidMappings()
	if len(valid) == 0 {
		return nil, ErrNoValidMappings
	}

	runID := e.startRun(ctx, cfg, len(items), true)
	log := e.log.WithFields(logger.Fields{"run": runID, "types": cfg.TypePair(), "dry_run": true})

	previews := make([]ItemPreview, 0, len(items))
	progress := Progress{RunID: runID, Total: len(items)}

	for _, item := range items {
		if err := e.limiter.Wait(ctx); err != nil {
			e.finishRun(context.WithoutCancel(ctx), progress)
			return previews, fmt.Errorf("preview stopped after %d of %d items: %w",
				progress.Processed, progress.Total, contextErr(ctx, err))
		}

		p := e.previewItem(ctx, cfg, valid, item)
		previews = append(previews, p)

		res := ItemResult{ItemID: item.ID, ItemName: item.Name, Status: ItemSucceeded, Warnings: p.Warnings}
		progress.Processed++

		if p.Error != "" {
			res.Status = ItemFailed
			res.Error = p.Error
			progress.Failed++

			log.WithField("item", item.ID).Warnf("item preview failed: %s", p.Error)
		} else {
			progress.Successful++
		}

		e.recordItem(ctx, runID, res)
	}

	e.finishRun(ctx, progress)

	return previews, nil
}

func (e *Executor) previewItem(
	ctx context.Context,
	cfg *mapping.MigrationConfig,
	mappings []mapping.FieldMapping,
	item kontent.ItemSummary,
) ItemPreview {
	p := ItemPreview{ItemID: item.ID, ItemName: item.Name, Fields: []PreviewField{}, Warnings: []string{}}

	data, err := e.source.GetItemData(ctx, item.ID, cfg.Language)
	if err != nil {
		p.Error = err.Error()
		return p
	}

	for _, m := range mappings {
		raw, _ := data.Variant.Value(m.SourceField.ID, m.SourceField.Codename)

		var value any
		if m.CanTransform {
			var warning string

			value, warning = convert(raw, m.SourceField, *m.TargetField)
			if warning != "" {
				p.Warnings = append(p.Warnings, warning)
			}
		}

		p.Fields = append(p.Fields, PreviewField{
			SourceField:        m.SourceField.Name,
			SourceValue:        raw,
			TargetField:        m.TargetField.Name,
			TransformedValue:   value,
			TransformationType: m.TransformationType(),
		})

		for _, w := range m.Warnings {
			p.Warnings = append(p.Warnings, m.SourceField.Name+": "+w)
		}
	}

	return p
}

// Summary renders a value for tables: text as is, everything else through
// the text conversion used for migrations.
func Summary(value any, limit int) string {
	s := transform.TextOf(value)
	if limit > 0 && len([]rune(s)) > limit {
		return string([]rune(s)[:limit]) + "..."
	}

	return s
}
