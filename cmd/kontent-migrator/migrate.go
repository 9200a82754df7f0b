package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/prometheus/client_golang/prometheus/push"
	"github.com/spf13/cobra"

	"kontent-migrator/internal/journal"
	"kontent-migrator/internal/kontent"
	"kontent-migrator/internal/logger"
	"kontent-migrator/internal/mapping"
	"kontent-migrator/internal/migration"
)

const previewValueLimit = 40

// selection narrows the items of a run.
type selection struct {
	items []string
	limit int
}

func (s *selection) register(cmd *cobra.Command) {
	cmd.Flags().StringSliceVar(&s.items, "item", nil, "only these item IDs or codenames")
	cmd.Flags().IntVar(&s.limit, "limit", 0, "process at most this many items (0 = all)")
}

func (s *selection) apply(items []kontent.ItemSummary) []kontent.ItemSummary {
	if len(s.items) > 0 {
		items = slices.DeleteFunc(slices.Clone(items), func(it kontent.ItemSummary) bool {
			return !slices.Contains(s.items, it.ID) && !slices.Contains(s.items, it.Codename)
		})
	}

	if s.limit > 0 && len(items) > s.limit {
		items = items[:s.limit]
	}

	return items
}

// resolveRun builds the migration config from a mapping file (one argument)
// or from generated mappings (source and target type codenames), then lists
// the items to process.
func resolveRun(
	ctx context.Context,
	args []string,
	sel *selection,
) (*mapping.MigrationConfig, []kontent.ItemSummary, error) {
	var cfg *mapping.MigrationConfig

	if len(args) == 1 {
		mf, err := mapping.LoadFile(args[0])
		if err != nil {
			return nil, nil, err
		}

		source, target, err := fetchTypes(ctx, mf.Source, mf.Target)
		if err != nil {
			return nil, nil, err
		}

		for _, w := range mapping.Validate(mf, &source, &target).Warnings {
			state.log.Warn(w.String())
		}

		cfg, err = mapping.Apply(mf, source, target, state.cfg.Language)
		if err != nil {
			return nil, nil, err
		}
	} else {
		source, target, err := fetchTypes(ctx, args[0], args[1])
		if err != nil {
			return nil, nil, err
		}

		cfg = mapping.NewMigrationConfig(source, target, state.cfg.Language)
	}

	debugDump("resolved mappings", cfg)

	items, err := state.sourceClient().ListItems(ctx, cfg.SourceContentType.Codename, cfg.Language)
	if err != nil {
		return nil, nil, err
	}

	return cfg, sel.apply(items), nil
}

func openJournal() (*journal.Journal, error) {
	j, err := journal.Open(state.cfg.JournalPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}

	return j, nil
}

func newExecutor(j *journal.Journal, metrics *migration.Collector) *migration.Executor {
	source := state.sourceClient()

	return migration.NewExecutor(source, state.targetClient(),
		migration.WithItemDelay(state.cfg.ItemDelay),
		migration.WithNameSuffix(state.cfg.NameSuffix),
		migration.WithRecorder(j),
		migration.WithMetrics(metrics),
		migration.WithLogger(state.log),
	)
}

func previewCmd() *cobra.Command {
	var sel selection

	cmd := &cobra.Command{
		Use:   "preview (<mapping-file> | <source-type> <target-type>)",
		Short: "Show what a migration would write, without writing",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := state.requireEnvironments(); err != nil {
				return err
			}

			cfg, items, err := resolveRun(cmd.Context(), args, &sel)
			if err != nil {
				return err
			}

			j, err := openJournal()
			if err != nil {
				return err
			}
			defer j.Close()

			previews, err := newExecutor(j, nil).Preview(cmd.Context(), cfg, items)
			if err != nil {
				return err
			}

			if jsonOutput() {
				return printJSON(previews)
			}

			for _, p := range previews {
				printPreview(p)
			}

			return nil
		},
	}
	sel.register(cmd)

	return cmd
}

func printPreview(p migration.ItemPreview) {
	fmt.Printf("%s (%s)\n", p.ItemName, p.ItemID)

	if p.Error != "" {
		fmt.Printf("  error: %s\n\n", p.Error)
		return
	}

	tw := newTable(os.Stdout, table.Row{"Source", "Value", "Target", "New value", "Conversion"})
	for _, f := range p.Fields {
		tw.AppendRow(table.Row{
			f.SourceField,
			migration.Summary(f.SourceValue, previewValueLimit),
			f.TargetField,
			migration.Summary(f.TransformedValue, previewValueLimit),
			f.TransformationType,
		})
	}

	tw.Render()

	for _, w := range p.Warnings {
		fmt.Printf("  warning: %s\n", w)
	}

	fmt.Println()
}

func migrateCmd() *cobra.Command {
	var (
		sel         selection
		yes         bool
		pushgateway string
	)

	cmd := &cobra.Command{
		Use:   "migrate (<mapping-file> | <source-type> <target-type>)",
		Short: "Create migrated copies of the source items in the target type",
		Long: `Create migrated copies of the source items in the target type.

Each item is created as "<name> (Migrated)" and its variant is written in the
language of the source variant. Failed items do not stop the run; every
outcome is recorded in the journal (see 'kontent-migrator runs').`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := state.requireEnvironments(); err != nil {
				return err
			}

			cfg, items, err := resolveRun(cmd.Context(), args, &sel)
			if err != nil {
				return err
			}

			if !yes {
				return fmt.Errorf("about to migrate %d items of %s with %d field mappings; rerun with --yes to proceed",
					len(items), cfg.TypePair(), len(cfg.ValidMappings()))
			}

			j, err := openJournal()
			if err != nil {
				return err
			}
			defer j.Close()

			metrics := migration.NewMetricsCollector()

			progress, runErr := newExecutor(j, metrics).Execute(cmd.Context(), cfg, items, func(p migration.Progress) {
				fmt.Fprintf(os.Stderr, "\r[%d/%d] %d succeeded, %d failed", p.Processed, p.Total, p.Successful, p.Failed)
			})
			fmt.Fprintln(os.Stderr)

			if pushgateway != "" {
				if err := push.New(pushgateway, "kontent_migrator").Collector(metrics).Push(); err != nil {
					state.log.WithError(err).Warn("failed to push metrics")
				}
			}

			if runErr != nil && !errors.Is(runErr, context.Canceled) {
				return runErr
			}

			if err := reportProgress(progress); err != nil {
				return err
			}

			if runErr != nil {
				return runErr
			}

			if progress.Failed > 0 {
				return fmt.Errorf("%d of %d items failed", progress.Failed, progress.Total)
			}

			return nil
		},
	}
	sel.register(cmd)
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm the migration")
	cmd.Flags().StringVar(&pushgateway, "pushgateway", "", "push run metrics to this Prometheus Pushgateway URL")

	return cmd
}

func reportProgress(p migration.Progress) error {
	if jsonOutput() {
		return printJSON(p)
	}

	fmt.Printf("Run %s: %d of %d processed, %d succeeded, %d failed\n",
		p.RunID, p.Processed, p.Total, p.Successful, p.Failed)

	if len(p.Errors) == 0 {
		return nil
	}

	tw := newTable(os.Stdout, table.Row{"Item", "Name", "Error"})
	for _, e := range p.Errors {
		tw.AppendRow(table.Row{e.ItemID, e.ItemName, e.Error})
	}

	tw.Render()

	return nil
}

func runsCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "runs [run-id]",
		Short: "List recorded runs, or the items of one run",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			j, err := openJournal()
			if err != nil {
				return err
			}
			defer j.Close()

			if len(args) == 1 {
				return showRun(cmd.Context(), j, args[0])
			}

			runs, err := j.ListRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}

			if jsonOutput() {
				return printJSON(runs)
			}

			tw := newTable(os.Stdout, table.Row{"ID", "Started", "Types", "Language", "Total", "OK", "Failed", "Mode"})
			for _, r := range runs {
				mode := "migrate"
				if r.DryRun {
					mode = "preview"
				}

				if r.FinishedAt == nil {
					mode += " (unfinished)"
				}

				tw.AppendRow(table.Row{
					r.ID, formatTime(r.StartedAt), r.SourceType + "->" + r.TargetType, r.Language,
					r.Total, r.Successful, r.Failed, mode,
				})
			}

			tw.Render()

			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "number of runs to show")

	return cmd
}

func showRun(ctx context.Context, j *journal.Journal, runID string) error {
	run, err := j.GetRun(ctx, runID)
	if err != nil {
		return err
	}

	items, err := j.RunItems(ctx, runID)
	if err != nil {
		return err
	}

	if jsonOutput() {
		return printJSON(struct {
			Run   journal.Run       `json:"run"`
			Items []journal.RunItem `json:"items"`
		}{run, items})
	}

	fmt.Printf("Run %s (%s->%s, %s), started %s\n",
		run.ID, run.SourceType, run.TargetType, run.Language, formatTime(run.StartedAt))

	tw := newTable(os.Stdout, table.Row{"Item", "Name", "Status", "New item", "Error", "Warnings"})
	for _, it := range items {
		tw.AppendRow(table.Row{it.ItemID, it.ItemName, it.Status, it.NewItemID, it.Error, len(it.Warnings)})
	}

	tw.Render()

	return nil
}

func syncTypesCmd() *cobra.Command {
	var opts migration.SyncOptions

	cmd := &cobra.Command{
		Use:   "sync-types <codename>...",
		Short: "Copy content types from the source to the target environment",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := state.requireEnvironments(); err != nil {
				return err
			}

			if state.cfg.SameEnvironment() {
				return errors.New("source and target are the same environment")
			}

			syncer := migration.NewTypeSyncer(state.sourceClient(), state.targetClient(), state.log)

			result, err := syncer.Sync(cmd.Context(), args, opts, func(s migration.SyncStatus) {
				state.log.WithFields(logger.Fields{"step": s.Step, "percent": s.Percent}).Info(s.Message)
			})
			if result != nil {
				if perr := printSyncResult(result, opts.DryRun); perr != nil {
					return perr
				}
			}

			if err != nil {
				return err
			}

			if len(result.Errors) > 0 {
				return fmt.Errorf("%d content types failed", len(result.Errors))
			}

			return nil
		},
	}
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "only show the plan")
	cmd.Flags().BoolVar(&opts.OverwriteExisting, "overwrite", false, "add missing elements to outdated target types")

	return cmd
}

func printSyncResult(r *migration.SyncResult, dryRun bool) error {
	if jsonOutput() {
		return printJSON(r)
	}

	tw := newTable(os.Stdout, table.Row{"Type", "Plan", "Result"})

	outcome := func(codename string) string {
		switch {
		case dryRun:
			return "dry run"
		case slices.Contains(r.Created, codename):
			return "created"
		case slices.Contains(r.Updated, codename):
			return "updated"
		case slices.Contains(r.Skipped, codename):
			return "skipped (use --overwrite)"
		}

		for _, e := range r.Errors {
			if e.Codename == codename {
				return "failed: " + e.Reason
			}
		}

		return ""
	}

	for _, ct := range r.Plan.ToCreate {
		tw.AppendRow(table.Row{ct.Codename, "create", outcome(ct.Codename)})
	}

	for _, ct := range r.Plan.ToUpdate {
		tw.AppendRow(table.Row{ct.Codename, "update", outcome(ct.Codename)})
	}

	for _, codename := range r.Plan.UpToDate {
		tw.AppendRow(table.Row{codename, "up to date", ""})
	}

	for _, c := range r.Plan.Conflicts {
		tw.AppendRow(table.Row{c.Codename, "conflict", c.Reason})
	}

	tw.Render()

	for codename, skipped := range r.SkippedElements {
		fmt.Printf("  %s: elements not copied: %v\n", codename, skipped)
	}

	return nil
}
