package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"kontent-migrator/internal/element"
	"kontent-migrator/internal/kontent"
	"kontent-migrator/internal/mapping"
	"kontent-migrator/internal/match"
)

func typesCmd() *cobra.Command {
	var target bool

	cmd := &cobra.Command{
		Use:   "types",
		Short: "List content types",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := state.requireEnvironments(); err != nil {
				return err
			}

			client := state.sourceClient()
			if target {
				client = state.targetClient()
			}

			types, err := client.ListContentTypes(cmd.Context())
			if err != nil {
				return err
			}

			if jsonOutput() {
				return printJSON(types)
			}

			tw := newTable(os.Stdout, table.Row{"Codename", "Name", "Elements", "Required", "Last modified"})
			for _, ct := range types {
				tw.AppendRow(table.Row{
					ct.Codename, ct.Name, len(ct.Elements), len(ct.RequiredElements()), formatTime(ct.LastModified),
				})
			}

			tw.Render()

			return nil
		},
	}
	cmd.Flags().BoolVar(&target, "target", false, "list types of the target environment")

	return cmd
}

func itemsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "items <type>",
		Short: "List items of a content type in the configured language",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := state.requireEnvironments(); err != nil {
				return err
			}

			items, err := state.sourceClient().ListItems(cmd.Context(), args[0], state.cfg.Language)
			if err != nil {
				return err
			}

			if jsonOutput() {
				return printJSON(items)
			}

			tw := newTable(os.Stdout, table.Row{"ID", "Name", "Codename", "Language", "Last modified"})
			for _, it := range items {
				tw.AppendRow(table.Row{it.ID, it.Name, it.Codename, it.Language, formatTime(it.LastModified)})
			}

			tw.AppendFooter(table.Row{"", fmt.Sprintf("%d items", len(items))})
			tw.Render()

			return nil
		},
	}

	return cmd
}

func suggestCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "suggest <source-type> <target-type>",
		Short: "Propose element mappings for a content type pair",
		Long: `Propose element mappings for a content type pair.

With -o the proposal is written as a mapping file whose auto section can be
reviewed, moved to fields or 121, and locked.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := state.requireEnvironments(); err != nil {
				return err
			}

			source, target, err := fetchTypes(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}

			cfg := mapping.NewMigrationConfig(source, target, state.cfg.Language)
			debugDump("generated mappings", cfg)

			if output != "" {
				if err := mapping.WriteFile(mapping.Export(cfg), output); err != nil {
					return err
				}

				state.log.Infof("mapping file written to %s", output)
			}

			if jsonOutput() {
				return printJSON(cfg)
			}

			printMappings(cfg, nil)

			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the proposal as a mapping file")

	return cmd
}

func checkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <mapping-file>",
		Short: "Validate a mapping file against the current content types",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := state.requireEnvironments(); err != nil {
				return err
			}

			mf, err := mapping.LoadFile(args[0])
			if err != nil {
				return err
			}

			source, target, err := fetchTypes(cmd.Context(), mf.Source, mf.Target)
			if err != nil {
				return err
			}

			diags := mapping.Validate(mf, &source, &target)

			if jsonOutput() {
				if err := printJSON(diags); err != nil {
					return err
				}
			} else {
				printDiagnostics(os.Stdout, diags)

				if !diags.HasErrors() {
					cfg, err := mapping.Apply(mf, source, target, state.cfg.Language)
					if err != nil {
						return err
					}

					debugDump("resolved mappings", cfg)
					fmt.Println()
					printMappings(cfg, mapping.Origins(mf, source))
				}
			}

			if diags.HasErrors() {
				return fmt.Errorf("mapping file %s has %d errors", args[0], len(diags.Errors))
			}

			return nil
		},
	}

	return cmd
}

// fetchTypes reads the source type from the source environment and the
// target type from the target environment.
func fetchTypes(ctx context.Context, sourceCodename, targetCodename string) (element.ContentType, element.ContentType, error) {
	source, err := state.sourceClient().GetContentType(ctx, sourceCodename)
	if err != nil {
		return element.ContentType{}, element.ContentType{}, notFoundHint(err, "source", sourceCodename)
	}

	target, err := state.targetClient().GetContentType(ctx, targetCodename)
	if err != nil {
		return element.ContentType{}, element.ContentType{}, notFoundHint(err, "target", targetCodename)
	}

	return source, target, nil
}

func notFoundHint(err error, side, codename string) error {
	if errors.Is(err, kontent.ErrNotFound) {
		return fmt.Errorf("content type %q not found in %s environment (see 'kontent-migrator types'): %w",
			codename, side, err)
	}

	return err
}

func printMappings(cfg *mapping.MigrationConfig, origins map[string]mapping.EntrySource) {
	header := table.Row{"Source", "Type", "Target", "Type", "Hint"}
	if origins != nil {
		header = append(header, "Origin")
	}

	tw := newTable(os.Stdout, header)

	for _, m := range cfg.FieldMappings {
		target, targetType := "", ""
		if m.TargetField != nil {
			target, targetType = m.TargetField.String(), m.TargetField.Type.Label()
		}

		hint := mapping.Hint(m)
		if m.TargetField == nil {
			if names := match.Suggest(m.SourceField, cfg.TargetContentType.Elements).
				AboveThreshold(match.DefaultSuggestionThreshold).Top(3).Codenames(); len(names) > 0 {
				hint += fmt.Sprintf(" (similar: %v)", names)
			}
		}

		row := table.Row{m.SourceField.String(), m.SourceField.Type.Label(), target, targetType, hint}
		if origins != nil {
			row = append(row, origins[m.SourceField.Codename])
		}

		tw.AppendRow(row)
	}

	tw.AppendFooter(table.Row{cfg.TypePair(), "", fmt.Sprintf("%d valid", len(cfg.ValidMappings()))})
	tw.Render()
}
