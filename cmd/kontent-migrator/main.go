// Package main provides the CLI entrypoint for kontent-migrator.
//
// kontent-migrator moves content items between Kontent.ai content types:
//   - Lists content types and items of an environment
//   - Suggests element mappings best-effort
//   - Lets humans review + lock mappings via YAML
//   - Previews and runs migrations, recording every run in a local journal
//   - Copies content types between environments
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"kontent-migrator/internal/config"
	"kontent-migrator/internal/kontent"
	"kontent-migrator/internal/logger"
)

// app is the state shared by all commands, filled in before each command runs.
type app struct {
	cfg *config.Config
	log *logger.Logger
}

var (
	state   = &app{log: logger.New()}
	rootCmd = &cobra.Command{
		Use:   "kontent-migrator",
		Short: "Migrate Kontent.ai content items between content types",
		Long: `kontent-migrator copies content items of one content type into another.

Typical flow:
  kontent-migrator suggest article blog_post -o article.yaml   # propose mappings
  kontent-migrator check article.yaml                          # review + validate
  kontent-migrator preview article.yaml --limit 5              # dry run
  kontent-migrator migrate article.yaml --yes                  # create migrated items

Settings come from kontent-migrator.yaml, .env files and KONTENT_MIGRATOR_* variables.`,
		SilenceUsage:      true,
		PersistentPreRunE: loadState,
	}
)

func main() {
	addPersistentFlags()
	registerCommands()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}

func addPersistentFlags() {
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default ./kontent-migrator.yaml)")
	flags.StringSlice("env-file", []string{".env"}, "env files to load")
	flags.Bool("json", false, "output JSON")
	flags.Bool("debug", false, "dump resolved mappings to stderr")
	flags.StringP("language", "l", "", "language codename (overrides config)")
	flags.String("log-level", "", "log level: debug, info, warn, error")

	_ = viper.BindPFlag("json", flags.Lookup("json"))
	_ = viper.BindPFlag("debug", flags.Lookup("debug"))
	_ = viper.BindPFlag("log.level", flags.Lookup("log-level"))
}

func registerCommands() {
	rootCmd.AddCommand(typesCmd())
	rootCmd.AddCommand(itemsCmd())
	rootCmd.AddCommand(suggestCmd())
	rootCmd.AddCommand(checkCmd())
	rootCmd.AddCommand(previewCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(runsCmd())
	rootCmd.AddCommand(syncTypesCmd())
	rootCmd.AddCommand(serveCmd())
}

func loadState(cmd *cobra.Command, _ []string) error {
	configFile, _ := cmd.Flags().GetString("config")
	envFiles, _ := cmd.Flags().GetStringSlice("env-file")

	cfg, err := config.Load(viper.GetViper(), config.Options{ConfigFile: configFile, EnvFiles: envFiles})
	if err != nil {
		return err
	}

	if lang, _ := cmd.Flags().GetString("language"); lang != "" {
		cfg.Language = lang
	}

	state.cfg = cfg
	state.log.SetLevel(cfg.Log.Level)
	state.log.SetFormat(cfg.Log.Format)

	return nil
}

// requireEnvironments fails unless both environments can be used.
func (a *app) requireEnvironments() error {
	if err := a.cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration:\n%w", err)
	}

	return nil
}

func (a *app) sourceClient() *kontent.Client {
	return kontent.New(kontent.Options{
		EnvironmentID:    a.cfg.Source.ID,
		ManagementAPIKey: a.cfg.Source.ManagementAPIKey,
		PreviewAPIKey:    a.cfg.Source.PreviewAPIKey,
		Logger:           a.log,
	})
}

func (a *app) targetClient() *kontent.Client {
	return kontent.New(kontent.Options{
		EnvironmentID:    a.cfg.Target.ID,
		ManagementAPIKey: a.cfg.Target.ManagementAPIKey,
		PreviewAPIKey:    a.cfg.Target.PreviewAPIKey,
		Logger:           a.log,
	})
}
