// Package config loads migrator settings from a YAML file, .env files and
// KONTENT_MIGRATOR_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	// EnvPrefix prefixes every environment variable, e.g.
	// KONTENT_MIGRATOR_SOURCE_MANAGEMENT_API_KEY.
	EnvPrefix = "KONTENT_MIGRATOR"
	// FileName is the config file name looked up without extension.
	FileName = "kontent-migrator"

	DefaultLanguage    = "default"
	DefaultItemDelay   = 200 * time.Millisecond
	DefaultNameSuffix  = " (Migrated)"
	DefaultJournalPath = ".kontent-migrator/journal.db"
	DefaultLogLevel    = "info"
	DefaultLogFormat   = "text"
	DefaultServerAddr  = ":8080"
)

// Environment identifies one Kontent.ai environment and its keys.
type Environment struct {
	ID               string `mapstructure:"id" json:"id"`
	ManagementAPIKey string `mapstructure:"management_api_key" json:"-"`
	PreviewAPIKey    string `mapstructure:"preview_api_key" json:"-"`
}

// IsComplete reports whether the environment can be used for Management API calls.
func (e Environment) IsComplete() bool {
	return e.ID != "" && e.ManagementAPIKey != ""
}

// Log holds logging settings.
type Log struct {
	Level  string `mapstructure:"level" json:"level"`
	Format string `mapstructure:"format" json:"format"`
}

// Server holds HTTP API settings.
type Server struct {
	Addr string `mapstructure:"addr" json:"addr"`
}

// Config is the complete migrator configuration.
type Config struct {
	Source Environment `mapstructure:"source" json:"source"`
	// Target defaults to Source when its ID is empty.
	Target Environment `mapstructure:"target" json:"target"`

	Language    string        `mapstructure:"language" json:"language"`
	ItemDelay   time.Duration `mapstructure:"item_delay" json:"item_delay"`
	NameSuffix  string        `mapstructure:"name_suffix" json:"name_suffix"`
	JournalPath string        `mapstructure:"journal_path" json:"journal_path"`

	Log    Log    `mapstructure:"log" json:"log"`
	Server Server `mapstructure:"server" json:"server"`
}

// Options controls where Load looks for settings.
type Options struct {
	// ConfigFile is an explicit config file path. When empty the file is
	// searched in the working directory and $HOME/.config/kontent-migrator.
	ConfigFile string
	// EnvFiles are loaded before reading the environment. Missing files
	// are ignored; variables already set are not overridden.
	EnvFiles []string
}

// SetDefaults registers every key with its default so environment variables
// are picked up for all of them.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("source.id", "")
	v.SetDefault("source.management_api_key", "")
	v.SetDefault("source.preview_api_key", "")
	v.SetDefault("target.id", "")
	v.SetDefault("target.management_api_key", "")
	v.SetDefault("target.preview_api_key", "")
	v.SetDefault("language", DefaultLanguage)
	v.SetDefault("item_delay", DefaultItemDelay)
	v.SetDefault("name_suffix", DefaultNameSuffix)
	v.SetDefault("journal_path", DefaultJournalPath)
	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.format", DefaultLogFormat)
	v.SetDefault("server.addr", DefaultServerAddr)
}

// Load reads the configuration into v and decodes it.
// Flags bound to v before the call take precedence over file and environment.
func Load(v *viper.Viper, opts Options) (*Config, error) {
	for _, f := range opts.EnvFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load env file %s: %w", f, err)
		}
	}

	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")

		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", FileName))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if opts.ConfigFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	cfg.applyTargetDefaults()

	return &cfg, nil
}

// applyTargetDefaults migrates within the source environment unless another
// target is configured.
func (c *Config) applyTargetDefaults() {
	if c.Target.ID == "" {
		c.Target.ID = c.Source.ID
	}

	if c.Target.ID == c.Source.ID {
		if c.Target.ManagementAPIKey == "" {
			c.Target.ManagementAPIKey = c.Source.ManagementAPIKey
		}

		if c.Target.PreviewAPIKey == "" {
			c.Target.PreviewAPIKey = c.Source.PreviewAPIKey
		}
	}
}

// SameEnvironment reports whether source and target are one environment.
func (c *Config) SameEnvironment() bool {
	return c.Source.ID == c.Target.ID
}

// Validate checks the settings needed to talk to Kontent.ai and run migrations.
func (c *Config) Validate() error {
	var errs []error

	if !c.Source.IsComplete() {
		errs = append(errs, errors.New("source environment configuration is incomplete"))
	}

	if !c.Target.IsComplete() {
		errs = append(errs, errors.New("target environment configuration is incomplete"))
	}

	if c.Language == "" {
		errs = append(errs, errors.New("language must not be empty"))
	}

	if c.ItemDelay < 0 {
		errs = append(errs, fmt.Errorf("item_delay must not be negative, got %s", c.ItemDelay))
	}

	return errors.Join(errs...)
}
