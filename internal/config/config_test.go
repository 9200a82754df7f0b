package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load(viper.New(), Options{})
	require.NoError(t, err)

	assert.Equal(t, DefaultLanguage, cfg.Language)
	assert.Equal(t, 200*time.Millisecond, cfg.ItemDelay)
	assert.Equal(t, " (Migrated)", cfg.NameSuffix)
	assert.Equal(t, DefaultJournalPath, cfg.JournalPath)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, ":8080", cfg.Server.Addr)

	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "source environment configuration is incomplete")
	assert.Contains(t, err.Error(), "target environment configuration is incomplete")
}

func TestLoad_FileAndEnvironment(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "settings.yaml", `
source:
  id: src-env
  management_api_key: from-file
language: en-US
item_delay: 1s
log:
  level: debug
`)

	t.Setenv("KONTENT_MIGRATOR_SOURCE_MANAGEMENT_API_KEY", "from-env")

	cfg, err := Load(viper.New(), Options{ConfigFile: path})
	require.NoError(t, err)

	assert.Equal(t, "src-env", cfg.Source.ID)
	assert.Equal(t, "from-env", cfg.Source.ManagementAPIKey)
	assert.Equal(t, "en-US", cfg.Language)
	assert.Equal(t, time.Second, cfg.ItemDelay)
	assert.Equal(t, "debug", cfg.Log.Level)

	// Target falls back to the source environment.
	assert.Equal(t, "src-env", cfg.Target.ID)
	assert.Equal(t, "from-env", cfg.Target.ManagementAPIKey)
	assert.True(t, cfg.SameEnvironment())
	assert.NoError(t, cfg.Validate())
}

func TestLoad_SeparateTarget(t *testing.T) {
	path := writeFile(t, t.TempDir(), "settings.yaml", `
source: {id: a, management_api_key: ka}
target: {id: b}
`)

	cfg, err := Load(viper.New(), Options{ConfigFile: path})
	require.NoError(t, err)

	assert.False(t, cfg.SameEnvironment())
	assert.Empty(t, cfg.Target.ManagementAPIKey)
	assert.ErrorContains(t, cfg.Validate(), "target environment configuration is incomplete")
}

func TestLoad_EnvFile(t *testing.T) {
	dir := t.TempDir()
	envFile := writeFile(t, dir, ".env", "KONTENT_MIGRATOR_SOURCE_ID=dotenv-env\n")

	// godotenv sets process variables; make sure they are removed afterwards.
	t.Setenv("KONTENT_MIGRATOR_SOURCE_ID", "")
	require.NoError(t, os.Unsetenv("KONTENT_MIGRATOR_SOURCE_ID"))

	t.Chdir(dir)

	cfg, err := Load(viper.New(), Options{EnvFiles: []string{envFile, filepath.Join(dir, "missing.env")}})
	require.NoError(t, err)
	assert.Equal(t, "dotenv-env", cfg.Source.ID)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(viper.New(), Options{ConfigFile: filepath.Join(t.TempDir(), "nope.yaml")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config")
}

func TestValidate_NegativeDelay(t *testing.T) {
	cfg := &Config{
		Source:    Environment{ID: "a", ManagementAPIKey: "k"},
		Target:    Environment{ID: "a", ManagementAPIKey: "k"},
		Language:  "default",
		ItemDelay: -time.Second,
	}

	assert.ErrorContains(t, cfg.Validate(), "item_delay must not be negative")
}
