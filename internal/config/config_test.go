package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("CODEX_ENV", "development")

	cfg, err := Load()
	require.NoError(t, err)

	wd, _ := os.Getwd()
	assert.Equal(t, filepath.Join(wd, "data"), cfg.DataRoot)
	assert.Equal(t, "sqlite", cfg.Database.Type)
	assert.Equal(t, filepath.Join(cfg.DataRoot, "database.db"), cfg.Database.DSN)
	assert.Equal(t, "127.0.0.1:4317", cfg.Server.ListenAddr)
	assert.Equal(t, "memory", cfg.Events.Driver)
	assert.False(t, cfg.DotEnvLoaded)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoadFileThenEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	path := filepath.Join(dir, "codex.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
environment: development
data_root: /srv/codex
server:
  listen_addr: 127.0.0.1:9000
  shutdown_timeout: 3s
events:
  driver: none
`), 0o644))

	t.Setenv("CODEX_CONFIG_FILE", path)
	t.Setenv("CODEX_LISTEN_ADDR", "127.0.0.1:9100")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/srv/codex", cfg.DataRoot)
	assert.Equal(t, "127.0.0.1:9100", cfg.Server.ListenAddr)
	assert.Equal(t, 3*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "none", cfg.Events.Driver)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("CODEX_ENV=development\nCODEX_APP_NAME=dotenv-app\n"), 0o644))
	// godotenv never overrides variables that are already set
	t.Setenv("CODEX_APP_NAME", "from-env")
	t.Cleanup(func() { os.Unsetenv("CODEX_ENV") })

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.DotEnvLoaded)
	assert.Equal(t, "from-env", cfg.AppName)
	assert.Equal(t, EnvDevelopment, cfg.Environment)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	chdir(t, t.TempDir())

	t.Run("environment", func(t *testing.T) {
		t.Setenv("CODEX_ENV", "staging")
		_, err := Load()
		assert.ErrorContains(t, err, "invalid environment")
	})
	t.Run("database type", func(t *testing.T) {
		t.Setenv("CODEX_DB_TYPE", "oracle")
		_, err := Load()
		assert.ErrorContains(t, err, "invalid database type")
	})
	t.Run("postgres needs dsn", func(t *testing.T) {
		t.Setenv("CODEX_DB_TYPE", "postgres")
		t.Setenv("CODEX_DATA_ROOT", t.TempDir())
		_, err := Load()
		assert.ErrorContains(t, err, "dsn is required")
	})
	t.Run("bad duration", func(t *testing.T) {
		t.Setenv("CODEX_SHUTDOWN_TIMEOUT", "soon")
		_, err := Load()
		assert.ErrorContains(t, err, "parse env:")
	})
}

func TestResolveDataRootProduction(t *testing.T) {
	orig := userConfigDir
	t.Cleanup(func() { userConfigDir = orig })
	userConfigDir = func() (string, error) { return "/home/dm/.config", nil }

	root, err := ResolveDataRoot(EnvProduction, "dmcodex")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/home/dm/.config", "dmcodex", "data"), root)
}
