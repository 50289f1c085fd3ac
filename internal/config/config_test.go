package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"TURSO_DATABASE_URL", "TURSO_AUTH_TOKEN", "DEV_MODE",
		"GOFRIDAY_LOG_LEVEL", "GOFRIDAY_REMOTE_URL", "GOFRIDAY_AUTH_USER_ID",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	cfg, err := LoadConfig(viper.New(), dir)
	require.NoError(t, err)
	assert.Equal(t, dir, cfg.DataDir)
	assert.Equal(t, slog.LevelInfo, cfg.Level())
	assert.False(t, cfg.DevMode)
	assert.Empty(t, cfg.Remote.URL)
	assert.Empty(t, cfg.Auth.UserID)
	assert.Equal(t, filepath.Join(dir, "gofriday.db"), cfg.LocalDBPath())
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(`
log_level = "debug"
catalog_path = "/tmp/hubs.toml"

[remote]
url = "libsql://gofriday.turso.io"
`), 0644))

	cfg, err := LoadConfig(viper.New(), dir)
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, cfg.Level())
	assert.Equal(t, "/tmp/hubs.toml", cfg.CatalogPath)
	assert.Equal(t, "libsql://gofriday.turso.io", cfg.Remote.URL)

	t.Setenv("GOFRIDAY_LOG_LEVEL", "warn")
	t.Setenv("TURSO_AUTH_TOKEN", "secret")
	t.Setenv("DEV_MODE", "true")

	cfg, err = LoadConfig(viper.New(), dir)
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, cfg.Level())
	assert.Equal(t, "secret", cfg.Remote.AuthToken)
	assert.True(t, cfg.DevMode)
}

func TestLoadConfigUsesSavedSession(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	require.NoError(t, SaveSession(dir, Session{UserID: "u1", SignedInAt: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)}))
	cfg, err := LoadConfig(viper.New(), dir)
	require.NoError(t, err)
	assert.Equal(t, "u1", cfg.Auth.UserID)

	t.Setenv("GOFRIDAY_AUTH_USER_ID", "override")
	cfg, err = LoadConfig(viper.New(), dir)
	require.NoError(t, err)
	assert.Equal(t, "override", cfg.Auth.UserID)
}

func TestLoadConfigRejectsBrokenFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("log_level = "), 0644))

	_, err := LoadConfig(viper.New(), dir)
	assert.ErrorContains(t, err, "read config file")
}

func TestBadLogLevelFallsBackToInfo(t *testing.T) {
	t.Parallel()
	cfg := Config{LogLevel: "chatty"}
	assert.Equal(t, slog.LevelInfo, cfg.Level())
}

func TestSessionRoundTrip(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	s, err := LoadSession(dir)
	require.NoError(t, err)
	assert.Empty(t, s.UserID)

	require.NoError(t, SaveSession(dir, Session{UserID: "u1"}))
	s, err = LoadSession(dir)
	require.NoError(t, err)
	assert.Equal(t, "u1", s.UserID)

	require.NoError(t, ClearSession(dir))
	require.NoError(t, ClearSession(dir))
	s, err = LoadSession(dir)
	require.NoError(t, err)
	assert.Empty(t, s.UserID)
}
