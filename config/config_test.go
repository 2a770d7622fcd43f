package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 100, cfg.Feed.PostWindow)
	assert.Equal(t, 1000, cfg.Feed.MaxBatchKeys)
	assert.Equal(t, 1000, cfg.Feed.LikeCap)
	assert.Equal(t, 50, cfg.Feed.FollowerEventCap)
	assert.Equal(t, 10*time.Second, cfg.Server.RequestTimeout)
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := []byte("server:\n  port: 9090\ndatabase:\n  driver: sqlite\n  dsn: ':memory:'\nfeed:\n  post_window: 20\n")
	require.NoError(t, os.WriteFile(path, body, 0o600))

	t.Setenv("SHELF_FEED_MAX_BATCH_KEYS", "10")
	t.Setenv("SHELF_SERVER_REQUEST_TIMEOUT", "3s")

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 20, cfg.Feed.PostWindow)
	assert.Equal(t, 10, cfg.Feed.MaxBatchKeys)
	assert.Equal(t, 3*time.Second, cfg.Server.RequestTimeout)
}

func TestLoadRejectsBadDriver(t *testing.T) {
	t.Setenv("SHELF_DATABASE_DRIVER", "mysql")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mysql")
}

func TestReleaseRequiresSecret(t *testing.T) {
	t.Setenv("SHELF_SERVER_MODE", "release")

	_, err := Load()
	require.Error(t, err)
}
