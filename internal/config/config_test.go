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
	t.Setenv("DATABASE_URL", "")
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.env"))
	require.NoError(t, err)
	assert.Equal(t, ":5000", cfg.Addr)
	assert.Equal(t, "tombola_data.json", cfg.DataFile)
	assert.Equal(t, 15*time.Second, cfg.Heartbeat)
	assert.False(t, cfg.UseDatabase())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("TOMBOLA_ADDR", ":8080")
	t.Setenv("TOMBOLA_DEBUG", "true")
	t.Setenv("TOMBOLA_HEARTBEAT", "2s")
	t.Setenv("DATABASE_URL", "postgres://tombola@localhost/tombola")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.env"))
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.True(t, cfg.Debug)
	assert.Equal(t, 2*time.Second, cfg.Heartbeat)
	assert.True(t, cfg.UseDatabase())
}

func TestLoadFromDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("TOMBOLA_DATA_FILE=/var/lib/tombola/state.json\n"), 0o644))
	t.Setenv("TOMBOLA_DATA_FILE", "")
	os.Unsetenv("TOMBOLA_DATA_FILE")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/tombola/state.json", cfg.DataFile)
}

func TestLoadRejectsBadHeartbeat(t *testing.T) {
	t.Setenv("TOMBOLA_HEARTBEAT", "0s")
	_, err := Load(filepath.Join(t.TempDir(), "absent.env"))
	assert.Error(t, err)
}
