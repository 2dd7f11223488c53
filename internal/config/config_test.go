package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"poulailler/internal/stats"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"STATS_URL", "FETCH_TIMEOUT", "DEFAULT_GRANULARITY", "LOG_LEVEL", "DISPLAY_TZ", "STATIC_DIR"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("STATS_URL", "http://stats.local/api/stats/")

	cfg, err := Load(filepath.Join(t.TempDir(), ".env"))
	require.NoError(t, err)
	assert.Equal(t, "http://stats.local/api/stats/", cfg.StatsURL)
	assert.Equal(t, 10*time.Second, cfg.FetchTimeout)
	assert.Equal(t, stats.Year, cfg.DefaultGranularity)
	assert.Equal(t, log.InfoLevel, cfg.LogLevel)
	assert.Nil(t, cfg.DisplayLocation)
	assert.Equal(t, "static", cfg.StaticDir)
}

func TestLoadEnvFile(t *testing.T) {
	clearEnv(t)
	envFile := filepath.Join(t.TempDir(), ".env")
	content := "STATS_URL=http://stats.local/\nFETCH_TIMEOUT=3s\nDEFAULT_GRANULARITY=month\nLOG_LEVEL=debug\nDISPLAY_TZ=UTC\nSTATIC_DIR=/srv/poulailler\n"
	require.NoError(t, os.WriteFile(envFile, []byte(content), 0644))

	cfg, err := Load(envFile)
	require.NoError(t, err)
	assert.Equal(t, "http://stats.local/", cfg.StatsURL)
	assert.Equal(t, 3*time.Second, cfg.FetchTimeout)
	assert.Equal(t, stats.Month, cfg.DefaultGranularity)
	assert.Equal(t, log.DebugLevel, cfg.LogLevel)
	assert.Equal(t, time.UTC, cfg.DisplayLocation)
	assert.Equal(t, "/srv/poulailler", cfg.StaticDir)
}

func TestLoadErrors(t *testing.T) {
	missing := filepath.Join(t.TempDir(), ".env")

	clearEnv(t)
	_, err := Load(missing)
	assert.ErrorContains(t, err, "STATS_URL")

	clearEnv(t)
	t.Setenv("STATS_URL", "http://stats.local/")
	t.Setenv("FETCH_TIMEOUT", "soon")
	_, err = Load(missing)
	assert.ErrorContains(t, err, "FETCH_TIMEOUT")

	clearEnv(t)
	t.Setenv("STATS_URL", "http://stats.local/")
	t.Setenv("DEFAULT_GRANULARITY", "hour")
	_, err = Load(missing)
	assert.ErrorIs(t, err, stats.ErrUnknownGranularity)

	clearEnv(t)
	t.Setenv("STATS_URL", "http://stats.local/")
	t.Setenv("DISPLAY_TZ", "Mars/Olympus_Mons")
	_, err = Load(missing)
	assert.ErrorContains(t, err, "DISPLAY_TZ")
}
