package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "valves.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	require.Equal(t, "AA", cfg.Search.Start)
	require.Equal(t, 30, cfg.Search.Time)
	require.Equal(t, 0, cfg.Search.MaxExpansions, "No expansion budget by default")
	require.NoError(t, cfg.Validate())
}

func TestLoad(t *testing.T) {
	t.Run("full file", func(t *testing.T) {
		path := writeConfig(t, `
version: 1
search:
  start: BB
  time: 12
  max_expansions: 1000000
  timeout: 1m30s
  check_interval: 64
log:
  level: debug
  console: false
output:
  record_dir: runs
  metrics_file: valves.prom
`)

		cfg, err := Load(path)

		require.NoError(t, err)
		require.Equal(t, "BB", cfg.Search.Start)
		require.Equal(t, 12, cfg.Search.Time)
		require.Equal(t, 1000000, cfg.Search.MaxExpansions)
		require.Equal(t, 90*time.Second, cfg.Search.Timeout)
		require.Equal(t, 64, cfg.Search.CheckInterval)
		require.False(t, cfg.Log.Console)
		require.Equal(t, "runs", cfg.Output.RecordDir)
		require.Equal(t, "valves.prom", cfg.Output.MetricsFile)

		level, err := cfg.LogLevel()
		require.NoError(t, err)
		require.Equal(t, zerolog.DebugLevel, level)
	})

	t.Run("partial file keeps defaults", func(t *testing.T) {
		cfg, err := Load(writeConfig(t, "version: 1\nsearch:\n  time: 8\n"))

		require.NoError(t, err)
		require.Equal(t, 8, cfg.Search.Time)
		require.Equal(t, "AA", cfg.Search.Start, "Unset start should keep the default")
		require.True(t, cfg.Log.Console)
	})

	t.Run("unsupported version", func(t *testing.T) {
		_, err := Load(writeConfig(t, "version: 2\n"))

		require.ErrorIs(t, err, ErrUnsupportedVersion)
	})

	t.Run("invalid values", func(t *testing.T) {
		contents := []string{
			"version: 1\nsearch:\n  time: -1\n",
			"version: 1\nsearch:\n  start: \"\"\n",
			"version: 1\nsearch:\n  max_expansions: -5\n",
			"version: 1\nsearch:\n  timeout: -1s\n",
			"version: 1\nlog:\n  level: loud\n",
		}
		for _, content := range contents {
			_, err := Load(writeConfig(t, content))
			require.ErrorIs(t, err, ErrInvalidConfig, "Config %q should be rejected", content)
		}
	})

	t.Run("malformed yaml", func(t *testing.T) {
		_, err := Load(writeConfig(t, "version: [1\n"))

		require.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))

		require.ErrorIs(t, err, os.ErrNotExist)
	})
}
