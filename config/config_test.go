/*
config_test.go - Configuration loading tests
*/
package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/timeline-engine/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := config.Load("/nonexistent/config.yaml")

	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 24, cfg.Drag.DayWidthPx)
}

func TestLoad_FileOverlaysDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
drag:
  persist_every: 200ms
logging:
  level: debug
  pretty: true
`)

	cfg, err := config.Load(path)

	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 200*time.Millisecond, cfg.Drag.PersistEvery.Std())
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Logging.Pretty)

	// Untouched sections keep their defaults.
	assert.Equal(t, "./data/timeline.db", cfg.Database.Path)
	assert.Equal(t, "0 3 * * *", cfg.Maintenance.Schedule)
	assert.Equal(t, 60, cfg.Drag.FramesPerSec)
}

func TestLoad_InvalidPortRejected(t *testing.T) {
	path := writeConfig(t, "server:\n  port: 70000\n")

	_, err := config.Load(path)

	assert.ErrorContains(t, err, "invalid server port")
}

func TestLoad_NonPositiveDragTuningRejected(t *testing.T) {
	path := writeConfig(t, "drag:\n  day_width_px: 0\n")

	_, err := config.Load(path)

	assert.ErrorContains(t, err, "day_width_px")
}

func TestLoad_MalformedYAMLRejected(t *testing.T) {
	path := writeConfig(t, "server: [not a map\n")

	_, err := config.Load(path)

	assert.ErrorContains(t, err, "failed to parse config")
}
