package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/regolith/internal/config"
	"github.com/aretw0/regolith/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := config.Default()
	assert.Equal(t, 300, cfg.Rows)
	assert.Equal(t, 300, cfg.Cols)
	assert.Equal(t, 0.5, cfg.PlotInterval)
	assert.Equal(t, 20.0, cfg.RunDuration)
	assert.Equal(t, 10*time.Second, cfg.ReportInterval)
	assert.Equal(t, 10, cfg.FractureSpacing)
	assert.Equal(t, "#D0E4F2", cfg.Colors.Fluid)
	assert.Equal(t, "#5F594D", cfg.Colors.Grain)
	assert.NoError(t, cfg.Validate())
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "regolith.yaml")
	content := []byte(`
rows: 40
cols: 60
run_duration: 5
report_interval: 2s
plot:
  mode: images
  movie: true
store:
  kind: redis
  redis:
    addr: redis:6379
    ttl: 1h
`)
	require.NoError(t, os.WriteFile(path, content, 0644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 40, cfg.Rows)
	assert.Equal(t, 60, cfg.Cols)
	assert.Equal(t, 5.0, cfg.RunDuration)
	assert.Equal(t, 2*time.Second, cfg.ReportInterval)
	assert.Equal(t, config.PlotImages, cfg.Plot.Mode)
	assert.True(t, cfg.Plot.Movie)
	assert.Equal(t, "redis:6379", cfg.Store.Redis.Addr)
	assert.Equal(t, time.Hour, cfg.Store.Redis.TTL)

	// Untouched keys keep their defaults.
	assert.Equal(t, 0.5, cfg.PlotInterval)
	assert.Equal(t, "regolith:frame:", cfg.Store.Redis.Prefix)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_Errors(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("rows: [1, 2"), 0644))
	_, err = config.Load(path)
	assert.Error(t, err)

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestApplyOverrides(t *testing.T) {
	cfg := config.Default()
	err := cfg.ApplyOverrides([]string{
		"plot_interval=0.25",
		"rows=12",
		"report_interval=500ms",
		"plot.movie=true",
		"store.kind=badger",
		"store.badger.dir=/tmp/frames",
		"seed=99",
	})
	require.NoError(t, err)

	assert.Equal(t, 0.25, cfg.PlotInterval)
	assert.Equal(t, 12, cfg.Rows)
	assert.Equal(t, 500*time.Millisecond, cfg.ReportInterval)
	assert.True(t, cfg.Plot.Movie)
	assert.Equal(t, config.StoreBadger, cfg.Store.Kind)
	assert.Equal(t, "/tmp/frames", cfg.Store.Badger.Dir)
	assert.Equal(t, int64(99), cfg.Seed)
	assert.Equal(t, 300, cfg.Cols, "unrelated fields keep their value")
}

func TestApplyOverrides_Errors(t *testing.T) {
	cfg := config.Default()
	assert.ErrorIs(t, cfg.ApplyOverrides([]string{"rows"}), domain.ErrInvalidConfig)
	assert.ErrorIs(t, cfg.ApplyOverrides([]string{"=3"}), domain.ErrInvalidConfig)
	assert.ErrorIs(t, cfg.ApplyOverrides([]string{"nope=3"}), domain.ErrInvalidConfig)
	assert.ErrorIs(t, cfg.ApplyOverrides([]string{"rows=abc"}), domain.ErrInvalidConfig)
}

func TestValidate(t *testing.T) {
	cfg := config.Default()
	cfg.Rows = 0
	cfg.PlotInterval = 0
	cfg.RunDuration = -1
	cfg.Colors.Grain = "brown"
	cfg.Plot.Mode = "window"
	cfg.Store.Kind = "s3"

	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
	for _, field := range []string{"Rows", "PlotInterval", "RunDuration", "Grain", "Mode", "Kind"} {
		assert.Contains(t, err.Error(), field)
	}
}

func TestValidate_ZeroDurationAllowed(t *testing.T) {
	cfg := config.Default()
	cfg.RunDuration = 0
	assert.NoError(t, cfg.Validate())
}
