package cli

import (
	"io"

	"github.com/aretw0/regolith/internal/config"
	"github.com/aretw0/regolith/pkg/runner"
)

// Validate loads the configuration at path with overrides and reports what a run would do.
func Validate(w io.Writer, path string, overrides []string) (config.Config, error) {
	cfg, err := loadConfig(path, overrides)
	if err != nil {
		return cfg, err
	}
	steps := runner.Config{PlotInterval: cfg.PlotInterval, RunDuration: cfg.RunDuration}.Steps()
	printSystemMessage(w, "Configuration is valid: %dx%d grid, %d steps of %.2f s, plot %s, store %s.",
		cfg.Rows, cfg.Cols, steps, cfg.PlotInterval, cfg.Plot.Mode, cfg.Store.Kind)
	return cfg, nil
}
