package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/aretw0/regolith/pkg/domain"
	"github.com/aretw0/regolith/pkg/plot"
	"github.com/aretw0/regolith/pkg/ports"
)

// ReplayOptions selects a stored run and how to display it.
type ReplayOptions struct {
	ConfigPath string
	Overrides  []string

	RunID     string
	StoreKind string
	RedisAddr string
	BadgerDir string
	PlotMode  string
	OutDir    string
	Debug     bool

	// Delay is the pause between frames; zero replays as fast as possible.
	Delay time.Duration

	// Store replaces the configured frame store.
	Store ports.FrameStore

	Stdout io.Writer
	Stderr io.Writer
}

// Replay re-renders every stored frame of a run, in step order, and returns how many were shown.
func Replay(ctx context.Context, opts ReplayOptions) (int, error) {
	ro := RunOptions{
		PlotMode:  opts.PlotMode,
		OutDir:    opts.OutDir,
		StoreKind: opts.StoreKind,
		RedisAddr: opts.RedisAddr,
		BadgerDir: opts.BadgerDir,
		Stdout:    opts.Stdout,
		Stderr:    opts.Stderr,
	}
	ro.defaults()

	if opts.RunID == "" {
		return 0, fmt.Errorf("%w: replay needs a run id", domain.ErrInvalidConfig)
	}
	if err := domain.ValidateRunID(opts.RunID); err != nil {
		return 0, err
	}
	cfg, err := loadConfig(opts.ConfigPath, append(append([]string{}, opts.Overrides...), ro.flagOverrides()...))
	if err != nil {
		return 0, err
	}
	logger := createLogger(ro.Stderr, cfg.Log.Level, opts.Debug)

	handle, closeStore, err := resolveStore(ctx, cfg, opts.Store, logger)
	if err != nil {
		return 0, err
	}
	defer closeStore()
	if handle == nil {
		return 0, fmt.Errorf("%w: replay needs a frame store", domain.ErrInvalidConfig)
	}

	steps, err := handle.store.List(ctx, opts.RunID)
	if err != nil {
		return 0, fmt.Errorf("list frames of %s: %w", opts.RunID, err)
	}

	cmap, err := plot.ParseColormap(cfg.Colors.Fluid, cfg.Colors.Grain)
	if err != nil {
		return 0, err
	}
	plotter, _, err := buildPlotter(cfg, cmap, ro.Stdout, plot.IsTerminal(ro.Stdout), logger, nil)
	if err != nil {
		return 0, err
	}

	logger.Info("replaying run", "run_id", opts.RunID, "frames", len(steps))
	shown := 0
	err = replayFrames(ctx, handle.store, plotter, opts.RunID, steps, opts.Delay, &shown)
	if ferr := plotter.Finalize(context.WithoutCancel(ctx)); ferr != nil && err == nil {
		err = fmt.Errorf("finalize plot: %w", ferr)
	}
	return shown, err
}

func replayFrames(ctx context.Context, store ports.FrameStore, plotter ports.Plotter, runID string, steps []int, delay time.Duration, shown *int) error {
	for i, step := range steps {
		frame, err := store.Load(ctx, runID, step)
		if err != nil {
			return fmt.Errorf("load frame %d: %w", step, err)
		}
		if err := plotter.Update(ctx, frame); err != nil {
			return fmt.Errorf("plot frame %d: %w", step, err)
		}
		*shown++

		if delay <= 0 || i == len(steps)-1 {
			if err := ctx.Err(); err != nil {
				return err
			}
			continue
		}
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return nil
}
