package runner

import (
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/regolith/pkg/domain"
	"github.com/aretw0/regolith/pkg/ports"
)

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithConfig sets the loop timing.
func WithConfig(cfg Config) Option {
	return func(r *Runner) {
		r.cfg = cfg
	}
}

// WithEngine configures the automaton to advance. Required.
func WithEngine(engine ports.Engine) Option {
	return func(r *Runner) {
		r.engine = engine
	}
}

// WithShape sets the grid dimensions recorded on every frame.
func WithShape(rows, cols int) Option {
	return func(r *Runner) {
		r.rows = rows
		r.cols = cols
	}
}

// WithPlotter configures the display. Defaults to a plotter that does nothing.
func WithPlotter(p ports.Plotter) Option {
	return func(r *Runner) {
		r.plotter = p
	}
}

// WithStore persists every frame, including the initial one.
func WithStore(store ports.FrameStore) Option {
	return func(r *Runner) {
		r.store = store
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithLifecycleHooks registers observability callbacks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(r *Runner) {
		r.hooks = hooks
	}
}

// WithClock replaces the wall clock used for progress reports.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) {
		r.now = now
	}
}

// WithReportWriter sets where progress lines are printed. Defaults to stdout.
func WithReportWriter(w io.Writer) Option {
	return func(r *Runner) {
		r.report = w
	}
}

// WithRunID tags frames and events with the given run identifier.
func WithRunID(id string) Option {
	return func(r *Runner) {
		r.runID = id
	}
}
