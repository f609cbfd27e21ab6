package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aretw0/regolith/internal/logging"
	"github.com/aretw0/regolith/pkg/domain"
	"github.com/aretw0/regolith/pkg/ports"
	"golang.org/x/time/rate"
)

// Config holds the loop timing.
// PlotInterval and RunDuration are simulated seconds; ReportInterval is wall-clock time.
type Config struct {
	PlotInterval   float64
	RunDuration    float64
	ReportInterval time.Duration
}

// DefaultConfig returns the timing of the reference weathering run.
func DefaultConfig() Config {
	return Config{PlotInterval: 0.5, RunDuration: 20.0, ReportInterval: 10 * time.Second}
}

// Validate checks the timing values.
func (c Config) Validate() error {
	var errs []error
	if !(c.PlotInterval > 0) || math.IsInf(c.PlotInterval, 0) {
		errs = append(errs, fmt.Errorf("%w: plot interval must be positive, got %v", domain.ErrInvalidConfig, c.PlotInterval))
	}
	if !(c.RunDuration >= 0) || math.IsInf(c.RunDuration, 0) {
		errs = append(errs, fmt.Errorf("%w: run duration must not be negative, got %v", domain.ErrInvalidConfig, c.RunDuration))
	}
	if c.ReportInterval <= 0 {
		errs = append(errs, fmt.Errorf("%w: report interval must be positive, got %v", domain.ErrInvalidConfig, c.ReportInterval))
	}
	return errors.Join(errs...)
}

// Steps returns the number of loop iterations needed to reach the run duration.
func (c Config) Steps() int {
	if c.RunDuration <= 0 || c.PlotInterval <= 0 {
		return 0
	}
	q := math.Ceil(c.RunDuration / c.PlotInterval)
	if q > 1<<53 {
		return math.MaxInt
	}
	// Match the loop condition step*interval < duration despite rounding in the division.
	n := int(q)
	for n > 0 && float64(n-1)*c.PlotInterval >= c.RunDuration {
		n--
	}
	for float64(n)*c.PlotInterval < c.RunDuration {
		n++
	}
	return n
}

// Result summarizes a finished run.
type Result struct {
	RunID             string
	Steps             int
	SimTime           float64
	Transitions       uint64
	Reports           int
	SaproliteFraction float64
	Elapsed           time.Duration
}

// Runner handles the execution loop of a weathering simulation.
type Runner struct {
	cfg     Config
	engine  ports.Engine
	plotter ports.Plotter
	store   ports.FrameStore
	logger  *slog.Logger
	hooks   domain.LifecycleHooks
	now     func() time.Time
	report  io.Writer
	runID   string
	rows    int
	cols    int
}

// NewRunner creates a Runner with the reference timing, stdout reports and no display.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		cfg:     DefaultConfig(),
		plotter: nopPlotter{},
		logger:  logging.NewNop(),
		now:     time.Now,
		report:  os.Stdout,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run plots the initial state, steps the engine until the run duration and finalizes the plotter.
// Finalize runs even when a step fails or ctx is cancelled; the first error is returned.
func (r *Runner) Run(ctx context.Context) (res *Result, err error) {
	if r.engine == nil {
		return nil, fmt.Errorf("%w: runner has no engine", domain.ErrInvalidConfig)
	}
	if err := r.cfg.Validate(); err != nil {
		return nil, err
	}
	if r.store != nil {
		if err := domain.ValidateRunID(r.runID); err != nil {
			return nil, err
		}
	}

	start := r.now()
	res = &Result{RunID: r.runID}
	r.emitStart(ctx, start)

	defer func() {
		if ferr := r.plotter.Finalize(context.WithoutCancel(ctx)); ferr != nil && err == nil {
			err = fmt.Errorf("finalize plot: %w", ferr)
		}
		res.Transitions = r.engine.Transitions()
		res.Elapsed = r.now().Sub(start)
		r.emitFinish(ctx, res, err)
	}()

	frame := r.frame(0, 0)
	res.SaproliteFraction = frame.SaproliteFraction()
	if err := r.publish(ctx, frame); err != nil {
		return res, err
	}

	// Primed so the first report waits a full interval, as the threshold starts at now+interval.
	limiter := rate.NewLimiter(rate.Every(r.cfg.ReportInterval), 1)
	limiter.AllowN(start, 1)

	current := 0.0
	for step := 1; current < r.cfg.RunDuration; step++ {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		if limiter.AllowN(r.now(), 1) {
			r.progress(ctx, current)
			res.Reports++
		}

		target := float64(step) * r.cfg.PlotInterval
		before := r.engine.Transitions()
		stepStart := r.now()
		if err := r.engine.Run(ctx, target, r.engine.NodeState(), false); err != nil {
			return res, fmt.Errorf("advance to t=%v: %w", target, err)
		}
		current = target

		frame := r.frame(step, current)
		res.Steps = step
		res.SimTime = current
		res.SaproliteFraction = frame.SaproliteFraction()
		if err := r.publish(ctx, frame); err != nil {
			return res, err
		}

		if r.hooks.OnStep != nil {
			r.hooks.OnStep(ctx, &domain.StepEvent{
				EventBase:         r.event(domain.EventStep),
				Step:              step,
				SimTime:           current,
				Transitions:       r.engine.Transitions() - before,
				SaproliteFraction: res.SaproliteFraction,
				Duration:          r.now().Sub(stepStart),
			})
		}
	}

	return res, nil
}

func (r *Runner) frame(step int, t float64) *domain.Frame {
	return domain.NewFrame(r.runID, step, t, r.rows, r.cols, r.engine.NodeState())
}

func (r *Runner) publish(ctx context.Context, frame *domain.Frame) error {
	if err := r.plotter.Update(ctx, frame); err != nil {
		return fmt.Errorf("update plot at step %d: %w", frame.Step, err)
	}
	if r.store != nil {
		if err := r.store.Save(ctx, frame); err != nil {
			return fmt.Errorf("save frame %d: %w", frame.Step, err)
		}
		r.logger.Debug("frame saved", "run_id", r.runID, "step", frame.Step)
	}
	return nil
}

func (r *Runner) progress(ctx context.Context, current float64) {
	pct := 0
	if r.cfg.RunDuration > 0 {
		pct = int(100 * current / r.cfg.RunDuration)
	}
	fmt.Fprintf(r.report, "Current simulation time %s  (%d%%)\n", FormatSimTime(current), pct)
	if r.hooks.OnReport != nil {
		r.hooks.OnReport(ctx, &domain.ReportEvent{
			EventBase: r.event(domain.EventReport),
			SimTime:   current,
			Percent:   pct,
		})
	}
}

func (r *Runner) emitStart(ctx context.Context, start time.Time) {
	r.logger.Debug("simulation loop starting",
		"run_id", r.runID,
		"plot_interval", r.cfg.PlotInterval,
		"run_duration", r.cfg.RunDuration,
		"report_interval", r.cfg.ReportInterval,
	)
	if r.hooks.OnStart != nil {
		e := &domain.RunEvent{
			EventBase:   r.event(domain.EventStart),
			Rows:        r.rows,
			Cols:        r.cols,
			RunDuration: r.cfg.RunDuration,
		}
		e.Timestamp = start
		r.hooks.OnStart(ctx, e)
	}
}

func (r *Runner) emitFinish(ctx context.Context, res *Result, err error) {
	if r.hooks.OnFinish != nil {
		r.hooks.OnFinish(ctx, &domain.RunEvent{
			EventBase:   r.event(domain.EventFinish),
			Rows:        r.rows,
			Cols:        r.cols,
			RunDuration: r.cfg.RunDuration,
			SimTime:     res.SimTime,
			Err:         err,
		})
	}
}

func (r *Runner) event(t domain.EventType) domain.EventBase {
	return domain.EventBase{Timestamp: r.now(), Type: t, RunID: r.runID}
}

// FormatSimTime prints simulated seconds with at least one decimal place ("0.0", "10.5").
func FormatSimTime(t float64) string {
	s := strconv.FormatFloat(t, 'f', -1, 64)
	if strings.Contains(s, ".") {
		return s
	}
	return s + ".0"
}

type nopPlotter struct{}

func (nopPlotter) Update(context.Context, *domain.Frame) error { return nil }
func (nopPlotter) Finalize(context.Context) error              { return nil }
