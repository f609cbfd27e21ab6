package regolith

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/regolith/internal/logging"
	"github.com/aretw0/regolith/pkg/cts"
	"github.com/aretw0/regolith/pkg/domain"
	"github.com/aretw0/regolith/pkg/fracture"
	"github.com/aretw0/regolith/pkg/grid"
	"github.com/aretw0/regolith/pkg/ports"
	"github.com/aretw0/regolith/pkg/rules"
	"github.com/aretw0/regolith/pkg/runner"
)

// Params describes the model to build.
type Params struct {
	Rows            int
	Cols            int
	Spacing         float64
	FractureSpacing int
	// Seed makes fractures and transitions reproducible. Zero picks one from the clock.
	Seed int64
}

// DefaultParams returns the reference 300x300 model.
func DefaultParams() Params {
	return Params{Rows: 300, Cols: 300, Spacing: 1.0, FractureSpacing: 10}
}

// Simulation is an initialized weathering model, ready to run.
type Simulation struct {
	Grid        *grid.Raster
	Engine      *cts.Engine
	Transitions []domain.Transition
	Params      Params

	generator ports.FractureGenerator
	hook      func(domain.TransitionEvent)
	logger    *slog.Logger
}

// Option defines a functional option for configuring the Simulation.
type Option func(*Simulation)

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Simulation) {
		s.logger = logger
	}
}

// WithFractureGenerator replaces the random fracture lines, e.g. with a fixed pattern.
func WithFractureGenerator(gen ports.FractureGenerator) Option {
	return func(s *Simulation) {
		s.generator = gen
	}
}

// WithTransitionHook observes every individual transition.
func WithTransitionHook(fn func(domain.TransitionEvent)) Option {
	return func(s *Simulation) {
		s.hook = fn
	}
}

// New builds the grid, seeds the fractures and constructs the automaton.
func New(ctx context.Context, p Params, opts ...Option) (*Simulation, error) {
	s := &Simulation{Params: p}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logging.NewNop()
	}
	if s.Params.Seed == 0 {
		s.Params.Seed = time.Now().UnixNano()
	}
	if s.generator == nil {
		s.generator = fracture.New(s.Params.Seed)
	}

	s.Transitions = rules.Weathering()

	g, states, err := grid.Initialize(ctx, grid.InitSpec{
		Rows:            p.Rows,
		Cols:            p.Cols,
		Spacing:         p.Spacing,
		FractureSpacing: p.FractureSpacing,
	}, s.generator)
	if err != nil {
		return nil, fmt.Errorf("initialize grid: %w", err)
	}
	s.Grid = g

	engineOpts := []cts.Option{
		cts.WithSeed(s.Params.Seed),
		cts.WithLogger(s.logger),
	}
	if s.hook != nil {
		engineOpts = append(engineOpts, cts.WithTransitionHook(s.hook))
	}
	s.Engine, err = cts.New(g, rules.StateNames(), s.Transitions, states, engineOpts...)
	if err != nil {
		return nil, fmt.Errorf("create automaton: %w", err)
	}

	s.logger.Debug("simulation initialized",
		"rows", p.Rows,
		"cols", p.Cols,
		"fractures", fracture.Count(p.FractureSpacing, p.Rows, p.Cols),
		"seed", s.Params.Seed,
		"active_links", len(g.ActiveLinks()),
	)
	return s, nil
}

// Runner returns a runner bound to this simulation's engine and grid shape.
// opts are applied after the bindings.
func (s *Simulation) Runner(cfg runner.Config, opts ...runner.Option) *runner.Runner {
	base := []runner.Option{
		runner.WithConfig(cfg),
		runner.WithEngine(s.Engine),
		runner.WithShape(s.Params.Rows, s.Params.Cols),
		runner.WithLogger(s.logger),
	}
	return runner.NewRunner(append(base, opts...)...)
}

// Frame snapshots the current node states.
func (s *Simulation) Frame(runID string, step int) *domain.Frame {
	return domain.NewFrame(runID, step, s.Engine.Time(), s.Params.Rows, s.Params.Cols, s.Engine.NodeState())
}
