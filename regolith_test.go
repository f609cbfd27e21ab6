package regolith_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/aretw0/regolith"
	"github.com/aretw0/regolith/pkg/domain"
	"github.com/aretw0/regolith/pkg/runner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedNode marks a single node as weathered.
type seedNode struct {
	row, col int
}

func (s seedNode) Generate(spacing, rows, cols int, target []domain.NodeState) []domain.NodeState {
	clear(target)
	target[s.row*cols+s.col] = domain.Saprolite
	return target
}

func TestNew_Defaults(t *testing.T) {
	p := regolith.DefaultParams()
	p.Rows, p.Cols = 30, 40
	p.Seed = 7

	sim, err := regolith.New(context.Background(), p)
	require.NoError(t, err)

	assert.Len(t, sim.Transitions, 2)
	assert.Equal(t, int64(7), sim.Params.Seed)
	assert.Equal(t, 30*40, len(sim.Engine.NodeState()))

	states := sim.Engine.NodeState()
	for _, id := range sim.Grid.ClosedBoundaryNodes() {
		require.Equal(t, domain.Rock, states[id], "wall node %d", id)
	}
	assert.Positive(t, sim.Frame("x", 0).Count(domain.Saprolite), "fractures seeded")
}

func TestNew_SeedIsReproducible(t *testing.T) {
	p := regolith.Params{Rows: 25, Cols: 25, Spacing: 1, FractureSpacing: 5, Seed: 42}
	ctx := context.Background()

	a, err := regolith.New(ctx, p)
	require.NoError(t, err)
	b, err := regolith.New(ctx, p)
	require.NoError(t, err)

	require.NoError(t, a.Engine.Run(ctx, 3, a.Engine.NodeState(), false))
	require.NoError(t, b.Engine.Run(ctx, 3, b.Engine.NodeState(), false))
	assert.Equal(t, a.Engine.NodeState(), b.Engine.NodeState())
	assert.Equal(t, a.Engine.Transitions(), b.Engine.Transitions())
}

func TestNew_ZeroSeedIsResolved(t *testing.T) {
	sim, err := regolith.New(context.Background(), regolith.Params{Rows: 5, Cols: 5, Spacing: 1, FractureSpacing: 10})
	require.NoError(t, err)
	assert.NotZero(t, sim.Params.Seed)
}

func TestNew_InvalidGrid(t *testing.T) {
	_, err := regolith.New(context.Background(), regolith.Params{Rows: 0, Cols: 5, Spacing: 1, FractureSpacing: 10})
	assert.ErrorIs(t, err, domain.ErrInvalidGrid)
}

func TestSimulation_Runner(t *testing.T) {
	var events []domain.TransitionEvent
	sim, err := regolith.New(context.Background(),
		regolith.Params{Rows: 5, Cols: 7, Spacing: 1, Seed: 3},
		regolith.WithFractureGenerator(seedNode{row: 2, col: 3}),
		regolith.WithTransitionHook(func(e domain.TransitionEvent) { events = append(events, e) }),
	)
	require.NoError(t, err)

	var out bytes.Buffer
	res, err := sim.Runner(runner.Config{PlotInterval: 50, RunDuration: 1000, ReportInterval: time.Hour},
		runner.WithReportWriter(&out),
	).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 20, res.Steps)
	assert.Equal(t, 1000.0, sim.Engine.Time())
	assert.Equal(t, uint64(4), res.Transitions)

	frame := sim.Frame("", res.Steps)
	for col := 1; col <= 5; col++ {
		assert.Equal(t, domain.Saprolite, frame.At(2, col))
	}
	assert.Equal(t, 5, frame.Count(domain.Saprolite), "weathering stays in its row")
	assert.Empty(t, events, "the runner does not plot each transition")
}
