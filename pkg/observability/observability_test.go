package observability_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/aretw0/regolith/internal/logging"
	"github.com/aretw0/regolith/pkg/domain"
	"github.com/aretw0/regolith/pkg/observability"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHooks_RecordMetrics(t *testing.T) {
	m := observability.NewMetrics()
	hooks := m.Hooks(logging.NewNop())
	ctx := context.Background()

	hooks.OnStep(ctx, &domain.StepEvent{Step: 1, SimTime: 0.5, Transitions: 12, SaproliteFraction: 0.25, Duration: 3 * time.Millisecond})
	hooks.OnStep(ctx, &domain.StepEvent{Step: 2, SimTime: 1.0, Transitions: 8, SaproliteFraction: 0.5, Duration: 5 * time.Millisecond})
	hooks.OnReport(ctx, &domain.ReportEvent{SimTime: 1.0, Percent: 5})

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Steps))
	assert.Equal(t, 20.0, testutil.ToFloat64(m.Transitions))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Reports))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SimulatedSeconds))
	assert.Equal(t, 0.5, testutil.ToFloat64(m.SaproliteFraction))
	assert.Equal(t, 1, testutil.CollectAndCount(m.StepDuration))

	families, err := m.Registry.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "regolith_steps_total")
	assert.Contains(t, names, "regolith_step_duration_seconds")
}

func TestHooks_Logging(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewWithWriter(&buf, slog.LevelInfo)

	var m *observability.Metrics
	hooks := m.Hooks(logger)
	ctx := context.Background()

	hooks.OnStart(ctx, &domain.RunEvent{EventBase: domain.EventBase{RunID: "r1"}, Rows: 3, Cols: 4})
	hooks.OnStep(ctx, &domain.StepEvent{Step: 1})
	hooks.OnFinish(ctx, &domain.RunEvent{EventBase: domain.EventBase{RunID: "r1"}, Err: errors.New("boom")})

	out := buf.String()
	assert.Contains(t, out, "run started")
	assert.Contains(t, out, "run_id=r1")
	assert.NotContains(t, out, "msg=step", "debug events stay below info")
	assert.Contains(t, out, "run failed")
	assert.Contains(t, out, "err=boom")
}
