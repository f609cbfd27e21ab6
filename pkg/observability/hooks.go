package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/regolith/internal/logging"
	"github.com/aretw0/regolith/pkg/domain"
)

// Hooks returns lifecycle hooks that log every event and record it on m.
// A nil m only logs.
func (m *Metrics) Hooks(logger *slog.Logger) domain.LifecycleHooks {
	if logger == nil {
		logger = logging.NewNop()
	}

	return domain.LifecycleHooks{
		OnStart: func(ctx context.Context, e *domain.RunEvent) {
			logger.InfoContext(ctx, "run started",
				"run_id", e.RunID,
				"rows", e.Rows,
				"cols", e.Cols,
				"run_duration", e.RunDuration,
			)
		},
		OnStep: func(ctx context.Context, e *domain.StepEvent) {
			logger.DebugContext(ctx, "step",
				"run_id", e.RunID,
				"step", e.Step,
				"sim_time", e.SimTime,
				"transitions", e.Transitions,
				"saprolite", e.SaproliteFraction,
				"duration", e.Duration,
			)
			if m == nil {
				return
			}
			m.Steps.Inc()
			m.Transitions.Add(float64(e.Transitions))
			m.SimulatedSeconds.Set(e.SimTime)
			m.SaproliteFraction.Set(e.SaproliteFraction)
			m.StepDuration.Observe(e.Duration.Seconds())
		},
		OnReport: func(ctx context.Context, e *domain.ReportEvent) {
			logger.DebugContext(ctx, "progress reported", "sim_time", e.SimTime, "percent", e.Percent)
			if m != nil {
				m.Reports.Inc()
			}
		},
		OnFinish: func(ctx context.Context, e *domain.RunEvent) {
			if e.Err != nil {
				logger.ErrorContext(ctx, "run failed", "run_id", e.RunID, "sim_time", e.SimTime, "error", e.Err)
				return
			}
			logger.InfoContext(ctx, "run finished", "run_id", e.RunID, "sim_time", e.SimTime)
		},
	}
}
