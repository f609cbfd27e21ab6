package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics holds the simulation collectors.
type Metrics struct {
	Registry *prometheus.Registry

	Steps             prometheus.Counter
	Transitions       prometheus.Counter
	Reports           prometheus.Counter
	SimulatedSeconds  prometheus.Gauge
	SaproliteFraction prometheus.Gauge
	StepDuration      prometheus.Histogram
}

// NewMetrics creates the collectors and registers them on a fresh registry.
// Go runtime and process collectors are registered alongside them.
func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		Steps: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "regolith_steps_total",
			Help: "Total number of plot-interval steps completed",
		}),
		Transitions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "regolith_transitions_total",
			Help: "Total number of link transitions fired by the engine",
		}),
		Reports: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "regolith_reports_total",
			Help: "Total number of progress reports printed",
		}),
		SimulatedSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "regolith_simulated_seconds",
			Help: "Current simulated time",
		}),
		SaproliteFraction: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "regolith_saprolite_fraction",
			Help: "Fraction of grid nodes in the saprolite state",
		}),
		StepDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "regolith_step_duration_seconds",
			Help:    "Wall-clock duration of a single step",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 14),
		}),
	}

	m.Registry.MustRegister(
		m.Steps,
		m.Transitions,
		m.Reports,
		m.SimulatedSeconds,
		m.SaproliteFraction,
		m.StepDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}
