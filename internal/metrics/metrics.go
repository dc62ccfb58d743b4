// Package metrics exposes Prometheus instrumentation for the optimizer.
// Collectors register against an injectable registerer; no exposition
// endpoint is started here.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	SolvesTotal            *prometheus.CounterVec
	SolveDuration          prometheus.Histogram
	DeadlineFallbacksTotal prometheus.Counter
	InfeasibleResultsTotal prometheus.Counter
}

func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		SolvesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "missionpack_solves_total",
			Help: "Total number of packing solves, by budget-fill strategy",
		}, []string{"strategy"}),
		SolveDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "missionpack_solve_duration_seconds",
			Help:    "Wall-clock duration of packing solves",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14),
		}),
		DeadlineFallbacksTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "missionpack_deadline_fallbacks_total",
			Help: "Total number of solves where the exact path was abandoned for the greedy heuristic due to a deadline",
		}),
		InfeasibleResultsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "missionpack_infeasible_results_total",
			Help: "Total number of solves that returned a best-effort infeasible plan",
		}),
	}
}

func (m *Metrics) ObserveSolve(strategy string, duration time.Duration) {
	m.SolvesTotal.WithLabelValues(strategy).Inc()
	m.SolveDuration.Observe(duration.Seconds())
}

func (m *Metrics) IncDeadlineFallback() {
	m.DeadlineFallbacksTotal.Inc()
}

func (m *Metrics) IncInfeasibleResult() {
	m.InfeasibleResultsTotal.Inc()
}
