// Package metrics exposes prometheus instrumentation for benchmark
// runs: evaluation and restart counters plus the current best-fitness
// offset, labeled by function and method.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the per-run collectors.
type Metrics struct {
	Evaluations  *prometheus.CounterVec
	Restarts     *prometheus.CounterVec
	Improvements *prometheus.CounterVec
	BestOffset   *prometheus.GaugeVec
}

var runLabels = []string{"function", "method"}

// New registers the collectors with reg and returns them.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Evaluations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hyperbbob",
			Name:      "evaluations_total",
			Help:      "Objective function evaluations per run.",
		}, runLabels),
		Restarts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hyperbbob",
			Name:      "restarts_total",
			Help:      "Outer-loop restart cycles per run.",
		}, runLabels),
		Improvements: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hyperbbob",
			Name:      "improvements_total",
			Help:      "Steps on which the best-fitness offset improved.",
		}, runLabels),
		BestOffset: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "hyperbbob",
			Name:      "best_offset",
			Help:      "Current best fitness minus the known optimum.",
		}, runLabels),
	}
}
