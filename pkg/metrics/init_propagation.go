package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initPropagationMetrics() {
	r.PropagationsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "beliefprop_propagations_total",
			Help: "Total number of belief propagation runs",
		},
		[]string{"status"},
	)

	r.PropagationDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "beliefprop_propagation_duration_seconds",
			Help:    "Belief propagation duration in seconds",
			Buckets: []float64{0.01, 0.1, 0.5, 1.0, 5.0, 30.0, 120.0, 600.0},
		},
	)

	r.DiamondCacheHitsTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "beliefprop_diamond_cache_hits_total",
			Help: "Conditioning-state cache hits during propagation",
		},
	)

	r.DiamondCacheMissTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "beliefprop_diamond_cache_misses_total",
			Help: "Conditioning-state cache misses during propagation",
		},
	)

	r.StateEnumerationsTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "beliefprop_state_enumerations_total",
			Help: "Conditioning-state assignments enumerated across all diamonds",
		},
	)
}
