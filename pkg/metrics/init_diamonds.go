package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initDiamondMetrics() {
	r.DiamondStorageSize = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "beliefprop_diamond_storage_size",
			Help: "Number of structurally-unique diamonds in storage",
		},
	)

	r.DiamondBuildDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "beliefprop_diamond_build_duration_seconds",
			Help:    "Diamond storage build duration in seconds",
			Buckets: []float64{0.01, 0.1, 0.5, 1.0, 5.0, 30.0, 120.0},
		},
	)

	r.DiamondHashHitsTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "beliefprop_diamond_hash_hits_total",
			Help: "Diamond lookups resolved by an exact structural hash match",
		},
	)

	r.DiamondNearMissesTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "beliefprop_diamond_near_misses_total",
			Help: "Diamond lookups that almost matched a stored structure and were recomputed",
		},
	)

	r.ConditioningSetSize = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "beliefprop_conditioning_set_size",
			Help:    "Conditioning-node count per diamond",
			Buckets: []float64{1, 2, 4, 8, 16, 24, 32},
		},
	)

	r.LargeConditioningWarnings = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "beliefprop_large_conditioning_warnings_total",
			Help: "Diamonds whose conditioning set exceeded the warning limit",
		},
	)
}
