package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initPreprocessMetrics() {
	r.GraphNodesTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "beliefprop_graph_nodes_total",
			Help: "Number of nodes in the preprocessed graph",
		},
	)

	r.GraphEdgesTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "beliefprop_graph_edges_total",
			Help: "Number of edges in the preprocessed graph",
		},
	)

	r.IterationSetsTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "beliefprop_iteration_sets_total",
			Help: "Number of topological iteration sets",
		},
	)

	r.PreprocessDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "beliefprop_preprocess_duration_seconds",
			Help:    "Graph preprocessing duration in seconds",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1.0, 5.0, 30.0},
		},
	)
}
