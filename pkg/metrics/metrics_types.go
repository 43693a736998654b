package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all metrics for the inference engine
type Registry struct {
	// Preprocess Metrics
	GraphNodesTotal    prometheus.Gauge
	GraphEdgesTotal    prometheus.Gauge
	IterationSetsTotal prometheus.Gauge
	PreprocessDuration prometheus.Histogram

	// Diamond Metrics
	DiamondStorageSize        prometheus.Gauge
	DiamondBuildDuration      prometheus.Histogram
	DiamondHashHitsTotal      prometheus.Counter
	DiamondNearMissesTotal    prometheus.Counter
	ConditioningSetSize       prometheus.Histogram
	LargeConditioningWarnings prometheus.Counter

	// Propagation Metrics
	PropagationsTotal      *prometheus.CounterVec
	PropagationDuration    prometheus.Histogram
	DiamondCacheHitsTotal  prometheus.Counter
	DiamondCacheMissTotal  prometheus.Counter
	StateEnumerationsTotal prometheus.Counter

	registry *prometheus.Registry
	mu       sync.RWMutex
}

var (
	// Global registry instance
	defaultRegistry *Registry
	once            sync.Once
)

// NewRegistry creates a new metrics registry with all engine metrics
// registered.
func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),
	}
	r.initPreprocessMetrics()
	r.initDiamondMetrics()
	r.initPropagationMetrics()
	return r
}

// Default returns the global registry instance.
func Default() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// Gatherer exposes the underlying prometheus registry for scraping and
// test assertions.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}
