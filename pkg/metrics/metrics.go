package metrics

import (
	"time"
)

// RecordPreprocess records a completed graph preprocessing pass.
func (r *Registry) RecordPreprocess(nodes, edges, iterationSets int, duration time.Duration) {
	r.GraphNodesTotal.Set(float64(nodes))
	r.GraphEdgesTotal.Set(float64(edges))
	r.IterationSetsTotal.Set(float64(iterationSets))
	r.PreprocessDuration.Observe(duration.Seconds())
}

// RecordDiamondBuild records a completed diamond storage build.
func (r *Registry) RecordDiamondBuild(storageSize, hashHits, nearMisses int, duration time.Duration) {
	r.DiamondStorageSize.Set(float64(storageSize))
	r.DiamondBuildDuration.Observe(duration.Seconds())
	r.DiamondHashHitsTotal.Add(float64(hashHits))
	r.DiamondNearMissesTotal.Add(float64(nearMisses))
}

// RecordConditioningSet records one diamond's conditioning-set size and
// whether it tripped the performance warning.
func (r *Registry) RecordConditioningSet(size int, warned bool) {
	r.ConditioningSetSize.Observe(float64(size))
	if warned {
		r.LargeConditioningWarnings.Inc()
	}
}

// RecordPropagation records a belief propagation run.
func (r *Registry) RecordPropagation(status string, duration time.Duration, cacheHits, cacheMisses, enumerations uint64) {
	r.PropagationsTotal.WithLabelValues(status).Inc()
	r.PropagationDuration.Observe(duration.Seconds())
	r.DiamondCacheHitsTotal.Add(float64(cacheHits))
	r.DiamondCacheMissTotal.Add(float64(cacheMisses))
	r.StateEnumerationsTotal.Add(float64(enumerations))
}
