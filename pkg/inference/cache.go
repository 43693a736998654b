package inference

import (
	"github.com/dd0wney/cluso-beliefprop/pkg/probability"
)

type cacheKey struct {
	hash  uint64
	state uint64
}

// DiamondCache memoizes diamond subgraph beliefs per conditioning-state
// assignment, keyed by (structural hash, state bit vector). Purely a
// memoization artifact: safe to drop and recompute. Scoped to one engine
// unless a caller explicitly retains it across runs on the same graph and
// parameters.
type DiamondCache[T probability.Value[T]] struct {
	entries map[cacheKey]map[uint64]T
	hits    uint64
	misses  uint64
}

// NewDiamondCache creates an empty cache.
func NewDiamondCache[T probability.Value[T]]() *DiamondCache[T] {
	return &DiamondCache[T]{
		entries: make(map[cacheKey]map[uint64]T),
	}
}

func (c *DiamondCache[T]) get(key cacheKey) (map[uint64]T, bool) {
	m, ok := c.entries[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return m, ok
}

func (c *DiamondCache[T]) put(key cacheKey, beliefs map[uint64]T) {
	c.entries[key] = beliefs
}

// Len returns the number of cached state-conditioned belief maps.
func (c *DiamondCache[T]) Len() int {
	return len(c.entries)
}

// Clear evicts every entry, keeping hit/miss counters.
func (c *DiamondCache[T]) Clear() {
	c.entries = make(map[cacheKey]map[uint64]T)
}
