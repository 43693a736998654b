package diamonds

import (
	"github.com/dd0wney/cluso-beliefprop/pkg/logging"
	"github.com/dd0wney/cluso-beliefprop/pkg/network"
)

// DefaultClearInterval is how many processed diamonds pass between cache
// clears. A tuning parameter: bounds peak memory on graphs with thousands
// of diamonds, never affects results.
const DefaultClearInterval = 512

// DefaultConditioningWarnLimit is the conditioning-set size beyond which
// 2^c enumeration is flagged as a performance concern. The result is still
// exact, just slow.
const DefaultConditioningWarnLimit = 24

type relevantKey struct {
	fork uint64
	join uint64
}

// BuildContext carries the memoization state and tuning knobs for diamond
// identification and storage building. It replaces ambient global caches:
// every worker in the parallel builder owns a distinct context, so no
// locking happens on the hot path.
type BuildContext struct {
	relevantMemo  map[relevantKey]network.NodeSet
	processed     int
	clearInterval int
	warnLimit     int
	logger        logging.Logger
}

// BuildOption configures a BuildContext.
type BuildOption func(*BuildContext)

// WithClearInterval overrides the cache clearing cadence.
func WithClearInterval(n int) BuildOption {
	return func(c *BuildContext) {
		if n > 0 {
			c.clearInterval = n
		}
	}
}

// WithConditioningWarnLimit overrides the conditioning-set warning bound.
func WithConditioningWarnLimit(n int) BuildOption {
	return func(c *BuildContext) {
		if n > 0 {
			c.warnLimit = n
		}
	}
}

// WithLogger attaches a structured logger for performance warnings and
// build progress.
func WithLogger(l logging.Logger) BuildOption {
	return func(c *BuildContext) { c.logger = l }
}

// NewBuildContext creates an empty context with default tuning.
func NewBuildContext(opts ...BuildOption) *BuildContext {
	c := &BuildContext{
		relevantMemo:  make(map[relevantKey]network.NodeSet),
		clearInterval: DefaultClearInterval,
		warnLimit:     DefaultConditioningWarnLimit,
		logger:        logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// child creates a context sharing tuning and logger but with fresh memos,
// for workers in the parallel builder.
func (c *BuildContext) child() *BuildContext {
	return &BuildContext{
		relevantMemo:  make(map[relevantKey]network.NodeSet),
		clearInterval: c.clearInterval,
		warnLimit:     c.warnLimit,
		logger:        c.logger,
	}
}

// relevantNodes returns the nodes on some path from fork f to join j:
// ({f} ∪ descendants(f)) ∩ (ancestors(j) ∪ {j}). Memoized per (f, j) pair;
// this intersection dominates identification cost on dense graphs.
func (c *BuildContext) relevantNodes(g *network.ProcessedGraph, fork, join uint64) network.NodeSet {
	key := relevantKey{fork: fork, join: join}
	if cached, ok := c.relevantMemo[key]; ok {
		return cached
	}

	reach := g.Descendants[fork].Clone()
	reach.Add(fork)
	upstream := g.Ancestors[join].Clone()
	upstream.Add(join)

	relevant := reach.Intersect(upstream)
	c.relevantMemo[key] = relevant
	return relevant
}

// noteProcessed bumps the processed-diamond counter and clears the memos
// once per clearInterval diamonds.
func (c *BuildContext) noteProcessed() {
	c.processed++
	if c.processed%c.clearInterval == 0 {
		c.relevantMemo = make(map[relevantKey]network.NodeSet)
		c.logger.Debug("cleared diamond build memos",
			logging.Int("processed", c.processed))
	}
}

// warnIfLargeConditioning logs when a diamond's conditioning set makes 2^c
// enumeration expensive. Non-fatal: results stay exact.
func (c *BuildContext) warnIfLargeConditioning(joinNode uint64, conditioning int) {
	if conditioning > c.warnLimit {
		c.logger.Warn("large diamond conditioning set, enumeration will be slow",
			logging.Uint64("join_node", joinNode),
			logging.Int("conditioning_nodes", conditioning),
			logging.Int("warn_limit", c.warnLimit))
	}
}
