package inference

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dd0wney/cluso-beliefprop/pkg/diamonds"
	"github.com/dd0wney/cluso-beliefprop/pkg/logging"
	"github.com/dd0wney/cluso-beliefprop/pkg/metrics"
	"github.com/dd0wney/cluso-beliefprop/pkg/network"
	"github.com/dd0wney/cluso-beliefprop/pkg/probability"
	"github.com/dd0wney/cluso-beliefprop/pkg/validation"
)

var (
	// ErrStructureMissing means a diamond referenced during propagation has
	// no entry in storage. Indicates storage built from a different graph.
	ErrStructureMissing = errors.New("diamond structure not in storage")

	// ErrConditioningOverflow means a conditioning set exceeds the number
	// of addressable state bits.
	ErrConditioningOverflow = errors.New("conditioning set exceeds addressable states")
)

// Engine computes exact per-node reachability beliefs over a preprocessed
// DAG. Single-threaded per invocation. Independent engines may run
// concurrently over the same graph and storage, since both are immutable;
// only the cache is private mutable state. Storage is purely structural,
// so engines with different priors or edge probabilities can share it.
type Engine[T probability.Value[T]] struct {
	graph     *network.ProcessedGraph
	storage   *diamonds.DiamondStorage
	priors    map[uint64]T
	edgeProbs map[network.Edge]T
	cache     *DiamondCache[T]
	logger    logging.Logger
	registry  *metrics.Registry
	stats     Stats
}

// Option configures an Engine.
type Option[T probability.Value[T]] func(*Engine[T])

// WithLogger attaches a structured logger.
func WithLogger[T probability.Value[T]](l logging.Logger) Option[T] {
	return func(e *Engine[T]) { e.logger = l }
}

// WithMetrics attaches a metrics registry.
func WithMetrics[T probability.Value[T]](r *metrics.Registry) Option[T] {
	return func(e *Engine[T]) { e.registry = r }
}

// WithRetainedCache reuses a cache from a previous run. Only valid when
// graph, storage, priors, and edge probabilities are all unchanged; stale
// caches under different parameters produce wrong results.
func WithRetainedCache[T probability.Value[T]](c *DiamondCache[T]) Option[T] {
	return func(e *Engine[T]) { e.cache = c }
}

// New creates an engine over an immutable preprocessed graph, its diamond
// storage, and the effective probability maps (overrides already resolved).
func New[T probability.Value[T]](
	g *network.ProcessedGraph,
	storage *diamonds.DiamondStorage,
	priors map[uint64]T,
	edgeProbs map[network.Edge]T,
	opts ...Option[T],
) *Engine[T] {
	e := &Engine[T]{
		graph:     g,
		storage:   storage,
		priors:    priors,
		edgeProbs: edgeProbs,
		logger:    logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.cache == nil {
		e.cache = NewDiamondCache[T]()
	}
	return e
}

// Stats returns the statistics of the most recent run.
func (e *Engine[T]) Stats() Stats {
	return e.stats
}

// frame is one propagation scope: the top-level graph, or a diamond
// subgraph with conditioning nodes pinned.
type frame[T probability.Value[T]] struct {
	graph  *network.ProcessedGraph
	dans   map[uint64]*diamonds.DiamondsAtNode
	priors map[uint64]T
	pinned map[uint64]T
}

// UpdateBeliefsIterative validates inputs, then walks the iteration sets
// in order computing the exact marginal belief of every node. The returned
// map covers every node exactly once; no partial results are exposed on
// error. Cancellation is cooperative at iteration-set boundaries only.
func (e *Engine[T]) UpdateBeliefsIterative(ctx context.Context) (map[uint64]T, error) {
	start := time.Now()
	e.stats = newStats()
	e.cache.hits, e.cache.misses = 0, 0

	if err := validation.ValidateInputs(e.graph, e.priors, e.edgeProbs); err != nil {
		e.recordRun("invalid", start)
		return nil, err
	}

	e.logger.Info("belief propagation started",
		logging.String("run_id", e.stats.RunID),
		logging.NodeCount(len(e.graph.Nodes)),
		logging.DiamondCount(e.storage.Len()))

	top := frame[T]{
		graph:  e.graph,
		dans:   e.storage.Roots,
		priors: e.priors,
	}

	beliefs := make(map[uint64]T, len(e.graph.Nodes))
	for _, level := range e.graph.IterationSets {
		select {
		case <-ctx.Done():
			e.recordRun("cancelled", start)
			return nil, ctx.Err()
		default:
		}

		for _, node := range level {
			b, err := e.nodeBelief(top, beliefs, node)
			if err != nil {
				e.recordRun("error", start)
				return nil, err
			}
			beliefs[node] = b
		}
	}

	e.stats.Duration = time.Since(start)
	e.stats.CacheHits = e.cache.hits
	e.stats.CacheMisses = e.cache.misses
	e.recordRun("ok", start)

	e.logger.Info("belief propagation finished",
		logging.String("run_id", e.stats.RunID),
		logging.Duration("duration", e.stats.Duration),
		logging.Uint64("cache_hits", e.stats.CacheHits),
		logging.Uint64("cache_misses", e.stats.CacheMisses))

	return beliefs, nil
}

// propagate runs the same iteration-set walk inside a diamond subgraph.
// Pinned nodes (the conditioning assignment) keep their pinned belief.
func (e *Engine[T]) propagate(f frame[T]) (map[uint64]T, error) {
	beliefs := make(map[uint64]T, len(f.graph.Nodes))
	for _, level := range f.graph.IterationSets {
		for _, node := range level {
			if pinnedBelief, ok := f.pinned[node]; ok {
				beliefs[node] = pinnedBelief
				continue
			}
			b, err := e.nodeBelief(f, beliefs, node)
			if err != nil {
				return nil, err
			}
			beliefs[node] = b
		}
	}
	return beliefs, nil
}

// nodeBelief computes one node's belief from its resolved predecessors:
// sources take their prior verbatim; diamond joins combine conditioning
// enumerations and non-diamond parents by inclusion-exclusion; everything
// else combines each inbound edge's predecessor belief times the edge
// probability.
func (e *Engine[T]) nodeBelief(f frame[T], beliefs map[uint64]T, node uint64) (T, error) {
	prior := f.priors[node]
	preds := f.graph.Incoming[node]
	if len(preds) == 0 {
		return prior, nil
	}

	var contributions []T
	if dan, ok := f.dans[node]; ok {
		for di := range dan.Diamonds {
			c, err := e.diamondContribution(beliefs, dan.JoinNode, dan.Diamonds[di])
			if err != nil {
				return prior, err
			}
			contributions = append(contributions, c)
		}
		for _, p := range dan.NonDiamondParents.Sorted() {
			c, err := e.edgeContribution(beliefs, p, node)
			if err != nil {
				return prior, err
			}
			contributions = append(contributions, c)
		}
	} else {
		for _, p := range preds {
			c, err := e.edgeContribution(beliefs, p, node)
			if err != nil {
				return prior, err
			}
			contributions = append(contributions, c)
		}
	}

	if len(contributions) == 0 {
		return prior, nil
	}
	return prior.Mul(probability.InclusionExclusion(contributions)), nil
}

func (e *Engine[T]) edgeContribution(beliefs map[uint64]T, from, to uint64) (T, error) {
	p, ok := e.edgeProbs[network.Edge{From: from, To: to}]
	if !ok {
		// ValidateInputs covers the top-level graph; this guards subgraph
		// edges against storage built from different input.
		var zero T
		return zero, fmt.Errorf("edge (%d,%d): probability missing during propagation", from, to)
	}
	return beliefs[from].Mul(p), nil
}

func (e *Engine[T]) recordRun(status string, start time.Time) {
	if e.registry == nil {
		return
	}
	e.registry.RecordPropagation(status, time.Since(start), e.cache.hits, e.cache.misses, e.stats.StateEnumerations)
}
