package diamonds

import (
	"sort"
	"sync"

	"github.com/dd0wney/cluso-beliefprop/pkg/network"
	"github.com/dd0wney/cluso-beliefprop/pkg/parallel"
)

// BuildUniqueDiamondStorageParallel is the level-parallel variant of
// BuildUniqueDiamondStorage. Iteration levels run strictly sequentially
// (later levels reuse the lookup table earlier levels filled), but within a
// level independent diamond subtrees are statically partitioned across a
// worker pool. Each worker drains its own stack against a snapshot copy of
// the lookup table, with no locking on the hot path, and results merge
// into the shared table under one mutex at the end of the level.
func BuildUniqueDiamondStorageParallel(
	g *network.ProcessedGraph,
	roots map[uint64]*DiamondsAtNode,
	ctx *BuildContext,
	workers int,
) (*DiamondStorage, error) {
	if workers <= 1 {
		return BuildUniqueDiamondStorage(g, roots, ctx)
	}
	if ctx == nil {
		ctx = NewBuildContext()
	}

	pool, err := parallel.NewWorkerPool(workers)
	if err != nil {
		return nil, err
	}
	defer pool.Close()

	storage := NewDiamondStorage()
	storage.Roots = roots

	for _, items := range rootsByLevel(g, roots) {
		snapshot := storage.snapshotTable()

		var (
			mergeMu  sync.Mutex
			locals   []*DiamondStorage
			firstErr error
		)

		pool.RunLevel(len(items), func(start, end int) {
			local := storageFromSnapshot(snapshot)
			wctx := ctx.child()

			stack := make([]workItem, 0, end-start)
			for i := end - 1; i >= start; i-- {
				stack = append(stack, items[i])
			}
			workerErr := drainStack(stack, local, wctx)

			mergeMu.Lock()
			if workerErr != nil && firstErr == nil {
				firstErr = workerErr
			}
			locals = append(locals, local)
			mergeMu.Unlock()
		})

		if firstErr != nil {
			return nil, firstErr
		}

		storage.mu.Lock()
		for _, local := range locals {
			for _, dcd := range local.table {
				storage.insert(dcd)
			}
			storage.Stats.Computed += local.Stats.Computed
			storage.Stats.HashHits += local.Stats.HashHits
			storage.Stats.NearMisses += local.Stats.NearMisses
		}
		storage.mu.Unlock()
	}

	return storage, nil
}

// rootsByLevel groups root diamonds by their join node's iteration level,
// ascending, with deterministic order inside each level.
func rootsByLevel(g *network.ProcessedGraph, roots map[uint64]*DiamondsAtNode) [][]workItem {
	byLevel := make(map[int][]workItem)
	for join, dan := range roots {
		level := g.IterationIndex[join]
		for _, d := range dan.Diamonds {
			byLevel[level] = append(byLevel[level], workItem{join: join, diamond: d})
		}
	}

	levels := make([]int, 0, len(byLevel))
	for level := range byLevel {
		levels = append(levels, level)
	}
	sort.Ints(levels)

	out := make([][]workItem, 0, len(levels))
	for _, level := range levels {
		items := byLevel[level]
		sort.Slice(items, func(i, j int) bool {
			if items[i].join != items[j].join {
				return items[i].join < items[j].join
			}
			return len(items[i].diamond.Edgelist) < len(items[j].diamond.Edgelist)
		})
		out = append(out, items)
	}
	return out
}

// snapshotTable copies the current lookup table. Entries are immutable, so
// a shallow copy is safe to hand to workers.
func (s *DiamondStorage) snapshotTable() map[uint64]*DiamondComputationData {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := make(map[uint64]*DiamondComputationData, len(s.table))
	for h, dcd := range s.table {
		snap[h] = dcd
	}
	return snap
}

// storageFromSnapshot builds a worker-private storage seeded with the
// shared table's snapshot.
func storageFromSnapshot(snapshot map[uint64]*DiamondComputationData) *DiamondStorage {
	local := NewDiamondStorage()
	for _, dcd := range snapshot {
		local.insert(dcd)
	}
	return local
}
