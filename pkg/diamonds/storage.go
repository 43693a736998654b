package diamonds

import (
	"fmt"
	"sort"
	"sync"

	"github.com/dd0wney/cluso-beliefprop/pkg/logging"
	"github.com/dd0wney/cluso-beliefprop/pkg/network"
)

// shapeKey is the cheap pre-key for the hybrid lookup: diamonds that agree
// on it but differ in structural hash are near misses worth counting.
type shapeKey struct {
	joinNode     uint64
	edgeCount    int
	conditioning int
}

// BuildStats counts the work the storage builder did. Near misses are
// diamonds the hybrid lookup almost matched; they are recomputed in full,
// so the counter is purely observational.
type BuildStats struct {
	Computed   int
	HashHits   int
	NearMisses int
}

// DiamondStorage is the hash-indexed table of precomputed diamond
// structures, plus the root DiamondsAtNode grouping per top-level join.
// Entries are immutable once inserted and safely shared across threads;
// the mutex only guards insertion during parallel building.
type DiamondStorage struct {
	mu      sync.Mutex
	table   map[uint64]*DiamondComputationData
	byShape map[shapeKey][]uint64
	Roots   map[uint64]*DiamondsAtNode
	Stats   BuildStats
}

// NewDiamondStorage creates an empty storage table.
func NewDiamondStorage() *DiamondStorage {
	return &DiamondStorage{
		table:   make(map[uint64]*DiamondComputationData),
		byShape: make(map[shapeKey][]uint64),
		Roots:   make(map[uint64]*DiamondsAtNode),
	}
}

// Get returns the computed structure for a structural hash.
func (s *DiamondStorage) Get(hash uint64) (*DiamondComputationData, bool) {
	dcd, ok := s.table[hash]
	return dcd, ok
}

// Len returns the number of unique diamond structures stored.
func (s *DiamondStorage) Len() int {
	return len(s.table)
}

// Hashes returns every stored structural hash in ascending order.
func (s *DiamondStorage) Hashes() []uint64 {
	out := make([]uint64, 0, len(s.table))
	for h := range s.table {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (s *DiamondStorage) insert(dcd *DiamondComputationData) {
	if _, ok := s.table[dcd.Hash]; ok {
		return
	}
	s.table[dcd.Hash] = dcd
	key := shapeKey{
		joinNode:     dcd.JoinNode,
		edgeCount:    len(dcd.Diamond.Edgelist),
		conditioning: len(dcd.Diamond.ConditioningNodes),
	}
	s.byShape[key] = append(s.byShape[key], dcd.Hash)
}

// hybridLookup checks whether an equivalent structure already exists. An
// exact hash match is a hit. A shape match with a different hash is a near
// miss: counted, then recomputed in full, so the heuristic can only change
// speed, never output.
func (s *DiamondStorage) hybridLookup(hash uint64, join uint64, d Diamond) (*DiamondComputationData, bool) {
	if dcd, ok := s.table[hash]; ok {
		s.Stats.HashHits++
		return dcd, true
	}
	key := shapeKey{joinNode: join, edgeCount: len(d.Edgelist), conditioning: len(d.ConditioningNodes)}
	if len(s.byShape[key]) > 0 {
		s.Stats.NearMisses++
	}
	return nil, false
}

type workItem struct {
	join    uint64
	diamond Diamond
}

// BuildUniqueDiamondStorage converts the discovered diamond forest into
// DiamondComputationData, exactly once per structurally-unique diamond.
// An explicit LIFO stack is seeded with the root diamonds in increasing
// join iteration order; nested diamonds discovered inside a subgraph are
// pushed back for processing.
func BuildUniqueDiamondStorage(
	g *network.ProcessedGraph,
	roots map[uint64]*DiamondsAtNode,
	ctx *BuildContext,
) (*DiamondStorage, error) {
	if ctx == nil {
		ctx = NewBuildContext()
	}

	storage := NewDiamondStorage()
	storage.Roots = roots

	stack := seedStack(g, roots)
	if err := drainStack(stack, storage, ctx); err != nil {
		return nil, err
	}

	ctx.logger.Info("diamond storage built",
		logging.DiamondCount(storage.Len()),
		logging.Int("hash_hits", storage.Stats.HashHits),
		logging.Int("near_misses", storage.Stats.NearMisses))
	return storage, nil
}

// seedStack orders root diamonds so that the lowest iteration level pops
// first. Processing order affects lookup-table reuse, not correctness.
func seedStack(g *network.ProcessedGraph, roots map[uint64]*DiamondsAtNode) []workItem {
	joins := make([]uint64, 0, len(roots))
	for join := range roots {
		joins = append(joins, join)
	}
	sort.Slice(joins, func(i, j int) bool {
		li, lj := g.IterationIndex[joins[i]], g.IterationIndex[joins[j]]
		if li != lj {
			return li > lj
		}
		return joins[i] > joins[j]
	})

	stack := make([]workItem, 0, len(joins))
	for _, join := range joins {
		dan := roots[join]
		for di := len(dan.Diamonds) - 1; di >= 0; di-- {
			stack = append(stack, workItem{join: join, diamond: dan.Diamonds[di]})
		}
	}
	return stack
}

// drainStack pops diamonds, computes the ones the lookup table has not
// seen, and pushes newly discovered nested diamonds.
func drainStack(stack []workItem, storage *DiamondStorage, ctx *BuildContext) error {
	for len(stack) > 0 {
		w := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		hash := StructuralHash(w.join, w.diamond.Edgelist, w.diamond.ConditioningNodes)
		if _, ok := storage.hybridLookup(hash, w.join, w.diamond); ok {
			continue
		}

		dcd, err := computeDiamondData(w.join, w.diamond, hash, ctx)
		if err != nil {
			return err
		}
		storage.insert(dcd)
		storage.Stats.Computed++

		for _, dan := range dcd.SubDiamonds {
			for _, nested := range dan.Diamonds {
				stack = append(stack, workItem{join: dan.JoinNode, diamond: nested})
			}
		}
	}
	return nil
}

// dropSelfNested removes a nested diamond at the parent's own join that is
// structurally identical to the parent. A diamond's internal subgraph never
// contains itself: the rediscovered structure's conditioning is already
// pinned by the enclosing enumeration, so its parents fall back to plain
// inclusion-exclusion.
func dropSelfNested(join uint64, parentHash uint64, sub *network.ProcessedGraph, nested map[uint64]*DiamondsAtNode) {
	dan, ok := nested[join]
	if !ok {
		return
	}

	kept := make([]Diamond, 0, len(dan.Diamonds))
	for _, nd := range dan.Diamonds {
		if StructuralHash(join, nd.Edgelist, nd.ConditioningNodes) != parentHash {
			kept = append(kept, nd)
		}
	}
	if len(kept) == len(dan.Diamonds) {
		return
	}
	if len(kept) == 0 {
		delete(nested, join)
		return
	}

	nonDiamond := make(network.NodeSet)
	for _, p := range sub.Incoming[join] {
		swallowed := false
		for ki := range kept {
			if diamondHasEdge(kept[ki], p, join) {
				swallowed = true
				break
			}
		}
		if !swallowed {
			nonDiamond.Add(p)
		}
	}
	dan.Diamonds = kept
	dan.NonDiamondParents = nonDiamond
}

// computeDiamondData snapshots one diamond's subgraph: its own adjacency
// and iteration sets, and the nested diamonds found by re-running
// identification inside the subgraph with the conditioning nodes excluded
// from fork candidacy.
func computeDiamondData(join uint64, d Diamond, hash uint64, ctx *BuildContext) (*DiamondComputationData, error) {
	sub, err := network.ProcessGraph(d.Edgelist, network.WithNodes(d.RelevantNodes.Sorted()))
	if err != nil {
		return nil, fmt.Errorf("diamond at join %d: %w", join, err)
	}

	nested := IdentifyAndGroupDiamonds(sub, d.ConditioningNodes, ctx)
	dropSelfNested(join, hash, sub, nested)

	return &DiamondComputationData{
		Diamond:     d,
		JoinNode:    join,
		Hash:        hash,
		Subgraph:    sub,
		SubDiamonds: nested,
	}, nil
}
