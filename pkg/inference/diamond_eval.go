package inference

import (
	"fmt"

	"github.com/dd0wney/cluso-beliefprop/pkg/diamonds"
)

// diamondContribution enumerates every assignment of a diamond's
// conditioning nodes to {present, absent}. For each assignment the weight
// is the product of each conditioning node's belief (present) or its
// complement (absent); the conditioned join belief comes from a cached or
// freshly-propagated run over the diamond's precomputed subgraph. The
// contribution is the weighted sum over all 2^c states.
func (e *Engine[T]) diamondContribution(beliefs map[uint64]T, join uint64, d diamonds.Diamond) (T, error) {
	var zero T

	hash := diamonds.StructuralHash(join, d.Edgelist, d.ConditioningNodes)
	dcd, ok := e.storage.Get(hash)
	if !ok {
		return zero, fmt.Errorf("%w: join %d", ErrStructureMissing, join)
	}

	cond := d.ConditioningNodes.Sorted()
	if len(cond) == 0 {
		return zero, fmt.Errorf("%w: join %d has a diamond with no conditioning nodes", ErrStructureMissing, join)
	}
	if len(cond) > 62 {
		return zero, fmt.Errorf("%w: %d conditioning nodes", ErrConditioningOverflow, len(cond))
	}

	e.stats.DiamondsEvaluated++
	if len(cond) > e.stats.MaxConditioningSize {
		e.stats.MaxConditioningSize = len(cond)
	}
	if e.registry != nil {
		e.registry.RecordConditioningSet(len(cond), len(cond) > diamonds.DefaultConditioningWarnLimit)
	}

	total := beliefs[cond[0]].Zero()
	states := uint64(1) << len(cond)
	for state := uint64(0); state < states; state++ {
		e.stats.StateEnumerations++

		weight := beliefs[cond[0]].One()
		pinned := make(map[uint64]T, len(cond))
		for i, c := range cond {
			b := beliefs[c]
			if state&(uint64(1)<<i) != 0 {
				weight = weight.Mul(b)
				pinned[c] = b.One()
			} else {
				weight = weight.Mul(b.Complement())
				pinned[c] = b.Zero()
			}
		}

		sub, err := e.diamondStateBeliefs(dcd, state, pinned)
		if err != nil {
			return zero, err
		}
		total = total.Add(weight.Mul(sub[join]))
	}

	return total, nil
}

// diamondStateBeliefs returns the diamond subgraph's belief map under one
// conditioning assignment, from cache when the (hash, state) pair was
// already propagated. The join's own prior is pinned to one inside the
// subgraph: the caller multiplies the real prior exactly once after
// combining every contribution at the join.
func (e *Engine[T]) diamondStateBeliefs(
	dcd *diamonds.DiamondComputationData,
	state uint64,
	pinned map[uint64]T,
) (map[uint64]T, error) {
	key := cacheKey{hash: dcd.Hash, state: state}
	if m, ok := e.cache.get(key); ok {
		return m, nil
	}

	// Subgraph priors always come from the engine's own prior map;
	// storage carries no probability state.
	priors := make(map[uint64]T, len(dcd.Diamond.RelevantNodes))
	for node := range dcd.Diamond.RelevantNodes {
		priors[node] = e.priors[node]
	}
	priors[dcd.JoinNode] = priors[dcd.JoinNode].One()

	m, err := e.propagate(frame[T]{
		graph:  dcd.Subgraph,
		dans:   dcd.SubDiamonds,
		priors: priors,
		pinned: pinned,
	})
	if err != nil {
		return nil, err
	}

	e.cache.put(key, m)
	return m, nil
}
