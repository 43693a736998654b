package diamonds

import "sort"

// ClassifyDiamonds returns the structure-only metadata view of every
// unique diamond in storage: join node, conditioning size, subgraph size,
// and nesting depth. Presentation layers consume this without running
// belief propagation.
func ClassifyDiamonds(storage *DiamondStorage) []DiamondMetadata {
	depthMemo := make(map[uint64]int, storage.Len())
	visiting := make(map[uint64]bool)

	var nestingDepth func(hash uint64) int
	nestingDepth = func(hash uint64) int {
		if d, ok := depthMemo[hash]; ok {
			return d
		}
		if visiting[hash] {
			return 0
		}
		visiting[hash] = true
		defer delete(visiting, hash)

		dcd := storage.table[hash]
		deepest := 0
		for _, dan := range dcd.SubDiamonds {
			for _, nested := range dan.Diamonds {
				nh := StructuralHash(dan.JoinNode, nested.Edgelist, nested.ConditioningNodes)
				if nh == hash {
					continue
				}
				if _, ok := storage.table[nh]; !ok {
					continue
				}
				if d := nestingDepth(nh); d > deepest {
					deepest = d
				}
			}
		}
		depthMemo[hash] = 1 + deepest
		return 1 + deepest
	}

	out := make([]DiamondMetadata, 0, storage.Len())
	for _, hash := range storage.Hashes() {
		dcd := storage.table[hash]
		out = append(out, DiamondMetadata{
			JoinNode:          dcd.JoinNode,
			Hash:              hash,
			ConditioningCount: len(dcd.Diamond.ConditioningNodes),
			SubgraphSize:      len(dcd.Diamond.RelevantNodes),
			EdgeCount:         len(dcd.Diamond.Edgelist),
			NestingDepth:      nestingDepth(hash),
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].JoinNode != out[j].JoinNode {
			return out[i].JoinNode < out[j].JoinNode
		}
		return out[i].Hash < out[j].Hash
	})
	return out
}
