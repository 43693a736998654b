package diamonds

import (
	"github.com/dd0wney/cluso-beliefprop/pkg/network"
)

// Diamond is a reconvergent subgraph owned by a join node: multiple paths
// from shared fork ancestors rejoin at the join. ConditioningNodes are the
// subgraph's sources; their joint on/off state (2^c assignments) determines
// diamond behavior during belief propagation.
type Diamond struct {
	ConditioningNodes network.NodeSet
	RelevantNodes     network.NodeSet
	Edgelist          []network.Edge
}

// DiamondsAtNode groups every diamond owned by one join node, along with
// the incoming edges that no diamond swallowed.
type DiamondsAtNode struct {
	JoinNode          uint64
	Diamonds          []Diamond
	NonDiamondParents network.NodeSet
}

// DiamondComputationData is the precomputed, immutable snapshot of one
// structurally-unique diamond: its own subgraph indices and iteration sets
// plus the nested diamonds discovered inside it. Purely structural, so one
// build serves any probability assignment. Built exactly once per
// structural hash and shared read-only across every propagation that
// references it.
type DiamondComputationData struct {
	Diamond  Diamond
	JoinNode uint64
	Hash     uint64

	Subgraph    *network.ProcessedGraph
	SubDiamonds map[uint64]*DiamondsAtNode
}

// DiamondMetadata is the structure-only classification view consumed by
// presentation layers without running belief propagation.
type DiamondMetadata struct {
	JoinNode          uint64
	Hash              uint64
	ConditioningCount int
	SubgraphSize      int
	EdgeCount         int
	NestingDepth      int
}
