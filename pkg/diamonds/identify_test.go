package diamonds

import (
	"testing"

	"github.com/dd0wney/cluso-beliefprop/pkg/network"
)

func mustProcess(t *testing.T, edges []network.Edge) *network.ProcessedGraph {
	t.Helper()
	g, err := network.ProcessGraph(edges)
	if err != nil {
		t.Fatalf("ProcessGraph failed: %v", err)
	}
	return g
}

// TestIdentify_SimpleDiamond tests the canonical diamond 1 -> {2,3} -> 4
func TestIdentify_SimpleDiamond(t *testing.T) {
	g := mustProcess(t, []network.Edge{{From: 1, To: 2}, {From: 1, To: 3}, {From: 2, To: 4}, {From: 3, To: 4}})

	result := IdentifyAndGroupDiamonds(g, nil, nil)

	dan, ok := result[4]
	if !ok {
		t.Fatal("expected a diamond at join 4")
	}
	if len(dan.Diamonds) != 1 {
		t.Fatalf("expected 1 diamond, got %d", len(dan.Diamonds))
	}

	d := dan.Diamonds[0]
	if !d.ConditioningNodes.Equal(network.NewNodeSet(1)) {
		t.Errorf("conditioning = %v, want {1}", d.ConditioningNodes.Sorted())
	}
	if !d.RelevantNodes.Equal(network.NewNodeSet(1, 2, 3, 4)) {
		t.Errorf("relevant = %v, want {1,2,3,4}", d.RelevantNodes.Sorted())
	}
	if len(d.Edgelist) != 4 {
		t.Errorf("edgelist has %d edges, want 4", len(d.Edgelist))
	}
	if len(dan.NonDiamondParents) != 0 {
		t.Errorf("non-diamond parents = %v, want none", dan.NonDiamondParents.Sorted())
	}
}

// TestIdentify_IndependentParentsNoDiamond tests a join whose parents
// share no fork ancestor
func TestIdentify_IndependentParentsNoDiamond(t *testing.T) {
	// Two separate sources feeding one join
	g := mustProcess(t, []network.Edge{{From: 1, To: 3}, {From: 2, To: 3}})

	result := IdentifyAndGroupDiamonds(g, nil, nil)
	if _, ok := result[3]; ok {
		t.Error("join 3 with independent parents must not own a diamond")
	}
}

// TestIdentify_NonDiamondParent tests a join with one diamond and one
// independent extra parent
func TestIdentify_NonDiamondParent(t *testing.T) {
	edges := []network.Edge{
		{From: 1, To: 2}, {From: 1, To: 3}, {From: 2, To: 4}, {From: 3, To: 4},
		{From: 5, To: 4}, // independent source feeding the join directly
	}
	g := mustProcess(t, edges)

	result := IdentifyAndGroupDiamonds(g, nil, nil)
	dan, ok := result[4]
	if !ok {
		t.Fatal("expected a diamond at join 4")
	}
	if len(dan.Diamonds) != 1 {
		t.Fatalf("expected 1 diamond, got %d", len(dan.Diamonds))
	}
	if !dan.NonDiamondParents.Equal(network.NewNodeSet(5)) {
		t.Errorf("non-diamond parents = %v, want {5}", dan.NonDiamondParents.Sorted())
	}
	if dan.Diamonds[0].RelevantNodes.Has(5) {
		t.Error("independent parent 5 must not join the diamond")
	}
}

// TestIdentify_IntermediateIncomingEdge tests that an intermediate node's
// off-path incoming edge gets pulled into the diamond with its source
func TestIdentify_IntermediateIncomingEdge(t *testing.T) {
	edges := []network.Edge{
		{From: 1, To: 2}, {From: 1, To: 3}, {From: 2, To: 4}, {From: 3, To: 4},
		{From: 5, To: 2}, // off-path edge into intermediate node 2
	}
	g := mustProcess(t, edges)

	result := IdentifyAndGroupDiamonds(g, nil, nil)
	dan, ok := result[4]
	if !ok {
		t.Fatal("expected a diamond at join 4")
	}
	d := dan.Diamonds[0]

	if !d.RelevantNodes.Has(5) {
		t.Error("source-side node 5 of the intermediate edge must be re-included")
	}
	if !diamondHasEdge(d, 5, 2) {
		t.Error("edge (5,2) must be re-added to the diamond edgelist")
	}
	if !d.ConditioningNodes.Has(5) {
		t.Errorf("node 5 should become a conditioning node, got %v", d.ConditioningNodes.Sorted())
	}
}

// TestIdentify_SubsourceExpansion tests that diamond sources sharing an
// earlier fork ancestor are replaced by it
func TestIdentify_SubsourceExpansion(t *testing.T) {
	// 0-level fork 1 feeds 2 and 3; both feed intermediates of the diamond
	// at 6, so the true conditioning root is 1.
	edges := []network.Edge{
		{From: 1, To: 2}, {From: 1, To: 3},
		{From: 2, To: 4}, {From: 3, To: 5},
		{From: 4, To: 6}, {From: 5, To: 6},
		{From: 2, To: 5}, // makes 2 and 3 shared ancestors through 5
	}
	g := mustProcess(t, edges)

	result := IdentifyAndGroupDiamonds(g, nil, nil)
	dan, ok := result[6]
	if !ok {
		t.Fatal("expected a diamond at join 6")
	}
	d := dan.Diamonds[0]

	if !d.RelevantNodes.Has(1) {
		t.Errorf("diamond must expand to the shared ancestor 1, relevant = %v", d.RelevantNodes.Sorted())
	}
	if !d.ConditioningNodes.Equal(network.NewNodeSet(1)) {
		t.Errorf("conditioning = %v, want {1}", d.ConditioningNodes.Sorted())
	}
}

// TestIdentify_CompletenessFixedPoint tests that identification run on a
// finished diamond's own subgraph finds nothing new at the join
func TestIdentify_CompletenessFixedPoint(t *testing.T) {
	edges := []network.Edge{
		{From: 1, To: 2}, {From: 1, To: 3}, {From: 2, To: 4}, {From: 3, To: 4},
		{From: 2, To: 5}, {From: 4, To: 5},
	}
	g := mustProcess(t, edges)

	result := IdentifyAndGroupDiamonds(g, nil, nil)
	for join, dan := range result {
		for _, d := range dan.Diamonds {
			sub, err := network.ProcessGraph(d.Edgelist, network.WithNodes(d.RelevantNodes.Sorted()))
			if err != nil {
				t.Fatalf("diamond subgraph at join %d invalid: %v", join, err)
			}

			nested := IdentifyAndGroupDiamonds(sub, d.ConditioningNodes, nil)
			parentHash := StructuralHash(join, d.Edgelist, d.ConditioningNodes)
			if ndan, ok := nested[join]; ok {
				for _, nd := range ndan.Diamonds {
					nh := StructuralHash(join, nd.Edgelist, nd.ConditioningNodes)
					if nh == parentHash {
						continue // rediscovering itself is the fixed point
					}
					if len(nd.RelevantNodes) >= len(d.RelevantNodes) {
						t.Errorf("join %d: nested diamond is not strictly smaller", join)
					}
				}
			}
		}
	}
}

// TestIdentify_JoinOrderIndependentOfCorrectness tests two disjoint
// diamonds at one join stay separate
func TestIdentify_TwoDisjointDiamonds(t *testing.T) {
	edges := []network.Edge{
		{From: 1, To: 2}, {From: 1, To: 3}, {From: 2, To: 6}, {From: 3, To: 6},
		{From: 4, To: 7}, {From: 4, To: 8}, {From: 7, To: 6}, {From: 8, To: 6},
	}
	g := mustProcess(t, edges)

	result := IdentifyAndGroupDiamonds(g, nil, nil)
	dan, ok := result[6]
	if !ok {
		t.Fatal("expected diamonds at join 6")
	}
	if len(dan.Diamonds) != 2 {
		t.Fatalf("expected 2 disjoint diamonds, got %d", len(dan.Diamonds))
	}

	for _, d := range dan.Diamonds {
		if len(d.ConditioningNodes) != 1 {
			t.Errorf("each diamond should condition on its own fork, got %v", d.ConditioningNodes.Sorted())
		}
	}
}
