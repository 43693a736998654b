package network

import (
	"errors"
	"testing"
)

// TestProcessGraph_LinearChain tests preprocessing of 1 -> 2 -> 3
func TestProcessGraph_LinearChain(t *testing.T) {
	g, err := ProcessGraph([]Edge{{1, 2}, {2, 3}})
	if err != nil {
		t.Fatalf("ProcessGraph failed: %v", err)
	}

	if len(g.IterationSets) != 3 {
		t.Fatalf("expected 3 iteration sets, got %d", len(g.IterationSets))
	}
	for i, want := range []uint64{1, 2, 3} {
		if len(g.IterationSets[i]) != 1 || g.IterationSets[i][0] != want {
			t.Errorf("iteration set %d = %v, want [%d]", i, g.IterationSets[i], want)
		}
	}

	if !g.SourceNodes.Has(1) || g.SourceNodes.Has(2) || g.SourceNodes.Has(3) {
		t.Errorf("sources = %v, want {1}", g.SourceNodes.Sorted())
	}
	if len(g.ForkNodes) != 0 || len(g.JoinNodes) != 0 {
		t.Errorf("chain should have no forks or joins")
	}
}

// TestProcessGraph_DiamondClassification tests fork/join classification on
// the canonical diamond 1 -> {2,3} -> 4
func TestProcessGraph_DiamondClassification(t *testing.T) {
	g, err := ProcessGraph([]Edge{{1, 2}, {1, 3}, {2, 4}, {3, 4}})
	if err != nil {
		t.Fatalf("ProcessGraph failed: %v", err)
	}

	if !g.ForkNodes.Has(1) {
		t.Error("node 1 should be a fork")
	}
	if !g.JoinNodes.Has(4) {
		t.Error("node 4 should be a join")
	}
	if !g.SourceNodes.Has(1) {
		t.Error("node 1 should be a source")
	}

	if !g.Ancestors[4].Has(1) || !g.Ancestors[4].Has(2) || !g.Ancestors[4].Has(3) {
		t.Errorf("ancestors(4) = %v, want {1,2,3}", g.Ancestors[4].Sorted())
	}
	if !g.Descendants[1].Has(4) {
		t.Errorf("descendants(1) = %v, should contain 4", g.Descendants[1].Sorted())
	}
}

// TestProcessGraph_TopologicalInvariant tests iter(u) < iter(v) for every
// edge
func TestProcessGraph_TopologicalInvariant(t *testing.T) {
	edges := []Edge{{1, 2}, {1, 3}, {2, 4}, {3, 4}, {2, 5}, {4, 5}, {3, 6}, {5, 7}, {6, 7}}
	g, err := ProcessGraph(edges)
	if err != nil {
		t.Fatalf("ProcessGraph failed: %v", err)
	}

	for _, e := range edges {
		if g.IterationIndex[e.From] >= g.IterationIndex[e.To] {
			t.Errorf("edge (%d,%d): iter %d >= %d",
				e.From, e.To, g.IterationIndex[e.From], g.IterationIndex[e.To])
		}
	}
}

// TestProcessGraph_AncestorDescendantDuality tests v in desc(u) iff u in
// anc(v)
func TestProcessGraph_AncestorDescendantDuality(t *testing.T) {
	g, err := ProcessGraph([]Edge{{1, 2}, {1, 3}, {2, 4}, {3, 4}, {4, 5}, {2, 5}})
	if err != nil {
		t.Fatalf("ProcessGraph failed: %v", err)
	}

	for _, u := range g.Nodes {
		for _, v := range g.Nodes {
			inDesc := g.Descendants[u].Has(v)
			inAnc := g.Ancestors[v].Has(u)
			if inDesc != inAnc {
				t.Errorf("duality violated for u=%d v=%d: desc=%v anc=%v", u, v, inDesc, inAnc)
			}
		}
	}
}

// TestProcessGraph_CycleRejected tests that 1 -> 2 -> 1 fails with a
// structural error and no partial output
func TestProcessGraph_CycleRejected(t *testing.T) {
	g, err := ProcessGraph([]Edge{{1, 2}, {2, 1}})
	if g != nil {
		t.Fatal("cyclic input must not produce partial output")
	}
	if !errors.Is(err, ErrCycle) {
		t.Fatalf("expected ErrCycle, got %v", err)
	}

	var serr *StructuralError
	if !errors.As(err, &serr) {
		t.Fatalf("expected StructuralError, got %T", err)
	}
	if len(serr.Nodes) != 2 {
		t.Errorf("cycle error should name both unassigned nodes, got %v", serr.Nodes)
	}
}

// TestProcessGraph_SelfLoopRejected tests self-loop detection
func TestProcessGraph_SelfLoopRejected(t *testing.T) {
	_, err := ProcessGraph([]Edge{{1, 2}, {2, 2}})
	if !errors.Is(err, ErrSelfLoop) {
		t.Fatalf("expected ErrSelfLoop, got %v", err)
	}
}

// TestProcessGraph_DanglingEdgeRejected tests the explicit node set check
func TestProcessGraph_DanglingEdgeRejected(t *testing.T) {
	_, err := ProcessGraph([]Edge{{1, 2}, {2, 7}}, WithNodes([]uint64{1, 2, 3}))
	if !errors.Is(err, ErrDanglingEdge) {
		t.Fatalf("expected ErrDanglingEdge, got %v", err)
	}

	var serr *StructuralError
	if !errors.As(err, &serr) || serr.Edge == nil || serr.Edge.To != 7 {
		t.Errorf("error should identify the offending edge, got %v", err)
	}
}

// TestProcessGraph_ZeroNodeIDRejected tests that node ids must be positive
func TestProcessGraph_ZeroNodeIDRejected(t *testing.T) {
	_, err := ProcessGraph([]Edge{{0, 2}})
	if !errors.Is(err, ErrInvalidNodeID) {
		t.Fatalf("expected ErrInvalidNodeID, got %v", err)
	}
}

// TestProcessGraph_IsolatedNodes tests explicit nodes with no edges stay
// in the graph as iteration-0 sources
func TestProcessGraph_IsolatedNodes(t *testing.T) {
	g, err := ProcessGraph([]Edge{{1, 2}}, WithNodes([]uint64{1, 2, 9}))
	if err != nil {
		t.Fatalf("ProcessGraph failed: %v", err)
	}
	if !g.SourceNodes.Has(9) {
		t.Error("isolated node 9 should be a source")
	}
	if g.IterationIndex[9] != 0 {
		t.Errorf("isolated node should sit in iteration 0, got %d", g.IterationIndex[9])
	}
}
