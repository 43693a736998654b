package network

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// randomDAGEdges builds an acyclic edge list from a seed: edges only point
// from lower to higher ids, so the result is a DAG by construction.
func randomDAGEdges(nodeCount int, picks []int) []Edge {
	if nodeCount < 2 {
		nodeCount = 2
	}
	edges := make([]Edge, 0, len(picks))
	seen := make(map[Edge]struct{})
	for i := 0; i+1 < len(picks); i += 2 {
		from := uint64(picks[i]%(nodeCount-1)) + 1
		span := nodeCount - int(from)
		to := from + uint64(picks[i+1]%span) + 1
		if to > uint64(nodeCount) || to <= from {
			continue
		}
		e := Edge{From: from, To: to}
		if _, dup := seen[e]; dup {
			continue
		}
		seen[e] = struct{}{}
		edges = append(edges, e)
	}
	return edges
}

// TestGraphInvariants uses property-based testing to verify preprocessing
// invariants on randomly generated DAGs
func TestGraphInvariants(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping property-based test in short mode")
	}

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 30

	properties := gopter.NewProperties(parameters)

	// Property 1: every edge respects the iteration order
	properties.Property("topological order invariant", prop.ForAll(
		func(nodeCount int, picks []int) bool {
			edges := randomDAGEdges(nodeCount, picks)
			if len(edges) == 0 {
				return true
			}
			g, err := ProcessGraph(edges)
			if err != nil {
				return false
			}
			for _, e := range edges {
				if g.IterationIndex[e.From] >= g.IterationIndex[e.To] {
					return false
				}
			}
			return true
		},
		gen.IntRange(2, 30),
		gen.SliceOf(gen.IntRange(0, 1<<20)),
	))

	// Property 2: ancestor/descendant duality
	properties.Property("ancestor descendant duality", prop.ForAll(
		func(nodeCount int, picks []int) bool {
			edges := randomDAGEdges(nodeCount, picks)
			if len(edges) == 0 {
				return true
			}
			g, err := ProcessGraph(edges)
			if err != nil {
				return false
			}
			for _, u := range g.Nodes {
				for v := range g.Descendants[u] {
					if !g.Ancestors[v].Has(u) {
						return false
					}
				}
				for v := range g.Ancestors[u] {
					if !g.Descendants[v].Has(u) {
						return false
					}
				}
			}
			return true
		},
		gen.IntRange(2, 30),
		gen.SliceOf(gen.IntRange(0, 1<<20)),
	))

	// Property 3: iteration sets partition the node set
	properties.Property("iteration sets partition nodes", prop.ForAll(
		func(nodeCount int, picks []int) bool {
			edges := randomDAGEdges(nodeCount, picks)
			if len(edges) == 0 {
				return true
			}
			g, err := ProcessGraph(edges)
			if err != nil {
				return false
			}
			seen := make(map[uint64]int)
			for _, level := range g.IterationSets {
				for _, n := range level {
					seen[n]++
				}
			}
			if len(seen) != len(g.Nodes) {
				return false
			}
			for _, count := range seen {
				if count != 1 {
					return false
				}
			}
			return true
		},
		gen.IntRange(2, 30),
		gen.SliceOf(gen.IntRange(0, 1<<20)),
	))

	properties.TestingRun(t)
}
