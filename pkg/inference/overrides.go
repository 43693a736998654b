package inference

import (
	"github.com/dd0wney/cluso-beliefprop/pkg/network"
	"github.com/dd0wney/cluso-beliefprop/pkg/probability"
)

// Overrides adjusts base probabilities before analysis. Individual
// overrides take strict precedence over global ones, which take precedence
// over the base maps.
type Overrides[T probability.Value[T]] struct {
	GlobalNodePrior *T
	GlobalEdgeProb  *T
	NodePriors      map[uint64]T
	EdgeProbs       map[network.Edge]T
}

// ResolveOverrides materializes the effective prior and edge probability
// maps for a graph. The base maps are never mutated.
func ResolveOverrides[T probability.Value[T]](
	g *network.ProcessedGraph,
	basePriors map[uint64]T,
	baseEdgeProbs map[network.Edge]T,
	ov Overrides[T],
) (map[uint64]T, map[network.Edge]T) {
	priors := make(map[uint64]T, len(g.Nodes))
	for _, node := range g.Nodes {
		switch {
		case ov.NodePriors != nil && hasNode(ov.NodePriors, node):
			priors[node] = ov.NodePriors[node]
		case ov.GlobalNodePrior != nil:
			priors[node] = *ov.GlobalNodePrior
		default:
			if p, ok := basePriors[node]; ok {
				priors[node] = p
			}
		}
	}

	edges := g.Edges()
	edgeProbs := make(map[network.Edge]T, len(edges))
	for _, e := range edges {
		switch {
		case ov.EdgeProbs != nil && hasEdge(ov.EdgeProbs, e):
			edgeProbs[e] = ov.EdgeProbs[e]
		case ov.GlobalEdgeProb != nil:
			edgeProbs[e] = *ov.GlobalEdgeProb
		default:
			if p, ok := baseEdgeProbs[e]; ok {
				edgeProbs[e] = p
			}
		}
	}

	return priors, edgeProbs
}

func hasNode[T any](m map[uint64]T, node uint64) bool {
	_, ok := m[node]
	return ok
}

func hasEdge[T any](m map[network.Edge]T, e network.Edge) bool {
	_, ok := m[e]
	return ok
}
