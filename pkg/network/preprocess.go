package network

import "sort"

// ProcessedGraph is the preprocessed view of a DAG: adjacency indices, node
// classifications, topological iteration sets, and full reachability closures.
// Immutable once ProcessGraph returns; shared read-only by every downstream
// component.
type ProcessedGraph struct {
	Nodes []uint64

	Outgoing map[uint64][]uint64
	Incoming map[uint64][]uint64
	EdgeSet  map[Edge]struct{}

	SourceNodes NodeSet
	ForkNodes   NodeSet
	JoinNodes   NodeSet

	// IterationSets[k] holds every node whose predecessors all resolved in
	// sets 0..k-1. Sources sit in set 0. For every edge (u,v),
	// IterationIndex[u] < IterationIndex[v].
	IterationSets  [][]uint64
	IterationIndex map[uint64]int

	Ancestors   map[uint64]NodeSet
	Descendants map[uint64]NodeSet
}

type options struct {
	nodes []uint64
}

// Option configures ProcessGraph.
type Option func(*options)

// WithNodes declares the full node set explicitly. Edges referencing a node
// outside the set fail with a dangling-edge error, and isolated nodes are
// kept in the graph.
func WithNodes(nodes []uint64) Option {
	return func(o *options) { o.nodes = nodes }
}

// ProcessGraph validates the edge list and builds every index belief
// propagation needs. Structural violations (self-loop, cycle, dangling
// reference, non-positive id) fail here, before any analysis runs.
func ProcessGraph(edges []Edge, opts ...Option) (*ProcessedGraph, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	nodeSet := make(NodeSet)
	explicit := len(o.nodes) > 0
	for _, id := range o.nodes {
		if id == 0 {
			return nil, invalidNodeError(Edge{})
		}
		nodeSet.Add(id)
	}

	edgeSet := make(map[Edge]struct{}, len(edges))
	for _, e := range edges {
		if e.From == 0 || e.To == 0 {
			return nil, invalidNodeError(e)
		}
		if e.From == e.To {
			return nil, selfLoopError(e)
		}
		if explicit && (!nodeSet.Has(e.From) || !nodeSet.Has(e.To)) {
			return nil, danglingEdgeError(e)
		}
		nodeSet.Add(e.From)
		nodeSet.Add(e.To)
		edgeSet[e] = struct{}{}
	}

	if len(nodeSet) == 0 {
		return nil, ErrEmptyGraph
	}

	g := &ProcessedGraph{
		Nodes:          nodeSet.Sorted(),
		Outgoing:       make(map[uint64][]uint64, len(nodeSet)),
		Incoming:       make(map[uint64][]uint64, len(nodeSet)),
		EdgeSet:        edgeSet,
		SourceNodes:    make(NodeSet),
		ForkNodes:      make(NodeSet),
		JoinNodes:      make(NodeSet),
		IterationIndex: make(map[uint64]int, len(nodeSet)),
		Ancestors:      make(map[uint64]NodeSet, len(nodeSet)),
		Descendants:    make(map[uint64]NodeSet, len(nodeSet)),
	}

	for e := range edgeSet {
		g.Outgoing[e.From] = append(g.Outgoing[e.From], e.To)
		g.Incoming[e.To] = append(g.Incoming[e.To], e.From)
	}
	for _, id := range g.Nodes {
		sort.Slice(g.Outgoing[id], func(i, j int) bool { return g.Outgoing[id][i] < g.Outgoing[id][j] })
		sort.Slice(g.Incoming[id], func(i, j int) bool { return g.Incoming[id][i] < g.Incoming[id][j] })
	}

	g.classify()

	if err := g.buildIterationSets(); err != nil {
		return nil, err
	}
	g.buildAncestors()
	g.buildDescendants()

	return g, nil
}

// classify marks sources, forks, and joins by degree.
func (g *ProcessedGraph) classify() {
	for _, id := range g.Nodes {
		if len(g.Incoming[id]) == 0 {
			g.SourceNodes.Add(id)
		}
		if len(g.Outgoing[id]) >= 2 {
			g.ForkNodes.Add(id)
		}
		if len(g.Incoming[id]) >= 2 {
			g.JoinNodes.Add(id)
		}
	}
}

// buildIterationSets layers the graph with Kahn's algorithm: a node joins
// layer k once all of its predecessors sit in layers below k. Nodes that
// never drain are the cycle members reported in the error.
func (g *ProcessedGraph) buildIterationSets() error {
	remainingIn := make(map[uint64]int, len(g.Nodes))
	for _, id := range g.Nodes {
		remainingIn[id] = len(g.Incoming[id])
	}

	current := make([]uint64, 0)
	for _, id := range g.Nodes {
		if remainingIn[id] == 0 {
			current = append(current, id)
		}
	}

	assigned := 0
	for level := 0; len(current) > 0; level++ {
		sort.Slice(current, func(i, j int) bool { return current[i] < current[j] })
		g.IterationSets = append(g.IterationSets, current)

		next := make([]uint64, 0)
		for _, id := range current {
			g.IterationIndex[id] = level
			assigned++
			for _, succ := range g.Outgoing[id] {
				remainingIn[succ]--
				if remainingIn[succ] == 0 {
					next = append(next, succ)
				}
			}
		}
		current = next
	}

	if assigned != len(g.Nodes) {
		unassigned := make([]uint64, 0, len(g.Nodes)-assigned)
		for _, id := range g.Nodes {
			if _, ok := g.IterationIndex[id]; !ok {
				unassigned = append(unassigned, id)
			}
		}
		return cycleError(unassigned)
	}
	return nil
}

// buildAncestors propagates ancestor sets layer by layer: a node inherits
// the ancestors of each predecessor plus the predecessors themselves. No
// per-node graph search is ever repeated.
func (g *ProcessedGraph) buildAncestors() {
	for _, level := range g.IterationSets {
		for _, id := range level {
			anc := make(NodeSet)
			for _, pred := range g.Incoming[id] {
				anc.Union(g.Ancestors[pred])
				anc.Add(pred)
			}
			g.Ancestors[id] = anc
		}
	}
}

// buildDescendants is the mirror pass in decreasing iteration order.
func (g *ProcessedGraph) buildDescendants() {
	for li := len(g.IterationSets) - 1; li >= 0; li-- {
		for _, id := range g.IterationSets[li] {
			desc := make(NodeSet)
			for _, succ := range g.Outgoing[id] {
				desc.Union(g.Descendants[succ])
				desc.Add(succ)
			}
			g.Descendants[id] = desc
		}
	}
}

// HasEdge reports whether the directed edge (from,to) exists.
func (g *ProcessedGraph) HasEdge(from, to uint64) bool {
	_, ok := g.EdgeSet[Edge{From: from, To: to}]
	return ok
}

// Edges returns the edge list in deterministic (From, To) order.
func (g *ProcessedGraph) Edges() []Edge {
	out := make([]Edge, 0, len(g.EdgeSet))
	for e := range g.EdgeSet {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].From != out[j].From {
			return out[i].From < out[j].From
		}
		return out[i].To < out[j].To
	})
	return out
}
