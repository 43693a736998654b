package diamonds

import (
	"sort"

	"github.com/dd0wney/cluso-beliefprop/pkg/network"
	"github.com/dd0wney/cluso-beliefprop/pkg/pools"
)

// IdentifyAndGroupDiamonds finds, for every join node, the minimal
// reconvergent subgraphs ("diamonds") induced by its shared fork ancestors.
// Join nodes are visited in increasing iteration order. irrelevantSources
// holds nodes excluded from shared-fork-ancestor candidacy (conditioning
// nodes of an enclosing diamond during nested identification); pass nil at
// the top level.
//
// Joins with no shared fork ancestors produce no entry: their parents are
// independent and plain inclusion-exclusion handles them.
func IdentifyAndGroupDiamonds(
	g *network.ProcessedGraph,
	irrelevantSources network.NodeSet,
	ctx *BuildContext,
) map[uint64]*DiamondsAtNode {
	if ctx == nil {
		ctx = NewBuildContext()
	}
	if irrelevantSources == nil {
		irrelevantSources = make(network.NodeSet)
	}

	result := make(map[uint64]*DiamondsAtNode)
	for _, level := range g.IterationSets {
		for _, join := range level {
			if !g.JoinNodes.Has(join) {
				continue
			}
			if dan := identifyAtJoin(g, join, irrelevantSources, ctx); dan != nil {
				result[join] = dan
			}
		}
	}
	return result
}

// identifyAtJoin runs the eight identification steps for one join node.
func identifyAtJoin(
	g *network.ProcessedGraph,
	join uint64,
	irrelevant network.NodeSet,
	ctx *BuildContext,
) *DiamondsAtNode {
	parents := network.NewNodeSet(g.Incoming[join]...)

	candidates := pools.GetUint64Slice(len(parents))
	defer pools.PutUint64Slice(candidates)
	for _, p := range parents.Sorted() {
		if !irrelevant.Has(p) {
			candidates = append(candidates, p)
		}
	}
	if len(candidates) < 2 {
		return nil
	}

	// Step 1: fork nodes that are ancestors (or equal) of at least two
	// direct parents.
	shared := sharedForkAncestors(g, candidates, irrelevant, nil)
	if len(shared) == 0 {
		return nil
	}

	// Step 2 grouping: fork ancestors whose path-induced relevant sets
	// overlap anywhere besides the join belong to the same diamond.
	groups := groupSharedForks(g, ctx, join, shared)

	diamonds := make([]Diamond, 0, len(groups))
	for _, grp := range groups {
		diamonds = append(diamonds, expandDiamond(g, ctx, join, grp, irrelevant))
	}
	diamonds = mergeOverlapping(join, diamonds)

	// Step 8: parents whose edge into the join no diamond swallowed.
	nonDiamond := make(network.NodeSet)
	for p := range parents {
		swallowed := false
		for di := range diamonds {
			if diamondHasEdge(diamonds[di], p, join) {
				swallowed = true
				break
			}
		}
		if !swallowed {
			nonDiamond.Add(p)
		}
	}

	for _, d := range diamonds {
		ctx.warnIfLargeConditioning(join, len(d.ConditioningNodes))
		ctx.noteProcessed()
	}

	return &DiamondsAtNode{
		JoinNode:          join,
		Diamonds:          diamonds,
		NonDiamondParents: nonDiamond,
	}
}

// sharedForkAncestors returns forks that are ancestors-or-self of at least
// two of the given members, skipping irrelevant sources and any fork
// already swallowed into the exclusion set.
func sharedForkAncestors(
	g *network.ProcessedGraph,
	members []uint64,
	irrelevant network.NodeSet,
	exclude network.NodeSet,
) network.NodeSet {
	counts := make(map[uint64]int)
	for _, m := range members {
		perMember := pools.GetNodeSet()
		for anc := range g.Ancestors[m] {
			if g.ForkNodes.Has(anc) {
				perMember[anc] = struct{}{}
			}
		}
		if g.ForkNodes.Has(m) {
			perMember[m] = struct{}{}
		}
		for f := range perMember {
			if irrelevant.Has(f) || (exclude != nil && exclude.Has(f)) {
				continue
			}
			counts[f]++
		}
		pools.PutNodeSet(perMember)
	}

	shared := make(network.NodeSet)
	for f, n := range counts {
		if n >= 2 {
			shared.Add(f)
		}
	}
	return shared
}

type forkGroup struct {
	forks    []uint64
	relevant network.NodeSet
}

// groupSharedForks partitions shared fork ancestors into diamond groups by
// merging forks whose relevant sets intersect beyond the join itself.
func groupSharedForks(
	g *network.ProcessedGraph,
	ctx *BuildContext,
	join uint64,
	shared network.NodeSet,
) []forkGroup {
	groups := make([]forkGroup, 0, len(shared))
	for _, f := range shared.Sorted() {
		rel := ctx.relevantNodes(g, f, join).Clone()
		merged := forkGroup{forks: []uint64{f}, relevant: rel}

		remaining := groups[:0]
		for _, grp := range groups {
			if overlapsBeyondJoin(grp.relevant, merged.relevant, join) {
				merged.forks = append(merged.forks, grp.forks...)
				merged.relevant.Union(grp.relevant)
			} else {
				remaining = append(remaining, grp)
			}
		}
		groups = append(remaining, merged)
	}
	return groups
}

func overlapsBeyondJoin(a, b network.NodeSet, join uint64) bool {
	small, large := a, b
	if len(b) < len(a) {
		small, large = b, a
	}
	for id := range small {
		if id != join && large.Has(id) {
			return true
		}
	}
	return false
}

// expandDiamond runs steps 3 through 7 to a fixed point: induce the
// edgelist, complete intermediate incoming edges, and pull in unprocessed
// common ancestors of the current diamond sources until the structure is
// closed. Each expansion adds a node strictly earlier in iteration order,
// so the loop terminates.
func expandDiamond(
	g *network.ProcessedGraph,
	ctx *BuildContext,
	join uint64,
	grp forkGroup,
	irrelevant network.NodeSet,
) Diamond {
	relevant := grp.relevant.Clone()
	edgeset := induceEdges(g, relevant)

	for {
		// Step 5: every intermediate node keeps all of its original
		// incoming edges; re-add missing ones and their source-side nodes
		// so the subgraph is never accidentally truncated.
		changed := false
		sources := subgraphSources(relevant, edgeset, join)
		for v := range relevant {
			if v == join || sources.Has(v) {
				continue
			}
			for _, u := range g.Incoming[v] {
				e := network.Edge{From: u, To: v}
				if _, ok := edgeset[e]; !ok {
					edgeset[e] = struct{}{}
					relevant.Add(u)
					changed = true
				}
			}
		}
		if changed {
			continue
		}

		// Steps 6 and 7: if the diamond sources themselves share an
		// unprocessed fork ancestor, the true reconvergence starts
		// earlier. Expand to that ancestor and repeat with the new source
		// set until no shared ancestor remains.
		sources = subgraphSources(relevant, edgeset, join)
		shared := sharedForkAncestors(g, sources.Sorted(), irrelevant, relevant)
		if len(shared) == 0 {
			break
		}
		for f := range shared {
			relevant.Union(ctx.relevantNodes(g, f, join))
		}
		edgeset = induceEdges(g, relevant)
	}

	conditioning := subgraphSources(relevant, edgeset, join)
	edges := make([]network.Edge, 0, len(edgeset))
	for e := range edgeset {
		edges = append(edges, e)
	}
	sortEdgeSlice(edges)

	return Diamond{
		ConditioningNodes: conditioning,
		RelevantNodes:     relevant,
		Edgelist:          edges,
	}
}

// induceEdges collects every original edge with both endpoints inside the
// relevant set.
func induceEdges(g *network.ProcessedGraph, relevant network.NodeSet) map[network.Edge]struct{} {
	out := make(map[network.Edge]struct{})
	for u := range relevant {
		for _, v := range g.Outgoing[u] {
			if relevant.Has(v) {
				out[network.Edge{From: u, To: v}] = struct{}{}
			}
		}
	}
	return out
}

// subgraphSources returns the relevant nodes with no incoming edge inside
// the induced edge set. These become the conditioning nodes.
func subgraphSources(relevant network.NodeSet, edgeset map[network.Edge]struct{}, join uint64) network.NodeSet {
	hasIncoming := make(network.NodeSet)
	for e := range edgeset {
		hasIncoming.Add(e.To)
	}
	sources := make(network.NodeSet)
	for v := range relevant {
		if v != join && !hasIncoming.Has(v) {
			sources.Add(v)
		}
	}
	return sources
}

// mergeOverlapping folds together diamonds whose subsource expansion made
// them share nodes beyond the join. Disjoint diamonds stay separate.
func mergeOverlapping(join uint64, diamonds []Diamond) []Diamond {
	if len(diamonds) < 2 {
		return diamonds
	}

	merged := true
	for merged {
		merged = false
	outer:
		for i := 0; i < len(diamonds); i++ {
			for k := i + 1; k < len(diamonds); k++ {
				if !overlapsBeyondJoin(diamonds[i].RelevantNodes, diamonds[k].RelevantNodes, join) {
					continue
				}
				diamonds[i] = combineDiamonds(join, diamonds[i], diamonds[k])
				diamonds = append(diamonds[:k], diamonds[k+1:]...)
				merged = true
				break outer
			}
		}
	}
	return diamonds
}

func combineDiamonds(join uint64, a, b Diamond) Diamond {
	relevant := a.RelevantNodes.Clone()
	relevant.Union(b.RelevantNodes)

	edgeset := make(map[network.Edge]struct{}, len(a.Edgelist)+len(b.Edgelist))
	for _, e := range a.Edgelist {
		edgeset[e] = struct{}{}
	}
	for _, e := range b.Edgelist {
		edgeset[e] = struct{}{}
	}

	edges := make([]network.Edge, 0, len(edgeset))
	for e := range edgeset {
		edges = append(edges, e)
	}
	sortEdgeSlice(edges)

	return Diamond{
		ConditioningNodes: subgraphSources(relevant, edgeset, join),
		RelevantNodes:     relevant,
		Edgelist:          edges,
	}
}

func diamondHasEdge(d Diamond, from, to uint64) bool {
	for _, e := range d.Edgelist {
		if e.From == from && e.To == to {
			return true
		}
	}
	return false
}

func sortEdgeSlice(edges []network.Edge) {
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].From != edges[j].From {
			return edges[i].From < edges[j].From
		}
		return edges[i].To < edges[j].To
	})
}
