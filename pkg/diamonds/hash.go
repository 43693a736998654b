package diamonds

import (
	"encoding/binary"
	"hash/fnv"

	"github.com/dd0wney/cluso-beliefprop/pkg/network"
)

// StructuralHash fingerprints a diamond by its join node, normalized edge
// set, and conditioning set. The same diamond rediscovered through
// different identification paths hashes identically, so the storage
// builder computes it once.
func StructuralHash(joinNode uint64, edgelist []network.Edge, conditioning network.NodeSet) uint64 {
	h := fnv.New64a()
	var buf [8]byte

	write := func(v uint64) {
		binary.BigEndian.PutUint64(buf[:], v)
		h.Write(buf[:])
	}

	write(joinNode)

	sorted := sortedEdges(edgelist)
	write(uint64(len(sorted)))
	for _, e := range sorted {
		write(e.From)
		write(e.To)
	}

	cond := conditioning.Sorted()
	write(uint64(len(cond)))
	for _, id := range cond {
		write(id)
	}

	return h.Sum64()
}

func sortedEdges(edges []network.Edge) []network.Edge {
	out := make([]network.Edge, len(edges))
	copy(out, edges)
	sortEdgeSlice(out)
	return out
}
