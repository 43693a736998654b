package network

import "sort"

// Edge is a directed edge between two node ids.
type Edge struct {
	From uint64
	To   uint64
}

// NodeSet is a set of node ids.
type NodeSet map[uint64]struct{}

// NewNodeSet builds a set from the given ids.
func NewNodeSet(ids ...uint64) NodeSet {
	s := make(NodeSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func (s NodeSet) Add(id uint64) { s[id] = struct{}{} }

func (s NodeSet) Has(id uint64) bool {
	_, ok := s[id]
	return ok
}

// Union adds every member of o to s in place.
func (s NodeSet) Union(o NodeSet) {
	for id := range o {
		s[id] = struct{}{}
	}
}

// Intersect returns a new set holding the members common to s and o.
func (s NodeSet) Intersect(o NodeSet) NodeSet {
	small, large := s, o
	if len(o) < len(s) {
		small, large = o, s
	}
	out := make(NodeSet)
	for id := range small {
		if large.Has(id) {
			out[id] = struct{}{}
		}
	}
	return out
}

// Clone returns an independent copy of s.
func (s NodeSet) Clone() NodeSet {
	out := make(NodeSet, len(s))
	for id := range s {
		out[id] = struct{}{}
	}
	return out
}

// Sorted returns the members in ascending order.
func (s NodeSet) Sorted() []uint64 {
	out := make([]uint64, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Equal reports whether s and o hold the same members.
func (s NodeSet) Equal(o NodeSet) bool {
	if len(s) != len(o) {
		return false
	}
	for id := range s {
		if !o.Has(id) {
			return false
		}
	}
	return true
}
