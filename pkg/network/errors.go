package network

import (
	"errors"
	"fmt"
)

var (
	ErrSelfLoop      = errors.New("self-loop")
	ErrCycle         = errors.New("graph contains a cycle")
	ErrDanglingEdge  = errors.New("edge references unknown node")
	ErrInvalidNodeID = errors.New("node ids must be positive")
	ErrEmptyGraph    = errors.New("graph has no nodes")
)

// StructuralError is a fatal preprocessing failure carrying enough context
// to identify the offending nodes or edge.
type StructuralError struct {
	sentinel error
	Nodes    []uint64
	Edge     *Edge
}

func (e *StructuralError) Error() string {
	switch {
	case e.Edge != nil:
		return fmt.Sprintf("%v: edge (%d,%d)", e.sentinel, e.Edge.From, e.Edge.To)
	case len(e.Nodes) > 0:
		return fmt.Sprintf("%v: nodes %v", e.sentinel, e.Nodes)
	default:
		return e.sentinel.Error()
	}
}

func (e *StructuralError) Unwrap() error { return e.sentinel }

func selfLoopError(edge Edge) error {
	return &StructuralError{sentinel: ErrSelfLoop, Edge: &edge}
}

func danglingEdgeError(edge Edge) error {
	return &StructuralError{sentinel: ErrDanglingEdge, Edge: &edge}
}

func invalidNodeError(edge Edge) error {
	return &StructuralError{sentinel: ErrInvalidNodeID, Edge: &edge}
}

func cycleError(unassigned []uint64) error {
	return &StructuralError{sentinel: ErrCycle, Nodes: unassigned}
}
