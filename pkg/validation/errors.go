package validation

import (
	"errors"
	"fmt"
)

var (
	ErrMissingPrior    = errors.New("missing node prior")
	ErrMissingEdgeProb = errors.New("missing edge probability")
)

// CompletenessError identifies the node or edge whose probability is
// absent. Raised before propagation starts, never mid-computation.
type CompletenessError struct {
	sentinel error
	Node     uint64
	From     uint64
	To       uint64
}

func (e *CompletenessError) Error() string {
	if e.Node != 0 {
		return fmt.Sprintf("%v: node %d", e.sentinel, e.Node)
	}
	return fmt.Sprintf("%v: edge (%d,%d)", e.sentinel, e.From, e.To)
}

func (e *CompletenessError) Unwrap() error { return e.sentinel }

// RangeError identifies the node or edge carrying an out-of-range
// probability value.
type RangeError struct {
	Node uint64
	From uint64
	To   uint64
	Err  error
}

func (e *RangeError) Error() string {
	if e.Node != 0 {
		return fmt.Sprintf("node %d: %v", e.Node, e.Err)
	}
	return fmt.Sprintf("edge (%d,%d): %v", e.From, e.To, e.Err)
}

func (e *RangeError) Unwrap() error { return e.Err }
