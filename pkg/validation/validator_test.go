package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/dd0wney/cluso-beliefprop/pkg/network"
	"github.com/dd0wney/cluso-beliefprop/pkg/probability"
)

func processed(t *testing.T, edges []network.Edge) *network.ProcessedGraph {
	t.Helper()
	g, err := network.ProcessGraph(edges)
	if err != nil {
		t.Fatalf("ProcessGraph failed: %v", err)
	}
	return g
}

func TestValidateAnalysisRequest(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		req := &AnalysisRequest{Edges: []EdgeInput{{From: 1, To: 2}}}
		if err := ValidateAnalysisRequest(req); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("nil request", func(t *testing.T) {
		if err := ValidateAnalysisRequest(nil); err == nil {
			t.Error("expected error for nil request")
		}
	})

	t.Run("no edges", func(t *testing.T) {
		if err := ValidateAnalysisRequest(&AnalysisRequest{}); err == nil {
			t.Error("expected error for empty edge list")
		}
	})

	t.Run("zero node id", func(t *testing.T) {
		req := &AnalysisRequest{Edges: []EdgeInput{{From: 0, To: 2}}}
		if err := ValidateAnalysisRequest(req); err == nil {
			t.Error("expected error for zero node id")
		}
	})
}

func TestValidateInputs_Complete(t *testing.T) {
	g := processed(t, []network.Edge{{From: 1, To: 2}, {From: 2, To: 3}})

	priors := map[uint64]probability.Float64{1: 1.0, 2: 0.5, 3: 0.5}
	probs := map[network.Edge]probability.Float64{
		{From: 1, To: 2}: 0.9,
		{From: 2, To: 3}: 0.9,
	}

	if err := ValidateInputs(g, priors, probs); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidateInputs_MissingPrior(t *testing.T) {
	g := processed(t, []network.Edge{{From: 1, To: 2}})

	priors := map[uint64]probability.Float64{1: 1.0}
	probs := map[network.Edge]probability.Float64{{From: 1, To: 2}: 0.9}

	err := ValidateInputs(g, priors, probs)
	if !errors.Is(err, ErrMissingPrior) {
		t.Fatalf("err = %v, want ErrMissingPrior", err)
	}

	var cerr *CompletenessError
	if !errors.As(err, &cerr) || cerr.Node != 2 {
		t.Errorf("error must name node 2, got %v", err)
	}
}

func TestValidateInputs_MissingEdgeProb(t *testing.T) {
	g := processed(t, []network.Edge{{From: 1, To: 2}, {From: 2, To: 3}})

	priors := map[uint64]probability.Float64{1: 1.0, 2: 0.5, 3: 0.5}
	probs := map[network.Edge]probability.Float64{{From: 1, To: 2}: 0.9}

	err := ValidateInputs(g, priors, probs)
	if !errors.Is(err, ErrMissingEdgeProb) {
		t.Fatalf("err = %v, want ErrMissingEdgeProb", err)
	}
	if !strings.Contains(err.Error(), "(2,3)") {
		t.Errorf("error must name the edge: %v", err)
	}
}

func TestValidateInputs_OutOfRange(t *testing.T) {
	g := processed(t, []network.Edge{{From: 1, To: 2}})

	t.Run("node prior", func(t *testing.T) {
		priors := map[uint64]probability.Float64{1: 1.5, 2: 0.5}
		probs := map[network.Edge]probability.Float64{{From: 1, To: 2}: 0.9}

		err := ValidateInputs(g, priors, probs)
		var rerr *RangeError
		if !errors.As(err, &rerr) || rerr.Node != 1 {
			t.Errorf("error must name node 1, got %v", err)
		}
		if !errors.Is(err, probability.ErrOutOfRange) {
			t.Errorf("err = %v, want ErrOutOfRange", err)
		}
	})

	t.Run("edge probability", func(t *testing.T) {
		priors := map[uint64]probability.Float64{1: 1.0, 2: 0.5}
		probs := map[network.Edge]probability.Float64{{From: 1, To: 2}: -0.1}

		err := ValidateInputs(g, priors, probs)
		var rerr *RangeError
		if !errors.As(err, &rerr) || rerr.From != 1 || rerr.To != 2 {
			t.Errorf("error must name edge (1,2), got %v", err)
		}
	})
}

func TestValidateInputs_InvertedInterval(t *testing.T) {
	g := processed(t, []network.Edge{{From: 1, To: 2}})

	priors := map[uint64]probability.Interval{
		1: {Lo: 0.9, Hi: 0.4}, // inverted
		2: {Lo: 0.5, Hi: 0.5},
	}
	probs := map[network.Edge]probability.Interval{{From: 1, To: 2}: {Lo: 0.8, Hi: 0.9}}

	err := ValidateInputs(g, priors, probs)
	if !errors.Is(err, probability.ErrInvertedBounds) {
		t.Fatalf("err = %v, want ErrInvertedBounds", err)
	}
}
