package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/dd0wney/cluso-beliefprop/pkg/network"
	"github.com/dd0wney/cluso-beliefprop/pkg/probability"
)

var (
	// validate is a singleton validator instance
	validate *validator.Validate

	// Validation constants
	MaxNodes = 1_000_000
	MaxEdges = 5_000_000
)

func init() {
	validate = validator.New()
}

// EdgeInput mirrors one edge-list row as the parsing layer hands it over.
type EdgeInput struct {
	From uint64 `json:"from" validate:"required,min=1"`
	To   uint64 `json:"to" validate:"required,min=1"`
}

// AnalysisRequest is the boundary struct the excluded server layer fills
// from parsed input before invoking the engine.
type AnalysisRequest struct {
	Edges []EdgeInput `json:"edges" validate:"required,min=1,dive"`
	Nodes []uint64    `json:"nodes" validate:"omitempty,dive,min=1"`
}

// ValidateAnalysisRequest validates the request shape before any graph
// work begins.
func ValidateAnalysisRequest(req *AnalysisRequest) error {
	if req == nil {
		return errors.New("analysis request cannot be nil")
	}

	if err := validate.Struct(req); err != nil {
		return formatValidationError(err)
	}

	if len(req.Edges) > MaxEdges {
		return fmt.Errorf("Edges: maximum %d edges allowed, got %d", MaxEdges, len(req.Edges))
	}
	if len(req.Nodes) > MaxNodes {
		return fmt.Errorf("Nodes: maximum %d nodes allowed, got %d", MaxNodes, len(req.Nodes))
	}
	return nil
}

// ValidateInputs checks data completeness and probability ranges for a
// preprocessed graph: every node needs a prior, every edge needs a
// probability, and every value must be a well-formed probability. Fatal on
// the first violation; the engine performs no partial computation on
// invalid input.
func ValidateInputs[T probability.Value[T]](
	g *network.ProcessedGraph,
	priors map[uint64]T,
	edgeProbs map[network.Edge]T,
) error {
	for _, node := range g.Nodes {
		p, ok := priors[node]
		if !ok {
			return &CompletenessError{sentinel: ErrMissingPrior, Node: node}
		}
		if err := p.Validate(); err != nil {
			return &RangeError{Node: node, Err: err}
		}
	}

	for _, e := range g.Edges() {
		p, ok := edgeProbs[e]
		if !ok {
			return &CompletenessError{sentinel: ErrMissingEdgeProb, From: e.From, To: e.To}
		}
		if err := p.Validate(); err != nil {
			return &RangeError{From: e.From, To: e.To, Err: err}
		}
	}

	return nil
}

// formatValidationError converts validator errors into readable messages
func formatValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: failed '%s' validation", fe.Field(), fe.Tag()))
	}
	return errors.New(strings.Join(msgs, "; "))
}
