package inference

import (
	"time"

	"github.com/google/uuid"
)

// Stats reports what one belief propagation run did. Observational only;
// never required for correctness.
type Stats struct {
	RunID               string
	Duration            time.Duration
	CacheHits           uint64
	CacheMisses         uint64
	StateEnumerations   uint64
	DiamondsEvaluated   int
	MaxConditioningSize int
}

func newStats() Stats {
	return Stats{RunID: uuid.New().String()}
}
