package evaluator

import (
	"context"
	"math/rand/v2"
	"sync"

	"github.com/energypilot/energypilot/pkg/types"
)

const (
	simulatedMin  = 5.0
	simulatedSpan = 15.0
)

// Simulated returns a random estimate between 5 and 20. It is what runs when
// no scorer is configured.
type Simulated struct {
	mu   sync.Mutex
	rand *rand.Rand
}

// NewSimulated returns a Simulated evaluator drawing from src. A nil src uses
// the global random source.
func NewSimulated(src rand.Source) *Simulated {
	s := &Simulated{}
	if src != nil {
		s.rand = rand.New(src)
	}
	return s
}

func (s *Simulated) Mode() Mode {
	return ModeSimulated
}

func (s *Simulated) float64() float64 {
	if s.rand == nil {
		return rand.Float64()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rand.Float64()
}

func (s *Simulated) Evaluate(ctx context.Context, _ types.EvaluationRequest) (types.Evaluation, error) {
	if err := ctx.Err(); err != nil {
		return types.Evaluation{}, err
	}
	return types.Evaluation{
		EstimatedSavings: types.Round2(simulatedMin + simulatedSpan*s.float64()),
		Mode:             string(ModeSimulated),
	}, nil
}
