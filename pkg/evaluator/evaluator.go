package evaluator

import (
	"context"

	"github.com/energypilot/energypilot/pkg/metrics"
	"github.com/energypilot/energypilot/pkg/types"
)

// Mode names the way an evaluation was produced. It is returned to clients so
// simulated numbers are never mistaken for real ones.
type Mode string

const (
	ModeRemote    Mode = "remote"
	ModeSimulated Mode = "simulated"
	ModeModel     Mode = "model"
)

// Evaluator estimates the savings of a submitted strategy.
type Evaluator interface {
	Evaluate(ctx context.Context, req types.EvaluationRequest) (types.Evaluation, error)
	Mode() Mode
}

type instrumented struct {
	Evaluator
	metrics *metrics.Metrics
}

// Instrument wraps e so every evaluation is counted on m.
func Instrument(e Evaluator, m *metrics.Metrics) Evaluator {
	if m == nil {
		return e
	}
	return &instrumented{Evaluator: e, metrics: m}
}

func (i *instrumented) Evaluate(ctx context.Context, req types.EvaluationRequest) (types.Evaluation, error) {
	ev, err := i.Evaluator.Evaluate(ctx, req)
	i.metrics.ObserveEvaluation(string(i.Mode()), err)
	if err != nil && i.Mode() == ModeRemote {
		i.metrics.UpstreamFailure("scorer")
	}
	return ev, err
}
