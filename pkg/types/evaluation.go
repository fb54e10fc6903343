package types

import "errors"

// ErrServiceUnavailable is returned when an upstream service (scorer, summary)
// failed or returned a non-2xx response.
var ErrServiceUnavailable = errors.New("service unavailable")

// EvaluationRequest is what gets sent to a scorer to estimate the savings of a
// strategy.
type EvaluationRequest struct {
	Intervals []StrategyInterval `json:"intervals"`
	Devices   []string           `json:"devices"`
}

// Evaluation is the result of scoring a strategy.
type Evaluation struct {
	// EstimatedSavings is rounded to 2 decimal places.
	EstimatedSavings float64 `json:"estimatedSavings"`
	// Mode is the evaluator that produced the estimate (remote, simulated or
	// model) so simulated numbers are never mistaken for real ones.
	Mode string `json:"mode"`
}
