package evaluator

import (
	"fmt"
	"time"

	"github.com/energypilot/energypilot/pkg/common"
	"github.com/energypilot/energypilot/pkg/metrics"
	"github.com/energypilot/energypilot/pkg/prices"
	"github.com/energypilot/energypilot/pkg/strategy"
	"github.com/levenlabs/go-lflag"
)

// ModeAuto picks remote when a scorer url is configured and simulated
// otherwise.
const ModeAuto Mode = "auto"

// Configured sets up the Evaluator based on flags.
func Configured(feed prices.Feed, scheduler *strategy.Scheduler, m *metrics.Metrics) Evaluator {
	mode := lflag.String("evaluator-mode", string(ModeAuto), "How strategies are scored (available: auto, remote, simulated, model)")
	scorerURL := lflag.String("scorer-url", "", "URL of the remote strategy scoring service")
	timeout := lflag.Duration("scorer-timeout", 10*time.Second, "Timeout for requests to the scoring service")

	var p struct{ Evaluator }

	lflag.Do(func() {
		e, err := New(Mode(*mode), *scorerURL, *timeout, feed, scheduler)
		if err != nil {
			panic(fmt.Sprintf("evaluator setup failed: %v", err))
		}
		p.Evaluator = Instrument(e, m)
	})

	return &p
}

// New returns the evaluator for mode.
func New(mode Mode, scorerURL string, timeout time.Duration, feed prices.Feed, scheduler *strategy.Scheduler) (Evaluator, error) {
	if mode == ModeAuto {
		mode = ModeSimulated
		if scorerURL != "" {
			mode = ModeRemote
		}
	}
	switch mode {
	case ModeRemote:
		if scorerURL == "" {
			return nil, fmt.Errorf("scorer-url is required for remote evaluation")
		}
		return NewRemote(scorerURL, common.HTTPClient(timeout)), nil
	case ModeSimulated:
		return NewSimulated(nil), nil
	case ModeModel:
		if feed == nil || scheduler == nil {
			return nil, fmt.Errorf("model evaluation needs a price feed and a scheduler")
		}
		return NewModel(feed, scheduler), nil
	default:
		return nil, fmt.Errorf("unknown evaluator mode: %s", mode)
	}
}
