package strategy

import (
	"fmt"

	"github.com/energypilot/energypilot/pkg/types"
)

// OverlapPolicy decides how a new interval is admitted into a sequence. Admit
// never modifies seq and returns the resulting sequence.
type OverlapPolicy interface {
	Name() string
	Admit(g Grid, seq []types.StrategyInterval, candidate types.StrategyInterval) ([]types.StrategyInterval, error)
}

// ParseOverlapPolicy returns the policy with the given name.
func ParseOverlapPolicy(name string) (OverlapPolicy, error) {
	switch name {
	case "", LastWins{}.Name():
		return LastWins{}, nil
	case RejectOverlap{}.Name():
		return RejectOverlap{}, nil
	case Replace{}.Name():
		return Replace{}, nil
	default:
		return nil, fmt.Errorf("unknown overlap policy: %s", name)
	}
}

// LastWins appends the candidate without touching existing intervals. Where
// intervals overlap, the one appended last decides the slot.
type LastWins struct{}

func (LastWins) Name() string { return "last-wins" }

func (LastWins) Admit(_ Grid, seq []types.StrategyInterval, candidate types.StrategyInterval) ([]types.StrategyInterval, error) {
	out := make([]types.StrategyInterval, 0, len(seq)+1)
	out = append(out, seq...)
	return append(out, candidate), nil
}

// RejectOverlap refuses a candidate that shares a slot with any existing
// interval.
type RejectOverlap struct{}

func (RejectOverlap) Name() string { return "reject" }

func (RejectOverlap) Admit(g Grid, seq []types.StrategyInterval, candidate types.StrategyInterval) ([]types.StrategyInterval, error) {
	cs, err := g.spans(candidate)
	if err != nil {
		return nil, err
	}
	for i, iv := range seq {
		ss, err := g.spans(iv)
		if err != nil {
			return nil, fmt.Errorf("interval %d: %w", i, err)
		}
		if overlaps(cs, ss) {
			return nil, fmt.Errorf("%w: %s-%s overlaps interval %d (%s-%s)", ErrOverlap, candidate.Start, candidate.End, i, iv.Start, iv.End)
		}
	}
	return LastWins{}.Admit(g, seq, candidate)
}

// Replace removes the candidate's slots from every existing interval, splitting
// intervals where needed, and then appends the candidate. The result never
// overlaps and resolves every slot the same way LastWins would.
type Replace struct{}

func (Replace) Name() string { return "replace" }

func (Replace) Admit(g Grid, seq []types.StrategyInterval, candidate types.StrategyInterval) ([]types.StrategyInterval, error) {
	cs, err := g.spans(candidate)
	if err != nil {
		return nil, err
	}
	n := g.Slots()
	out := make([]types.StrategyInterval, 0, len(seq)+1)
	for i, iv := range seq {
		ss, err := g.spans(iv)
		if err != nil {
			return nil, fmt.Errorf("interval %d: %w", i, err)
		}
		if !overlaps(cs, ss) {
			out = append(out, iv)
			continue
		}
		mask := make([]bool, n)
		for _, sp := range ss {
			for x := sp.start; x < sp.end; x++ {
				mask[x] = !covers(cs, x)
			}
		}
		for x := 0; x < n; {
			if !mask[x] {
				x++
				continue
			}
			start := x
			for x < n && mask[x] {
				x++
			}
			out = append(out, types.StrategyInterval{
				Start:  g.Format(start),
				End:    g.Format(x),
				Action: iv.Action,
			})
		}
	}
	return append(out, candidate), nil
}

func overlaps(a, b []span) bool {
	for _, x := range a {
		for _, y := range b {
			if x.start < y.end && y.start < x.end {
				return true
			}
		}
	}
	return false
}
