package strategy

import (
	"fmt"

	"github.com/energypilot/energypilot/pkg/types"
)

// Scheduler holds the pure operations over an interval sequence. It keeps no
// sequence of its own; every operation takes the sequence and returns a new
// one, leaving the input untouched.
type Scheduler struct {
	grid   Grid
	policy OverlapPolicy
}

// NewScheduler returns a Scheduler on the given grid. A nil policy defaults to
// LastWins.
func NewScheduler(grid Grid, policy OverlapPolicy) *Scheduler {
	if policy == nil {
		policy = LastWins{}
	}
	return &Scheduler{
		grid:   grid,
		policy: policy,
	}
}

// Grid returns the scheduler's slot grid.
func (s *Scheduler) Grid() Grid {
	return s.grid
}

// Policy returns the scheduler's overlap policy.
func (s *Scheduler) Policy() OverlapPolicy {
	return s.policy
}

// AddInterval admits a new interval into seq according to the overlap policy.
// start must be a slot and end a boundary on the grid with start <= end. When
// they are equal the interval is widened to a single slot.
func (s *Scheduler) AddInterval(seq []types.StrategyInterval, start, end string, action types.StrategyAction) ([]types.StrategyInterval, error) {
	if !action.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAction, action)
	}
	si, err := s.grid.ParseSlot(start)
	if err != nil {
		return nil, err
	}
	ei, err := s.grid.ParseBoundary(end)
	if err != nil {
		return nil, err
	}
	if ei < si {
		return nil, fmt.Errorf("%w: end %s is before start %s", ErrInvalidSlot, end, start)
	}
	if ei == si {
		ei = si + 1
	}
	return s.policy.Admit(s.grid, seq, types.StrategyInterval{
		Start:  s.grid.Format(si),
		End:    s.grid.Format(ei),
		Action: action,
	})
}

// RemoveInterval returns seq without the interval at index.
func (s *Scheduler) RemoveInterval(seq []types.StrategyInterval, index int) ([]types.StrategyInterval, error) {
	if index < 0 || index >= len(seq) {
		return nil, fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, index, len(seq))
	}
	out := make([]types.StrategyInterval, 0, len(seq)-1)
	out = append(out, seq[:index]...)
	return append(out, seq[index+1:]...), nil
}

// ResolveAction returns the action of the last interval in seq covering slot.
// ok is false when no interval covers it.
func (s *Scheduler) ResolveAction(seq []types.StrategyInterval, slot string) (types.StrategyAction, bool, error) {
	x, err := s.grid.ParseSlot(slot)
	if err != nil {
		return "", false, err
	}
	for i := len(seq) - 1; i >= 0; i-- {
		sp, err := s.grid.spans(seq[i])
		if err != nil {
			return "", false, fmt.Errorf("interval %d: %w", i, err)
		}
		if covers(sp, x) {
			return seq[i].Action, true, nil
		}
	}
	return "", false, nil
}

// TimelineSlot is the resolved action of a single grid slot.
type TimelineSlot struct {
	Start  string               `json:"start"`
	End    string               `json:"end"`
	Action types.StrategyAction `json:"action,omitempty"`
}

// Timeline resolves every slot of the day. Uncovered slots have an empty
// action.
func (s *Scheduler) Timeline(seq []types.StrategyInterval) ([]TimelineSlot, error) {
	if err := s.Validate(seq); err != nil {
		return nil, err
	}
	all := make([][]span, len(seq))
	for i, iv := range seq {
		all[i], _ = s.grid.spans(iv)
	}
	n := s.grid.Slots()
	out := make([]TimelineSlot, n)
	for x := 0; x < n; x++ {
		out[x] = TimelineSlot{
			Start: s.grid.Format(x),
			End:   s.grid.Format(x + 1),
		}
		for i := len(seq) - 1; i >= 0; i-- {
			if covers(all[i], x) {
				out[x].Action = seq[i].Action
				break
			}
		}
	}
	return out, nil
}

// Validate checks that every interval has a known action and boundaries on the
// grid.
func (s *Scheduler) Validate(seq []types.StrategyInterval) error {
	for i, iv := range seq {
		if !iv.Action.Valid() {
			return fmt.Errorf("interval %d: %w: %q", i, ErrInvalidAction, iv.Action)
		}
		if _, err := s.grid.spans(iv); err != nil {
			return fmt.Errorf("interval %d: %w", i, err)
		}
	}
	return nil
}

// Submit builds the evaluation request for seq and the selected devices. Both
// are copied so the caller may keep mutating its own slices.
func (s *Scheduler) Submit(seq []types.StrategyInterval, devices []string) types.EvaluationRequest {
	req := types.EvaluationRequest{
		Intervals: make([]types.StrategyInterval, len(seq)),
		Devices:   make([]string, len(devices)),
	}
	copy(req.Intervals, seq)
	copy(req.Devices, devices)
	return req
}
