package strategy

import (
	"fmt"
	"time"

	"github.com/energypilot/energypilot/pkg/types"
)

const (
	minutesPerDay      = 24 * 60
	defaultSlotMinutes = 30
)

var (
	// HalfHourGrid has 48 slots per day and is the default grid.
	HalfHourGrid = Grid{slotMinutes: 30}
	// QuarterHourGrid has 96 slots per day.
	QuarterHourGrid = Grid{slotMinutes: 15}
)

// Grid is the fixed granularity interval boundaries must lie on. The zero value
// is the half-hour grid.
type Grid struct {
	slotMinutes int
}

// NewGrid returns a grid with the given slot duration. The duration must be a
// whole number of minutes that evenly divides a day.
func NewGrid(slot time.Duration) (Grid, error) {
	if slot <= 0 || slot%time.Minute != 0 {
		return Grid{}, fmt.Errorf("slot duration must be a positive whole number of minutes: %s", slot)
	}
	m := int(slot / time.Minute)
	if minutesPerDay%m != 0 {
		return Grid{}, fmt.Errorf("slot duration must evenly divide a day: %s", slot)
	}
	return Grid{slotMinutes: m}, nil
}

func (g Grid) step() int {
	if g.slotMinutes == 0 {
		return defaultSlotMinutes
	}
	return g.slotMinutes
}

// SlotDuration returns the length of a single slot.
func (g Grid) SlotDuration() time.Duration {
	return time.Duration(g.step()) * time.Minute
}

// Slots returns the number of slots in a day.
func (g Grid) Slots() int {
	return minutesPerDay / g.step()
}

// SlotAt returns the index of the slot containing the given minute of the day.
func (g Grid) SlotAt(minuteOfDay int) int {
	return minuteOfDay / g.step()
}

// ParseBoundary parses an "HH:MM" boundary and returns its index on the grid.
// "24:00" is accepted as the end of the day and returns Slots().
func (g Grid) ParseBoundary(s string) (int, error) {
	if len(s) != 5 || s[2] != ':' || !isDigits(s[:2]) || !isDigits(s[3:]) {
		return 0, fmt.Errorf("%w: %q is not HH:MM", ErrInvalidSlot, s)
	}
	h := int(s[0]-'0')*10 + int(s[1]-'0')
	m := int(s[3]-'0')*10 + int(s[4]-'0')
	if m > 59 {
		return 0, fmt.Errorf("%w: %q has invalid minutes", ErrInvalidSlot, s)
	}
	minutes := h*60 + m
	if minutes > minutesPerDay {
		return 0, fmt.Errorf("%w: %q is past the end of the day", ErrInvalidSlot, s)
	}
	if minutes%g.step() != 0 {
		return 0, fmt.Errorf("%w: %q is not on the %d minute grid", ErrInvalidSlot, s, g.step())
	}
	return minutes / g.step(), nil
}

// ParseSlot parses an "HH:MM" slot start. Unlike ParseBoundary, "24:00" is
// rejected since no slot starts at the end of the day.
func (g Grid) ParseSlot(s string) (int, error) {
	idx, err := g.ParseBoundary(s)
	if err != nil {
		return 0, err
	}
	if idx == g.Slots() {
		return 0, fmt.Errorf("%w: %q is the end of the day, not a slot", ErrInvalidSlot, s)
	}
	return idx, nil
}

// Format returns the "HH:MM" marker for the boundary index. Slots() formats as
// "24:00".
func (g Grid) Format(idx int) string {
	m := idx * g.step()
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// span is a half-open range of slot indexes.
type span struct {
	start, end int
}

// spans returns the slot ranges covered by the interval. An interval whose end
// is before its start wraps around midnight, and one whose start equals its
// end covers nothing.
func (g Grid) spans(iv types.StrategyInterval) ([]span, error) {
	s, err := g.ParseSlot(iv.Start)
	if err != nil {
		return nil, err
	}
	e, err := g.ParseBoundary(iv.End)
	if err != nil {
		return nil, err
	}
	switch {
	case s < e:
		return []span{{s, e}}, nil
	case e < s:
		if e == 0 {
			return []span{{s, g.Slots()}}, nil
		}
		return []span{{s, g.Slots()}, {0, e}}, nil
	default:
		return nil, nil
	}
}

func covers(spans []span, slot int) bool {
	for _, sp := range spans {
		if slot >= sp.start && slot < sp.end {
			return true
		}
	}
	return false
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
