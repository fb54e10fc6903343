package strategy

import (
	"fmt"
	"time"

	"github.com/levenlabs/go-lflag"
)

// Configured sets up the Scheduler based on flags.
func Configured() *Scheduler {
	slot := lflag.Duration("strategy-slot-duration", 30*time.Minute, "Granularity of strategy intervals, must evenly divide a day (e.g. 30m, 15m)")
	overlap := lflag.String("strategy-overlap-policy", LastWins{}.Name(), "How overlapping intervals are admitted (available: last-wins, reject, replace)")

	s := &Scheduler{}

	lflag.Do(func() {
		grid, err := NewGrid(*slot)
		if err != nil {
			panic(fmt.Sprintf("invalid strategy-slot-duration: %v", err))
		}
		if err := ValidatePresets(grid); err != nil {
			panic(fmt.Sprintf("invalid strategy-slot-duration %s: %v", *slot, err))
		}
		policy, err := ParseOverlapPolicy(*overlap)
		if err != nil {
			panic(fmt.Sprintf("invalid strategy-overlap-policy: %v", err))
		}
		*s = *NewScheduler(grid, policy)
	})

	return s
}
