package evaluator

import (
	"context"
	"fmt"
	"time"

	"github.com/energypilot/energypilot/pkg/prices"
	"github.com/energypilot/energypilot/pkg/strategy"
	"github.com/energypilot/energypilot/pkg/types"
)

const (
	batteryCapacityKWH = 10.0
	batteryEfficiency  = 0.9
	batteryMaxKW       = 5.0
	stepHours          = 0.25
	stepsPerDay        = 96
	stepMinutes        = 15
	// each charge or discharge step tries to move this much energy
	stepAttemptKWH = 1.25
	// exported energy is credited at this fraction of the import price
	exportRate = 0.7
)

// Model scores a strategy by simulating a home battery over today's prices in
// 15 minute steps and comparing the cost against the same day without a
// battery. The household load and solar profiles are fixed.
type Model struct {
	feed      prices.Feed
	scheduler *strategy.Scheduler
	now       func() time.Time
}

// NewModel returns a Model using feed for prices and scheduler to resolve the
// action of each step.
func NewModel(feed prices.Feed, scheduler *strategy.Scheduler) *Model {
	return &Model{
		feed:      feed,
		scheduler: scheduler,
		now:       time.Now,
	}
}

func (m *Model) Mode() Mode {
	return ModeModel
}

type modelStep struct {
	loadKWH     float64
	solarKWH    float64
	eurosPerKWH float64
}

func (m *Model) Evaluate(ctx context.Context, req types.EvaluationRequest) (types.Evaluation, error) {
	timeline, err := m.scheduler.Timeline(req.Intervals)
	if err != nil {
		return types.Evaluation{}, fmt.Errorf("invalid strategy: %w", err)
	}
	day, err := m.feed.Prices(ctx, m.now().In(m.feed.Location()))
	if err != nil {
		return types.Evaluation{}, fmt.Errorf("%w: failed to get prices: %w", types.ErrServiceUnavailable, err)
	}
	if len(day) == 0 {
		return types.Evaluation{}, fmt.Errorf("%w: no prices for today", types.ErrServiceUnavailable)
	}

	grid := m.scheduler.Grid()
	b := &battery{chargeKWH: batteryCapacityKWH / 2}
	var baseline, withStrategy float64
	for i := 0; i < stepsPerDay; i++ {
		st := modelStep{
			loadKWH:  householdLoadKWH(i),
			solarKWH: solarKWH(i),
			// prices are in ct/kWh
			eurosPerKWH: day[i*len(day)/stepsPerDay].Price / 100,
		}
		baseline += stepCost(nil, st, types.ActionIdle)
		withStrategy += stepCost(b, st, timeline[grid.SlotAt(i*stepMinutes)].Action)
	}

	return types.Evaluation{
		EstimatedSavings: types.Round2(types.Round2(baseline) - types.Round2(withStrategy)),
		Mode:             string(ModeModel),
	}, nil
}

// stepCost returns what a single step costs under action. Uncovered steps
// behave as idle: solar covers the load first and the surplus is exported.
func stepCost(b *battery, st modelStep, action types.StrategyAction) float64 {
	solarUsed := min(st.solarKWH, st.loadKWH)
	fromGrid := st.loadKWH - solarUsed
	toGrid := st.solarKWH - solarUsed

	switch action {
	case types.ActionChargeFromGrid:
		fromGrid += b.add(stepAttemptKWH)
	case types.ActionSelfConsumption:
		b.add(toGrid)
		toGrid = 0
		fromGrid -= b.take(fromGrid)
	case types.ActionDischargeToGrid:
		toGrid += b.take(stepAttemptKWH)
	}

	return fromGrid*st.eurosPerKWH - toGrid*st.eurosPerKWH*exportRate
}

type battery struct {
	chargeKWH float64
}

// add charges the battery and returns how much energy was drawn to do so.
func (b *battery) add(kwh float64) float64 {
	space := batteryCapacityKWH - b.chargeKWH
	drawn := min(kwh, space/batteryEfficiency, batteryMaxKW*stepHours)
	b.chargeKWH += drawn * batteryEfficiency
	return drawn
}

// take discharges the battery and returns how much energy was delivered.
func (b *battery) take(kwh float64) float64 {
	available := b.chargeKWH * batteryEfficiency
	delivered := min(kwh, available, batteryMaxKW*stepHours)
	b.chargeKWH -= delivered / batteryEfficiency
	return delivered
}

// solarKWH is a bell curve peaking at midday.
func solarKWH(step int) float64 {
	return 3 * float64(step) * float64(stepsPerDay-step) / 100000
}

// householdLoadKWH is the energy a typical home uses in the given step.
func householdLoadKWH(step int) float64 {
	switch hour := step / 4; {
	case hour < 6:
		return 0.08
	case hour < 9:
		return 0.3
	case hour < 17:
		return 0.12
	case hour < 22:
		return 0.45
	default:
		return 0.15
	}
}
