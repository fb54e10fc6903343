package types

// StrategyAction is what the household devices should do during an interval.
type StrategyAction string

const (
	ActionChargeFromGrid  StrategyAction = "charge_from_grid"
	ActionDischargeToGrid StrategyAction = "discharge_to_grid"
	ActionSelfConsumption StrategyAction = "self_consumption"
	ActionIdle            StrategyAction = "idle"
)

// Valid returns true if the action is one of the known strategy actions.
func (a StrategyAction) Valid() bool {
	switch a {
	case ActionChargeFromGrid, ActionDischargeToGrid, ActionSelfConsumption, ActionIdle:
		return true
	default:
		return false
	}
}

// StrategyInterval maps a time-of-day range to an action. Start and End are
// "HH:MM" markers on the slot grid and End may be "24:00".
type StrategyInterval struct {
	Start  string         `json:"start"`
	End    string         `json:"end"`
	Action StrategyAction `json:"action"`
}

// Preset names a canonical interval sequence.
type Preset string

const (
	PresetSmartShift Preset = "smartshift"
	PresetEco        Preset = "eco"
	PresetPeakAvoid  Preset = "peak-avoid"
	PresetCustom     Preset = "custom"
)

// Strategy is an ordered sequence of intervals plus the preset it started from.
// Later intervals take precedence over earlier ones where they overlap. Presets
// are served to clients in this form.
type Strategy struct {
	Preset    Preset             `json:"preset"`
	Intervals []StrategyInterval `json:"intervals"`
}
