package strategy

import (
	"fmt"
	"slices"

	"github.com/energypilot/energypilot/pkg/types"
)

var presetOrder = []types.Preset{
	types.PresetSmartShift,
	types.PresetEco,
	types.PresetPeakAvoid,
	types.PresetCustom,
}

// these must stay exactly as they are, clients compare against them
var presets = map[types.Preset][]types.StrategyInterval{
	types.PresetSmartShift: {
		{Start: "02:00", End: "06:00", Action: types.ActionChargeFromGrid},
		{Start: "06:00", End: "17:00", Action: types.ActionSelfConsumption},
		{Start: "17:00", End: "21:00", Action: types.ActionDischargeToGrid},
		{Start: "21:00", End: "02:00", Action: types.ActionIdle},
	},
	types.PresetEco: {
		{Start: "00:00", End: "24:00", Action: types.ActionSelfConsumption},
	},
	types.PresetPeakAvoid: {
		{Start: "00:00", End: "17:00", Action: types.ActionChargeFromGrid},
		{Start: "17:00", End: "21:00", Action: types.ActionDischargeToGrid},
		{Start: "21:00", End: "24:00", Action: types.ActionIdle},
	},
	types.PresetCustom: {},
}

// Presets returns the preset names in display order.
func Presets() []types.Preset {
	return slices.Clone(presetOrder)
}

// SelectPreset returns a fresh copy of the preset's interval sequence. Custom
// returns an empty sequence.
func SelectPreset(name types.Preset) ([]types.StrategyInterval, error) {
	p, ok := presets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPreset, name)
	}
	out := make([]types.StrategyInterval, len(p))
	copy(out, p)
	return out, nil
}

// ValidatePresets checks that every preset boundary lies on g, so presets
// served to clients are accepted back by a scheduler on that grid.
func ValidatePresets(g Grid) error {
	s := NewScheduler(g, nil)
	for _, name := range presetOrder {
		if err := s.Validate(presets[name]); err != nil {
			return fmt.Errorf("preset %s: %w", name, err)
		}
	}
	return nil
}
