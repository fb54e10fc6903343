package strategy

import (
	"testing"
	"time"

	"github.com/energypilot/energypilot/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectPreset(t *testing.T) {
	t.Run("Deterministic", func(t *testing.T) {
		for _, p := range []types.Preset{types.PresetSmartShift, types.PresetEco, types.PresetPeakAvoid} {
			a, err := SelectPreset(p)
			require.NoError(t, err)
			b, err := SelectPreset(p)
			require.NoError(t, err)
			assert.Equal(t, a, b, p)
			assert.NotEmpty(t, a, p)
		}
	})

	t.Run("Custom Is Empty", func(t *testing.T) {
		seq, err := SelectPreset(types.PresetCustom)
		require.NoError(t, err)
		assert.NotNil(t, seq)
		assert.Empty(t, seq)
	})

	t.Run("Exact Sequences", func(t *testing.T) {
		seq, err := SelectPreset(types.PresetSmartShift)
		require.NoError(t, err)
		assert.Equal(t, []types.StrategyInterval{
			{Start: "02:00", End: "06:00", Action: types.ActionChargeFromGrid},
			{Start: "06:00", End: "17:00", Action: types.ActionSelfConsumption},
			{Start: "17:00", End: "21:00", Action: types.ActionDischargeToGrid},
			{Start: "21:00", End: "02:00", Action: types.ActionIdle},
		}, seq)

		seq, err = SelectPreset(types.PresetEco)
		require.NoError(t, err)
		assert.Equal(t, []types.StrategyInterval{
			{Start: "00:00", End: "24:00", Action: types.ActionSelfConsumption},
		}, seq)

		seq, err = SelectPreset(types.PresetPeakAvoid)
		require.NoError(t, err)
		assert.Equal(t, []types.StrategyInterval{
			{Start: "00:00", End: "17:00", Action: types.ActionChargeFromGrid},
			{Start: "17:00", End: "21:00", Action: types.ActionDischargeToGrid},
			{Start: "21:00", End: "24:00", Action: types.ActionIdle},
		}, seq)
	})

	t.Run("Returns A Copy", func(t *testing.T) {
		seq, err := SelectPreset(types.PresetEco)
		require.NoError(t, err)
		seq[0].Action = types.ActionIdle

		again, err := SelectPreset(types.PresetEco)
		require.NoError(t, err)
		assert.Equal(t, types.ActionSelfConsumption, again[0].Action)
	})

	t.Run("Unknown", func(t *testing.T) {
		_, err := SelectPreset("turbo")
		assert.ErrorIs(t, err, ErrUnknownPreset)
	})

	t.Run("Valid On Both Grids", func(t *testing.T) {
		for _, g := range []Grid{HalfHourGrid, QuarterHourGrid} {
			s := NewScheduler(g, nil)
			for _, p := range Presets() {
				seq, err := SelectPreset(p)
				require.NoError(t, err)
				assert.NoError(t, s.Validate(seq), p)
			}
		}
	})
}

func TestPresets(t *testing.T) {
	assert.Equal(t, []types.Preset{
		types.PresetSmartShift,
		types.PresetEco,
		types.PresetPeakAvoid,
		types.PresetCustom,
	}, Presets())
}

func TestValidatePresets(t *testing.T) {
	for _, d := range []time.Duration{15 * time.Minute, 30 * time.Minute, time.Hour} {
		g, err := NewGrid(d)
		require.NoError(t, err)
		assert.NoError(t, ValidatePresets(g), d)
	}

	// these divide a day but 02:00 or 17:00 is off the grid
	for _, d := range []time.Duration{45 * time.Minute, 90 * time.Minute, 2 * time.Hour} {
		g, err := NewGrid(d)
		require.NoError(t, err)
		assert.ErrorIs(t, ValidatePresets(g), ErrInvalidSlot, d)
	}
}
