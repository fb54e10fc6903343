package types

// DefaultStrategy is the strategy style a user prefers by default.
type DefaultStrategy string

const (
	DefaultStrategyAuto       DefaultStrategy = "auto"
	DefaultStrategyEco        DefaultStrategy = "eco"
	DefaultStrategyAggressive DefaultStrategy = "aggressive"
)

// Valid returns true if the default strategy is known.
func (d DefaultStrategy) Valid() bool {
	switch d {
	case DefaultStrategyAuto, DefaultStrategyEco, DefaultStrategyAggressive:
		return true
	default:
		return false
	}
}

// UserConfig is the user's household configuration. It is stored as a single
// blob and always read and written as a whole.
type UserConfig struct {
	HasEV                 bool            `json:"hasEV"`
	HasBattery            bool            `json:"hasBattery"`
	HasSolar              bool            `json:"hasSolar"`
	HasPPA                bool            `json:"hasPPA"`
	MinBatterySOC         float64         `json:"minBatterySOC"`
	DoNotDisturbStart     string          `json:"doNotDisturbStart"`
	DoNotDisturbEnd       string          `json:"doNotDisturbEnd"`
	PreferSelfConsumption bool            `json:"preferSelfConsumption"`
	DefaultStrategy       DefaultStrategy `json:"defaultStrategy"`
}

// DefaultUserConfig returns the configuration a new user starts with.
func DefaultUserConfig() UserConfig {
	return UserConfig{
		MinBatterySOC:         20,
		DoNotDisturbStart:     "22:00",
		DoNotDisturbEnd:       "06:00",
		PreferSelfConsumption: true,
		DefaultStrategy:       DefaultStrategyAuto,
	}
}
