package types

import "time"

// DeviceList is the response of the devices endpoint.
type DeviceList struct {
	Devices []DeviceStatus `json:"devices"`
}

// DeviceActionRequest is the body of a device action.
type DeviceActionRequest struct {
	Action DeviceAction `json:"action"`
}

// ApplyResult is the response of a successful strategy evaluation. Intervals
// and Devices echo the submitted request unchanged.
type ApplyResult struct {
	Success          bool               `json:"success"`
	EstimatedSavings float64            `json:"estimatedSavings"`
	AppliedAt        time.Time          `json:"appliedAt"`
	Intervals        []StrategyInterval `json:"intervals"`
	Devices          []string           `json:"devices"`
	Mode             string             `json:"mode"`
}

// ApplyFailure is the response of a failed strategy evaluation.
type ApplyFailure struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// DashboardState holds the flags the dashboard keeps next to the config.
type DashboardState struct {
	DemoMode  bool `json:"demoMode"`
	Onboarded bool `json:"onboarded"`
}
