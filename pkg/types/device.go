package types

import "time"

// DeviceType discriminates the kind of household device.
type DeviceType string

const (
	DeviceTypeEV       DeviceType = "ev"
	DeviceTypeBattery  DeviceType = "battery"
	DeviceTypePPA      DeviceType = "ppa"
	DeviceTypeHeatPump DeviceType = "heatpump"
)

// DeviceState is the operating state reported by a device.
type DeviceState string

const (
	DeviceStateIdle        DeviceState = "idle"
	DeviceStateCharging    DeviceState = "charging"
	DeviceStateDischarging DeviceState = "discharging"
	DeviceStateAuto        DeviceState = "auto"
)

// DeviceStatus is a snapshot of a device. The optional fields only apply to
// some device types and are omitted when nil.
type DeviceStatus struct {
	ID           string      `json:"id"`
	Type         DeviceType  `json:"type"`
	Name         string      `json:"name"`
	IsOnline     bool        `json:"isOnline"`
	Locked       *bool       `json:"locked,omitempty"`
	SOC          *float64    `json:"soc,omitempty"`
	Capacity     *float64    `json:"capacity,omitempty"`
	ChargingRate *float64    `json:"chargingRate,omitempty"`
	IsPlugged    *bool       `json:"isPlugged,omitempty"`
	IsCharging   *bool       `json:"isCharging,omitempty"`
	Status       DeviceState `json:"status"`
}

// DeviceAction is a command sent to a device from the dashboard.
type DeviceAction string

const (
	DeviceActionChargeNow       DeviceAction = "charge_now"
	DeviceActionAuto            DeviceAction = "auto"
	DeviceActionChargeFromGrid  DeviceAction = "charge_from_grid"
	DeviceActionDischargeToGrid DeviceAction = "discharge_to_grid"
	DeviceActionSelfConsumption DeviceAction = "self_consumption"
	DeviceActionTurnOn          DeviceAction = "turn_on"
	DeviceActionTurnOff         DeviceAction = "turn_off"
)

// Valid returns true if the action is a known device command.
func (a DeviceAction) Valid() bool {
	switch a {
	case DeviceActionChargeNow, DeviceActionAuto, DeviceActionChargeFromGrid,
		DeviceActionDischargeToGrid, DeviceActionSelfConsumption,
		DeviceActionTurnOn, DeviceActionTurnOff:
		return true
	default:
		return false
	}
}

// DeviceActionAck acknowledges a device command.
type DeviceActionAck struct {
	Success   bool         `json:"success"`
	DeviceID  string       `json:"deviceId"`
	Action    DeviceAction `json:"action"`
	Timestamp time.Time    `json:"timestamp"`
	CommandID string       `json:"commandId,omitempty"`
}
