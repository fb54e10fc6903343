package devices

import (
	"context"
	"errors"
	"slices"

	"github.com/energypilot/energypilot/pkg/types"
)

var (
	// ErrDeviceNotFound is returned when acting on an unknown device id.
	ErrDeviceNotFound = errors.New("device not found")
	// ErrInvalidAction is returned for an unknown action or one the device
	// type doesn't support.
	ErrInvalidAction = errors.New("invalid device action")
)

// Registry lists the household devices and forwards commands to them.
type Registry interface {
	List(ctx context.Context) ([]types.DeviceStatus, error)
	Act(ctx context.Context, id string, action types.DeviceAction) (types.DeviceActionAck, error)
}

// supportedActions are the commands each device type accepts.
var supportedActions = map[types.DeviceType][]types.DeviceAction{
	types.DeviceTypeEV: {
		types.DeviceActionChargeNow,
		types.DeviceActionAuto,
	},
	types.DeviceTypeBattery: {
		types.DeviceActionChargeFromGrid,
		types.DeviceActionDischargeToGrid,
		types.DeviceActionSelfConsumption,
		types.DeviceActionAuto,
	},
	types.DeviceTypePPA: {
		types.DeviceActionTurnOn,
		types.DeviceActionTurnOff,
		types.DeviceActionAuto,
	},
	types.DeviceTypeHeatPump: {
		types.DeviceActionTurnOn,
		types.DeviceActionTurnOff,
		types.DeviceActionAuto,
	},
}

// Supports returns true if devices of type t accept action.
func Supports(t types.DeviceType, action types.DeviceAction) bool {
	return slices.Contains(supportedActions[t], action)
}

// nextState is the state a device reports after receiving action.
func nextState(action types.DeviceAction) types.DeviceState {
	switch action {
	case types.DeviceActionChargeNow, types.DeviceActionChargeFromGrid:
		return types.DeviceStateCharging
	case types.DeviceActionDischargeToGrid:
		return types.DeviceStateDischarging
	case types.DeviceActionTurnOff:
		return types.DeviceStateIdle
	default:
		return types.DeviceStateAuto
	}
}
