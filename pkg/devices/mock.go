package devices

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/energypilot/energypilot/pkg/log"
	"github.com/energypilot/energypilot/pkg/types"
	"github.com/google/uuid"
)

// Mock is an in-memory Registry seeded with a typical household. Commands
// change the reported status but nothing is actually controlled.
type Mock struct {
	mu      sync.Mutex
	devices []types.DeviceStatus

	now   func() time.Time
	newID func() string
}

// NewMock returns a Mock with an EV, a home battery and a solar PPA.
func NewMock() *Mock {
	return NewMockWithDevices(defaultDevices())
}

// NewMockWithDevices returns a Mock holding copies of devices.
func NewMockWithDevices(devices []types.DeviceStatus) *Mock {
	m := &Mock{
		devices: make([]types.DeviceStatus, len(devices)),
		now:     time.Now,
		newID:   uuid.NewString,
	}
	for i, d := range devices {
		m.devices[i] = clone(d)
	}
	return m
}

func defaultDevices() []types.DeviceStatus {
	return []types.DeviceStatus{
		{
			ID:           "ev-1",
			Type:         types.DeviceTypeEV,
			Name:         "Tesla Model 3",
			IsOnline:     true,
			SOC:          ptr(65.0),
			Capacity:     ptr(75.0),
			ChargingRate: ptr(7.4),
			IsPlugged:    ptr(true),
			IsCharging:   ptr(false),
			Status:       types.DeviceStateAuto,
		},
		{
			ID:       "battery-1",
			Type:     types.DeviceTypeBattery,
			Name:     "Home Battery",
			IsOnline: true,
			SOC:      ptr(45.0),
			Capacity: ptr(10.0),
			Status:   types.DeviceStateAuto,
		},
		{
			ID:       "ppa-1",
			Type:     types.DeviceTypePPA,
			Name:     "Solar PPA",
			IsOnline: true,
			Status:   types.DeviceStateAuto,
		},
	}
}

// List returns a snapshot of every device.
func (m *Mock) List(ctx context.Context) ([]types.DeviceStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]types.DeviceStatus, len(m.devices))
	for i, d := range m.devices {
		out[i] = clone(d)
	}
	return out, nil
}

// Act applies action to the device and acknowledges it.
func (m *Mock) Act(ctx context.Context, id string, action types.DeviceAction) (types.DeviceActionAck, error) {
	if !action.Valid() {
		return types.DeviceActionAck{}, fmt.Errorf("%w: %q", ErrInvalidAction, action)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	idx := -1
	for i := range m.devices {
		if m.devices[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return types.DeviceActionAck{}, fmt.Errorf("%w: %s", ErrDeviceNotFound, id)
	}
	d := &m.devices[idx]
	if !Supports(d.Type, action) {
		return types.DeviceActionAck{}, fmt.Errorf("%w: %s is not supported by %s devices", ErrInvalidAction, action, d.Type)
	}

	d.Status = nextState(action)
	if d.IsCharging != nil {
		d.IsCharging = ptr(d.Status == types.DeviceStateCharging)
	}

	ack := types.DeviceActionAck{
		Success:   true,
		DeviceID:  id,
		Action:    action,
		Timestamp: m.now().UTC(),
		CommandID: m.newID(),
	}
	log.Ctx(ctx).InfoContext(
		ctx,
		"device action applied",
		slog.String("deviceID", id),
		slog.String("action", string(action)),
		slog.String("status", string(d.Status)),
		slog.String("commandID", ack.CommandID),
	)
	return ack, nil
}

func clone(d types.DeviceStatus) types.DeviceStatus {
	d.Locked = clonePtr(d.Locked)
	d.SOC = clonePtr(d.SOC)
	d.Capacity = clonePtr(d.Capacity)
	d.ChargingRate = clonePtr(d.ChargingRate)
	d.IsPlugged = clonePtr(d.IsPlugged)
	d.IsCharging = clonePtr(d.IsCharging)
	return d
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func ptr[T any](v T) *T {
	return &v
}
