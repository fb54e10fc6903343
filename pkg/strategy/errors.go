package strategy

import "errors"

var (
	// ErrInvalidSlot is returned for a time boundary that is malformed or does
	// not lie on the slot grid.
	ErrInvalidSlot = errors.New("invalid slot")
	// ErrIndexOutOfRange is returned when removing an interval that doesn't exist.
	ErrIndexOutOfRange = errors.New("interval index out of range")
	// ErrInvalidAction is returned for an unknown strategy action.
	ErrInvalidAction = errors.New("invalid strategy action")
	// ErrOverlap is returned by the reject overlap policy.
	ErrOverlap = errors.New("interval overlaps an existing interval")
	// ErrUnknownPreset is returned for a preset name that doesn't exist.
	ErrUnknownPreset = errors.New("unknown strategy preset")
)
