package device

import "errors"

// Device domain errors
var (
	ErrDeviceNotFound    = errors.New("device not found")
	ErrNoConfirmedDevice = errors.New("no confirmed device available")
	ErrUnreachable       = errors.New("device unreachable")
)
