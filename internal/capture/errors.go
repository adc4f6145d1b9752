package capture

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyInput is returned when manual text is blank.
	ErrEmptyInput = errors.New("input is empty")

	// ErrImageTooLarge is returned when an image exceeds the size limit.
	ErrImageTooLarge = errors.New("image exceeds size limit")

	// ErrDeviceAccess is the class of all camera acquisition failures:
	// permission denied, no device, or the device is busy.
	ErrDeviceAccess = errors.New("camera access failed")

	// ErrNoDevice is returned when no capture device is available.
	ErrNoDevice = errors.New("no capture device found")

	// ErrSessionClosed is returned when capturing from a released session.
	ErrSessionClosed = errors.New("camera session is closed")
)

// DeviceAccessError reports a failure to acquire or read a capture device.
// It matches ErrDeviceAccess with errors.Is.
type DeviceAccessError struct {
	// Device is the device ID or path, empty when none was resolved.
	Device string

	// Err is the underlying cause.
	Err error
}

// Error implements error.
func (e *DeviceAccessError) Error() string {
	if e.Device == "" {
		return fmt.Sprintf("%s: %v", ErrDeviceAccess, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", ErrDeviceAccess, e.Device, e.Err)
}

// Unwrap returns the underlying cause.
func (e *DeviceAccessError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrDeviceAccess.
func (e *DeviceAccessError) Is(target error) bool {
	return target == ErrDeviceAccess
}
