package motor

import (
	"errors"
	"fmt"
)

// Sentinel errors for motor control.
var (
	// ErrClosed is returned when driving motors after shutdown.
	ErrClosed = errors.New("motor: actuator shut down")

	// ErrUnknownBackend is returned for an unsupported backend name.
	ErrUnknownBackend = errors.New("motor: unknown backend")

	// ErrPinNotFound is returned when a GPIO pin name does not resolve.
	ErrPinNotFound = errors.New("motor: gpio pin not found")
)

// DriverError wraps a backend failure with its context.
type DriverError struct {
	Backend Backend
	Op      string
	Err     error
}

// Error implements the error interface.
func (e *DriverError) Error() string {
	return fmt.Sprintf("motor [%s] %s: %v", e.Backend, e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *DriverError) Unwrap() error {
	return e.Err
}

func wrapErr(backend Backend, op string, err error) error {
	if err == nil {
		return nil
	}
	return &DriverError{Backend: backend, Op: op, Err: err}
}
