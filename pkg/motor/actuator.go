package motor

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/teslashibe/go-rover/pkg/steering"
)

// Actuator is the motor state machine. Steering decisions move it between
// joint states; Shutdown returns it to Off and releases the driver exactly
// once.
type Actuator struct {
	driver  Driver
	backend Backend
	logger  *slog.Logger

	mu     sync.Mutex
	state  State
	closed bool

	// Stats
	applied  uint64
	failures uint64
}

// NewActuator wraps a driver. The joint state starts at Off.
func NewActuator(d Driver, backend Backend, logger *slog.Logger) *Actuator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Actuator{
		driver:  d,
		backend: backend,
		logger:  logger.With("component", "motor", "backend", backend),
	}
}

// Backend returns the bound driver type.
func (a *Actuator) Backend() Backend {
	return a.backend
}

// Apply drives the joint state that corresponds to a steering decision.
func (a *Actuator) Apply(d steering.Decision) error {
	return a.Set(StateFor(d))
}

// Set drives an explicit joint state. On driver failure the recorded
// state is left unchanged.
func (a *Actuator) Set(s State) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return ErrClosed
	}

	if err := a.driver.Apply(s); err != nil {
		a.failures++
		return wrapErr(a.backend, "apply", err)
	}

	a.applied++
	if s != a.state {
		a.logger.Debug("motor state changed", "from", a.state.String(), "to", s.String())
	}
	a.state = s
	return nil
}

// State returns the current joint state.
func (a *Actuator) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Closed reports whether Shutdown has run.
func (a *Actuator) Closed() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.closed
}

// Stats returns the number of applied states and driver failures.
func (a *Actuator) Stats() (applied, failures uint64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.applied, a.failures
}

// Shutdown stops both motors and closes the driver. Only the first call
// touches the driver; later calls return nil. The recorded state is Off
// afterwards even if the driver reported an error.
func (a *Actuator) Shutdown() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return nil
	}
	a.closed = true

	stopErr := wrapErr(a.backend, "stop", a.driver.Apply(Off))
	a.state = Off
	closeErr := wrapErr(a.backend, "close", a.driver.Close())

	err := errors.Join(stopErr, closeErr)
	if err != nil {
		a.logger.Error("motor shutdown", "error", err)
	} else {
		a.logger.Info("motors stopped", "applied", a.applied, "failures", a.failures)
	}
	return err
}
