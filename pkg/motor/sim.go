package motor

import (
	"log/slog"
	"sync"
)

// SimDriver realizes joint states as log lines. It is bound automatically
// when no motor hardware is available.
type SimDriver struct {
	logger *slog.Logger

	mu     sync.Mutex
	state  State
	closed bool
}

// NewSimDriver creates a simulated driver.
func NewSimDriver(logger *slog.Logger) *SimDriver {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("running in simulated mode (no GPIO)")
	return &SimDriver{logger: logger}
}

// Apply logs the joint state.
func (d *SimDriver) Apply(s State) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.state = s
	d.logger.Info("[SIMULATED] "+describe(s), "left", onOff(s.Left), "right", onOff(s.Right))
	return nil
}

// State returns the last simulated joint state.
func (d *SimDriver) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Close logs the final stop once.
func (d *SimDriver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil
	}
	d.closed = true
	d.state = Off
	d.logger.Info("[SIMULATED] " + describe(Off))
	return nil
}
