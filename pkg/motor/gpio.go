package motor

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

// outputPin is the subset of gpio.PinIO the driver needs.
type outputPin interface {
	Name() string
	Out(l gpio.Level) error
	Halt() error
}

// GPIODriver drives one digital output pin per motor.
type GPIODriver struct {
	left, right outputPin
	logger      *slog.Logger

	mu     sync.Mutex
	closed bool
}

// NewGPIODriver initializes the host GPIO registry and configures both
// pins as low outputs.
func NewGPIODriver(leftPin, rightPin string, logger *slog.Logger) (*GPIODriver, error) {
	if _, err := host.Init(); err != nil {
		return nil, wrapErr(BackendGPIO, "host init", err)
	}

	left := gpioreg.ByName(leftPin)
	if left == nil {
		return nil, wrapErr(BackendGPIO, "lookup", fmt.Errorf("%w: %s", ErrPinNotFound, leftPin))
	}
	right := gpioreg.ByName(rightPin)
	if right == nil {
		return nil, wrapErr(BackendGPIO, "lookup", fmt.Errorf("%w: %s", ErrPinNotFound, rightPin))
	}

	return newGPIODriver(left, right, logger)
}

func newGPIODriver(left, right outputPin, logger *slog.Logger) (*GPIODriver, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var ready []outputPin
	for _, p := range []outputPin{left, right} {
		if err := p.Out(gpio.Low); err != nil {
			for _, r := range ready {
				if herr := r.Halt(); herr != nil {
					logger.Warn("gpio pin halt failed", "pin", r.Name(), "error", herr)
				}
			}
			return nil, wrapErr(BackendGPIO, "setup "+p.Name(), err)
		}
		ready = append(ready, p)
	}

	logger.Info("gpio motor pins ready", "left", left.Name(), "right", right.Name())
	return &GPIODriver{left: left, right: right, logger: logger}, nil
}

func level(on bool) gpio.Level {
	if on {
		return gpio.High
	}
	return gpio.Low
}

// Apply writes both pin levels.
func (d *GPIODriver) Apply(s State) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return ErrClosed
	}
	if err := d.left.Out(level(s.Left)); err != nil {
		return fmt.Errorf("%s: %w", d.left.Name(), err)
	}
	if err := d.right.Out(level(s.Right)); err != nil {
		return fmt.Errorf("%s: %w", d.right.Name(), err)
	}
	d.logger.Debug("[GPIO] "+describe(s), "left", onOff(s.Left), "right", onOff(s.Right))
	return nil
}

// Close drives both pins low and halts them. Later calls are no-ops.
func (d *GPIODriver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil
	}
	d.closed = true

	var errs []error
	for _, p := range []outputPin{d.left, d.right} {
		if err := p.Out(gpio.Low); err != nil {
			errs = append(errs, fmt.Errorf("%s low: %w", p.Name(), err))
		}
		if err := p.Halt(); err != nil {
			errs = append(errs, fmt.Errorf("%s halt: %w", p.Name(), err))
		}
	}
	d.logger.Info("[GPIO] " + describe(Off))
	return errors.Join(errs...)
}
