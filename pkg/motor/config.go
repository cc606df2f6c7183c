package motor

import (
	"errors"
	"fmt"
	"strings"
)

// Backend represents the motor driver type.
type Backend string

const (
	// BackendAuto picks gpio on a Raspberry Pi and sim elsewhere.
	BackendAuto Backend = "auto"
	// BackendGPIO toggles two digital output pins.
	BackendGPIO Backend = "gpio"
	// BackendSerial sends joint states to a motor bridge over a serial port.
	BackendSerial Backend = "serial"
	// BackendSim logs joint states instead of driving hardware.
	BackendSim Backend = "sim"
	// BackendMock records joint states for tests.
	BackendMock Backend = "mock"
)

// Default BCM pin assignment of the stock wiring.
const (
	DefaultLeftPin  = "GPIO17"
	DefaultRightPin = "GPIO27"
)

// Config holds motor configuration.
type Config struct {
	// Backend specifies which driver to use.
	// Default: "auto"
	Backend Backend `yaml:"backend" json:"backend"`

	// LeftPin and RightPin are periph.io pin names (e.g. "GPIO17").
	LeftPin  string `yaml:"left_pin" json:"left_pin"`
	RightPin string `yaml:"right_pin" json:"right_pin"`

	// SerialPort is the device path of the motor bridge (e.g. "/dev/ttyUSB0").
	SerialPort string `yaml:"serial_port" json:"serial_port"`

	// SerialBaud is the bridge baud rate. Default: 9600
	SerialBaud int `yaml:"serial_baud" json:"serial_baud"`
}

// DefaultConfig returns a Config with the stock pin assignment.
func DefaultConfig() Config {
	return Config{
		Backend:    BackendAuto,
		LeftPin:    DefaultLeftPin,
		RightPin:   DefaultRightPin,
		SerialBaud: 9600,
	}
}

// ParseBackend normalizes a backend name.
func ParseBackend(s string) (Backend, error) {
	b := Backend(strings.ToLower(strings.TrimSpace(s)))
	switch b {
	case "":
		return BackendAuto, nil
	case BackendAuto, BackendGPIO, BackendSerial, BackendSim, BackendMock:
		return b, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownBackend, s)
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	var errs []error

	backend, err := ParseBackend(string(c.Backend))
	if err != nil {
		errs = append(errs, err)
	}
	if backend == BackendGPIO || backend == BackendAuto {
		if c.LeftPin == "" || c.RightPin == "" {
			errs = append(errs, fmt.Errorf("left_pin and right_pin are required"))
		} else if c.LeftPin == c.RightPin {
			errs = append(errs, fmt.Errorf("left_pin and right_pin must differ, both %q", c.LeftPin))
		}
	}
	if backend == BackendSerial {
		if c.SerialPort == "" {
			errs = append(errs, fmt.Errorf("serial_port is required for serial backend"))
		}
		if c.SerialBaud <= 0 {
			errs = append(errs, fmt.Errorf("serial_baud must be positive, got %d", c.SerialBaud))
		}
	}

	return errors.Join(errs...)
}
