package motor

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// modelPath is where the Raspberry Pi firmware exposes the board model.
var modelPath = "/proc/device-tree/model"

// IsRaspberryPi reports whether the host identifies as a Raspberry Pi.
func IsRaspberryPi() bool {
	data, err := os.ReadFile(modelPath)
	if err != nil {
		return false
	}
	return strings.Contains(string(data), "Raspberry Pi")
}

// DetectBackend returns the best available backend for the current host.
func DetectBackend() Backend {
	if IsRaspberryPi() {
		return BackendGPIO
	}
	return BackendSim
}

// NewDriver creates the motor driver described by cfg and reports which
// backend was bound. With BackendAuto a GPIO failure falls back to sim.
func NewDriver(cfg Config, logger *slog.Logger) (Driver, Backend, error) {
	if err := cfg.Validate(); err != nil {
		return nil, "", fmt.Errorf("invalid motor config: %w", err)
	}

	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "motor")

	backend, _ := ParseBackend(string(cfg.Backend))
	auto := backend == BackendAuto
	if auto {
		backend = DetectBackend()
	}

	logger.Info("creating motor driver",
		"backend", backend,
		"auto", auto,
		"left_pin", cfg.LeftPin,
		"right_pin", cfg.RightPin,
	)

	switch backend {
	case BackendGPIO:
		d, err := NewGPIODriver(cfg.LeftPin, cfg.RightPin, logger)
		if err != nil && auto {
			logger.Warn("gpio unavailable, falling back to simulated motors", "error", err)
			return NewSimDriver(logger), BackendSim, nil
		}
		if err != nil {
			return nil, "", err
		}
		return d, BackendGPIO, nil
	case BackendSerial:
		d, err := NewSerialDriver(cfg.SerialPort, cfg.SerialBaud, logger)
		if err != nil {
			return nil, "", err
		}
		return d, BackendSerial, nil
	case BackendSim:
		return NewSimDriver(logger), BackendSim, nil
	case BackendMock:
		return NewMockDriver(), BackendMock, nil
	default:
		return nil, "", fmt.Errorf("%w: %s", ErrUnknownBackend, backend)
	}
}

// Open builds the driver and wraps it in an Actuator.
func Open(cfg Config, logger *slog.Logger) (*Actuator, error) {
	d, backend, err := NewDriver(cfg, logger)
	if err != nil {
		return nil, err
	}
	return NewActuator(d, backend, logger), nil
}
