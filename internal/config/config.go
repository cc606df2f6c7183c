// Package config loads rover configuration from defaults, an optional
// YAML file, and ROVER_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/teslashibe/go-rover/pkg/camera"
	"github.com/teslashibe/go-rover/pkg/motor"
	"github.com/teslashibe/go-rover/pkg/vision"
	"gopkg.in/yaml.v3"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("config: invalid configuration")

// Environment variables read by ApplyEnv.
const (
	EnvCameraDevice = "ROVER_CAMERA_DEVICE"
	EnvCameraSource = "ROVER_CAMERA_SOURCE"
	EnvMotorBackend = "ROVER_MOTOR_BACKEND"
	EnvSerialPort   = "ROVER_SERIAL_PORT"
	EnvWebAddr      = "ROVER_WEB_ADDR"
	EnvLogLevel     = "ROVER_LOG_LEVEL"
)

// ROI is the target size of the analyzed window.
type ROI struct {
	Width  int `yaml:"width" json:"width"`
	Height int `yaml:"height" json:"height"`
}

// Display controls the visualization sinks.
type Display struct {
	// Windows opens the native OpenCV windows.
	Windows bool `yaml:"windows" json:"windows"`
	// WebAddr enables the dashboard when non-empty, e.g. ":8080".
	WebAddr string `yaml:"web_addr" json:"web_addr"`
	// StopKey ends the run when pressed in a window.
	StopKey string `yaml:"stop_key" json:"stop_key"`
}

// Log controls the process logger.
type Log struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
}

// Config is the full rover configuration.
type Config struct {
	Camera  camera.Config `yaml:"camera" json:"camera"`
	ROI     ROI           `yaml:"roi" json:"roi"`
	Motor   motor.Config  `yaml:"motor" json:"motor"`
	Display Display       `yaml:"display" json:"display"`
	Log     Log           `yaml:"log" json:"log"`
}

// Default returns the stock configuration of the rover.
func Default() Config {
	return Config{
		Camera: camera.DefaultConfig(),
		ROI: ROI{
			Width:  vision.DefaultROIWidth,
			Height: vision.DefaultROIHeight,
		},
		Motor: motor.DefaultConfig(),
		Display: Display{
			Windows: true,
			StopKey: "q",
		},
		Log: Log{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load returns defaults overlaid with the YAML file at path. An empty path
// returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Camera.ResolvePreset(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv overlays ROVER_* environment variables onto c.
func (c *Config) ApplyEnv() error {
	return c.applyEnv(os.LookupEnv)
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvCameraDevice); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvCameraDevice, err)
		}
		c.Camera.Kind = camera.KindDevice
		c.Camera.Device = n
	}
	if v, ok := lookup(EnvCameraSource); ok && v != "" {
		cam, err := camera.ForPath(c.Camera, v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvCameraSource, err)
		}
		c.Camera = cam
	}
	if v, ok := lookup(EnvMotorBackend); ok && v != "" {
		b, err := motor.ParseBackend(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvMotorBackend, err)
		}
		c.Motor.Backend = b
	}
	if v, ok := lookup(EnvSerialPort); ok && v != "" {
		c.Motor.SerialPort = v
	}
	if v, ok := lookup(EnvWebAddr); ok {
		c.Display.WebAddr = v
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.Log.Level = v
	}
	return nil
}

// StopKeyCode returns the key code of Display.StopKey.
func (c *Config) StopKeyCode() int {
	if c.Display.StopKey == "" {
		return 'q'
	}
	return int(c.Display.StopKey[0])
}

// Validate checks every section and reports all violations at once.
func (c *Config) Validate() error {
	var errs []error

	if err := c.Camera.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("camera: %w", err))
	}
	if c.ROI.Width < 0 || c.ROI.Height < 0 {
		errs = append(errs, fmt.Errorf("roi: width and height must be >= 0, got %dx%d", c.ROI.Width, c.ROI.Height))
	}
	if err := c.Motor.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("motor: %w", err))
	}
	if len(c.Display.StopKey) > 1 {
		errs = append(errs, fmt.Errorf("display: stop_key must be a single character, got %q", c.Display.StopKey))
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log: format must be text or json, got %q", c.Log.Format))
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
}
