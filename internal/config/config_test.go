package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teslashibe/go-rover/pkg/camera"
	"github.com/teslashibe/go-rover/pkg/motor"
)

func envMap(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, camera.KindDevice, cfg.Camera.Kind)
	assert.Equal(t, 0, cfg.Camera.Device)
	assert.Equal(t, camera.APIV4L2, cfg.Camera.API)
	assert.Equal(t, ROI{Width: 400, Height: 300}, cfg.ROI)
	assert.Equal(t, "GPIO17", cfg.Motor.LeftPin)
	assert.Equal(t, "GPIO27", cfg.Motor.RightPin)
	assert.Equal(t, motor.BackendAuto, cfg.Motor.Backend)
	assert.True(t, cfg.Display.Windows)
	assert.Equal(t, int('q'), cfg.StopKeyCode())
	assert.NoError(t, cfg.Validate())
}

func TestLoad_EmptyPath(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_OverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rover.yaml")
	data := []byte(`
camera:
  device: 2
  width: 640
  height: 480
roi:
  width: 300
motor:
  backend: serial
  serial_port: /dev/ttyUSB0
display:
  windows: false
  web_addr: ":8080"
`)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.Camera.Device)
	assert.Equal(t, camera.APIV4L2, cfg.Camera.API, "unset keys keep defaults")
	assert.Equal(t, 640, cfg.Camera.Width)
	assert.Equal(t, 300, cfg.ROI.Width)
	assert.Equal(t, 300, cfg.ROI.Height)
	assert.Equal(t, motor.BackendSerial, cfg.Motor.Backend)
	assert.Equal(t, 9600, cfg.Motor.SerialBaud)
	assert.False(t, cfg.Display.Windows)
	assert.Equal(t, ":8080", cfg.Display.WebAddr)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_Preset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rover.yaml")
	require.NoError(t, os.WriteFile(path, []byte("camera:\n  preset: vga\n  width: 100\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, camera.PresetVGA, cfg.Camera.Preset)
	assert.Equal(t, 640, cfg.Camera.Width, "preset replaces the capture size")
	assert.Equal(t, 480, cfg.Camera.Height)
	assert.NoError(t, cfg.Validate())

	require.NoError(t, os.WriteFile(path, []byte("camera:\n  preset: 8k\n"), 0o644))
	_, err = Load(path)
	assert.ErrorIs(t, err, camera.ErrUnknownPreset)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("roi: [1, 2"), 0o644))
	_, err = Load(path)
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	dir := t.TempDir()

	cfg := Default()
	err := cfg.applyEnv(envMap(map[string]string{
		EnvCameraSource: dir,
		EnvMotorBackend: "SIM",
		EnvSerialPort:   "/dev/ttyACM0",
		EnvWebAddr:      ":9000",
		EnvLogLevel:     "debug",
	}))
	require.NoError(t, err)

	assert.Equal(t, camera.KindImages, cfg.Camera.Kind)
	assert.Equal(t, dir, cfg.Camera.Path)
	assert.Equal(t, motor.BackendSim, cfg.Motor.Backend)
	assert.Equal(t, "/dev/ttyACM0", cfg.Motor.SerialPort)
	assert.Equal(t, ":9000", cfg.Display.WebAddr)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestApplyEnv_Device(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.applyEnv(envMap(map[string]string{EnvCameraDevice: "1"})))
	assert.Equal(t, 1, cfg.Camera.Device)
	assert.Equal(t, camera.KindDevice, cfg.Camera.Kind)
}

func TestApplyEnv_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"bad device", map[string]string{EnvCameraDevice: "usb"}},
		{"missing source", map[string]string{EnvCameraSource: "/nonexistent/rover.mp4"}},
		{"bad backend", map[string]string{EnvMotorBackend: "pwm"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			assert.Error(t, cfg.applyEnv(envMap(tt.env)))
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative roi", func(c *Config) { c.ROI.Width = -1 }},
		{"bad camera", func(c *Config) { c.Camera.Device = -2 }},
		{"same pins", func(c *Config) { c.Motor.RightPin = c.Motor.LeftPin }},
		{"serial without port", func(c *Config) { c.Motor.Backend = motor.BackendSerial }},
		{"long stop key", func(c *Config) { c.Display.StopKey = "quit" }},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalid))
		})
	}
}

func TestValidate_ReportsAll(t *testing.T) {
	cfg := Default()
	cfg.ROI.Height = -5
	cfg.Log.Format = "xml"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "roi")
	assert.Contains(t, err.Error(), "log")
}
