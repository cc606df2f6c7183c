// Package camera provides the frame sources feeding the control loop:
// a live V4L2/USB device, a recorded video file, or a directory of
// still images replayed in name order.
package camera

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// Kind selects the frame source implementation.
type Kind string

const (
	// KindDevice reads from a camera device index.
	KindDevice Kind = "device"
	// KindFile reads from a video file or stream URI.
	KindFile Kind = "file"
	// KindImages replays still images from a directory.
	KindImages Kind = "images"
)

// API selects the capture backend for devices.
type API string

const (
	// APIV4L2 forces Video4Linux2 instead of GStreamer.
	APIV4L2 API = "v4l2"
	// APIAny lets OpenCV pick.
	APIAny API = "any"
)

// Config holds frame source configuration.
type Config struct {
	// Kind selects the source. Default: "device"
	Kind Kind `yaml:"kind" json:"kind"`

	// Device is the camera index for KindDevice.
	Device int `yaml:"device" json:"device"`

	// API is the capture backend for KindDevice. Default: "v4l2"
	API API `yaml:"api" json:"api"`

	// Path is the video file for KindFile or the directory for KindImages.
	Path string `yaml:"path" json:"path"`

	// Requested capture size. Zero keeps the device default.
	// For KindImages, images are fitted inside this box.
	Width  int `yaml:"width" json:"width"`
	Height int `yaml:"height" json:"height"`

	// Framerate is the requested device FPS. Zero keeps the device default.
	Framerate int `yaml:"framerate" json:"framerate"`

	// Preset names a capture size from Presets. When set it replaces
	// Width, Height and Framerate at ResolvePreset.
	Preset string `yaml:"preset,omitempty" json:"preset,omitempty"`
}

// ResolvePreset applies c.Preset to the capture size. An empty preset is a
// no-op.
func (c *Config) ResolvePreset() error {
	if c.Preset == "" {
		return nil
	}
	if !ApplyPreset(c, c.Preset) {
		return fmt.Errorf("%w: %q (want one of %s)", ErrUnknownPreset, c.Preset, strings.Join(PresetNames(), ", "))
	}
	return nil
}

// DefaultConfig returns the stock configuration of the rover:
// first camera, V4L2, device default resolution.
func DefaultConfig() Config {
	return Config{
		Kind:   KindDevice,
		Device: 0,
		API:    APIV4L2,
	}
}

// ForPath returns cfg pointed at a recorded source. Directories become
// KindImages, anything else KindFile.
func ForPath(cfg Config, path string) (Config, error) {
	info, err := os.Stat(path)
	if err != nil {
		return cfg, fmt.Errorf("camera source %q: %w", path, err)
	}
	cfg.Path = path
	if info.IsDir() {
		cfg.Kind = KindImages
	} else {
		cfg.Kind = KindFile
	}
	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	var errs []error

	switch c.Kind {
	case KindDevice:
		if c.Device < 0 {
			errs = append(errs, fmt.Errorf("device must be >= 0, got %d", c.Device))
		}
		if c.API != "" && c.API != APIV4L2 && c.API != APIAny {
			errs = append(errs, fmt.Errorf("api must be v4l2 or any, got %q", c.API))
		}
	case KindFile, KindImages:
		if c.Path == "" {
			errs = append(errs, fmt.Errorf("path is required for %s source", c.Kind))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown source kind %q", c.Kind))
	}

	if c.Width < 0 || c.Height < 0 {
		errs = append(errs, fmt.Errorf("width and height must be >= 0, got %dx%d", c.Width, c.Height))
	}
	if c.Preset != "" && GetPreset(c.Preset) == nil {
		errs = append(errs, fmt.Errorf("%w: %q", ErrUnknownPreset, c.Preset))
	}
	if c.Framerate < 0 || c.Framerate > 120 {
		errs = append(errs, fmt.Errorf("framerate must be between 0 and 120, got %d", c.Framerate))
	}

	return errors.Join(errs...)
}
