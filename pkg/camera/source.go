package camera

import (
	"fmt"
	"log/slog"

	"gocv.io/x/gocv"
)

// Source delivers frames to the control loop.
type Source interface {
	// Read fills dst with the next BGR frame. It returns ErrEndOfStream
	// when the source is exhausted or the device stops delivering.
	Read(dst *gocv.Mat) error

	// Close releases the underlying device. Safe to call more than once.
	Close() error
}

// Open creates the frame source described by cfg.
func Open(cfg Config, logger *slog.Logger) (Source, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid camera config: %w", err)
	}

	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "camera")

	logger.Info("opening frame source",
		"kind", cfg.Kind,
		"device", cfg.Device,
		"path", cfg.Path,
		"width", cfg.Width,
		"height", cfg.Height,
	)

	switch cfg.Kind {
	case KindDevice:
		return nonNil(openDevice(cfg, logger))
	case KindFile:
		return nonNil(openFile(cfg, logger))
	case KindImages:
		src, err := openImageDir(cfg, logger)
		if err != nil {
			return nil, err
		}
		logger.Info("image replay ready", "path", cfg.Path, "frames", src.Len())
		return src, nil
	default:
		return nil, fmt.Errorf("unsupported source kind: %s", cfg.Kind)
	}
}

// nonNil keeps a failed open from returning a typed nil Source.
func nonNil(src *captureSource, err error) (Source, error) {
	if err != nil {
		return nil, err
	}
	return src, nil
}
