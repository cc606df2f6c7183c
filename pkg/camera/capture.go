package camera

import (
	"fmt"
	"log/slog"

	"gocv.io/x/gocv"
)

// captureSource wraps an OpenCV VideoCapture for devices and video files.
type captureSource struct {
	vc     *gocv.VideoCapture
	name   string
	logger *slog.Logger

	frames int
	closed bool
}

func openDevice(cfg Config, logger *slog.Logger) (*captureSource, error) {
	api := gocv.VideoCaptureAny
	if cfg.API == APIV4L2 || cfg.API == "" {
		api = gocv.VideoCaptureV4L2
	}

	vc, err := gocv.VideoCaptureDeviceWithAPI(cfg.Device, api)
	if err != nil {
		return nil, fmt.Errorf("open camera %d: %w", cfg.Device, err)
	}
	if !vc.IsOpened() {
		vc.Close()
		return nil, fmt.Errorf("camera %d: %w", cfg.Device, ErrNotOpened)
	}

	if cfg.Width > 0 && cfg.Height > 0 {
		vc.Set(gocv.VideoCaptureFrameWidth, float64(cfg.Width))
		vc.Set(gocv.VideoCaptureFrameHeight, float64(cfg.Height))
	}
	if cfg.Framerate > 0 {
		vc.Set(gocv.VideoCaptureFPS, float64(cfg.Framerate))
	}

	return &captureSource{
		vc:     vc,
		name:   fmt.Sprintf("device:%d", cfg.Device),
		logger: logger,
	}, nil
}

func openFile(cfg Config, logger *slog.Logger) (*captureSource, error) {
	vc, err := gocv.VideoCaptureFile(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("open video %s: %w", cfg.Path, err)
	}
	if !vc.IsOpened() {
		vc.Close()
		return nil, fmt.Errorf("video %s: %w", cfg.Path, ErrNotOpened)
	}

	return &captureSource{
		vc:     vc,
		name:   "file:" + cfg.Path,
		logger: logger,
	}, nil
}

// Read grabs the next frame. OpenCV does not distinguish a failed grab
// from the end of a file, so both report ErrEndOfStream.
func (s *captureSource) Read(dst *gocv.Mat) error {
	if s.closed {
		return ErrClosed
	}
	if ok := s.vc.Read(dst); !ok || dst.Empty() {
		return ErrEndOfStream
	}
	s.frames++
	return nil
}

func (s *captureSource) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.logger.Info("frame source released", "source", s.name, "frames", s.frames)
	return s.vc.Close()
}
