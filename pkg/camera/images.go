package camera

import (
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/disintegration/imaging"
	"gocv.io/x/gocv"
)

var imageExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
}

// imageDirSource replays still images as frames, one per Read.
type imageDirSource struct {
	paths  []string
	next   int
	fit    image.Point
	logger *slog.Logger
	closed bool
}

func openImageDir(cfg Config, logger *slog.Logger) (*imageDirSource, error) {
	entries, err := os.ReadDir(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("read image dir: %w", err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() || !imageExts[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		paths = append(paths, filepath.Join(cfg.Path, e.Name()))
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%s: %w", cfg.Path, ErrNoImages)
	}
	sort.Strings(paths)

	logger.Debug("image directory indexed", "path", cfg.Path, "images", len(paths))

	return &imageDirSource{
		paths:  paths,
		fit:    image.Pt(cfg.Width, cfg.Height),
		logger: logger,
	}, nil
}

// Len returns the number of frames in the directory.
func (s *imageDirSource) Len() int {
	return len(s.paths)
}

func (s *imageDirSource) Read(dst *gocv.Mat) error {
	if s.closed {
		return ErrClosed
	}
	if s.next >= len(s.paths) {
		return ErrEndOfStream
	}

	path := s.paths[s.next]
	s.next++

	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	if s.fit.X > 0 && s.fit.Y > 0 {
		img = imaging.Fit(img, s.fit.X, s.fit.Y, imaging.Lanczos)
	}

	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return fmt.Errorf("convert %s: %w", path, err)
	}
	defer mat.Close()

	mat.CopyTo(dst)
	return nil
}

func (s *imageDirSource) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.logger.Info("frame source released", "source", "images", "frames", s.next)
	return nil
}
