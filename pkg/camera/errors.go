package camera

import "errors"

// Sentinel errors for frame sources.
var (
	// ErrEndOfStream is returned by Read when no further frame is available.
	ErrEndOfStream = errors.New("camera: end of stream")

	// ErrNotOpened is returned when the capture backend could not open the source.
	ErrNotOpened = errors.New("camera: source not opened")

	// ErrClosed is returned by Read after Close.
	ErrClosed = errors.New("camera: source closed")

	// ErrNoImages is returned when an image directory holds no usable files.
	ErrNoImages = errors.New("camera: no images in directory")

	// ErrUnknownPreset is returned for a preset name not in Presets.
	ErrUnknownPreset = errors.New("camera: unknown preset")
)
