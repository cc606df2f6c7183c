package vision

import "errors"

// Sentinel errors for precondition violations. A functioning frame source
// never produces them.
var (
	// ErrEmptyFrame is returned when the input frame has no pixels.
	ErrEmptyFrame = errors.New("vision: empty frame")

	// ErrEmptySector is returned when a sector has zero width or height.
	ErrEmptySector = errors.New("vision: empty sector")
)
