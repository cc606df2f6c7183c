// Package vision extracts the region of interest from a camera frame,
// splits it into three lateral sectors and scores each sector by its
// edge content.
package vision

import "image"

// Sector identifies one of the three vertical slices of the ROI.
type Sector int

const (
	SectorLeft Sector = iota
	SectorCenter
	SectorRight
)

// NumSectors is the number of lateral slices.
const NumSectors = 3

// Sectors lists the slices in left-to-right order.
var Sectors = [NumSectors]Sector{SectorLeft, SectorCenter, SectorRight}

func (s Sector) String() string {
	switch s {
	case SectorLeft:
		return "left"
	case SectorCenter:
		return "center"
	case SectorRight:
		return "right"
	default:
		return "unknown"
	}
}

// ROIRect returns the centered window of size width×height inside a frame
// of the given size. Targets larger than the frame, or non-positive, are
// clamped to the frame dimension.
func ROIRect(frame image.Point, width, height int) image.Rectangle {
	if width <= 0 || width > frame.X {
		width = frame.X
	}
	if height <= 0 || height > frame.Y {
		height = frame.Y
	}

	x0 := (frame.X - width) / 2
	y0 := (frame.Y - height) / 2
	return image.Rect(x0, y0, x0+width, y0+height)
}

// SectorRects splits roi into three vertical slices in absolute
// coordinates. The first two are ⌊width/3⌋ wide and the right slice
// absorbs the remainder.
func SectorRects(roi image.Rectangle) [NumSectors]image.Rectangle {
	third := roi.Dx() / 3
	x0 := roi.Min.X

	return [NumSectors]image.Rectangle{
		image.Rect(x0, roi.Min.Y, x0+third, roi.Max.Y),
		image.Rect(x0+third, roi.Min.Y, x0+2*third, roi.Max.Y),
		image.Rect(x0+2*third, roi.Min.Y, roi.Max.X, roi.Max.Y),
	}
}
