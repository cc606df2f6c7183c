package vision

import (
	"gocv.io/x/gocv"
)

// Fixed Canny hysteresis thresholds.
const (
	CannyLow  float32 = 50
	CannyHigh float32 = 150
)

// EdgeMap is a binary single-channel edge image and its edge-pixel count.
type EdgeMap struct {
	Mat   gocv.Mat
	Count int
}

// Close releases the edge image.
func (e *EdgeMap) Close() error {
	return e.Mat.Close()
}

// Preprocess converts a color sector to grayscale, runs Canny with the
// fixed thresholds and counts the edge pixels. It does not modify the
// input. The caller owns the returned EdgeMap.
func Preprocess(sector gocv.Mat) (EdgeMap, error) {
	if sector.Empty() || sector.Cols() == 0 || sector.Rows() == 0 {
		return EdgeMap{}, ErrEmptySector
	}

	gray := gocv.NewMat()
	defer gray.Close()
	toGray(sector, &gray)

	edges := gocv.NewMat()
	gocv.Canny(gray, &edges, CannyLow, CannyHigh)

	return EdgeMap{Mat: edges, Count: CountEdges(edges)}, nil
}

// CountEdges returns the number of non-zero pixels in a single-channel
// edge image.
func CountEdges(edges gocv.Mat) int {
	if edges.Empty() {
		return 0
	}
	return gocv.CountNonZero(edges)
}

// toGray converts src to a single channel using luminance weights.
func toGray(src gocv.Mat, dst *gocv.Mat) {
	switch src.Channels() {
	case 1:
		src.CopyTo(dst)
	case 4:
		gocv.CvtColor(src, dst, gocv.ColorBGRAToGray)
	default:
		gocv.CvtColor(src, dst, gocv.ColorBGRToGray)
	}
}
