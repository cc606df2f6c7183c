package vision

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/teslashibe/go-rover/pkg/steering"
	"gocv.io/x/gocv"
)

// Default ROI size in pixels.
const (
	DefaultROIWidth  = 400
	DefaultROIHeight = 300
)

// Analysis is the per-frame result of the vision pipeline.
// ROI is a view into the source frame; Close it before the frame is reused.
type Analysis struct {
	FrameSize   image.Point
	ROIRect     image.Rectangle
	SectorRects [NumSectors]image.Rectangle
	ROI         gocv.Mat
	Edges       [NumSectors]EdgeMap

	filled int // edge maps allocated so far
}

// Counts returns the edge counts in steering order.
func (a *Analysis) Counts() steering.Counts {
	return steering.Counts{
		Left:   a.Edges[SectorLeft].Count,
		Center: a.Edges[SectorCenter].Count,
		Right:  a.Edges[SectorRight].Count,
	}
}

// Close releases the ROI view and the edge maps.
func (a *Analysis) Close() error {
	var errs []error
	errs = append(errs, a.ROI.Close())
	for i := 0; i < a.filled; i++ {
		errs = append(errs, a.Edges[i].Close())
	}
	return errors.Join(errs...)
}

// Analyzer runs ROI extraction, sector split and edge scoring.
// It holds only the configured ROI size and is safe to reuse across frames.
type Analyzer struct {
	roiWidth  int
	roiHeight int
}

// NewAnalyzer creates an analyzer for the given target ROI size.
func NewAnalyzer(roiWidth, roiHeight int) *Analyzer {
	return &Analyzer{roiWidth: roiWidth, roiHeight: roiHeight}
}

// ROISize returns the configured target ROI size.
func (a *Analyzer) ROISize() (width, height int) {
	return a.roiWidth, a.roiHeight
}

// Analyze scores one frame. The caller owns the returned Analysis.
func (a *Analyzer) Analyze(frame gocv.Mat) (*Analysis, error) {
	if frame.Empty() || frame.Cols() == 0 || frame.Rows() == 0 {
		return nil, ErrEmptyFrame
	}

	size := image.Pt(frame.Cols(), frame.Rows())
	roi := ROIRect(size, a.roiWidth, a.roiHeight)

	res := &Analysis{
		FrameSize:   size,
		ROIRect:     roi,
		SectorRects: SectorRects(roi),
		ROI:         frame.Region(roi),
	}

	for i, rect := range res.SectorRects {
		if rect.Empty() {
			res.Close()
			return nil, fmt.Errorf("%s sector %v: %w", Sector(i), rect, ErrEmptySector)
		}

		section := frame.Region(rect)
		edges, err := Preprocess(section)
		section.Close()
		if err != nil {
			res.Close()
			return nil, fmt.Errorf("%s sector: %w", Sector(i), err)
		}
		res.Edges[i] = edges
		res.filled++
	}

	return res, nil
}

// Overlay colors: sector boundaries in green, edge contours in red.
var (
	overlayColor = color.RGBA{R: 0, G: 255, B: 0, A: 0}
	contourColor = color.RGBA{R: 255, G: 0, B: 0, A: 0}
)

// DrawOverlay returns a copy of roi with the outer contours of each
// sector's edge map and the sector boundaries drawn on it. Edge maps must
// be allocated Mats; empty ones or ones not matching the sector size
// are skipped. The caller owns
// the result.
func DrawOverlay(roi gocv.Mat, edges [NumSectors]gocv.Mat) gocv.Mat {
	out := roi.Clone()
	rects := SectorRects(image.Rect(0, 0, roi.Cols(), roi.Rows()))

	for i, rect := range rects {
		em := edges[i]
		if em.Empty() || em.Cols() != rect.Dx() || em.Rows() != rect.Dy() {
			continue
		}
		contours := gocv.FindContours(em, gocv.RetrievalExternal, gocv.ChainApproxSimple)
		if contours.Size() > 0 {
			region := out.Region(rect)
			gocv.DrawContours(&region, contours, -1, contourColor, 1)
			region.Close()
		}
		contours.Close()
	}

	for _, rect := range rects[1:] {
		gocv.Line(&out, image.Pt(rect.Min.X, 0), image.Pt(rect.Min.X, out.Rows()-1), overlayColor, 1)
	}
	return out
}

// EdgeMats returns the three edge maps of a.
func (a *Analysis) EdgeMats() [NumSectors]gocv.Mat {
	var mats [NumSectors]gocv.Mat
	for i := range a.Edges {
		mats[i] = a.Edges[i].Mat
	}
	return mats
}
