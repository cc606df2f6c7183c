package display

import (
	"errors"
	"fmt"
	"time"

	"gocv.io/x/gocv"
)

// Window titles.
const (
	WindowLive   = "Live Camera"
	WindowLeft   = "Edges Left"
	WindowCenter = "Edges Center"
	WindowRight  = "Edges Right"
)

// WindowSink shows the ROI and the three edge maps in native OpenCV
// windows. It must be used from the goroutine that created it.
type WindowSink struct {
	live  *gocv.Window
	edges [3]*gocv.Window

	closed bool
}

// NewWindowSink opens the four windows.
func NewWindowSink() *WindowSink {
	return &WindowSink{
		live: gocv.NewWindow(WindowLive),
		edges: [3]*gocv.Window{
			gocv.NewWindow(WindowLeft),
			gocv.NewWindow(WindowCenter),
			gocv.NewWindow(WindowRight),
		},
	}
}

// Render shows the latest view.
func (w *WindowSink) Render(v View) error {
	if w.closed {
		return errors.New("display: windows closed")
	}
	if v.ROI.Empty() {
		return fmt.Errorf("display: empty ROI on frame %d", v.Frame)
	}

	w.live.IMShow(v.ROI)
	for i, win := range w.edges {
		if v.Edges[i].Empty() {
			continue
		}
		win.IMShow(v.Edges[i])
	}
	return nil
}

// PollKey runs the OpenCV event loop for delay and returns the pressed key.
func (w *WindowSink) PollKey(delay time.Duration) int {
	if w.closed {
		return -1
	}
	ms := int(delay / time.Millisecond)
	if ms < 1 {
		ms = 1
	}
	key := w.live.WaitKey(ms)
	if key < 0 {
		return -1
	}
	return key & 0xFF
}

// Close destroys all windows. Later calls are no-ops.
func (w *WindowSink) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	errs := []error{w.live.Close()}
	for _, win := range w.edges {
		errs = append(errs, win.Close())
	}
	return errors.Join(errs...)
}
