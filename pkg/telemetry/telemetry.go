// Package telemetry keeps rolling statistics of sector edge counts and a
// histogram of steering decisions for logging and the dashboard.
package telemetry

import (
	"sync"

	"github.com/teslashibe/go-rover/pkg/steering"
	"gonum.org/v1/gonum/stat"
)

// DefaultWindow is the number of recent frames kept for statistics.
const DefaultWindow = 300

// SectorStats summarizes one sector over the window.
type SectorStats struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stddev"`
	Min    int     `json:"min"`
	Max    int     `json:"max"`
}

// Summary is a snapshot of the recorder.
type Summary struct {
	Frames    uint64            `json:"frames"`
	Window    int               `json:"window"`
	Left      SectorStats       `json:"left"`
	Center    SectorStats       `json:"center"`
	Right     SectorStats       `json:"right"`
	Decisions map[string]uint64 `json:"decisions"`
}

// Recorder accumulates counts in a ring buffer. It is safe for concurrent
// use so the dashboard can read while the control loop writes.
type Recorder struct {
	mu        sync.Mutex
	size      int
	ring      [][3]float64
	next      int
	full      bool
	frames    uint64
	decisions [3]uint64
}

// NewRecorder creates a recorder over the last window frames.
// A non-positive window uses DefaultWindow.
func NewRecorder(window int) *Recorder {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Recorder{
		size: window,
		ring: make([][3]float64, window),
	}
}

// Observe records one frame's counts.
func (r *Recorder) Observe(c steering.Counts) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.ring[r.next] = [3]float64{float64(c.Left), float64(c.Center), float64(c.Right)}
	r.next = (r.next + 1) % r.size
	if r.next == 0 {
		r.full = true
	}
	r.frames++
}

// Decision records an emitted decision.
func (r *Recorder) Decision(d steering.Decision) {
	if d < steering.Straight || d > steering.Right {
		return
	}
	r.mu.Lock()
	r.decisions[d]++
	r.mu.Unlock()
}

// Summary returns statistics over the current window.
func (r *Recorder) Summary() Summary {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := r.next
	if r.full {
		n = r.size
	}

	cols := [3][]float64{
		make([]float64, n),
		make([]float64, n),
		make([]float64, n),
	}
	for i := 0; i < n; i++ {
		for s := 0; s < 3; s++ {
			cols[s][i] = r.ring[i][s]
		}
	}

	return Summary{
		Frames: r.frames,
		Window: n,
		Left:   sectorStats(cols[0]),
		Center: sectorStats(cols[1]),
		Right:  sectorStats(cols[2]),
		Decisions: map[string]uint64{
			steering.Straight.String(): r.decisions[steering.Straight],
			steering.Left.String():     r.decisions[steering.Left],
			steering.Right.String():    r.decisions[steering.Right],
		},
	}
}

func sectorStats(xs []float64) SectorStats {
	if len(xs) == 0 {
		return SectorStats{}
	}

	var st SectorStats
	if len(xs) == 1 {
		st.Mean = xs[0]
	} else {
		st.Mean, st.StdDev = stat.MeanStdDev(xs, nil)
	}

	lo, hi := xs[0], xs[0]
	for _, x := range xs[1:] {
		lo = min(lo, x)
		hi = max(hi, x)
	}
	st.Min, st.Max = int(lo), int(hi)
	return st
}
