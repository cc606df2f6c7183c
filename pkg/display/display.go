// Package display renders the vision pipeline for a human watching the
// rover. Sinks are a side channel: nothing they do feeds back into the
// steering decision.
package display

import (
	"errors"
	"time"

	"github.com/teslashibe/go-rover/pkg/steering"
	"gocv.io/x/gocv"
)

// View is one frame's worth of visualization input. Mats are borrowed;
// sinks must not retain them after Render returns.
type View struct {
	ROI      gocv.Mat
	Edges    [3]gocv.Mat
	Counts   steering.Counts
	Decision *steering.Decision
	Frame    uint64
}

// Sink receives one View per loop iteration.
type Sink interface {
	Render(v View) error
	Close() error
}

// KeyPoller is implemented by sinks that can observe a keypress.
// PollKey waits at most delay and returns the key code, or -1.
type KeyPoller interface {
	PollKey(delay time.Duration) int
}

// Nop discards every view.
type Nop struct{}

func (Nop) Render(View) error { return nil }
func (Nop) Close() error      { return nil }

// multi fans a view out to several sinks.
type multi struct {
	sinks []Sink
}

// Multi returns a sink rendering to every non-nil sink in order. A failing
// sink does not prevent the others from rendering.
func Multi(sinks ...Sink) Sink {
	var live []Sink
	for _, s := range sinks {
		if s != nil {
			live = append(live, s)
		}
	}
	if len(live) == 1 {
		return live[0]
	}
	return &multi{sinks: live}
}

func (m *multi) Render(v View) error {
	var errs []error
	for _, s := range m.sinks {
		errs = append(errs, s.Render(v))
	}
	return errors.Join(errs...)
}

func (m *multi) Close() error {
	var errs []error
	for _, s := range m.sinks {
		errs = append(errs, s.Close())
	}
	return errors.Join(errs...)
}

// PollKey forwards to the first sink that can poll keys.
func (m *multi) PollKey(delay time.Duration) int {
	for _, s := range m.sinks {
		if kp, ok := s.(KeyPoller); ok {
			return kp.PollKey(delay)
		}
	}
	return -1
}

// Poller returns the KeyPoller behind s, if any.
func Poller(s Sink) (KeyPoller, bool) {
	if m, ok := s.(*multi); ok {
		for _, inner := range m.sinks {
			if _, ok := inner.(KeyPoller); ok {
				return m, true
			}
		}
		return nil, false
	}
	kp, ok := s.(KeyPoller)
	return kp, ok
}
