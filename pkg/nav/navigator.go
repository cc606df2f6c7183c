// Package nav runs the rover control loop: read a frame, score the three
// sectors, steer, render, and watch for a stop signal.
//
// The Navigator owns the debounce timer and the motor state machine for
// the lifetime of one run. Every exit path stops the motors before the
// camera is released.
package nav

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/teslashibe/go-rover/pkg/camera"
	"github.com/teslashibe/go-rover/pkg/display"
	"github.com/teslashibe/go-rover/pkg/motor"
	"github.com/teslashibe/go-rover/pkg/steering"
	"github.com/teslashibe/go-rover/pkg/telemetry"
	"github.com/teslashibe/go-rover/pkg/vision"
	"gocv.io/x/gocv"
)

// DefaultStopKey ends the run when pressed in a display window.
const DefaultStopKey = 'q'

// DefaultKeyDelay bounds each keypress poll.
const DefaultKeyDelay = time.Millisecond

// ErrAlreadyRun is returned when Run is called on a navigator that has
// already run.
var ErrAlreadyRun = errors.New("nav: navigator already run")

// DecisionEvent describes one emitted steering decision.
type DecisionEvent struct {
	Time     time.Time         `json:"time"`
	Frame    uint64            `json:"frame"`
	Decision steering.Decision `json:"decision"`
	Counts   steering.Counts   `json:"counts"`
	Motor    motor.State       `json:"motor"`
}

// DecisionObserver is notified after each emitted decision has been
// actuated. It runs on the control loop and must not block.
type DecisionObserver interface {
	ObserveDecision(ev DecisionEvent)
}

// DecisionObserverFunc adapts a function to DecisionObserver.
type DecisionObserverFunc func(ev DecisionEvent)

func (f DecisionObserverFunc) ObserveDecision(ev DecisionEvent) { f(ev) }

// Options configures a Navigator. Source and Actuator are required.
type Options struct {
	Source   camera.Source
	Actuator *motor.Actuator

	// Analyzer defaults to the 400x300 ROI.
	Analyzer *vision.Analyzer
	// Policy defaults to a one second debounce.
	Policy *steering.Policy
	// Sink defaults to display.Nop.
	Sink display.Sink
	// Keys defaults to the sink's own key poller, if it has one.
	Keys     display.KeyPoller
	StopKey  int
	KeyDelay time.Duration

	Recorder *telemetry.Recorder
	Observer DecisionObserver

	// Clock defaults to time.Now.
	Clock  func() time.Time
	Logger *slog.Logger
}

// Stats counts loop activity.
type Stats struct {
	Frames    uint64 `json:"frames"`
	Decisions uint64 `json:"decisions"`
	Throttled uint64 `json:"throttled"`
	MotorErrs uint64 `json:"motor_errors"`
	RenderErr uint64 `json:"render_errors"`

	// Driver-level counters from the actuator.
	MotorApplied  uint64 `json:"motor_applied"`
	MotorFailures uint64 `json:"motor_failures"`
	MotorsStopped bool   `json:"motors_stopped"`
}

// Navigator is the single-threaded control loop.
type Navigator struct {
	source   camera.Source
	actuator *motor.Actuator
	analyzer *vision.Analyzer
	policy   *steering.Policy
	sink     display.Sink
	keys     display.KeyPoller
	stopKey  int
	keyDelay time.Duration
	recorder *telemetry.Recorder
	observer DecisionObserver
	now      func() time.Time
	logger   *slog.Logger

	started      atomic.Bool
	shutdownOnce sync.Once
	shutdownErr  error

	frames    atomic.Uint64
	decisions atomic.Uint64
	throttled atomic.Uint64
	motorErrs atomic.Uint64
	renderErr atomic.Uint64
}

// New builds a navigator from opts.
func New(opts Options) (*Navigator, error) {
	if opts.Source == nil {
		return nil, errors.New("nav: frame source is required")
	}
	if opts.Actuator == nil {
		return nil, errors.New("nav: motor actuator is required")
	}

	n := &Navigator{
		source:   opts.Source,
		actuator: opts.Actuator,
		analyzer: opts.Analyzer,
		policy:   opts.Policy,
		sink:     opts.Sink,
		keys:     opts.Keys,
		stopKey:  opts.StopKey,
		keyDelay: opts.KeyDelay,
		recorder: opts.Recorder,
		observer: opts.Observer,
		now:      opts.Clock,
		logger:   opts.Logger,
	}

	if n.analyzer == nil {
		n.analyzer = vision.NewAnalyzer(vision.DefaultROIWidth, vision.DefaultROIHeight)
	}
	if n.policy == nil {
		n.policy = steering.NewPolicy(steering.DefaultMinInterval)
	}
	if n.sink == nil {
		n.sink = display.Nop{}
	}
	if n.keys == nil {
		if kp, ok := display.Poller(n.sink); ok {
			n.keys = kp
		}
	}
	if n.stopKey == 0 {
		n.stopKey = DefaultStopKey
	}
	if n.keyDelay <= 0 {
		n.keyDelay = DefaultKeyDelay
	}
	if n.recorder == nil {
		n.recorder = telemetry.NewRecorder(telemetry.DefaultWindow)
	}
	if n.now == nil {
		n.now = time.Now
	}
	if n.logger == nil {
		n.logger = slog.Default()
	}
	n.logger = n.logger.With("component", "nav")

	return n, nil
}

// Recorder returns the telemetry recorder fed by the loop.
func (n *Navigator) Recorder() *telemetry.Recorder {
	return n.recorder
}

// Stats returns a snapshot of loop counters.
func (n *Navigator) Stats() Stats {
	applied, failures := n.actuator.Stats()
	return Stats{
		Frames:        n.frames.Load(),
		Decisions:     n.decisions.Load(),
		Throttled:     n.throttled.Load(),
		MotorErrs:     n.motorErrs.Load(),
		RenderErr:     n.renderErr.Load(),
		MotorApplied:  applied,
		MotorFailures: failures,
		MotorsStopped: n.actuator.Closed(),
	}
}

// Run drives the loop until the source ends, the stop key is pressed, or
// ctx is cancelled. End of input and read failures are normal stops and
// return a nil error. Motors, camera, and sink are released exactly once
// on every exit path, in that order.
func (n *Navigator) Run(ctx context.Context) (reason StopReason, err error) {
	if !n.started.CompareAndSwap(false, true) {
		return StopNone, ErrAlreadyRun
	}

	defer func() {
		if r := recover(); r != nil {
			n.shutdown()
			panic(r)
		}
		if shutErr := n.shutdown(); shutErr != nil {
			n.logger.Warn("shutdown reported errors", "error", shutErr, "reason", reason)
		}
		n.logger.Info("navigation stopped", "reason", reason, "frames", n.frames.Load(), "decisions", n.decisions.Load())
	}()

	frame := gocv.NewMat()
	defer frame.Close()

	n.policy.Reset(n.now())
	roiW, roiH := n.analyzer.ROISize()
	n.logger.Info("navigation started",
		"roi_width", roiW,
		"roi_height", roiH,
		"stop_key", string(rune(n.stopKey)),
		"min_interval", n.policy.MinInterval(),
	)

	for {
		if ctx.Err() != nil {
			return StopCancelled, nil
		}

		if err := n.source.Read(&frame); err != nil {
			if errors.Is(err, camera.ErrEndOfStream) {
				return StopEndOfStream, nil
			}
			n.logger.Warn("frame read failed", "error", err)
			return StopReadFailed, nil
		}

		if err := n.step(frame); err != nil {
			return StopError, err
		}

		if n.keys != nil {
			if key := n.keys.PollKey(n.keyDelay); key == n.stopKey {
				return StopKey, nil
			}
		}
	}
}

// step runs the pipeline on one frame.
func (n *Navigator) step(frame gocv.Mat) error {
	res, err := n.analyzer.Analyze(frame)
	if err != nil {
		return fmt.Errorf("analyze frame: %w", err)
	}
	defer res.Close()

	idx := n.frames.Add(1)
	counts := res.Counts()
	n.recorder.Observe(counts)
	n.logger.Debug("edge counts", "frame", idx, "left", counts.Left, "center", counts.Center, "right", counts.Right)

	var emitted *steering.Decision
	d, ok := n.policy.Decide(counts, n.now())
	if ok {
		emitted = &d
		n.actuate(idx, d, counts)
	} else {
		n.throttled.Add(1)
	}

	view := display.View{
		ROI:      res.ROI,
		Edges:    res.EdgeMats(),
		Counts:   counts,
		Decision: emitted,
		Frame:    idx,
	}
	if err := n.sink.Render(view); err != nil {
		n.renderErr.Add(1)
		n.logger.Debug("render failed", "error", err)
	}
	return nil
}

func (n *Navigator) actuate(frame uint64, d steering.Decision, counts steering.Counts) {
	n.decisions.Add(1)
	n.recorder.Decision(d)
	n.logger.Info("steering decision",
		"decision", d,
		"left", counts.Left,
		"center", counts.Center,
		"right", counts.Right,
	)

	if err := n.actuator.Apply(d); err != nil {
		n.motorErrs.Add(1)
		n.logger.Error("motor apply failed", "decision", d, "error", err)
	}

	if n.observer != nil {
		n.observer.ObserveDecision(DecisionEvent{
			Time:     n.policy.Last(),
			Frame:    frame,
			Decision: d,
			Counts:   counts,
			Motor:    n.actuator.State(),
		})
	}
}

// shutdown stops the motors, then closes the source, then the sink.
// Only the first call has any effect.
func (n *Navigator) shutdown() error {
	n.shutdownOnce.Do(func() {
		var errs []error
		if err := n.actuator.Shutdown(); err != nil {
			errs = append(errs, fmt.Errorf("motors: %w", err))
		}
		if err := n.source.Close(); err != nil {
			errs = append(errs, fmt.Errorf("camera: %w", err))
		}
		if err := n.sink.Close(); err != nil {
			errs = append(errs, fmt.Errorf("display: %w", err))
		}
		n.shutdownErr = errors.Join(errs...)
	})
	return n.shutdownErr
}
