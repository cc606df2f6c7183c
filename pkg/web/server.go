// Package web serves a browser dashboard for the rover: decision status
// as JSON and the annotated ROI as a JPEG stream over websockets.
package web

import (
	"errors"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"
	"github.com/teslashibe/go-rover/pkg/display"
	"github.com/teslashibe/go-rover/pkg/hub"
	"github.com/teslashibe/go-rover/pkg/motor"
	"github.com/teslashibe/go-rover/pkg/nav"
	"github.com/teslashibe/go-rover/pkg/steering"
	"github.com/teslashibe/go-rover/pkg/telemetry"
	"github.com/teslashibe/go-rover/pkg/vision"
	"gocv.io/x/gocv"
)

// DefaultFrameInterval limits the camera stream to 10 fps.
const DefaultFrameInterval = 100 * time.Millisecond

// Config holds dashboard settings.
type Config struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string
	// FrameInterval is the minimum gap between camera frames.
	FrameInterval time.Duration
	// RunID identifies the current run in every status payload.
	RunID string
	// Backend names the bound motor driver.
	Backend motor.Backend
}

// Status is the dashboard state served on /api/status and /ws/status.
type Status struct {
	RunID          string             `json:"run_id"`
	Backend        motor.Backend      `json:"backend"`
	StartedAt      time.Time          `json:"started_at"`
	Frames         uint64             `json:"frames"`
	Decisions      uint64             `json:"decisions"`
	Counts         steering.Counts    `json:"counts"`
	LastDecision   *steering.Decision `json:"last_decision"`
	LastDecisionAt *time.Time         `json:"last_decision_at,omitempty"`
	Motor          motor.State        `json:"motor"`
	Telemetry      *telemetry.Summary `json:"telemetry,omitempty"`
	Streams        map[string]Stream  `json:"streams"`
}

// Stream reports one websocket stream.
type Stream struct {
	Clients int    `json:"clients"`
	Dropped uint64 `json:"dropped"`
}

// Server is the dashboard. It is a display.Sink and a nav.DecisionObserver.
type Server struct {
	cfg    Config
	app    *fiber.App
	logger *slog.Logger

	statusHub *hub.Hub
	cameraHub *hub.Hub

	mu        sync.RWMutex
	status    Status
	recorder  *telemetry.Recorder
	lastFrame time.Time
	now       func() time.Time

	hubsOnce  sync.Once
	closeOnce sync.Once
}

var (
	_ display.Sink         = (*Server)(nil)
	_ nav.DecisionObserver = (*Server)(nil)
)

// NewServer creates a dashboard server. Call Start or Serve to listen.
func NewServer(cfg Config, logger *slog.Logger) *Server {
	if cfg.FrameInterval <= 0 {
		cfg.FrameInterval = DefaultFrameInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "web")

	s := &Server{
		cfg:       cfg,
		logger:    logger,
		statusHub: hub.New("status", logger),
		cameraHub: hub.New("camera", logger),
		now:       time.Now,
	}
	s.status = Status{
		RunID:     cfg.RunID,
		Backend:   cfg.Backend,
		StartedAt: s.now(),
	}

	app := fiber.New(fiber.Config{
		AppName:               "Rover Dashboard",
		DisableStartupMessage: true,
	})
	app.Use(cors.New())

	app.Get("/", s.handleIndex)

	api := app.Group("/api")
	api.Get("/status", s.handleStatus)
	api.Get("/health", s.handleHealth)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/status", websocket.New(s.handleStatusWS))
	app.Get("/ws/camera", websocket.New(s.handleCameraWS))

	s.app = app
	return s
}

// SetRecorder attaches the telemetry recorder served in status payloads.
func (s *Server) SetRecorder(r *telemetry.Recorder) {
	s.mu.Lock()
	s.recorder = r
	s.mu.Unlock()
}

func (s *Server) startHubs() {
	s.hubsOnce.Do(func() {
		go s.statusHub.Run()
		go s.cameraHub.Run()
	})
}

// Start listens on cfg.Addr and blocks until Shutdown.
func (s *Server) Start() error {
	s.startHubs()
	s.logger.Info("dashboard listening", "addr", s.cfg.Addr)
	return s.app.Listen(s.cfg.Addr)
}

// Serve serves on an existing listener and blocks until Shutdown.
func (s *Server) Serve(ln net.Listener) error {
	s.startHubs()
	s.logger.Info("dashboard listening", "addr", ln.Addr().String())
	return s.app.Listener(ln)
}

// StartAsync runs Start in a goroutine and logs its error.
func (s *Server) StartAsync() {
	go func() {
		if err := s.Start(); err != nil {
			s.logger.Warn("dashboard stopped", "error", err)
		}
	}()
}

// Shutdown stops the HTTP server and disconnects all clients.
func (s *Server) Shutdown() error {
	var err error
	s.closeOnce.Do(func() {
		s.statusHub.Stop()
		s.cameraHub.Stop()
		err = s.app.Shutdown()
	})
	return err
}

// Close implements display.Sink.
func (s *Server) Close() error {
	return s.Shutdown()
}

// Snapshot returns the current status.
func (s *Server) Snapshot() Status {
	s.mu.RLock()
	st := s.status
	rec := s.recorder
	s.mu.RUnlock()

	if rec != nil {
		sum := rec.Summary()
		st.Telemetry = &sum
	}
	st.Streams = make(map[string]Stream, 2)
	for _, h := range []*hub.Hub{s.statusHub, s.cameraHub} {
		st.Streams[h.Name()] = Stream{Clients: h.ClientCount(), Dropped: h.Dropped()}
	}
	return st
}

// ObserveDecision records an emitted decision and pushes it to status
// subscribers.
func (s *Server) ObserveDecision(ev nav.DecisionEvent) {
	s.mu.Lock()
	d := ev.Decision
	at := ev.Time
	s.status.LastDecision = &d
	s.status.LastDecisionAt = &at
	s.status.Motor = ev.Motor
	s.status.Decisions++
	s.mu.Unlock()

	if err := s.statusHub.BroadcastJSON(s.Snapshot()); err != nil {
		s.logger.Debug("status broadcast failed", "error", err)
	}
}

// Render updates counts and, when a camera client is connected and the
// frame interval has elapsed, broadcasts the annotated ROI as JPEG.
func (s *Server) Render(v display.View) error {
	s.mu.Lock()
	s.status.Frames = v.Frame
	s.status.Counts = v.Counts
	due := s.cameraHub.ClientCount() > 0 && s.frameDue(s.now())
	s.mu.Unlock()

	if !due || v.ROI.Empty() {
		return nil
	}

	data, err := EncodeJPEG(v.ROI, v.Edges)
	if err != nil {
		return err
	}
	s.cameraHub.BroadcastBinary(data)
	return nil
}

// frameDue reports whether a camera frame may be sent at now and, if so,
// records it. Callers hold s.mu.
func (s *Server) frameDue(now time.Time) bool {
	if !s.lastFrame.IsZero() && now.Sub(s.lastFrame) < s.cfg.FrameInterval {
		return false
	}
	s.lastFrame = now
	return true
}

// EncodeJPEG draws edge contours and sector boundaries on a copy of roi
// and encodes it.
func EncodeJPEG(roi gocv.Mat, edges [vision.NumSectors]gocv.Mat) ([]byte, error) {
	if roi.Empty() {
		return nil, errors.New("web: empty image")
	}
	overlay := vision.DrawOverlay(roi, edges)
	defer overlay.Close()

	buf, err := gocv.IMEncode(gocv.JPEGFileExt, overlay)
	if err != nil {
		return nil, err
	}
	defer buf.Close()

	return append([]byte(nil), buf.GetBytes()...), nil
}
