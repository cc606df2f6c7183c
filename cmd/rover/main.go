// Rover - camera-driven obstacle avoidance for a two-motor robot
//
// Splits the centered ROI of each frame into left/center/right sectors,
// steers toward the sector with the fewest edges, and drives the motors
// over GPIO, a serial motor bridge, or a simulator.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/teslashibe/go-rover/internal/config"
	"github.com/teslashibe/go-rover/internal/log"
	"github.com/teslashibe/go-rover/pkg/camera"
	"github.com/teslashibe/go-rover/pkg/display"
	"github.com/teslashibe/go-rover/pkg/motor"
	"github.com/teslashibe/go-rover/pkg/nav"
	"github.com/teslashibe/go-rover/pkg/steering"
	"github.com/teslashibe/go-rover/pkg/telemetry"
	"github.com/teslashibe/go-rover/pkg/vision"
	"github.com/teslashibe/go-rover/pkg/web"
)

func main() {
	cfg, err := parseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Configuration error: %v\n", err)
		os.Exit(2)
	}

	log.InitWithOptions(log.Options{Level: cfg.Log.Level, Format: cfg.Log.Format})

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg); err != nil {
		log.Error("rover stopped with error", "error", err)
		cancel()
		os.Exit(1)
	}
}

// parseFlags layers defaults, the optional YAML file, ROVER_* variables,
// and finally explicitly set flags.
func parseFlags(args []string) (config.Config, error) {
	fs := flag.NewFlagSet("rover", flag.ContinueOnError)

	configPath := fs.String("config", "", "YAML config file")
	device := fs.Int("device", 0, "Camera device index")
	source := fs.String("source", "", "Video file or image directory instead of a camera")
	backend := fs.String("backend", "", "Motor backend: auto, gpio, serial, sim")
	preset := fs.String("preset", "", "Capture size preset: "+strings.Join(camera.PresetNames(), ", "))
	roiWidth := fs.Int("roi-width", vision.DefaultROIWidth, "ROI width in pixels")
	roiHeight := fs.Int("roi-height", vision.DefaultROIHeight, "ROI height in pixels")
	noWindow := fs.Bool("no-window", false, "Disable the OpenCV windows")
	webAddr := fs.String("web", "", "Dashboard listen address, e.g. :8080")
	logLevel := fs.String("log-level", "", "Log level: debug, info, warn, error")
	debug := fs.Bool("debug", false, "Enable verbose debug logging")

	if err := fs.Parse(args); err != nil {
		return config.Config{}, err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return cfg, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return cfg, err
	}

	var flagErr error
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "device":
			cfg.Camera.Kind = camera.KindDevice
			cfg.Camera.Device = *device
		case "source":
			cam, err := camera.ForPath(cfg.Camera, *source)
			if err != nil {
				flagErr = errors.Join(flagErr, err)
				return
			}
			cfg.Camera = cam
		case "preset":
			cfg.Camera.Preset = *preset
			if err := cfg.Camera.ResolvePreset(); err != nil {
				flagErr = errors.Join(flagErr, err)
			}
		case "backend":
			b, err := motor.ParseBackend(*backend)
			if err != nil {
				flagErr = errors.Join(flagErr, err)
				return
			}
			cfg.Motor.Backend = b
		case "roi-width":
			cfg.ROI.Width = *roiWidth
		case "roi-height":
			cfg.ROI.Height = *roiHeight
		case "no-window":
			cfg.Display.Windows = !*noWindow
		case "web":
			cfg.Display.WebAddr = *webAddr
		case "log-level":
			cfg.Log.Level = *logLevel
		}
	})
	if flagErr != nil {
		return cfg, flagErr
	}
	if *debug {
		cfg.Log.Level = "debug"
	}

	return cfg, cfg.Validate()
}

func run(ctx context.Context, cfg config.Config) error {
	runID := uuid.New().String()
	logger := log.With("run_id", runID)

	logger.Info("rover starting",
		"camera", cfg.Camera.Kind,
		"roi_width", cfg.ROI.Width,
		"roi_height", cfg.ROI.Height,
		"backend", cfg.Motor.Backend,
		"windows", cfg.Display.Windows,
		"web", cfg.Display.WebAddr,
	)

	source, err := camera.Open(cfg.Camera, logger)
	if err != nil {
		return fmt.Errorf("open camera: %w", err)
	}

	actuator, err := motor.Open(cfg.Motor, logger)
	if err != nil {
		source.Close()
		return fmt.Errorf("open motors: %w", err)
	}

	recorder := telemetry.NewRecorder(telemetry.DefaultWindow)

	var sinks []display.Sink
	var observer nav.DecisionObserver
	if cfg.Display.Windows {
		sinks = append(sinks, display.NewWindowSink())
	}
	if cfg.Display.WebAddr != "" {
		dash := web.NewServer(web.Config{
			Addr:    cfg.Display.WebAddr,
			RunID:   runID,
			Backend: actuator.Backend(),
		}, logger)
		dash.SetRecorder(recorder)
		dash.StartAsync()
		sinks = append(sinks, dash)
		observer = dash
	}

	var sink display.Sink = display.Nop{}
	if len(sinks) > 0 {
		sink = display.Multi(sinks...)
	}

	navigator, err := nav.New(nav.Options{
		Source:   source,
		Actuator: actuator,
		Analyzer: vision.NewAnalyzer(cfg.ROI.Width, cfg.ROI.Height),
		Policy:   steering.NewPolicy(steering.DefaultMinInterval),
		Sink:     sink,
		StopKey:  cfg.StopKeyCode(),
		Recorder: recorder,
		Observer: observer,
		Logger:   logger,
	})
	if err != nil {
		actuator.Shutdown()
		source.Close()
		sink.Close()
		return err
	}

	reason, err := navigator.Run(ctx)

	sum := recorder.Summary()
	stats := navigator.Stats()
	logger.Info("run summary",
		"reason", reason,
		"frames", stats.Frames,
		"decisions", stats.Decisions,
		"throttled", stats.Throttled,
		"motor_errors", stats.MotorErrs,
		"motor_applied", stats.MotorApplied,
		"motor_failures", stats.MotorFailures,
		"motors_stopped", stats.MotorsStopped,
		"left_mean", sum.Left.Mean,
		"center_mean", sum.Center.Mean,
		"right_mean", sum.Right.Mean,
		"straight", sum.Decisions[steering.Straight.String()],
		"left", sum.Decisions[steering.Left.String()],
		"right", sum.Decisions[steering.Right.String()],
	)
	return err
}
