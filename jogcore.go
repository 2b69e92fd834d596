// Package jogcore provides a high-level façade over the coordinate engine
// and its collaborators (validator, WCS manager, logging, event bus),
// enabling quick construction of a jog-control coordinate core. Most
// applications interact with this package by:
//  1. Creating a manager via New() (optionally overriding config, logger, bus)
//  2. Subscribing to coordinate events
//  3. Feeding controller telemetry and UI commands into it
//
// The façade delegates all behavior to coord.Manager while keeping setup
// ergonomics concise. All defaults are safe for local development and
// testing: no bounds, no-op logging, no bus.
package jogcore

import (
	"log/slog"
	"os"

	"github.com/whttlr/jogcore/bus"
	"github.com/whttlr/jogcore/config"
	"github.com/whttlr/jogcore/coord"
	"github.com/whttlr/jogcore/logging"
	"github.com/whttlr/jogcore/position"
	"github.com/whttlr/jogcore/wcs"
)

// Options configures the coordinate engine.
type Options struct {
	// Config supplies machine bounds, safety limits and logging
	// preferences. Zero value means no bounds and warn-level logging.
	Config config.Config

	// Logger receives engine diagnostics. Nil selects a slog logger built
	// from Config.Logging; use logging.NoOpLogger for silence.
	Logger logging.Logger

	// Bus is the optional external event bus bridging to the transport
	// layer.
	Bus bus.Bus

	// InitialPosition seeds the machine position.
	InitialPosition *position.Position

	// ActiveWCS selects the initial work coordinate system (default G54).
	ActiveWCS wcs.System
}

// New creates a coordinate engine from opts.
func New(opts Options) *coord.Manager {
	logger := opts.Logger
	if logger == nil {
		logger = newSlogLogger(opts.Config.Logging)
	}

	managerOpts := []coord.Option{
		coord.WithConfig(opts.Config),
		coord.WithLogger(logger),
	}
	if opts.Bus != nil {
		managerOpts = append(managerOpts, coord.WithBus(opts.Bus))
	}
	if opts.InitialPosition != nil {
		managerOpts = append(managerOpts, coord.WithInitialPosition(*opts.InitialPosition))
	}
	if opts.ActiveWCS != "" {
		managerOpts = append(managerOpts, coord.WithActiveWCS(opts.ActiveWCS))
	}
	return coord.NewManager(managerOpts...)
}

func newSlogLogger(cfg config.LoggingConfig) logging.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelWarn
	}
	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(os.Stderr, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}
	return logging.NewSlogAdapter(slog.New(handler))
}
