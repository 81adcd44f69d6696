// Package main is the entry point for the wayosdd on-screen-display daemon.
package main

import (
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/diamondburned/gotk4-adwaita/pkg/adw"
	"github.com/diamondburned/gotk4/pkg/glib/v2"

	"github.com/jmylchreest/wayosd/internal/config"
	"github.com/jmylchreest/wayosd/internal/daemon"
	"github.com/jmylchreest/wayosd/internal/dbus"
	"github.com/jmylchreest/wayosd/internal/display"
	"github.com/jmylchreest/wayosd/internal/protocol"
	"github.com/jmylchreest/wayosd/internal/transport"
)

const (
	appID   = "io.github.jmylchreest.wayosdd"
	appName = "wayosdd"
)

var (
	// Build-time variables
	version = "dev"
)

func main() {
	configPath := flag.String("config", "", "Path to config file (default: ~/.config/wayosd/config.toml)")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		println("wayosdd version", version)
		os.Exit(0)
	}

	// Set up structured logging
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	logger.Info("starting wayosdd", "version", version)

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Create the libadwaita application
	app := adw.NewApplication(appID, 0)

	// Shared state between GTK main loop and signal handlers
	var (
		pipe          *transport.Pipe
		surface       *display.Surface
		stateMachine  *daemon.StateMachine
		pollSource    glib.SourceHandle
		dbusServer    *dbus.Server
		configWatcher *config.Watcher
		running       atomic.Bool
	)

	cleanup := func() {
		if configWatcher != nil {
			_ = configWatcher.Stop()
		}
		if dbusServer != nil {
			_ = dbusServer.Stop()
		}
		if pollSource != 0 {
			glib.SourceRemove(pollSource)
			pollSource = 0
		}
		if pipe != nil {
			_ = pipe.Close()
		}
	}

	// Set up signal handling for graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		logger.Info("received signal, shutting down", "signal", sig)

		// Stop components in GTK main loop context
		glib.IdleAdd(func() {
			if running.Load() {
				cleanup()
				app.Quit()
			}
		})
	}()

	// Handle application activation
	app.ConnectActivate(func() {
		if running.Load() {
			logger.Warn("application already running")
			return
		}
		running.Store(true)

		// Open the message pipe; a second daemon instance fails here.
		pipe, err = transport.Open(cfg.Pipe.Path, logger)
		if err != nil {
			logger.Error("failed to open message pipe", "error", err)
			app.Quit()
			return
		}
		logger.Info("message pipe ready", "path", pipe.Path())

		// Build the OSD surface and the debounced state machine behind it
		surface = display.NewSurface(&app.Application, cfg.Display, logger)
		stateMachine = daemon.NewStateMachine(
			surface,
			display.NewGLibScheduler(),
			cfg.Display.HideTimeout.Duration(),
			logger,
		)

		// Poll the pipe from the GTK main loop
		reader := daemon.NewReader(pipe, stateMachine, logger)
		pollSource = glib.TimeoutAdd(uint(cfg.Pipe.PollInterval.Duration().Milliseconds()), reader.Poll)

		// Start the D-Bus ingress
		if cfg.DBus.Enabled {
			dbusServer = dbus.NewServer(logger)
			dbusServer.SetMessageHandler(func(msg *protocol.Message) {
				glib.IdleAdd(func() {
					stateMachine.Apply(msg)
				})
			})
			if err := dbusServer.Start(); err != nil {
				logger.Warn("failed to start D-Bus service, pipe ingress only", "error", err)
				dbusServer = nil
			}
		}

		// Watch the config file for changes
		startConfigWatcher := func() {
			path := *configPath
			if path == "" {
				var err error
				path, err = config.Path()
				if err != nil {
					logger.Warn("failed to resolve config path, hot-reload disabled", "error", err)
					return
				}
			}

			configWatcher, err = config.NewWatcher(path, logger)
			if err != nil {
				logger.Warn("failed to create config watcher", "error", err)
				return
			}
			configWatcher.SetReloadCallback(func(newConfig *config.Config) {
				glib.IdleAdd(func() {
					surface.UpdateConfig(newConfig.Display)
					stateMachine.SetHideAfter(newConfig.Display.HideTimeout.Duration())
					cfg = newConfig
				})
			})
			if err := configWatcher.Start(); err != nil {
				logger.Warn("failed to start config watcher", "error", err)
				configWatcher = nil
			}
		}
		startConfigWatcher()

		logger.Info("wayosdd ready",
			"pipe", cfg.Pipe.Path,
			"poll_interval", cfg.Pipe.PollInterval.Duration(),
			"hide_timeout", cfg.Display.HideTimeout.Duration(),
			"dbus", dbusServer != nil)
	})

	// Handle shutdown
	app.ConnectShutdown(func() {
		logger.Info("application shutting down")
		cleanup()
		running.Store(false)
	})

	// Run the application
	status := app.Run(os.Args)
	if status != 0 {
		logger.Error("application exited with error", "status", status)
		os.Exit(status)
	}

	logger.Info("wayosdd stopped")
}
