// Package main provides the CLI entrypoint for wayosd, the OSD producer.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/wayosd/internal/client"
	"github.com/jmylchreest/wayosd/internal/transport"
)

// Build-time variables (set via ldflags)
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

// Global flags and state
var (
	globalOpts struct {
		verbose bool
		pipe    string
	}
	logger *slog.Logger
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "wayosd",
	Short: "Send on-screen-display messages to wayosdd",
	Long: `wayosd sends volume, brightness and text messages to the wayosdd
on-screen-display daemon over its message pipe.

The daemon must be running for delivery to succeed; wayosd retries
briefly and then fails with a non-zero exit code.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildTime),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogger()
	},
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&globalOpts.verbose, "verbose", "v", false,
		"Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&globalOpts.pipe, "pipe", transport.DefaultPath,
		"Path to the daemon's message pipe")
}

// setupLogger configures the global slog logger.
func setupLogger() {
	level := slog.LevelWarn
	if globalOpts.verbose {
		level = slog.LevelDebug
	}

	// Log to stderr so stdout is clean for output
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	logger = slog.New(handler)
	slog.SetDefault(logger)
}

// newClient returns a pipe client for the configured path.
func newClient() *client.Client {
	return client.New(globalOpts.pipe, logger)
}
