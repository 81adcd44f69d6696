package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/wayosd/internal/dbus"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report whether the OSD daemon is reachable",
	Long: `Report whether the OSD daemon is reachable.

Checks the message pipe on disk and the org.wayland.Osd name on the
session bus. Exits non-zero when neither ingress is available.`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	pipeOK := false
	info, err := os.Stat(globalOpts.pipe)
	switch {
	case err != nil:
		fmt.Printf("pipe:  %s (missing)\n", globalOpts.pipe)
	case info.Mode()&os.ModeNamedPipe == 0:
		fmt.Printf("pipe:  %s (not a named pipe)\n", globalOpts.pipe)
	default:
		pipeOK = true
		fmt.Printf("pipe:  %s (created %s)\n", globalOpts.pipe, humanize.Time(info.ModTime()))
	}

	busOK, err := dbus.NameHasOwner()
	if err != nil {
		logger.Debug("session bus probe failed", "error", err)
		fmt.Printf("dbus:  %s (bus unavailable)\n", dbus.BusName)
	} else if busOK {
		fmt.Printf("dbus:  %s (owned)\n", dbus.BusName)
	} else {
		fmt.Printf("dbus:  %s (no owner)\n", dbus.BusName)
	}

	if !pipeOK && !busOK {
		return fmt.Errorf("daemon not reachable on pipe or session bus")
	}
	return nil
}
