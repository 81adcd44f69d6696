package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/wayosd/internal/protocol"
)

var brightnessOpts struct {
	maxLevel int
}

var brightnessCmd = &cobra.Command{
	Use:   "brightness <level>",
	Short: "Show a brightness level",
	Long: `Show a brightness level on the OSD.

The level is rendered as a progress bar relative to --max-level.

Examples:
  # Show 70% brightness
  wayosd brightness 70

  # Backlight reporting raw units
  wayosd brightness 812 --max-level 1060`,
	Args: cobra.ExactArgs(1),
	RunE: runBrightness,
}

func init() {
	rootCmd.AddCommand(brightnessCmd)

	brightnessCmd.Flags().IntVar(&brightnessOpts.maxLevel, "max-level", 100,
		"Maximum level the brightness is relative to")
}

func runBrightness(cmd *cobra.Command, args []string) error {
	level, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid brightness %q: %w", args[0], err)
	}

	return newClient().Send(protocol.NewBrightness(level, brightnessOpts.maxLevel))
}
