package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/wayosd/internal/monitor"
	"github.com/jmylchreest/wayosd/internal/protocol"
)

var audioOpts struct {
	maxVolume int
	mute      bool
	device    string
	deviceMap string
}

var audioCmd = &cobra.Command{
	Use:   "audio <volume>",
	Short: "Show a volume level",
	Long: `Show a volume level on the OSD.

The volume is rendered as a progress bar relative to --max-volume.

Examples:
  # Show 45% volume
  wayosd audio 45

  # Muted, with the output device named
  wayosd audio 45 --mute --device "Built-in Audio"

  # Map raw node names through a YAML file
  wayosd audio 45 --device alsa_output.pci-0000.analog-stereo \
    --device-map ~/.config/wayosd/devices.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runAudio,
}

func init() {
	rootCmd.AddCommand(audioCmd)

	audioCmd.Flags().IntVar(&audioOpts.maxVolume, "max-volume", 100,
		"Maximum volume the level is relative to")
	audioCmd.Flags().BoolVar(&audioOpts.mute, "mute", false,
		"Render the muted style")
	audioCmd.Flags().StringVar(&audioOpts.device, "device", "",
		"Device name to display under the bar")
	audioCmd.Flags().StringVar(&audioOpts.deviceMap, "device-map", "",
		"YAML file mapping raw device names to display names")
}

func runAudio(cmd *cobra.Command, args []string) error {
	volume, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid volume %q: %w", args[0], err)
	}

	device := audioOpts.device
	if audioOpts.deviceMap != "" {
		devices, err := monitor.LoadDeviceMap(audioOpts.deviceMap)
		if err != nil {
			return err
		}
		device = devices.Resolve(device)
	}

	return newClient().Send(protocol.NewVolume(volume, audioOpts.maxVolume, audioOpts.mute, device))
}
