package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/wayosd/internal/protocol"
)

var textCmd = &cobra.Command{
	Use:   "text <message>...",
	Short: "Show a text message",
	Long: `Show a plain text message on the OSD.

Multiple arguments are joined with spaces.

Examples:
  wayosd text "Screenshot saved"
  wayosd text Output switched to HDMI`,
	Args: cobra.MinimumNArgs(1),
	RunE: runText,
}

func init() {
	rootCmd.AddCommand(textCmd)
}

func runText(cmd *cobra.Command, args []string) error {
	return newClient().Send(protocol.NewText(strings.Join(args, " ")))
}
