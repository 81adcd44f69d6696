package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var jsonCmd = &cobra.Command{
	Use:   "json <payload>",
	Short: "Send a raw JSON message",
	Long: `Send a raw JSON message to the OSD without client-side schema
validation. The payload must be a JSON object; the daemon decides what
to do with it. Pass "-" to read the payload from stdin.

Examples:
  wayosd json '{"type":"volume","value":45,"max_value":100}'
  generate-osd-message | wayosd json -`,
	Args: cobra.ExactArgs(1),
	RunE: runJSON,
}

func init() {
	rootCmd.AddCommand(jsonCmd)
}

func runJSON(cmd *cobra.Command, args []string) error {
	payload := args[0]
	if payload == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		payload = string(data)
	}

	return newClient().SendRaw(payload)
}
