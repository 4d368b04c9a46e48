// Dptctl decodes, encodes and monitors KNX datapoint values.
//
// It converts between bus payloads and datapoint values from the command
// line, exports the datapoint type catalog, and runs a bus monitor that
// decodes knxd telegrams from MQTT into per-datapoint state.
//
// Usage:
//
//	dptctl [command] [flags]
//
// See 'dptctl --help' for available commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "dptctl",
	Short: "KNX datapoint type codec and bus monitor",
	Long: `A utility for working with KNX datapoint types.

Decodes bus payloads into typed values, encodes values typed on the
command line, exports the type catalog, and monitors a knxd telegram
stream over MQTT.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "dptctl %s (commit: %s, built: %s)\n", version, commit, date)
	},
}
