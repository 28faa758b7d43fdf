// Co2mini is a monitor for CO2Mini-family USB carbon dioxide sensors.
//
// It talks to the sensor over USB HID, decodes its reading frames, and
// exposes the results three ways: a one-shot read, a live terminal
// dashboard, and an HTTP server with JSON, WebSocket and Prometheus
// endpoints. Supported hardware includes the TFA Dostmann AirCO2ntrol
// Mini and other rebadges of the Holtek MT8057 sensor.
//
// Usage:
//
//	co2mini [command] [flags]
//
// See 'co2mini --help' for available commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/airmon/co2mini/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "co2mini",
	Short: "CO2Mini USB Sensor Monitor",
	Long: `A monitor for CO2Mini-family USB carbon dioxide sensors.

Reads CO2 concentration, ambient temperature and (on supported
revisions) relative humidity from the sensor, with a one-shot read
command, a live terminal dashboard, and an HTTP server exposing
JSON, WebSocket and Prometheus endpoints.

If no command is specified, the live dashboard will launch automatically.`,
	Version: version.Version,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default behavior: run the dashboard when no subcommand provided
		return runWatch(cmd, args)
	},
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("co2mini %s (commit: %s)\n", version.Version, version.Commit)
	},
}
