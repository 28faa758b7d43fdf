package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/airmon/co2mini/internal/config"
	"github.com/airmon/co2mini/internal/datalog"
	"github.com/airmon/co2mini/internal/discovery"
	"github.com/airmon/co2mini/internal/logging"
	"github.com/airmon/co2mini/internal/server"
	"github.com/airmon/co2mini/internal/session"
	"github.com/airmon/co2mini/internal/ui"
)

// Command flags
var (
	vendorID     uint16
	productID    uint16
	readTimeout  int
	outputFormat string
	serveHost    string
	servePort    int
	noAnnounce   bool
	logLevel     string
	dataLogDir   string
)

func init() {
	// Device selection flags (persistent on root). Values accept the 0x
	// prefix, e.g. --vendor-id 0x04d9.
	rootCmd.PersistentFlags().Uint16Var(&vendorID, "vendor-id", 0, "USB vendor id (overrides config)")
	rootCmd.PersistentFlags().Uint16Var(&productID, "product-id", 0, "USB product id (overrides config)")

	rootCmd.AddCommand(readCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(discoverCmd)
	rootCmd.AddCommand(configCmd)
}

// identity resolves the device identity from config and flag overrides
func identity(cfg *config.Config) session.Identity {
	id := session.Identity{
		VendorID:  cfg.Device.VendorID,
		ProductID: cfg.Device.ProductID,
	}
	if rootCmd.PersistentFlags().Changed("vendor-id") {
		id.VendorID = vendorID
	}
	if rootCmd.PersistentFlags().Changed("product-id") {
		id.ProductID = productID
	}
	return id
}

// openSession loads configuration and prepares a session against the
// physical device. The caller owns transport and session teardown.
func openSession() (*session.Session, session.Transport, *config.Config, error) {
	if err := logging.InitializeFromEnv(); err != nil {
		return nil, nil, nil, err
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	transport := session.NewUSBTransport()
	return session.New(transport, identity(cfg)), transport, cfg, nil
}

// readCmd takes a single reading and exits
var readCmd = &cobra.Command{
	Use:   "read",
	Short: "Read the current sensor values once",
	Long: `Connect to the sensor, wait for one complete set of readings, print
them, and exit.

The sensor cycles through its quantities roughly every couple of
seconds. The command waits until both a CO2 and a temperature value
have arrived; humidity is included when the hardware revision reports
it within the timeout.`,
	Example: `  # Read once, human-readable output
  co2mini read

  # JSON output for scripting
  co2mini read --format json

  # Give a slow sensor more time
  co2mini read --timeout 30`,
	RunE: runRead,
}

func init() {
	readCmd.Flags().IntVar(&readTimeout, "timeout", 0, "Seconds to wait for a complete set of readings (0 = use config)")
	readCmd.Flags().StringVar(&outputFormat, "format", "text", "Output format (text, json)")
}

func runRead(cmd *cobra.Command, args []string) error {
	sess, transport, cfg, err := openSession()
	if err != nil {
		return err
	}
	defer transport.Close()

	timeout := cfg.Device.ReadTimeoutSeconds
	if readTimeout > 0 {
		timeout = readTimeout
	}

	if err := sess.Connect(); err != nil {
		if session.IsDeviceNotFound(err) {
			return fmt.Errorf("no sensor found (vendor 0x%04x, product 0x%04x); is it plugged in?",
				sess.Identity().VendorID, sess.Identity().ProductID)
		}
		return err
	}
	defer sess.Disconnect()

	if err := sess.Transfer(); err != nil {
		return err
	}

	deadline := time.After(time.Duration(timeout) * time.Second)
	events := sess.Events()

wait:
	for {
		select {
		case ev := <-events:
			if _, ok := ev.(session.ReadingEvent); !ok {
				continue
			}
			_, hasCO2 := sess.CO2()
			_, hasTemp := sess.Temperature()
			if hasCO2 && hasTemp {
				break wait
			}
		case <-deadline:
			break wait
		}
	}

	co2, hasCO2 := sess.CO2()
	temp, hasTemp := sess.Temperature()
	humidity, hasHum := sess.Humidity()

	if !hasCO2 && !hasTemp && !hasHum {
		return fmt.Errorf("no readings received within %ds", timeout)
	}

	switch outputFormat {
	case "json":
		out := struct {
			CO2PPM             *int     `json:"co2_ppm,omitempty"`
			TemperatureCelsius *float64 `json:"temperature_celsius,omitempty"`
			HumidityPercent    *float64 `json:"humidity_percent,omitempty"`
		}{}
		if hasCO2 {
			out.CO2PPM = &co2
		}
		if hasTemp {
			out.TemperatureCelsius = &temp
		}
		if hasHum {
			out.HumidityPercent = &humidity
		}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(data))
	default:
		if hasCO2 {
			fmt.Printf("CO2:         %d ppm\n", co2)
		}
		if hasTemp {
			fmt.Printf("Temperature: %.2f °C\n", temp)
		}
		if hasHum {
			fmt.Printf("Humidity:    %.1f %%\n", humidity)
		}
	}
	return nil
}

// watchCmd runs the live terminal dashboard
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Show a live dashboard of sensor readings",
	Long: `Launch an interactive terminal dashboard showing the latest CO2,
temperature and humidity values as the sensor reports them.

If the sensor is not plugged in yet, the dashboard waits for it and
connects as soon as it appears. CO2 values are colored by the common
indoor air quality bands.`,
	Example: `  # Launch the dashboard
  co2mini watch
  # Or simply (watch is default):
  co2mini

  # Watch a rebadged unit with a different product id
  co2mini watch --product-id 0xa053`,
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	if !ui.IsTerminal() {
		return fmt.Errorf("watch requires a terminal; use 'co2mini read' or 'co2mini serve' instead")
	}

	sess, transport, _, err := openSession()
	if err != nil {
		return err
	}
	defer transport.Close()

	// Connect in the background so the dashboard can show its waiting
	// state until the device appears, and survive it being plugged in
	// after launch.
	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if err := sess.Connect(); err == nil {
				if err := sess.Transfer(); err == nil {
					return
				}
				sess.Disconnect()
			}
			select {
			case <-stop:
				return
			case <-time.After(2 * time.Second):
			}
		}
	}()

	runErr := ui.RunWatch(sess.Events())

	close(stop)
	<-done
	sess.Disconnect()

	if runErr != nil {
		return fmt.Errorf("dashboard error: %w", runErr)
	}
	return nil
}

// serveCmd runs the HTTP server
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve sensor readings over HTTP",
	Long: `Connect to the sensor and serve its readings over HTTP.

Endpoints:
  GET /readings   Latest values as JSON
  GET /ws         WebSocket push of every new reading
  GET /metrics    Prometheus metrics

The server announces itself on the local network as _co2mini._tcp
unless --no-announce is given. With --datalog-dir (or the datalog
section of the config file) every reading is also appended to a dated
log file, one file per day.`,
	Example: `  # Serve on the configured port (default 9672)
  co2mini serve

  # Custom bind address with debug logging
  co2mini serve --host 0.0.0.0 --port 8080 --log-level debug

  # Keep a permanent record of readings
  co2mini serve --datalog-dir /var/log/co2mini`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "", "Listen host (empty = use config, default all interfaces)")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Listen port (0 = use config)")
	serveCmd.Flags().BoolVar(&noAnnounce, "no-announce", false, "Disable mDNS service announcement")
	serveCmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	serveCmd.Flags().StringVar(&dataLogDir, "datalog-dir", "", "Directory for dated reading logs (empty = use config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	host := cfg.Serve.Host
	if serveHost != "" {
		host = serveHost
	}
	port := cfg.Serve.Port
	if servePort != 0 {
		port = servePort
	}
	announce := cfg.Serve.Announce && !noAnnounce

	var sink *datalog.Logger
	dir := ""
	if cfg.DataLog.Enabled {
		dir = cfg.DataLog.Dir
	}
	if dataLogDir != "" {
		dir = dataLogDir
	}
	if dir != "" {
		sink, err = datalog.New(dir)
		if err != nil {
			return fmt.Errorf("failed to open data log: %w", err)
		}
		defer sink.Close()
	}

	transport := session.NewUSBTransport()
	defer transport.Close()

	sess := session.New(transport, identity(cfg))
	if err := sess.Connect(); err != nil {
		if session.IsDeviceNotFound(err) {
			return fmt.Errorf("no sensor found (vendor 0x%04x, product 0x%04x); is it plugged in?",
				sess.Identity().VendorID, sess.Identity().ProductID)
		}
		return err
	}
	defer sess.Disconnect()

	if err := sess.Transfer(); err != nil {
		return err
	}

	srv, err := server.New(&server.Config{
		Host:     host,
		Port:     port,
		Announce: announce,
		LogLevel: logLevel,
	}, sess, sess.Events(), sink)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}

// discoverCmd scans for co2mini servers on the network
var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Scan for co2mini servers on the network",
	Long: `Scan for running co2mini servers using mDNS/DNS-SD discovery.

This command listens for announcements from servers started with
'co2mini serve' and displays each one with its address and the URL of
its live reading feed.`,
	Example: `  # Scan for 10 seconds (default)
  co2mini discover

  # Quick 3-second scan
  co2mini discover --quick

  # Longer scan for slow networks
  co2mini discover --timeout 30`,
	RunE: runDiscover,
}

var (
	scanTimeout int
	quickScan   bool
)

func init() {
	discoverCmd.Flags().IntVar(&scanTimeout, "timeout", 10, "Scan timeout in seconds")
	discoverCmd.Flags().BoolVar(&quickScan, "quick", false, "Fast 3-second scan")
}

// scanWindow resolves the discover listen duration from the flags.
// --quick wins over --timeout.
func scanWindow(quick bool, timeoutSeconds int) time.Duration {
	if quick {
		return 3 * time.Second
	}
	return time.Duration(timeoutSeconds) * time.Second
}

func runDiscover(cmd *cobra.Command, args []string) error {
	window := scanWindow(quickScan, scanTimeout)
	fmt.Printf("Scanning for co2mini servers (timeout: %s)...\n\n", window)

	var monitors []*discovery.Monitor
	var err error
	if quickScan {
		monitors, err = discovery.QuickScan()
	} else {
		monitors, err = discovery.ScanForMonitors(window)
	}
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	if len(monitors) == 0 {
		fmt.Println("No servers found.")
		fmt.Println("\nTroubleshooting:")
		fmt.Println("  - Ensure a server is running ('co2mini serve')")
		fmt.Println("  - Check that the server was not started with --no-announce")
		fmt.Println("  - Verify both machines are on the same network segment")
		fmt.Println("  - Try increasing --timeout for slower networks")
		return nil
	}

	fmt.Printf("Found %d server(s):\n\n", len(monitors))

	for i, m := range monitors {
		fmt.Printf("%d. %s\n", i+1, m.Instance)
		fmt.Printf("   Address:  %s:%d\n", m.IP, m.Port)
		fmt.Printf("   Readings: %s/readings\n", m.BaseURL())
		fmt.Printf("   Live:     %s\n", m.WebSocketURL())
		fmt.Println()
	}

	return nil
}

// configCmd manages the configuration file
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the configuration file with current settings",
	Long: `Write the configuration file, creating it with defaults if it does
not exist yet. Existing settings are preserved.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}
		path, err := config.GetConfigPath()
		if err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("failed to marshal config: %w", err)
		}
		fmt.Print(string(data))
		return nil
	},
}
