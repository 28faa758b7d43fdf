// Package ui provides the terminal dashboard for the co2mini CLI.
//
// This package uses Bubble Tea and Lipgloss to render a live view of
// the sensor: the latest CO2, temperature and humidity values, updated
// as the device reports them. Unlike the one-shot read command, the
// dashboard stays on screen until the user quits.
//
// # Architecture
//
// The WatchModel consumes the session event stream. Each event is
// delivered into the Bubble Tea loop by a command that blocks on the
// channel and re-arms itself after every message, so the model never
// polls. Connected and disconnected events drive the status line,
// reading events update the cached values, and recoverable errors are
// shown as a transient notice without clearing the readings.
//
// CO2 values are colored by the common indoor air quality bands:
// green below 800 ppm, orange up to 1200 ppm, red above.
//
// Example:
//
//	sess := session.New(transport, identity)
//	if err := sess.Connect(); err != nil {
//	    return err
//	}
//	defer sess.Disconnect()
//	if err := sess.Transfer(); err != nil {
//	    return err
//	}
//	return ui.RunWatch(sess.Events())
//
// # Logging Integration
//
// This package expects logging to be controlled via the CO2MINI_LOG_LEVEL
// environment variable. When unset or empty, zap logging is silent,
// allowing the dashboard to own the terminal. Set CO2MINI_LOG_LEVEL to
// "debug", "info", "warn", or "error" to enable logging output.
package ui
