// Package logging provides structured logging for the co2mini tools.
//
// This package wraps zap with convenience functions for the logging
// patterns used throughout the project. Logging is silent by default so
// CLI output stays clean; set CO2MINI_LOG_LEVEL (or pass an explicit
// level to Initialize) to enable it.
//
// # Log Levels
//
//   - Debug: frame hex dumps, per-reading decode results
//   - Info: lifecycle events (connect, polling started, disconnect)
//   - Warn: non-fatal issues (dropped events, teardown step failures)
//   - Error: classified session errors, startup failures
//
// # Structured Logging
//
// All log functions use structured fields:
//
//	logging.Info("Device connected",
//	    zap.String("vendor_id", "04d9"),
//	    zap.String("product_id", "a052"),
//	)
//
// # Thread Safety
//
// All logging functions are safe for concurrent use. The underlying zap
// logger handles synchronization automatically.
package logging
