// Package config provides configuration management for the co2mini tools.
//
// This package manages a YAML-based configuration file holding the two
// identifying device parameters (USB vendor and product id), the live-feed
// server settings and the data-log location. The file follows OS-specific
// conventions for storage location.
//
// # Configuration File Location
//
//   - Linux: $XDG_CONFIG_HOME/co2mini/config.yaml or $HOME/.config/co2mini/config.yaml
//   - macOS: $HOME/.config/co2mini/config.yaml
//   - Windows: %LOCALAPPDATA%\co2mini\config.yaml
//
// # Usage Example
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	cfg.Device.ProductID = 0xA100 // rebadged unit
//	if err := cfg.Save(); err != nil {
//	    log.Fatal(err)
//	}
//
// A missing file yields the defaults for the stock CO2Mini (04d9:a052);
// saves are atomic (temp file + rename).
package config
