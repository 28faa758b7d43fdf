package config

import (
	"os"
	"path/filepath"
	"testing"
)

// withConfigDir points the package at a temporary config directory.
func withConfigDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	return dir
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	withConfigDir(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Device.VendorID != DefaultVendorID {
		t.Errorf("vendor id = %04x, want %04x", cfg.Device.VendorID, DefaultVendorID)
	}
	if cfg.Device.ProductID != DefaultProductID {
		t.Errorf("product id = %04x, want %04x", cfg.Device.ProductID, DefaultProductID)
	}
	if cfg.Serve.Port != DefaultPort {
		t.Errorf("port = %d, want %d", cfg.Serve.Port, DefaultPort)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	withConfigDir(t)

	cfg := NewConfig()
	cfg.Device.ProductID = 0xA100
	cfg.Serve.Port = 8080
	cfg.Serve.Announce = false
	cfg.DataLog.Enabled = true
	cfg.DataLog.Dir = "/var/log/co2mini"

	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if loaded.Device.ProductID != 0xA100 {
		t.Errorf("product id = %04x, want a100", loaded.Device.ProductID)
	}
	if loaded.Serve.Port != 8080 {
		t.Errorf("port = %d, want 8080", loaded.Serve.Port)
	}
	if loaded.Serve.Announce {
		t.Error("announce = true, want false")
	}
	if !loaded.DataLog.Enabled || loaded.DataLog.Dir != "/var/log/co2mini" {
		t.Errorf("datalog = %+v, want enabled in /var/log/co2mini", loaded.DataLog)
	}
}

func TestLoadPartialFileFillsDefaults(t *testing.T) {
	dir := withConfigDir(t)

	cfgDir := filepath.Join(dir, appName)
	if err := os.MkdirAll(cfgDir, 0700); err != nil {
		t.Fatal(err)
	}
	partial := []byte("version: 1\nserve:\n  port: 8123\n")
	if err := os.WriteFile(filepath.Join(cfgDir, configFile), partial, 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Serve.Port != 8123 {
		t.Errorf("port = %d, want 8123", cfg.Serve.Port)
	}
	if cfg.Device.VendorID != DefaultVendorID {
		t.Errorf("missing device section must fall back to defaults, got %04x", cfg.Device.VendorID)
	}
}

func TestLoadRejectsUnknownVersion(t *testing.T) {
	dir := withConfigDir(t)

	cfgDir := filepath.Join(dir, appName)
	if err := os.MkdirAll(cfgDir, 0700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(cfgDir, configFile), []byte("version: 9\n"), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(); err == nil {
		t.Error("Load() error = nil for unsupported version, want error")
	}
}
