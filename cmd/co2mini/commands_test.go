package main

import (
	"testing"
	"time"
)

func TestScanWindow(t *testing.T) {
	tests := []struct {
		name    string
		quick   bool
		timeout int
		want    time.Duration
	}{
		{"default timeout", false, 10, 10 * time.Second},
		{"custom timeout", false, 30, 30 * time.Second},
		{"quick overrides timeout", true, 30, 3 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := scanWindow(tt.quick, tt.timeout); got != tt.want {
				t.Errorf("scanWindow(%v, %d) = %v, want %v", tt.quick, tt.timeout, got, tt.want)
			}
		})
	}
}

func TestDiscoverFlags(t *testing.T) {
	for _, name := range []string{"quick", "timeout"} {
		if discoverCmd.Flags().Lookup(name) == nil {
			t.Errorf("discover command missing --%s flag", name)
		}
	}
}
