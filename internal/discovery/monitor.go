package discovery

import (
	"fmt"
	"time"
)

// Monitor represents a discovered co2mini server on the network
type Monitor struct {
	// Instance is the mDNS instance name (e.g., "co2mini-study")
	Instance string

	// Hostname is the mDNS hostname (e.g., "study.local.")
	Hostname string

	// IP is the IPv4 address (e.g., "192.168.1.23")
	IP string

	// Port is the HTTP port (typically 9672)
	Port int

	// Metadata contains additional mDNS TXT record data
	// Common fields: "path=/ws"
	Metadata map[string]string

	// DiscoveredAt is when the monitor was discovered
	DiscoveredAt time.Time
}

// String returns a human-readable string representation of the monitor
func (m *Monitor) String() string {
	return fmt.Sprintf("CO2 Monitor %s (%s) at %s:%d", m.Instance, m.Hostname, m.IP, m.Port)
}

// BaseURL returns the HTTP base URL for the monitor
func (m *Monitor) BaseURL() string {
	return fmt.Sprintf("http://%s:%d", m.IP, m.Port)
}

// WebSocketURL returns the URL of the monitor's live reading feed,
// using the advertised path when present.
func (m *Monitor) WebSocketURL() string {
	path := m.GetMetadata("path")
	if path == "" {
		path = "/ws"
	}
	return fmt.Sprintf("ws://%s:%d%s", m.IP, m.Port, path)
}

// GetMetadata retrieves a metadata value by key, or returns empty string if not found
func (m *Monitor) GetMetadata(key string) string {
	if m.Metadata == nil {
		return ""
	}
	return m.Metadata[key]
}
