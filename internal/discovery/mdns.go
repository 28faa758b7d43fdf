package discovery

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/grandcat/zeroconf"
)

const (
	// ServiceType is the mDNS service type announced by co2mini servers
	ServiceType = "_co2mini._tcp"

	// ServiceDomain is the mDNS domain (typically "local.")
	ServiceDomain = "local."

	// DefaultScanTimeout is the default timeout for monitor discovery
	DefaultScanTimeout = 10 * time.Second

	// DefaultPort is the default HTTP port for co2mini servers
	DefaultPort = 9672
)

// Scanner handles mDNS monitor discovery
type Scanner struct {
	// Timeout is the maximum time to wait for monitor discovery
	Timeout time.Duration
}

// NewScanner creates a new mDNS scanner with default settings
func NewScanner() *Scanner {
	return &Scanner{
		Timeout: DefaultScanTimeout,
	}
}

// ScanForMonitors discovers all co2mini servers on the local network
// Returns a list of discovered monitors or an error
func (s *Scanner) ScanForMonitors() ([]*Monitor, error) {
	return s.ScanForMonitorsWithContext(context.Background())
}

// ScanForMonitorsWithContext discovers monitors with a custom context
func (s *Scanner) ScanForMonitorsWithContext(ctx context.Context) ([]*Monitor, error) {
	// Create a context with timeout
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	// Channel to receive service entries
	entries := make(chan *zeroconf.ServiceEntry)
	monitors := make([]*Monitor, 0)

	// Start the resolver
	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	// Collect entries in a goroutine
	go func() {
		for entry := range entries {
			monitor := s.parseServiceEntry(entry)
			if monitor != nil {
				monitors = append(monitors, monitor)
			}
		}
	}()

	// Start browsing for co2mini services
	err = resolver.Browse(ctx, ServiceType, ServiceDomain, entries)
	if err != nil {
		return nil, fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	// Wait for context to complete (timeout or cancellation)
	<-ctx.Done()

	return monitors, nil
}

// parseServiceEntry converts a zeroconf service entry to a Monitor
// Returns nil if the entry is unusable
func (s *Scanner) parseServiceEntry(entry *zeroconf.ServiceEntry) *Monitor {
	if entry.Instance == "" {
		return nil
	}

	// Get IP address (prefer IPv4)
	var ip string
	for _, addr := range entry.AddrIPv4 {
		ip = addr.String()
		break
	}

	// Fallback to IPv6 if no IPv4
	if ip == "" && len(entry.AddrIPv6) > 0 {
		ip = entry.AddrIPv6[0].String()
	}

	if ip == "" {
		return nil
	}

	// Get port (default if not specified)
	port := entry.Port
	if port == 0 {
		port = DefaultPort
	}

	// Parse TXT records into metadata
	metadata := make(map[string]string)
	for _, txt := range entry.Text {
		// TXT records are in "key=value" format
		parts := strings.SplitN(txt, "=", 2)
		if len(parts) == 2 {
			metadata[parts[0]] = parts[1]
		} else {
			// Key without value
			metadata[parts[0]] = ""
		}
	}

	return &Monitor{
		Instance:     entry.Instance,
		Hostname:     entry.HostName,
		IP:           ip,
		Port:         port,
		Metadata:     metadata,
		DiscoveredAt: time.Now(),
	}
}

// ScanForMonitors is a convenience function to scan with a custom timeout
func ScanForMonitors(timeout time.Duration) ([]*Monitor, error) {
	scanner := NewScanner()
	scanner.Timeout = timeout
	return scanner.ScanForMonitors()
}

// QuickScan performs a fast scan with a 3-second timeout
func QuickScan() ([]*Monitor, error) {
	scanner := NewScanner()
	scanner.Timeout = 3 * time.Second
	return scanner.ScanForMonitors()
}
