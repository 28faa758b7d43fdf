// Package discovery finds co2mini servers on the local network.
//
// Servers started with 'co2mini serve' announce themselves over
// mDNS/DNS-SD as services of type _co2mini._tcp. This package browses
// for those announcements so clients can locate a monitor without
// configuration.
//
// Discovery is passive: the scanner listens for the configured timeout
// and returns every server seen in that window. A monitor's TXT
// records advertise the WebSocket path of its live reading feed.
//
// Example:
//
//	monitors, err := discovery.ScanForMonitors(10 * time.Second)
//	if err != nil {
//	    return err
//	}
//	for _, m := range monitors {
//	    fmt.Println(m, m.WebSocketURL())
//	}
package discovery
