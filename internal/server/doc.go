// Package server exposes live sensor readings over HTTP.
//
// The server consumes the event stream of a device session and serves
// the results three ways:
//
//   - GET /readings returns the latest value of each quantity as JSON.
//     Quantities the device has not reported yet are omitted.
//   - GET /ws upgrades to a WebSocket connection and pushes every new
//     reading to the client as it arrives.
//   - GET /metrics serves Prometheus metrics: latest gauge values per
//     quantity, frame counters by result, and poll error counts.
//
// When configured, the server also announces itself on the local
// network as an mDNS service of type _co2mini._tcp so clients can find
// it without configuration.
//
// # Usage Example
//
//	config := &server.Config{
//	    Host:     "127.0.0.1",
//	    Port:     9672,
//	    Announce: true,
//	    LogLevel: "info",
//	}
//
//	srv, err := server.New(config, sess, sess.Events(), sink)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Start blocks until shutdown signal or error
//	if err := srv.Start(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Graceful Shutdown
//
// The server handles SIGINT and SIGTERM signals for graceful shutdown:
//  1. Stop accepting new connections
//  2. Close existing WebSocket connections
//  3. Stop consuming session events
//  4. Clean up resources
//
// # Thread Safety
//
// The server is fully concurrent. HTTP handlers, the event consumer,
// and WebSocket writes each synchronize on their own state.
package server
