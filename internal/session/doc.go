// Package session manages the lifecycle of one connection to one CO2Mini
// sensor: device discovery by vendor/product id, the activation handshake,
// endpoint claim, continuous frame polling and best-effort teardown.
//
// # State Machine
//
//	Disconnected -> Connect() -> Connected -> Transfer() -> Polling
//	Polling -> Disconnect() -> Disconnecting -> Disconnected
//
// A failed handshake or transfer halts the attempted transition and
// reports the condition without corrupting existing state.
//
// # Events
//
// Decoded readings, lifecycle changes and classified errors are published
// on a single typed event channel (see Events). Checksum and poll errors
// are observability-only: the offending frame is dropped and polling
// continues. There is no automatic retry of the handshake or transfer;
// callers retry by invoking Connect/Transfer again.
//
// # Concurrency
//
// One logical session per process. Continuous polling keeps PollDepth
// read requests in flight; each frame is self-contained, so completion
// ordering between them carries no meaning. Cached readings are written
// only by the decode path and may be read concurrently through the
// accessors. Disconnect stops the poll loop before releasing the
// interface so resource release never races an in-flight completion.
//
// The USB layer is abstracted behind the Transport, Device and Endpoint
// interfaces; production code uses the libusb-backed NewUSBTransport.
package session
