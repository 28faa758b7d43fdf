package session

import "io"

// Identity selects which physical device to open.
type Identity struct {
	VendorID  uint16
	ProductID uint16
}

// DefaultIdentity is the CO2Mini's stock vendor/product pair.
var DefaultIdentity = Identity{VendorID: 0x04D9, ProductID: 0xA052}

// Transport locates and opens USB devices. The production implementation
// is backed by libusb (see NewUSBTransport); tests substitute fakes.
type Transport interface {
	// Open opens the device matching id. Returns a device-not-found
	// session error when no attached device matches.
	Open(id Identity) (Device, error)

	// Close releases the transport's own resources. Open devices must be
	// closed first.
	Close() error
}

// Device is one opened USB device with its sole interface. Lifetime is
// owned exclusively by the session; handles are never shared.
type Device interface {
	// DetachDriver detaches an OS-native driver from the interface on
	// platforms where one may have claimed it. Returns true when a
	// reattach is owed during teardown.
	DetachDriver() (bool, error)

	// AttachDriver reattaches the OS-native driver detached earlier.
	AttachDriver() error

	// ClaimInterface selects the device's sole interface and claims it.
	ClaimInterface() error

	// ReleaseInterface releases the claimed interface.
	ReleaseInterface() error

	// Control issues a control transfer on the default endpoint.
	Control(requestType, request uint8, value, index uint16, data []byte) error

	// Endpoint returns the interface's first IN endpoint. Requires a
	// claimed interface.
	Endpoint() (Endpoint, error)

	// Close closes the device handle.
	Close() error
}

// Endpoint is the device's data endpoint.
type Endpoint interface {
	// Read performs a single blocking read into buf.
	Read(buf []byte) (int, error)

	// Stream begins continuous polling with depth outstanding read
	// requests. The returned reader yields completed transfers in
	// completion order; Close cancels the in-flight requests.
	Stream(depth int) (io.ReadCloser, error)
}
