package session

import (
	"fmt"
	"io"
	"runtime"

	"github.com/google/gousb"

	"github.com/airmon/co2mini/internal/protocol"
)

// usbTransport is the libusb-backed Transport.
type usbTransport struct {
	ctx *gousb.Context
}

// NewUSBTransport returns a Transport backed by libusb via gousb.
func NewUSBTransport() Transport {
	return &usbTransport{ctx: gousb.NewContext()}
}

func (t *usbTransport) Open(id Identity) (Device, error) {
	dev, err := t.ctx.OpenDeviceWithVIDPID(gousb.ID(id.VendorID), gousb.ID(id.ProductID))
	if err != nil {
		return nil, newError(ErrTypeDeviceNotFound,
			fmt.Sprintf("opening device %04x:%04x", id.VendorID, id.ProductID), err)
	}
	if dev == nil {
		return nil, newError(ErrTypeDeviceNotFound,
			fmt.Sprintf("no attached device matches %04x:%04x", id.VendorID, id.ProductID), nil)
	}
	return &usbDevice{dev: dev}, nil
}

func (t *usbTransport) Close() error {
	return t.ctx.Close()
}

// usbDevice wraps one opened gousb device handle and its interface.
type usbDevice struct {
	dev  *gousb.Device
	cfg  *gousb.Config
	intf *gousb.Interface
}

func (d *usbDevice) DetachDriver() (bool, error) {
	// Only Linux ships a HID class driver that claims this device.
	// libusb's auto-detach detaches on claim and reattaches on release.
	if runtime.GOOS != "linux" {
		return false, nil
	}
	if err := d.dev.SetAutoDetach(true); err != nil {
		return false, err
	}
	return true, nil
}

func (d *usbDevice) AttachDriver() error {
	// Reattach is performed by libusb when the interface is released;
	// nothing to do beyond the release itself.
	return nil
}

func (d *usbDevice) ClaimInterface() error {
	cfg, err := d.dev.Config(1)
	if err != nil {
		return fmt.Errorf("selecting configuration 1: %w", err)
	}
	intf, err := cfg.Interface(0, 0)
	if err != nil {
		cfg.Close()
		return fmt.Errorf("claiming interface 0: %w", err)
	}
	d.cfg = cfg
	d.intf = intf
	return nil
}

func (d *usbDevice) ReleaseInterface() error {
	if d.intf != nil {
		d.intf.Close()
		d.intf = nil
	}
	if d.cfg != nil {
		err := d.cfg.Close()
		d.cfg = nil
		return err
	}
	return nil
}

func (d *usbDevice) Control(requestType, request uint8, value, index uint16, data []byte) error {
	_, err := d.dev.Control(requestType, request, value, index, data)
	return err
}

func (d *usbDevice) Endpoint() (Endpoint, error) {
	if d.intf == nil {
		return nil, fmt.Errorf("interface not claimed")
	}
	for _, desc := range d.intf.Setting.Endpoints {
		if desc.Direction == gousb.EndpointDirectionIn {
			ep, err := d.intf.InEndpoint(desc.Number)
			if err != nil {
				return nil, fmt.Errorf("opening IN endpoint %d: %w", desc.Number, err)
			}
			return &usbEndpoint{ep: ep}, nil
		}
	}
	return nil, fmt.Errorf("no IN endpoint on interface 0")
}

func (d *usbDevice) Close() error {
	return d.dev.Close()
}

// usbEndpoint wraps the sensor's interrupt IN endpoint.
type usbEndpoint struct {
	ep *gousb.InEndpoint
}

func (e *usbEndpoint) Read(buf []byte) (int, error) {
	return e.ep.Read(buf)
}

func (e *usbEndpoint) Stream(depth int) (io.ReadCloser, error) {
	return e.ep.NewStream(protocol.FrameSize, depth)
}
