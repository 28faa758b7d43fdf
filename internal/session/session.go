package session

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/airmon/co2mini/internal/logging"
	"github.com/airmon/co2mini/internal/protocol"
)

// Activation handshake: a class SET_REPORT(feature) control transfer on
// interface 0 carrying the fixed key as payload. The device emits nothing
// useful until it has seen this transfer.
const (
	handshakeRequestType = 0x21   // host-to-device, class, interface
	handshakeRequest     = 0x09   // SET_REPORT
	handshakeValue       = 0x0300 // feature report 0
	handshakeIndex       = 0x00
)

// PollDepth is the number of outstanding read requests kept in flight
// during continuous polling. Eight keeps the endpoint saturated without
// unbounded buffering.
const PollDepth = 8

// pollErrorBackoff keeps a dead endpoint from spinning the poll loop hot.
const pollErrorBackoff = 100 * time.Millisecond

// eventBuffer is the capacity of the session's event channel. Events are
// dropped (with a warning) rather than blocking the poll path when the
// subscriber falls behind.
const eventBuffer = 32

// State is the session lifecycle state. Exactly one session instance owns
// it; transitions are driven only by the session's own operations.
type State int

const (
	Disconnected State = iota
	Connecting
	Connected
	Polling
	Disconnecting
)

// String returns a human-readable name for the state
func (s State) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	case Polling:
		return "polling"
	case Disconnecting:
		return "disconnecting"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Session manages the full lifecycle of one connection to one physical
// sensor: discovery, handshake, endpoint claim, continuous polling and
// teardown. Raw frames are fed through the protocol pipeline and
// republished as events.
type Session struct {
	transport Transport
	identity  Identity
	decoder   *protocol.Decoder
	events    chan Event

	mu       sync.Mutex // guards state and device handles
	state    State
	dev      Device
	ep       Endpoint
	detached bool
	stream   io.ReadCloser
	stop     chan struct{}
	wg       sync.WaitGroup
}

// New creates a session for the device identified by id, using transport
// to reach the hardware. No device access occurs until Connect.
func New(transport Transport, id Identity) *Session {
	return &Session{
		transport: transport,
		identity:  id,
		decoder:   protocol.NewDecoder(),
		events:    make(chan Event, eventBuffer),
	}
}

// Events returns the channel on which connect/disconnect, error and
// reading events are published.
func (s *Session) Events() <-chan Event {
	return s.events
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Identity returns the vendor/product pair the session targets.
func (s *Session) Identity() Identity {
	return s.identity
}

// Temperature returns the latest decoded temperature in degrees Celsius,
// or ok=false before the first temperature frame.
func (s *Session) Temperature() (float64, bool) { return s.decoder.Temperature() }

// CO2 returns the latest decoded CO2 concentration in ppm.
func (s *Session) CO2() (int, bool) { return s.decoder.CO2() }

// Humidity returns the latest decoded relative humidity in percent.
func (s *Session) Humidity() (float64, bool) { return s.decoder.Humidity() }

// Connect locates the device, performs the activation handshake and claims
// the data endpoint. On success the session is Connected; when any connect
// step fails, every partially acquired resource is undone, the session
// remains Disconnected and the returned error is a classified *Error.
// Calling Connect on a session that is not Disconnected is a usage error
// and changes nothing.
func (s *Session) Connect() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != Disconnected {
		return fmt.Errorf("connect: session is %s", s.state)
	}
	s.state = Connecting

	dev, err := s.transport.Open(s.identity)
	if err != nil {
		s.state = Disconnected
		return s.fail(classify(err, ErrTypeDeviceNotFound, "opening device"))
	}

	detached, err := dev.DetachDriver()
	if err != nil {
		dev.Close()
		s.state = Disconnected
		return s.fail(newError(ErrTypeInterfaceUnavailable, "detaching kernel driver", err))
	}

	if err := dev.ClaimInterface(); err != nil {
		dev.Close()
		s.state = Disconnected
		return s.fail(newError(ErrTypeInterfaceUnavailable, "claiming interface", err))
	}

	key := protocol.Key
	if err := dev.Control(handshakeRequestType, handshakeRequest, handshakeValue, handshakeIndex, key[:]); err != nil {
		dev.ReleaseInterface()
		if detached {
			dev.AttachDriver()
		}
		dev.Close()
		s.state = Disconnected
		return s.fail(newError(ErrTypeHandshakeFailed, "activation control transfer", err))
	}

	ep, err := dev.Endpoint()
	if err != nil {
		dev.ReleaseInterface()
		if detached {
			dev.AttachDriver()
		}
		dev.Close()
		s.state = Disconnected
		return s.fail(newError(ErrTypeInterfaceUnavailable, "claiming endpoint", err))
	}

	s.dev = dev
	s.ep = ep
	s.detached = detached
	s.state = Connected

	logging.Info("Device connected",
		zap.String("vendor_id", fmt.Sprintf("%04x", s.identity.VendorID)),
		zap.String("product_id", fmt.Sprintf("%04x", s.identity.ProductID)),
		zap.Bool("driver_detached", detached),
	)
	s.emit(ConnectedEvent{})
	return nil
}

// Transfer confirms endpoint responsiveness with one initial read, then
// begins continuous polling with PollDepth outstanding requests and moves
// the session to Polling. Each completed poll feeds one raw frame through
// the decode pipeline; individual poll failures are surfaced as events
// without stopping the loop.
func (s *Session) Transfer() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != Connected {
		return fmt.Errorf("transfer: %w (session is %s)", ErrNotConnected, s.state)
	}

	buf := make([]byte, protocol.FrameSize)
	n, err := s.ep.Read(buf)
	if err != nil {
		return s.fail(newError(ErrTypeTransferFailed, "initial endpoint read", err))
	}
	if n != protocol.FrameSize {
		return s.fail(newError(ErrTypeTransferFailed,
			fmt.Sprintf("initial read returned %d bytes", n), nil))
	}
	s.handleFrame(buf)

	stream, err := s.ep.Stream(PollDepth)
	if err != nil {
		return s.fail(newError(ErrTypeTransferFailed, "starting poll stream", err))
	}

	s.stream = stream
	s.stop = make(chan struct{})
	s.wg.Add(1)
	go s.poll(stream, s.stop)

	s.state = Polling
	logging.Info("Polling started", zap.Int("depth", PollDepth))
	return nil
}

// Disconnect stops polling and tears the connection down: reattach the
// kernel driver if one was detached, release the interface, close the
// device. Every step is attempted even when an earlier one fails; step
// failures are surfaced as non-fatal events. Disconnection always
// completes from the session's perspective.
func (s *Session) Disconnect() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == Disconnected {
		// Never connected: nothing to tear down, but completion is
		// still signaled so callers can treat Disconnect uniformly.
		s.emit(DisconnectedEvent{})
		return nil
	}
	s.state = Disconnecting

	if s.stop != nil {
		close(s.stop)
		s.stop = nil
	}
	if s.stream != nil {
		if err := s.stream.Close(); err != nil {
			s.teardownError("stopping poll stream", err)
		}
		s.stream = nil
	}
	s.wg.Wait()

	if s.dev != nil {
		if s.detached {
			if err := s.dev.AttachDriver(); err != nil {
				s.teardownError("reattaching kernel driver", err)
			}
			s.detached = false
		}
		if err := s.dev.ReleaseInterface(); err != nil {
			s.teardownError("releasing interface", err)
		}
		if err := s.dev.Close(); err != nil {
			s.teardownError("closing device", err)
		}
		s.dev = nil
		s.ep = nil
	}

	s.state = Disconnected
	logging.Info("Device disconnected")
	s.emit(DisconnectedEvent{})
	return nil
}

// poll runs until stop is closed, forwarding each completed read to the
// decode pipeline. Completion order between in-flight reads is not
// guaranteed; every frame is self-contained so none is ever retried.
func (s *Session) poll(stream io.Reader, stop <-chan struct{}) {
	defer s.wg.Done()

	buf := make([]byte, protocol.FrameSize)
	for {
		select {
		case <-stop:
			return
		default:
		}

		n, err := stream.Read(buf)
		if err != nil {
			select {
			case <-stop:
				return
			default:
			}
			s.emit(ErrorEvent{Err: newError(ErrTypePoll, "endpoint read", err)})
			time.Sleep(pollErrorBackoff)
			continue
		}
		if n != protocol.FrameSize {
			s.emit(ErrorEvent{Err: newError(ErrTypePoll,
				fmt.Sprintf("read returned %d bytes", n), nil)})
			continue
		}
		s.handleFrame(buf)
	}
}

// handleFrame runs one raw frame through normalize/decode and publishes
// the outcome. A rejected frame is dropped without touching any cached
// reading; an unrecognized opcode is silently ignored.
func (s *Session) handleFrame(raw []byte) {
	frame, err := protocol.Normalize(raw)
	if err != nil {
		logging.Debug("Frame rejected", zap.Error(err))
		s.emit(ErrorEvent{Err: newError(ErrTypeChecksum, "frame rejected", err)})
		return
	}

	reading, ok := s.decoder.Decode(frame)
	if !ok {
		return
	}

	logging.Debug("Reading decoded",
		zap.Stringer("kind", reading.Kind),
		zap.Float64("value", reading.Value),
	)
	s.emit(ReadingEvent{Reading: reading})
}

// emit publishes an event without ever blocking the poll path. When the
// subscriber falls behind the event is dropped and logged.
func (s *Session) emit(ev Event) {
	select {
	case s.events <- ev:
	default:
		logging.Warn("Event dropped, subscriber not keeping up",
			zap.String("event", ev.String()))
	}
}

// fail reports a classified error exactly once: as an error event for
// observers and as the return value for the caller.
func (s *Session) fail(err *Error) error {
	logging.Error("Session error",
		zap.String("type", err.Type.String()),
		zap.Error(err),
	)
	s.emit(ErrorEvent{Err: err})
	return err
}

// teardownError reports a failed disconnect step without aborting the
// remaining teardown sequence.
func (s *Session) teardownError(step string, err error) {
	serr := newError(ErrTypeTeardown, step, err)
	logging.Warn("Teardown step failed", zap.String("step", step), zap.Error(err))
	s.emit(ErrorEvent{Err: serr})
}

// classify returns err unchanged when it is already a session error, and
// wraps it with the given type otherwise.
func classify(err error, t ErrorType, message string) *Error {
	var serr *Error
	if errors.As(err, &serr) {
		return serr
	}
	return newError(t, message, err)
}
