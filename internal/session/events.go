package session

import (
	"fmt"

	"github.com/airmon/co2mini/internal/protocol"
)

// Event is a notification published on the session's event channel.
// Variants: ConnectedEvent, DisconnectedEvent, ErrorEvent, ReadingEvent.
type Event interface {
	String() string
	sessionEvent()
}

// ConnectedEvent signals that the handshake completed and the endpoint
// is ready. Emitted exactly once per successful Connect.
type ConnectedEvent struct{}

func (ConnectedEvent) sessionEvent() {}

func (ConnectedEvent) String() string { return "connected" }

// DisconnectedEvent signals that teardown completed. Emitted exactly once
// per Disconnect, even when individual teardown steps failed.
type DisconnectedEvent struct{}

func (DisconnectedEvent) sessionEvent() {}

func (DisconnectedEvent) String() string { return "disconnected" }

// ErrorEvent carries a classified error condition. Non-fatal unless the
// consumer chooses to escalate it (see (*Error).Fatal).
type ErrorEvent struct {
	Err *Error
}

func (ErrorEvent) sessionEvent() {}

func (e ErrorEvent) String() string { return fmt.Sprintf("error: %v", e.Err) }

// ReadingEvent carries one newly decoded measurement.
type ReadingEvent struct {
	Reading protocol.Reading
}

func (ReadingEvent) sessionEvent() {}

func (e ReadingEvent) String() string {
	return fmt.Sprintf("%s reading: %s", e.Reading.Kind, e.Reading)
}
