package session

import (
	"errors"
	"fmt"
)

// ErrNotConnected is returned when an operation requires a state the
// session is not in (e.g. Transfer before a successful Connect).
var ErrNotConnected = errors.New("session is not connected")

// ErrorType represents the category of a session error
type ErrorType int

const (
	// ErrTypeDeviceNotFound indicates no attached device matched the identity
	ErrTypeDeviceNotFound ErrorType = iota
	// ErrTypeInterfaceUnavailable indicates the device interface could not be obtained
	ErrTypeInterfaceUnavailable
	// ErrTypeHandshakeFailed indicates the activation control transfer failed
	ErrTypeHandshakeFailed
	// ErrTypeTransferFailed indicates the initial endpoint read failed
	ErrTypeTransferFailed
	// ErrTypeChecksum indicates a frame failed integrity validation (recoverable)
	ErrTypeChecksum
	// ErrTypePoll indicates a single in-flight read failed (recoverable)
	ErrTypePoll
	// ErrTypeTeardown indicates a best-effort disconnect step failed (non-fatal)
	ErrTypeTeardown
)

// String returns a human-readable name for the error type
func (et ErrorType) String() string {
	switch et {
	case ErrTypeDeviceNotFound:
		return "Device Not Found"
	case ErrTypeInterfaceUnavailable:
		return "Interface Unavailable"
	case ErrTypeHandshakeFailed:
		return "Handshake Failed"
	case ErrTypeTransferFailed:
		return "Transfer Failed"
	case ErrTypeChecksum:
		return "Checksum Error"
	case ErrTypePoll:
		return "Poll Error"
	case ErrTypeTeardown:
		return "Teardown Error"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

// Error represents a classified failure in the device session. Fatal
// errors abort the connect/transfer sequence in progress; recoverable
// ones (checksum, poll, teardown) are surfaced as events only.
type Error struct {
	Type    ErrorType // Category of error
	Message string    // Human-readable error message
	Err     error     // Underlying error (if any)
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error for error chain inspection
func (e *Error) Unwrap() error {
	return e.Err
}

// Fatal reports whether the error aborts the operation in progress.
// Checksum, poll and teardown failures are recoverable: the offending
// frame or step is skipped and the session carries on.
func (e *Error) Fatal() bool {
	switch e.Type {
	case ErrTypeChecksum, ErrTypePoll, ErrTypeTeardown:
		return false
	}
	return true
}

func newError(t ErrorType, message string, err error) *Error {
	return &Error{Type: t, Message: message, Err: err}
}

// IsDeviceNotFound checks whether err is a device-not-found session error
func IsDeviceNotFound(err error) bool {
	return isType(err, ErrTypeDeviceNotFound)
}

// IsHandshakeFailed checks whether err is a handshake session error
func IsHandshakeFailed(err error) bool {
	return isType(err, ErrTypeHandshakeFailed)
}

// IsChecksumError checks whether err is a recoverable frame integrity error
func IsChecksumError(err error) bool {
	return isType(err, ErrTypeChecksum)
}

// IsPollError checks whether err is a recoverable single-read error
func IsPollError(err error) bool {
	return isType(err, ErrTypePoll)
}

func isType(err error, t ErrorType) bool {
	var serr *Error
	return errors.As(err, &serr) && serr.Type == t
}
