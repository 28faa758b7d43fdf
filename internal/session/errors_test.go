package session

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		name      string
		err       *Error
		wantFatal bool
	}{
		{"device not found", newError(ErrTypeDeviceNotFound, "no match", nil), true},
		{"interface unavailable", newError(ErrTypeInterfaceUnavailable, "busy", nil), true},
		{"handshake failed", newError(ErrTypeHandshakeFailed, "stall", nil), true},
		{"transfer failed", newError(ErrTypeTransferFailed, "timeout", nil), true},
		{"checksum", newError(ErrTypeChecksum, "bad frame", nil), false},
		{"poll", newError(ErrTypePoll, "read failed", nil), false},
		{"teardown", newError(ErrTypeTeardown, "release failed", nil), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Fatal(); got != tt.wantFatal {
				t.Errorf("Fatal() = %v, want %v", got, tt.wantFatal)
			}
		})
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("libusb: pipe error")
	err := newError(ErrTypeHandshakeFailed, "activation control transfer", cause)

	wrapped := fmt.Errorf("connecting: %w", err)
	if !errors.Is(wrapped, cause) {
		t.Error("errors.Is() cannot reach the underlying cause")
	}
	if !IsHandshakeFailed(wrapped) {
		t.Error("IsHandshakeFailed() = false through a wrapping layer")
	}
	if IsDeviceNotFound(wrapped) {
		t.Error("IsDeviceNotFound() = true for a handshake error")
	}
}

func TestIsHelpers(t *testing.T) {
	if !IsChecksumError(newError(ErrTypeChecksum, "bad frame", nil)) {
		t.Error("IsChecksumError() = false for a checksum error")
	}
	if !IsPollError(newError(ErrTypePoll, "read failed", nil)) {
		t.Error("IsPollError() = false for a poll error")
	}
	if IsChecksumError(errors.New("plain error")) {
		t.Error("IsChecksumError() = true for an unclassified error")
	}
}
