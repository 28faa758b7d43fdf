package protocol

import (
	"encoding/hex"
	"fmt"
)

// Frame and handshake constants
const (
	// FrameSize is the fixed length of every report the sensor emits.
	// Reads of any other length are a protocol violation.
	FrameSize = 8

	// MarkerByte is the frame-boundary marker. A well-formed frame
	// (plaintext or successfully decrypted) carries it at MarkerIndex.
	MarkerByte = 0x0D

	// MarkerIndex is the position of the marker byte within a frame.
	MarkerIndex = 4
)

// Key is the fixed 8-byte key. It is sent to the device as the handshake
// payload and reused to undo the legacy firmware's frame obfuscation.
// Immutable for the process lifetime.
var Key = [FrameSize]byte{0xC4, 0xC6, 0xC0, 0x92, 0x40, 0x23, 0xDC, 0x96}

// shuffle is the wire-level byte permutation applied by legacy firmware.
// Raw byte i belongs at position shuffle[i] of the decrypted frame.
var shuffle = [FrameSize]int{2, 4, 0, 7, 1, 6, 5, 3}

// offsets holds the per-position additive obfuscation constants: the
// nibble-swap of the ASCII sequence "Htemp99e".
var offsets = func() [FrameSize]byte {
	var out [FrameSize]byte
	for i, c := range []byte("Htemp99e") {
		out[i] = (c << 4) | (c >> 4)
	}
	return out
}()

// DecodedFrame is the cipher output: the opcode byte and the 16-bit value
// reconstructed from the two bytes that follow it.
type DecodedFrame struct {
	Opcode byte
	Value  uint16
}

// ChecksumError reports a frame that failed integrity validation, either
// because the marker byte is missing or because the additive checksum does
// not match. The offending frame is dropped; polling continues.
type ChecksumError struct {
	Frame  [FrameSize]byte
	Reason string
}

func (e *ChecksumError) Error() string {
	return fmt.Sprintf("frame checksum error: %s (frame %s)",
		e.Reason, hex.EncodeToString(e.Frame[:]))
}

// FrameSizeError reports a read that was not exactly FrameSize bytes.
type FrameSizeError struct {
	Length int
}

func (e *FrameSizeError) Error() string {
	return fmt.Sprintf("invalid frame length: %d bytes (expected %d)", e.Length, FrameSize)
}

// Decrypt undoes the legacy firmware's three-stage frame obfuscation:
// a byte shuffle XORed with the key, an 8-bit rotate-and-mix, and a fixed
// per-position subtraction. It is deterministic and side-effect-free;
// identical (key, raw) pairs always decode identically.
func Decrypt(raw [FrameSize]byte) [FrameSize]byte {
	// Stage 1: undo the byte shuffle while XORing with the key.
	var mixed [FrameSize]byte
	for i, p := range shuffle {
		mixed[p] = raw[i] ^ Key[p]
	}

	// Stage 2: each output byte combines a 3-bit right rotation of its
	// own position with a 5-bit left shift of the previous (circular)
	// position.
	var rotated [FrameSize]byte
	for i := 0; i < FrameSize; i++ {
		rotated[i] = (mixed[i] >> 3) | (mixed[(i+FrameSize-1)%FrameSize] << 5)
	}

	// Stage 3: subtract the fixed offsets modulo 256.
	var out [FrameSize]byte
	for i := 0; i < FrameSize; i++ {
		out[i] = byte((0x100 + int(rotated[i]) - int(offsets[i])) & 0xFF)
	}
	return out
}

// Validate checks frame integrity independently of decryption: the marker
// byte must be present and byte 3 must equal the low byte of the sum of
// bytes 0-2. Returns a *ChecksumError on either violation.
func Validate(frame [FrameSize]byte) error {
	if frame[MarkerIndex] != MarkerByte {
		return &ChecksumError{Frame: frame, Reason: "missing frame marker"}
	}
	if frame[0]+frame[1]+frame[2] != frame[3] {
		return &ChecksumError{Frame: frame, Reason: "checksum mismatch"}
	}
	return nil
}

// Normalize converts one raw report into a validated DecodedFrame. Frames
// that already carry the marker byte are modern-firmware plaintext and are
// passed through unmodified; everything else goes through Decrypt. The
// marker only selects the bypass: validation runs in both branches.
func Normalize(raw []byte) (DecodedFrame, error) {
	if len(raw) != FrameSize {
		return DecodedFrame{}, &FrameSizeError{Length: len(raw)}
	}

	var frame [FrameSize]byte
	copy(frame[:], raw)
	if frame[MarkerIndex] != MarkerByte {
		frame = Decrypt(frame)
	}

	if err := Validate(frame); err != nil {
		return DecodedFrame{}, err
	}

	return DecodedFrame{
		Opcode: frame[0],
		Value:  uint16(frame[1])<<8 | uint16(frame[2]),
	}, nil
}
