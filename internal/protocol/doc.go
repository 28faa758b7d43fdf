// Package protocol implements the CO2Mini sensor's on-wire frame format.
//
// The sensor reports measurements as fixed 8-byte frames on its interrupt
// endpoint. Legacy firmware obfuscates every frame with a fixed-key cipher;
// modern firmware sends plaintext. This package normalizes both variants
// into validated, typed readings.
//
// # Frame Format
//
// A well-formed (decrypted or plaintext) frame looks like:
//
//	byte 0: opcode (which quantity the frame encodes)
//	byte 1: value high byte
//	byte 2: value low byte
//	byte 3: checksum - low byte of (byte0 + byte1 + byte2)
//	byte 4: 0x0D frame-boundary marker
//	bytes 5-7: unused
//
// # Legacy Obfuscation
//
// Legacy firmware applies three reversible transforms before a frame hits
// the wire: a fixed byte permutation, an XOR with the 8-byte key that is
// also used for the activation handshake, a bit-interleaving rotate step,
// and a per-position additive offset derived from the ASCII sequence
// "Htemp99e". Decrypt undoes all of them. A frame that already carries the
// 0x0D marker at index 4 is plaintext and skips decryption entirely, but
// is still subject to checksum validation.
//
// # Usage
//
//	frame, err := protocol.Normalize(raw)
//	if err != nil {
//	    // *protocol.ChecksumError: drop the frame, keep polling
//	}
//	if reading, ok := decoder.Decode(frame); ok {
//	    fmt.Println(reading) // e.g. "612 ppm"
//	}
//
// # Opcodes
//
// Three opcodes are decoded: 0x42 (temperature, sixteenths of a Kelvin),
// 0x50 (CO2 concentration, ppm) and 0x41 (relative humidity, hundredths
// of a percent). The sensor emits further opcodes; they are unrecognized
// but harmless and are ignored rather than treated as errors.
//
// # Thread Safety
//
// Decrypt, Validate and Normalize are pure functions, safe for concurrent
// use. Decoder caches the latest reading of each kind behind an RWMutex:
// single writer (the decode path), any number of concurrent readers.
package protocol
