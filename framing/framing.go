// Package framing moves encoded protocol messages over byte streams.
//
// A frame is a 4-byte little-endian payload length, a 4-byte CRC32 (IEEE)
// of the payload, then the payload bytes. The checksum detects accidental
// corruption in transit or at rest; it is not tamper protection. The
// payload itself is opaque here: encode it with the proto package first.
package framing

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
)

// MaxPayloadLen caps the declared payload length accepted by ReadFrame, so
// a corrupt or hostile length prefix cannot force a huge allocation.
const MaxPayloadLen = 64 << 20

// ErrPayloadTooLarge is returned when a frame declares a payload larger
// than MaxPayloadLen.
var ErrPayloadTooLarge = errors.New("frame payload too large")

// ChecksumMismatchError is returned when a frame's payload does not match
// its checksum.
type ChecksumMismatchError struct {
	Expected uint32
	Actual   uint32
}

func (e *ChecksumMismatchError) Error() string {
	return fmt.Sprintf("frame checksum mismatch: expected 0x%08x, got 0x%08x", e.Expected, e.Actual)
}

const headerLen = 8

// WriteFrame writes one frame carrying payload to w.
func WriteFrame(w io.Writer, payload []byte) error {
	if len(payload) > MaxPayloadLen {
		return fmt.Errorf("%w: %d bytes", ErrPayloadTooLarge, len(payload))
	}

	var header [headerLen]byte
	binary.LittleEndian.PutUint32(header[0:4], uint32(len(payload)))
	binary.LittleEndian.PutUint32(header[4:8], crc32.ChecksumIEEE(payload))

	if _, err := w.Write(header[:]); err != nil {
		return fmt.Errorf("write frame header: %w", err)
	}
	if _, err := w.Write(payload); err != nil {
		return fmt.Errorf("write frame payload: %w", err)
	}
	return nil
}

// ReadFrame reads one frame from r and returns its payload.
//
// A clean EOF before the first header byte is returned as io.EOF so
// callers can detect end of stream; any other truncation surfaces as
// io.ErrUnexpectedEOF.
func ReadFrame(r io.Reader) ([]byte, error) {
	var header [headerLen]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("read frame header: %w", err)
	}

	length := binary.LittleEndian.Uint32(header[0:4])
	expected := binary.LittleEndian.Uint32(header[4:8])
	if length > MaxPayloadLen {
		return nil, fmt.Errorf("%w: %d bytes", ErrPayloadTooLarge, length)
	}

	payload := make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("read frame payload: %w", io.ErrUnexpectedEOF)
		}
		return nil, fmt.Errorf("read frame payload: %w", err)
	}

	if actual := crc32.ChecksumIEEE(payload); actual != expected {
		return nil, &ChecksumMismatchError{Expected: expected, Actual: actual}
	}
	return payload, nil
}
