package proto

import (
	"encoding/binary"
	"math"

	"github.com/ashkov/clusterwire/tree"
)

// PayloadCodec supplies both codec surfaces for the caller-defined
// user-data type UD carried inside lookup tasks and matches. The protocol
// codec is opaque to UD beyond these five operations.
//
// EncodeBinary may assume the area holds at least EncodedLen(v) bytes and
// must return the unused tail. EncodeTree must never produce an array at
// top level: Workload relies on array-vs-non-array syntax to tell a batch
// from a single element.
//
// Implementations must be safe for concurrent use.
type PayloadCodec[UD any] interface {
	// EncodedLen returns the exact number of bytes EncodeBinary writes.
	EncodedLen(v UD) int
	// EncodeBinary writes v at the front of area and returns the tail.
	EncodeBinary(area []byte, v UD) []byte
	// DecodeBinary reads v from the front of data and returns the rest.
	DecodeBinary(data []byte) (UD, []byte, error)
	// EncodeTree maps v to a text-tree node.
	EncodeTree(v UD) tree.Value
	// DecodeTree maps a text-tree node back to v.
	DecodeTree(node tree.Value) (UD, error)
}

// StringPayload is the PayloadCodec for UD = string. The binary form is a
// 4-byte length prefix plus UTF-8 bytes, the text form a bare string.
type StringPayload struct{}

// EncodedLen returns the encoded size of v.
func (StringPayload) EncodedLen(v string) int { return stringLen(v) }

// EncodeBinary writes v at the front of area and returns the tail.
func (StringPayload) EncodeBinary(area []byte, v string) []byte {
	return putString(area, v)
}

// DecodeBinary reads a string from the front of data.
func (StringPayload) DecodeBinary(data []byte) (string, []byte, error) {
	return parseString(data)
}

// EncodeTree maps v to a string node.
func (StringPayload) EncodeTree(v string) tree.Value { return tree.String(v) }

// DecodeTree maps a string node back to v.
func (StringPayload) DecodeTree(node tree.Value) (string, error) {
	s, ok := node.AsString()
	if !ok {
		return "", &UnexpectedTokenError{Node: node}
	}
	return s, nil
}

// Float64Payload is the PayloadCodec for UD = float64. The binary form is
// a fixed 8-byte little-endian IEEE 754 value, the text form a number.
type Float64Payload struct{}

// EncodedLen returns the encoded size of v.
func (Float64Payload) EncodedLen(float64) int { return 8 }

// EncodeBinary writes v at the front of area and returns the tail.
func (Float64Payload) EncodeBinary(area []byte, v float64) []byte {
	binary.LittleEndian.PutUint64(area, math.Float64bits(v))
	return area[8:]
}

// DecodeBinary reads a float64 from the front of data.
func (Float64Payload) DecodeBinary(data []byte) (float64, []byte, error) {
	if len(data) < 8 {
		return 0, nil, ErrUnexpectedEOF
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(data)), data[8:], nil
}

// EncodeTree maps v to a float node.
func (Float64Payload) EncodeTree(v float64) tree.Value { return tree.Float(v) }

// DecodeTree maps a numeric node back to v. Integer nodes are accepted:
// JSON renders whole-valued floats without a fraction.
func (Float64Payload) DecodeTree(node tree.Value) (float64, error) {
	f, ok := node.AsNumber()
	if !ok {
		return 0, &UnexpectedTokenError{Node: node}
	}
	return f, nil
}
