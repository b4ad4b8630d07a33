package proto

import (
	"errors"
	"fmt"

	"github.com/ashkov/clusterwire/tree"
)

// ErrUnexpectedEOF is returned when a binary decode runs out of bytes
// before the value is complete. No partial value is ever returned.
var ErrUnexpectedEOF = errors.New("unexpected EOF")

// InvalidTagError is returned when a binary decode hits a tag byte that
// selects no known variant of the entity being decoded.
type InvalidTagError struct {
	Entity string
	Tag    byte
}

func (e *InvalidTagError) Error() string {
	return fmt.Sprintf("invalid %s tag %d", e.Entity, e.Tag)
}

// UTF8Error is returned when a decoded string's bytes are not valid UTF-8.
type UTF8Error struct {
	// Offset is the position of the first invalid byte within the
	// string's data.
	Offset int
	// Len is the declared byte length of the string.
	Len int
}

func (e *UTF8Error) Error() string {
	return fmt.Sprintf("invalid utf-8 at offset %d of %d-byte string", e.Offset, e.Len)
}

// UnexpectedTokenError is returned when a text-tree node does not match
// any expected shape or token for the target type.
type UnexpectedTokenError struct {
	Node tree.Value
}

func (e *UnexpectedTokenError) Error() string {
	return fmt.Sprintf("unexpected json token: %s", e.Node)
}

// MalformedObjectError is returned when a text-tree object is missing a
// required key or carries conflicting keys.
type MalformedObjectError struct {
	Node tree.Value
}

func (e *MalformedObjectError) Error() string {
	return fmt.Sprintf("malformed json object: %s", e.Node)
}
