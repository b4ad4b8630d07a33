package proto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashkov/clusterwire/tree"
)

func TestStringPayloadBinary(t *testing.T) {
	c := StringPayload{}

	for _, s := range []string{"", "some data", "こんにちは"} {
		buf := make([]byte, c.EncodedLen(s))
		tail := c.EncodeBinary(buf, s)
		require.Empty(t, tail)

		got, rest, err := c.DecodeBinary(buf)
		require.NoError(t, err)
		assert.Empty(t, rest)
		assert.Equal(t, s, got)
	}

	_, _, err := c.DecodeBinary([]byte{5, 0, 0, 0, 'h', 'i'})
	assert.ErrorIs(t, err, ErrUnexpectedEOF)

	_, _, err = c.DecodeBinary([]byte{2, 0, 0, 0, 0xc3, 0x28})
	var utf8Err *UTF8Error
	assert.ErrorAs(t, err, &utf8Err)
}

func TestStringPayloadTree(t *testing.T) {
	c := StringPayload{}

	assert.True(t, c.EncodeTree("some data").Equal(tree.String("some data")))

	got, err := c.DecodeTree(tree.String("some data"))
	require.NoError(t, err)
	assert.Equal(t, "some data", got)

	_, err = c.DecodeTree(tree.Uint(42))
	var tokenErr *UnexpectedTokenError
	assert.ErrorAs(t, err, &tokenErr)
}

func TestFloat64PayloadBinary(t *testing.T) {
	c := Float64Payload{}

	for _, f := range []float64{0, 0.5, -1.5, 1e300} {
		buf := make([]byte, c.EncodedLen(f))
		tail := c.EncodeBinary(buf, f)
		require.Empty(t, tail)

		got, rest, err := c.DecodeBinary(buf)
		require.NoError(t, err)
		assert.Empty(t, rest)
		assert.Equal(t, f, got)
	}

	_, _, err := c.DecodeBinary([]byte{1, 2, 3})
	assert.ErrorIs(t, err, ErrUnexpectedEOF)
}

func TestFloat64PayloadTree(t *testing.T) {
	c := Float64Payload{}

	got, err := c.DecodeTree(tree.Float(0.5))
	require.NoError(t, err)
	assert.Equal(t, 0.5, got)

	// Whole-valued floats reparse as integers; they still decode.
	got, err = c.DecodeTree(tree.Uint(3))
	require.NoError(t, err)
	assert.Equal(t, 3.0, got)

	_, err = c.DecodeTree(tree.String("0.5"))
	var tokenErr *UnexpectedTokenError
	assert.ErrorAs(t, err, &tokenErr)
}
