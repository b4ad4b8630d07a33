package clusterwire

import (
	"errors"
	"fmt"
	"io"

	"github.com/ashkov/clusterwire/framing"
	"github.com/ashkov/clusterwire/proto"
)

// ErrTrailingBytes is returned when a buffer holds more than one encoded
// message.
var ErrTrailingBytes = errors.New("trailing bytes after message")

// MarshalRequest encodes a transaction into a fresh, exactly-sized buffer.
func MarshalRequest[UD any](c proto.PayloadCodec[UD], t proto.Trans[UD]) []byte {
	buf := make([]byte, t.EncodedLen(c))
	t.EncodeBinary(buf, c)
	return buf
}

// UnmarshalRequest decodes a transaction from data, requiring that data
// holds exactly one message.
func UnmarshalRequest[UD any](c proto.PayloadCodec[UD], data []byte) (proto.Trans[UD], error) {
	t, rest, err := proto.DecodeTrans(data, c)
	if err != nil {
		return proto.Trans[UD]{}, err
	}
	if len(rest) != 0 {
		return proto.Trans[UD]{}, fmt.Errorf("%w: %d bytes", ErrTrailingBytes, len(rest))
	}
	return t, nil
}

// MarshalReply encodes a reply into a fresh, exactly-sized buffer.
func MarshalReply[UD any](c proto.PayloadCodec[UD], r proto.Rep[UD]) []byte {
	buf := make([]byte, r.EncodedLen(c))
	r.EncodeBinary(buf, c)
	return buf
}

// UnmarshalReply decodes a reply from data, requiring that data holds
// exactly one message.
func UnmarshalReply[UD any](c proto.PayloadCodec[UD], data []byte) (proto.Rep[UD], error) {
	r, rest, err := proto.DecodeRep(data, c)
	if err != nil {
		return proto.Rep[UD]{}, err
	}
	if len(rest) != 0 {
		return proto.Rep[UD]{}, fmt.Errorf("%w: %d bytes", ErrTrailingBytes, len(rest))
	}
	return r, nil
}

// MarshalRequestJSON encodes a transaction as JSON text.
func MarshalRequestJSON[UD any](c proto.PayloadCodec[UD], t proto.Trans[UD]) ([]byte, error) {
	return t.EncodeTree(c).MarshalJSON()
}

// UnmarshalRequestJSON decodes a transaction from JSON text.
func UnmarshalRequestJSON[UD any](c proto.PayloadCodec[UD], data []byte) (proto.Trans[UD], error) {
	return proto.ParseTrans(data, c)
}

// MarshalReplyJSON encodes a reply as JSON text.
func MarshalReplyJSON[UD any](c proto.PayloadCodec[UD], r proto.Rep[UD]) ([]byte, error) {
	return r.EncodeTree(c).MarshalJSON()
}

// UnmarshalReplyJSON decodes a reply from JSON text.
func UnmarshalReplyJSON[UD any](c proto.PayloadCodec[UD], data []byte) (proto.Rep[UD], error) {
	return proto.ParseRep(data, c)
}

// WriteRequest frames a binary-encoded transaction onto w.
func WriteRequest[UD any](w io.Writer, c proto.PayloadCodec[UD], t proto.Trans[UD]) error {
	return framing.WriteFrame(w, MarshalRequest(c, t))
}

// ReadRequest reads one framed transaction from r. It returns io.EOF on a
// clean end of stream.
func ReadRequest[UD any](r io.Reader, c proto.PayloadCodec[UD]) (proto.Trans[UD], error) {
	payload, err := framing.ReadFrame(r)
	if err != nil {
		return proto.Trans[UD]{}, err
	}
	return UnmarshalRequest(c, payload)
}

// WriteReply frames a binary-encoded reply onto w.
func WriteReply[UD any](w io.Writer, c proto.PayloadCodec[UD], r proto.Rep[UD]) error {
	return framing.WriteFrame(w, MarshalReply(c, r))
}

// ReadReply reads one framed reply from r. It returns io.EOF on a clean
// end of stream.
func ReadReply[UD any](r io.Reader, c proto.PayloadCodec[UD]) (proto.Rep[UD], error) {
	payload, err := framing.ReadFrame(r)
	if err != nil {
		return proto.Rep[UD]{}, err
	}
	return UnmarshalReply(c, payload)
}
