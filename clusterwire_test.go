package clusterwire_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashkov/clusterwire"
	"github.com/ashkov/clusterwire/proto"
)

func sampleRequest() proto.Trans[string] {
	return proto.Sync(proto.Lookup(proto.Single(proto.LookupTask[string]{
		Text:       "hello world",
		Result:     proto.LookupAll,
		PostAction: proto.NoAction[string](),
	})))
}

func sampleReply() proto.Rep[string] {
	return proto.Result(proto.Single(proto.Best(proto.Match[string]{
		ClusterID:  177,
		Similarity: 0.5,
		UserData:   "some data",
	})))
}

func TestMarshalUnmarshalRequest(t *testing.T) {
	c := proto.StringPayload{}
	req := sampleRequest()

	wire := clusterwire.MarshalRequest(c, req)
	got, err := clusterwire.UnmarshalRequest(c, wire)
	require.NoError(t, err)
	assert.Equal(t, req, got)

	// A concatenation of two messages is not one message.
	_, err = clusterwire.UnmarshalRequest(c, append(wire, wire...))
	assert.ErrorIs(t, err, clusterwire.ErrTrailingBytes)
}

func TestMarshalUnmarshalReply(t *testing.T) {
	c := proto.StringPayload{}
	rep := sampleReply()

	wire := clusterwire.MarshalReply(c, rep)
	assert.Len(t, wire, 32)

	got, err := clusterwire.UnmarshalReply(c, wire)
	require.NoError(t, err)
	assert.Equal(t, rep, got)

	_, err = clusterwire.UnmarshalReply(c, append(wire, 0x00))
	assert.ErrorIs(t, err, clusterwire.ErrTrailingBytes)
}

func TestJSONHelpers(t *testing.T) {
	c := proto.StringPayload{}

	text, err := clusterwire.MarshalRequestJSON(c, sampleRequest())
	require.NoError(t, err)
	assert.Equal(t,
		`{"sync":{"lookup":{"text":"hello world","result":"all","post_action":"none"}}}`,
		string(text))

	got, err := clusterwire.UnmarshalRequestJSON(c, text)
	require.NoError(t, err)
	assert.Equal(t, sampleRequest(), got)

	text, err = clusterwire.MarshalReplyJSON(c, sampleReply())
	require.NoError(t, err)

	gotRep, err := clusterwire.UnmarshalReplyJSON(c, text)
	require.NoError(t, err)
	assert.Equal(t, sampleReply(), gotRep)
}

func TestFramedStream(t *testing.T) {
	c := proto.StringPayload{}
	var conn bytes.Buffer

	require.NoError(t, clusterwire.WriteRequest(&conn, c, sampleRequest()))
	require.NoError(t, clusterwire.WriteRequest(&conn, c, proto.Async(proto.Terminate[string]())))

	first, err := clusterwire.ReadRequest(&conn, c)
	require.NoError(t, err)
	assert.Equal(t, sampleRequest(), first)

	second, err := clusterwire.ReadRequest(&conn, c)
	require.NoError(t, err)
	assert.Equal(t, proto.Async(proto.Terminate[string]()), second)

	_, err = clusterwire.ReadRequest(&conn, c)
	assert.ErrorIs(t, err, io.EOF)
}

func TestFramedReplyStream(t *testing.T) {
	c := proto.StringPayload{}
	var conn bytes.Buffer

	require.NoError(t, clusterwire.WriteReply(&conn, c, sampleReply()))

	got, err := clusterwire.ReadReply(&conn, c)
	require.NoError(t, err)
	assert.Equal(t, sampleReply(), got)
}
