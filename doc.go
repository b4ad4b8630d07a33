// Package clusterwire implements the wire protocol of a client/worker
// text-clustering lookup service.
//
// A client submits text to be matched against existing clusters and
// optionally inserted as a new cluster; a worker replies with matches,
// empty results, or control signals (busy, crash intent, termination).
// This module is the protocol only: the message model and two isomorphic
// codecs over it. The clustering engine, the transport and worker
// supervision live elsewhere and consume this package.
//
// # Quick Start
//
//	c := proto.StringPayload{}
//
//	req := proto.Sync(proto.Lookup(proto.Single(proto.LookupTask[string]{
//	    Text:       "hello world",
//	    Result:     proto.LookupAll,
//	    PostAction: proto.NoAction[string](),
//	})))
//
//	// Compact binary form.
//	wire := clusterwire.MarshalRequest(c, req)
//	back, _ := clusterwire.UnmarshalRequest(c, wire)
//
//	// Human-readable form.
//	text, _ := clusterwire.MarshalRequestJSON(c, req)
//	// {"sync":{"lookup":{"text":"hello world","result":"all","post_action":"none"}}}
//
//	// Framed over a stream (length prefix + CRC32).
//	_ = clusterwire.WriteRequest(conn, c, req)
//
// # Packages
//
//   - proto: message model, binary codec, structured-text codec, error
//     taxonomy, payload codecs for caller-defined user data
//   - tree: the generic JSON-shaped value the text codec maps through
//   - framing: stream framing with length prefix and checksum
//
// All codec operations are pure, synchronous and safe for concurrent use.
package clusterwire
