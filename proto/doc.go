// Package proto defines the message model of the cluster-lookup wire
// protocol and its two codecs.
//
// A client submits text to be matched against existing clusters, and
// optionally inserted as a new one; a worker replies with matches, empty
// results, or control signals. The same model has two structurally
// isomorphic encodings:
//
//   - a compact binary framing (EncodedLen / EncodeBinary / DecodeTrans,
//     DecodeReq, DecodeRep): tag-prefixed, little-endian, length-prefixed
//     where variable-sized;
//   - a structured-text form over tree.Value (EncodeTree /
//     DecodeTransTree, DecodeReqTree, DecodeRepTree, plus ParseTrans /
//     ParseRep for raw JSON bytes).
//
// # Message model
//
// Trans wraps a Req with its acknowledgement discipline (sync or async).
// Req is Init, Lookup or Terminate; Lookup carries a Workload of
// LookupTask values, single or batched. Rep mirrors it on the worker
// side: InitAck, Result, TerminateAck, Unexpected (echoing a request),
// TooBusy, WantCrash. A Result's workload arity mirrors the request's.
//
// Sum types are structs with an explicit Kind tag plus variant fields;
// use the constructor per variant (Async, Sync, Init, Lookup, Single,
// Many, ...) so unused fields stay zeroed and decoded values compare
// equal to constructed ones.
//
// # User data
//
// The user-data payload carried by lookup tasks and matches is a type
// parameter UD, opaque to the codec. Its codec capability is supplied as
// a PayloadCodec[UD]; StringPayload and Float64Payload are built in.
//
// # Errors
//
// Decoding fails eagerly at the first invalid input and never returns a
// partial value: ErrUnexpectedEOF, InvalidTagError and UTF8Error on the
// binary path, UnexpectedTokenError and MalformedObjectError (each
// carrying the offending node) on the text path. Encoding is infallible
// given a correctly sized buffer; an undersized buffer or an invalid
// kind is a contract violation and panics.
//
// All operations are pure and safe for concurrent use on independent
// buffers.
package proto
