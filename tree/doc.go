// Package tree provides the generic text-tree value used by the
// structured-text wire codec.
//
// A Value is one JSON-shaped node: null, bool, integer, float, string,
// ordered array, or ordered object. It is the intermediate form between
// protocol messages and their textual encoding; the proto package maps
// messages to and from Values, and Parse / MarshalJSON map Values to and
// from JSON bytes.
//
// # Construction
//
//	tree.Object(
//	    tree.Field("cluster_id", tree.Uint(177)),
//	    tree.Field("similarity", tree.Float(0.5)),
//	)
//
// # Equality
//
// Value.Equal ignores object member order; keys are unique within one
// object (last write wins).
package tree
