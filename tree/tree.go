package tree

import (
	"math"
	"strconv"
	"strings"
)

// Kind identifies the concrete type stored in a Value.
type Kind uint8

const (
	// KindInvalid represents an invalid kind.
	KindInvalid Kind = iota
	// KindNull represents the null value.
	KindNull
	// KindBool represents a boolean value.
	KindBool
	// KindInt represents a negative 64-bit integer value.
	KindInt
	// KindUint represents a non-negative 64-bit integer value.
	KindUint
	// KindFloat represents a 64-bit float value.
	KindFloat
	// KindString represents a string value.
	KindString
	// KindArray represents an ordered sequence of values.
	KindArray
	// KindObject represents an ordered mapping of string keys to values.
	KindObject
)

// Member is a single key/value pair of an object.
type Member struct {
	Key   string
	Value Value
}

// Value is a generic text-tree node: the parse result of a JSON document,
// or the input to rendering one.
//
// Numbers are split into three kinds the way rustc-style parsers do it:
// integers without a sign or fraction are KindUint, negative integers are
// KindInt, everything else is KindFloat. Object member order is preserved
// from construction/parsing but does not affect equality.
type Value struct {
	Kind Kind
	B    bool
	I64  int64
	U64  uint64
	F64  float64
	S    string
	A    []Value
	M    []Member
}

// Null returns the null Value.
func Null() Value { return Value{Kind: KindNull} }

// Bool returns a boolean Value.
func Bool(v bool) Value { return Value{Kind: KindBool, B: v} }

// Int returns an integer Value. Non-negative inputs normalize to KindUint
// so that construction and parsing agree on the kind.
func Int(v int64) Value {
	if v >= 0 {
		return Value{Kind: KindUint, U64: uint64(v)}
	}
	return Value{Kind: KindInt, I64: v}
}

// Uint returns a non-negative integer Value.
func Uint(v uint64) Value { return Value{Kind: KindUint, U64: v} }

// Float returns a float Value.
func Float(v float64) Value { return Value{Kind: KindFloat, F64: v} }

// String returns a string Value.
func String(v string) Value { return Value{Kind: KindString, S: v} }

// Array returns an array Value.
func Array(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{Kind: KindArray, A: items}
}

// Object returns an object Value with the given members, in order.
// Keys must be unique; later duplicates replace earlier ones.
func Object(members ...Member) Value {
	v := Value{Kind: KindObject, M: make([]Member, 0, len(members))}
	for _, m := range members {
		v.set(m.Key, m.Value)
	}
	return v
}

// Field is shorthand for building a Member.
func Field(key string, value Value) Member {
	return Member{Key: key, Value: value}
}

func (v *Value) set(key string, value Value) {
	for i := range v.M {
		if v.M[i].Key == key {
			v.M[i].Value = value
			return
		}
	}
	v.M = append(v.M, Member{Key: key, Value: value})
}

// IsNull reports whether the value is null.
func (v Value) IsNull() bool { return v.Kind == KindNull }

// AsBool returns the boolean value if Kind is KindBool.
func (v Value) AsBool() (bool, bool) {
	if v.Kind != KindBool {
		return false, false
	}
	return v.B, true
}

// AsString returns the string value if Kind is KindString.
func (v Value) AsString() (string, bool) {
	if v.Kind != KindString {
		return "", false
	}
	return v.S, true
}

// AsUint64 returns the value as a uint64 if it is a non-negative integer.
func (v Value) AsUint64() (uint64, bool) {
	if v.Kind != KindUint {
		return 0, false
	}
	return v.U64, true
}

// AsNumber returns the value as a float64 if it is any numeric kind.
func (v Value) AsNumber() (float64, bool) {
	switch v.Kind {
	case KindUint:
		return float64(v.U64), true
	case KindInt:
		return float64(v.I64), true
	case KindFloat:
		return v.F64, true
	default:
		return 0, false
	}
}

// AsArray returns the items if Kind is KindArray.
func (v Value) AsArray() ([]Value, bool) {
	if v.Kind != KindArray {
		return nil, false
	}
	return v.A, true
}

// AsObject returns the members if Kind is KindObject.
func (v Value) AsObject() ([]Member, bool) {
	if v.Kind != KindObject {
		return nil, false
	}
	return v.M, true
}

// Get looks up an object member by key.
func (v Value) Get(key string) (Value, bool) {
	if v.Kind != KindObject {
		return Value{}, false
	}
	for i := range v.M {
		if v.M[i].Key == key {
			return v.M[i].Value, true
		}
	}
	return Value{}, false
}

// Has reports whether the object has a member with the given key.
func (v Value) Has(key string) bool {
	_, ok := v.Get(key)
	return ok
}

// Equal reports structural equality. Object member order is ignored,
// KindInt and KindUint compare numerically, floats compare with ==.
func (v Value) Equal(o Value) bool {
	switch v.Kind {
	case KindNull:
		return o.Kind == KindNull
	case KindBool:
		return o.Kind == KindBool && v.B == o.B
	case KindInt, KindUint:
		return sameInteger(v, o)
	case KindFloat:
		return o.Kind == KindFloat && v.F64 == o.F64
	case KindString:
		return o.Kind == KindString && v.S == o.S
	case KindArray:
		if o.Kind != KindArray || len(v.A) != len(o.A) {
			return false
		}
		for i := range v.A {
			if !v.A[i].Equal(o.A[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if o.Kind != KindObject || len(v.M) != len(o.M) {
			return false
		}
		for i := range v.M {
			ov, ok := o.Get(v.M[i].Key)
			if !ok || !v.M[i].Value.Equal(ov) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func sameInteger(a, b Value) bool {
	switch {
	case a.Kind == KindUint && b.Kind == KindUint:
		return a.U64 == b.U64
	case a.Kind == KindInt && b.Kind == KindInt:
		return a.I64 == b.I64
	default:
		// Mixed kinds can only be equal if both fit the
		// non-negative range, which KindInt never does.
		return false
	}
}

// String returns a compact JSON-like rendering for diagnostics.
// Unlike MarshalJSON it never fails: non-finite floats render as bare
// tokens (NaN, +Inf, -Inf).
func (v Value) String() string {
	var sb strings.Builder
	v.writeDebug(&sb)
	return sb.String()
}

func (v Value) writeDebug(sb *strings.Builder) {
	switch v.Kind {
	case KindNull:
		sb.WriteString("null")
	case KindBool:
		sb.WriteString(strconv.FormatBool(v.B))
	case KindInt:
		sb.WriteString(strconv.FormatInt(v.I64, 10))
	case KindUint:
		sb.WriteString(strconv.FormatUint(v.U64, 10))
	case KindFloat:
		if math.IsNaN(v.F64) {
			sb.WriteString("NaN")
		} else if math.IsInf(v.F64, 1) {
			sb.WriteString("+Inf")
		} else if math.IsInf(v.F64, -1) {
			sb.WriteString("-Inf")
		} else {
			sb.WriteString(strconv.FormatFloat(v.F64, 'g', -1, 64))
		}
	case KindString:
		sb.WriteString(strconv.Quote(v.S))
	case KindArray:
		sb.WriteByte('[')
		for i := range v.A {
			if i > 0 {
				sb.WriteByte(',')
			}
			v.A[i].writeDebug(sb)
		}
		sb.WriteByte(']')
	case KindObject:
		sb.WriteByte('{')
		for i := range v.M {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(strconv.Quote(v.M[i].Key))
			sb.WriteByte(':')
			v.M[i].Value.writeDebug(sb)
		}
		sb.WriteByte('}')
	default:
		sb.WriteString("invalid")
	}
}
