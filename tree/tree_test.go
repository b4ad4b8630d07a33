package tree

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructorsAndAccessors(t *testing.T) {
	s, ok := String("hi").AsString()
	assert.True(t, ok)
	assert.Equal(t, "hi", s)

	_, ok = String("hi").AsNumber()
	assert.False(t, ok)

	u, ok := Uint(177).AsUint64()
	assert.True(t, ok)
	assert.Equal(t, uint64(177), u)

	// Negative integers never read back as uint64.
	_, ok = Int(-3).AsUint64()
	assert.False(t, ok)

	f, ok := Float(0.5).AsNumber()
	assert.True(t, ok)
	assert.Equal(t, 0.5, f)

	f, ok = Int(-3).AsNumber()
	assert.True(t, ok)
	assert.Equal(t, -3.0, f)

	b, ok := Bool(true).AsBool()
	assert.True(t, ok)
	assert.True(t, b)

	assert.True(t, Null().IsNull())
	assert.False(t, Uint(0).IsNull())
}

func TestIntNormalizesToUint(t *testing.T) {
	assert.Equal(t, KindUint, Int(42).Kind)
	assert.Equal(t, KindInt, Int(-42).Kind)
}

func TestObjectLookup(t *testing.T) {
	obj := Object(
		Field("a", Uint(1)),
		Field("b", String("x")),
		Field("a", Uint(2)), // duplicate key, last wins
	)

	members, ok := obj.AsObject()
	require.True(t, ok)
	assert.Len(t, members, 2)

	v, ok := obj.Get("a")
	require.True(t, ok)
	assert.True(t, v.Equal(Uint(2)))

	assert.True(t, obj.Has("b"))
	assert.False(t, obj.Has("c"))
}

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b Value
		want bool
	}{
		{"Null", Null(), Null(), true},
		{"NullVsBool", Null(), Bool(false), false},
		{"Uint", Uint(5), Uint(5), true},
		{"UintVsInt", Uint(5), Int(5), true}, // Int(5) normalizes to KindUint
		{"NegInt", Int(-5), Int(-5), true},
		{"NegIntVsUint", Int(-5), Uint(5), false},
		{"Float", Float(0.5), Float(0.5), true},
		{"FloatVsUint", Float(5), Uint(5), false},
		{"String", String("a"), String("a"), true},
		{"Array", Array(Uint(1), String("a")), Array(Uint(1), String("a")), true},
		{"ArrayLen", Array(Uint(1)), Array(), false},
		{"ArrayEmpty", Array(), Array(), true},
		{
			"ObjectOrderInsensitive",
			Object(Field("a", Uint(1)), Field("b", Uint(2))),
			Object(Field("b", Uint(2)), Field("a", Uint(1))),
			true,
		},
		{
			"ObjectMissingKey",
			Object(Field("a", Uint(1))),
			Object(Field("b", Uint(1))),
			false,
		},
		{
			"Nested",
			Object(Field("w", Array(Null(), Float(1.5)))),
			Object(Field("w", Array(Null(), Float(1.5)))),
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Equal(tt.b))
			assert.Equal(t, tt.want, tt.b.Equal(tt.a))
		})
	}
}

func TestParseRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		val  Value
		json string
	}{
		{"Null", Null(), `null`},
		{"True", Bool(true), `true`},
		{"Uint", Uint(177), `177`},
		{"NegInt", Int(-42), `-42`},
		{"Float", Float(0.5), `0.5`},
		{"String", String("hello world"), `"hello world"`},
		{"StringEscapes", String("a\"b\\c\n"), `"a\"b\\c\n"`},
		{"EmptyArray", Array(), `[]`},
		{"Array", Array(Uint(1), String("a"), Null()), `[1,"a",null]`},
		{
			"Object",
			Object(Field("text", String("hi")), Field("n", Uint(2))),
			`{"text":"hi","n":2}`,
		},
		{
			"Nested",
			Object(Field("sync", Object(Field("lookup", Array())))),
			`{"sync":{"lookup":[]}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rendered, err := tt.val.MarshalJSON()
			require.NoError(t, err)
			assert.Equal(t, tt.json, string(rendered))

			parsed, err := Parse(rendered)
			require.NoError(t, err)
			assert.True(t, tt.val.Equal(parsed), "got %s", parsed)
		})
	}
}

func TestParseNumbers(t *testing.T) {
	v, err := Parse([]byte(`18446744073709551615`))
	require.NoError(t, err)
	assert.Equal(t, KindUint, v.Kind)
	assert.Equal(t, uint64(math.MaxUint64), v.U64)

	v, err = Parse([]byte(`-9223372036854775808`))
	require.NoError(t, err)
	assert.Equal(t, KindInt, v.Kind)
	assert.Equal(t, int64(math.MinInt64), v.I64)

	// Fraction and exponent forms are floats even when whole-valued.
	v, err = Parse([]byte(`1.0`))
	require.NoError(t, err)
	assert.Equal(t, KindFloat, v.Kind)

	v, err = Parse([]byte(`1e3`))
	require.NoError(t, err)
	assert.Equal(t, KindFloat, v.Kind)
	assert.Equal(t, 1000.0, v.F64)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"Empty", ``},
		{"Garbage", `{{{`},
		{"UnterminatedString", `"abc`},
		{"TrailingData", `null null`},
		{"BareWord", `nope`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input))
			require.Error(t, err)

			var pe *ParseError
			assert.ErrorAs(t, err, &pe)
		})
	}
}

func TestMarshalNonFinite(t *testing.T) {
	_, err := Float(math.NaN()).MarshalJSON()
	assert.Error(t, err)

	_, err = Object(Field("similarity", Float(math.Inf(1)))).MarshalJSON()
	assert.Error(t, err)

	// String never fails; it is for diagnostics only.
	assert.Equal(t, "NaN", Float(math.NaN()).String())
}
