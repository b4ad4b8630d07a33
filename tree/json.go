package tree

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	gojson "github.com/goccy/go-json"
)

// ParseError is returned when the input is not syntactically valid JSON.
//
// The underlying decoder error can be accessed via errors.Unwrap.
type ParseError struct {
	cause error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("json parsing error: %v", e.cause)
}

func (e *ParseError) Unwrap() error { return e.cause }

// Parse decodes a JSON document into a Value.
//
// Numbers without fraction or exponent become KindUint (or KindInt when
// negative); all other numbers become KindFloat. Duplicate object keys
// follow last-wins semantics. Trailing non-whitespace input is an error.
func Parse(data []byte) (Value, error) {
	dec := gojson.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := parseNext(dec)
	if err != nil {
		return Value{}, &ParseError{cause: err}
	}
	if dec.More() {
		return Value{}, &ParseError{cause: errors.New("trailing data after top-level value")}
	}
	return v, nil
}

func parseNext(dec *gojson.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Value{}, err
	}
	return parseToken(dec, tok)
}

func parseToken(dec *gojson.Decoder, tok gojson.Token) (Value, error) {
	switch t := tok.(type) {
	case gojson.Delim:
		switch t {
		case '[':
			items := []Value{}
			for dec.More() {
				item, err := parseNext(dec)
				if err != nil {
					return Value{}, err
				}
				items = append(items, item)
			}
			if _, err := dec.Token(); err != nil {
				return Value{}, err
			}
			return Value{Kind: KindArray, A: items}, nil
		case '{':
			obj := Value{Kind: KindObject, M: []Member{}}
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return Value{}, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return Value{}, fmt.Errorf("object key is not a string: %v", keyTok)
				}
				val, err := parseNext(dec)
				if err != nil {
					return Value{}, err
				}
				obj.set(key, val)
			}
			if _, err := dec.Token(); err != nil {
				return Value{}, err
			}
			return obj, nil
		default:
			return Value{}, fmt.Errorf("unexpected delimiter %q", t.String())
		}
	case string:
		return String(t), nil
	case gojson.Number:
		return parseNumber(t)
	case bool:
		return Bool(t), nil
	case nil:
		return Null(), nil
	default:
		return Value{}, fmt.Errorf("unexpected token %v", tok)
	}
}

func parseNumber(n gojson.Number) (Value, error) {
	s := n.String()
	if !strings.ContainsAny(s, ".eE") {
		if strings.HasPrefix(s, "-") {
			if i, err := strconv.ParseInt(s, 10, 64); err == nil {
				return Value{Kind: KindInt, I64: i}, nil
			}
		} else {
			if u, err := strconv.ParseUint(s, 10, 64); err == nil {
				return Uint(u), nil
			}
		}
		// Integer too large for 64 bits; keep it as a float.
	}
	f, err := n.Float64()
	if err != nil {
		return Value{}, err
	}
	return Float(f), nil
}

// MarshalJSON implements json.Marshaler. Object member order is preserved.
// Non-finite floats cannot be represented in JSON and fail.
func (v Value) MarshalJSON() ([]byte, error) {
	return v.AppendJSON(nil)
}

// AppendJSON renders the value as JSON appended to dst.
func (v Value) AppendJSON(dst []byte) ([]byte, error) {
	switch v.Kind {
	case KindNull:
		return append(dst, "null"...), nil
	case KindBool:
		return strconv.AppendBool(dst, v.B), nil
	case KindInt:
		return strconv.AppendInt(dst, v.I64, 10), nil
	case KindUint:
		return strconv.AppendUint(dst, v.U64, 10), nil
	case KindFloat:
		if math.IsNaN(v.F64) || math.IsInf(v.F64, 0) {
			return nil, fmt.Errorf("non-finite float %v is not valid JSON", v.F64)
		}
		return appendFloat(dst, v.F64), nil
	case KindString:
		return appendString(dst, v.S)
	case KindArray:
		dst = append(dst, '[')
		for i := range v.A {
			if i > 0 {
				dst = append(dst, ',')
			}
			var err error
			dst, err = v.A[i].AppendJSON(dst)
			if err != nil {
				return nil, err
			}
		}
		return append(dst, ']'), nil
	case KindObject:
		dst = append(dst, '{')
		for i := range v.M {
			if i > 0 {
				dst = append(dst, ',')
			}
			var err error
			dst, err = appendString(dst, v.M[i].Key)
			if err != nil {
				return nil, err
			}
			dst = append(dst, ':')
			dst, err = v.M[i].Value.AppendJSON(dst)
			if err != nil {
				return nil, err
			}
		}
		return append(dst, '}'), nil
	default:
		return nil, errors.New("cannot render invalid value")
	}
}

func appendString(dst []byte, s string) ([]byte, error) {
	b, err := gojson.Marshal(s)
	if err != nil {
		return nil, err
	}
	return append(dst, b...), nil
}

// Float formatting follows encoding/json: shortest representation,
// switching to exponent form outside [1e-6, 1e21).
func appendFloat(dst []byte, f float64) []byte {
	abs := math.Abs(f)
	format := byte('f')
	if abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		format = 'e'
	}
	dst = strconv.AppendFloat(dst, f, format, -1, 64)
	if format == 'e' {
		// clean up e-09 to e-9, as encoding/json does
		if n := len(dst); n >= 4 && dst[n-4] == 'e' && dst[n-3] == '-' && dst[n-2] == '0' {
			dst[n-2] = dst[n-1]
			dst = dst[:n-1]
		}
	}
	return dst
}
