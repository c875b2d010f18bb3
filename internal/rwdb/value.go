package rwdb

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

type kind uint8

const (
	kindNull kind = iota
	kindString
	kindInt
	kindFloat
	kindBool
	kindUint
)

// Value is a statement argument. The zero Value is NULL.
type Value struct {
	kind kind
	s    string
	i    int64
	u    uint64
	f    float64
	b    bool
}

// String, Int, Float, Bool and Null construct argument values.
func String(s string) Value { return Value{kind: kindString, s: s} }
func Int(i int64) Value { return Value{kind: kindInt, i: i} }
func Float(f float64) Value { return Value{kind: kindFloat, f: f} }
func Bool(b bool) Value { return Value{kind: kindBool, b: b} }
func Null() Value { return Value{} }

// Uint constructs an unsigned integer Value. Values that fit in an int64 are
// stored as Int.
func Uint(u uint64) Value {
	if u <= math.MaxInt64 {
		return Int(int64(u))
	}
	return Value{kind: kindUint, u: u}
}

// Of converts a Go value to a Value. Unknown types are formatted with fmt.
func Of(v any) Value {
	switch x := v.(type) {
	case nil:
		return Null()
	case Value:
		return x
	case string:
		return String(x)
	case []byte:
		return String(string(x))
	case int:
		return Int(int64(x))
	case int8:
		return Int(int64(x))
	case int16:
		return Int(int64(x))
	case int32:
		return Int(int64(x))
	case int64:
		return Int(x)
	case uint:
		return Uint(uint64(x))
	case uint8:
		return Int(int64(x))
	case uint16:
		return Int(int64(x))
	case uint32:
		return Int(int64(x))
	case uint64:
		return Uint(x)
	case float32:
		return Float(float64(x))
	case float64:
		return Float(x)
	case bool:
		return Bool(x)
	default:
		return String(fmt.Sprint(x))
	}
}

// Strings converts each s to a String Value.
func Strings(ss ...string) []Value {
	vs := make([]Value, len(ss))
	for i, s := range ss {
		vs[i] = String(s)
	}
	return vs
}

// IsNull reports whether v is NULL.
func (v Value) IsNull() bool { return v.kind == kindNull }

func (v Value) String() string {
	switch v.kind {
	case kindString:
		return v.s
	case kindInt:
		return strconv.FormatInt(v.i, 10)
	case kindUint:
		return strconv.FormatUint(v.u, 10)
	case kindFloat:
		return strconv.FormatFloat(v.f, 'f', -1, 64)
	case kindBool:
		if v.b {
			return "1"
		}
		return "0"
	default:
		return "NULL"
	}
}

var wildcards = strings.NewReplacer("%", `\%`, "_", `\_`)

// render formats v for the given verb. Strings are escaped with escape and
// then have their LIKE wildcards backslash-escaped.
func (v Value) render(verb byte, escape func(string) string) (string, error) {
	switch v.kind {
	case kindNull, kindBool:
		return v.String(), nil
	case kindString:
		switch verb {
		case 'd':
			i, err := strconv.ParseInt(strings.TrimSpace(v.s), 10, 64)
			if err != nil {
				return "", fmt.Errorf("%%d needs an integer, got %q", v.s)
			}
			return strconv.FormatInt(i, 10), nil
		case 'f':
			f, err := strconv.ParseFloat(strings.TrimSpace(v.s), 64)
			if err != nil {
				return "", fmt.Errorf("%%f needs a number, got %q", v.s)
			}
			return strconv.FormatFloat(f, 'f', -1, 64), nil
		}
		return wildcards.Replace(escape(v.s)), nil
	case kindFloat:
		if verb == 'd' {
			return strconv.FormatInt(int64(v.f), 10), nil
		}
		return v.String(), nil
	default:
		return v.String(), nil
	}
}
