// Copyright 2025 Brian Wang <wangbuke@gmail.com>
// SPDX-License-Identifier: Apache-2.0

package scriptbridge

import (
	"math"
	"strconv"
)

// Kind is the tag of a Value.
type Kind uint8

const (
	KindNone   Kind = iota // Missing or unrepresentable value
	KindInt                // 64-bit signed integer
	KindFloat              // 64-bit floating-point number
	KindBool               // Boolean
	KindString             // Text
)

// String returns the string representation of a Kind.
func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindInt:
		return "integer"
	case KindFloat:
		return "float"
	case KindBool:
		return "boolean"
	case KindString:
		return "text"
	default:
		return "unknown"
	}
}

// Value is the tagged value exchanged between the host and a script runtime.
// Exactly one tag is active. The zero Value is none.
type Value struct {
	kind Kind
	i    int64
	f    float64
	b    bool
	s    string
}

// None returns the none value.
func None() Value { return Value{} }

// Int returns an integer value.
func Int(i int64) Value { return Value{kind: KindInt, i: i} }

// Float returns a floating-point value.
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Text returns a text value.
func Text(s string) Value { return Value{kind: KindString, s: s} }

// Number decodes a runtime number that has no separate integer type.
// Whole numbers inside the int64 range become integers, everything else
// stays floating-point.
func Number(f float64) Value {
	if f == math.Trunc(f) && f >= math.MinInt64 && f < math.MaxInt64 {
		return Int(int64(f))
	}
	return Float(f)
}

// Kind returns the active tag.
func (v Value) Kind() Kind { return v.kind }

// IsNone reports whether v is none.
func (v Value) IsNone() bool { return v.kind == KindNone }

// AsInt returns the integer payload.
func (v Value) AsInt() (int64, bool) { return v.i, v.kind == KindInt }

// AsFloat returns the floating-point payload.
func (v Value) AsFloat() (float64, bool) { return v.f, v.kind == KindFloat }

// AsBool returns the boolean payload.
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

// AsText returns the text payload.
func (v Value) AsText() (string, bool) { return v.s, v.kind == KindString }

// Interface returns v as a plain Go value: int64, float64, bool, string or nil.
func (v Value) Interface() any {
	switch v.kind {
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindBool:
		return v.b
	case KindString:
		return v.s
	default:
		return nil
	}
}

// String formats v the way the print native shows it.
func (v Value) String() string {
	switch v.kind {
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindString:
		return v.s
	default:
		return "nil"
	}
}

// Decision interprets v as a host decision. Booleans are used directly and
// numbers count as true when nonzero. Text and none are not decisions.
func (v Value) Decision() (decision bool, ok bool) {
	switch v.kind {
	case KindBool:
		return v.b, true
	case KindInt:
		return v.i != 0, true
	case KindFloat:
		return v.f != 0, true
	default:
		return false, false
	}
}

// ValueOf converts a host-native value into a Value. Unsupported types
// become none.
func ValueOf(x any) Value {
	switch val := x.(type) {
	case nil:
		return None()
	case Value:
		return val
	case bool:
		return Bool(val)
	case int:
		return Int(int64(val))
	case int8:
		return Int(int64(val))
	case int16:
		return Int(int64(val))
	case int32:
		return Int(int64(val))
	case int64:
		return Int(val)
	case uint:
		return Int(int64(val))
	case uint8:
		return Int(int64(val))
	case uint16:
		return Int(int64(val))
	case uint32:
		return Int(int64(val))
	case uint64:
		if val > math.MaxInt64 {
			return Float(float64(val))
		}
		return Int(int64(val))
	case float32:
		return Float(float64(val))
	case float64:
		return Float(val)
	case string:
		return Text(val)
	case []byte:
		return Text(string(val))
	default:
		return None()
	}
}

// Values converts a list of host-native values.
func Values(xs ...any) []Value {
	out := make([]Value, len(xs))
	for i, x := range xs {
		out[i] = ValueOf(x)
	}
	return out
}
