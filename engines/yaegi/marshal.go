// Copyright 2025 Brian Wang <wangbuke@gmail.com>
// SPDX-License-Identifier: Apache-2.0

package yaegiengine

import (
	"fmt"
	"reflect"

	scriptbridge "github.com/buke/script-bridge"
)

// callArgs converts bridge values to the parameter types of fn.
func callArgs(fn reflect.Type, args []scriptbridge.Value) ([]reflect.Value, error) {
	n := fn.NumIn()
	if fn.IsVariadic() {
		n = max(n-1, len(args))
	}
	in := make([]reflect.Value, n)
	for i := range in {
		t := paramType(fn, i)
		if i >= len(args) {
			in[i] = reflect.Zero(t)
			continue
		}
		v, err := encode(args[i], t)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i+1, err)
		}
		in[i] = v
	}
	return in, nil
}

func paramType(fn reflect.Type, i int) reflect.Type {
	if fn.IsVariadic() && i >= fn.NumIn()-1 {
		return fn.In(fn.NumIn() - 1).Elem()
	}
	return fn.In(i)
}

// encode converts a bridge value to t. Conversions stay within one family:
// numbers to numbers, text to strings, bools to bools.
func encode(v scriptbridge.Value, t reflect.Type) (reflect.Value, error) {
	if v.IsNone() {
		return reflect.Zero(t), nil
	}
	src := reflect.ValueOf(v.Interface())
	if t.Kind() == reflect.Interface {
		if src.Type().Implements(t) {
			return src.Convert(t), nil
		}
		return reflect.Value{}, fmt.Errorf("cannot use %s as %s", v.Kind(), t)
	}
	if sameFamily(src.Kind(), t.Kind()) {
		return src.Convert(t), nil
	}
	return reflect.Value{}, fmt.Errorf("cannot use %s as %s", v.Kind(), t)
}

func sameFamily(a, b reflect.Kind) bool {
	return family(a) != 0 && family(a) == family(b)
}

func family(k reflect.Kind) int {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return 1
	case reflect.Bool:
		return 2
	case reflect.String:
		return 3
	default:
		return 0
	}
}

// decode maps a Go value to a bridge value. Floats holding a whole number
// decode as integers, like in the other runtimes.
func decode(v reflect.Value) scriptbridge.Value {
	if !v.IsValid() {
		return scriptbridge.None()
	}
	switch v.Kind() {
	case reflect.Interface, reflect.Pointer:
		if v.IsNil() {
			return scriptbridge.None()
		}
		if v.Kind() == reflect.Interface {
			return decode(v.Elem())
		}
		return scriptbridge.None()
	case reflect.Bool:
		return scriptbridge.Bool(v.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return scriptbridge.Int(v.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return scriptbridge.ValueOf(v.Uint())
	case reflect.Float32, reflect.Float64:
		return scriptbridge.Number(v.Float())
	case reflect.String:
		return scriptbridge.Text(v.String())
	default:
		return scriptbridge.None()
	}
}
