//go:build !windows

// Copyright 2025 Brian Wang <wangbuke@gmail.com>
// SPDX-License-Identifier: Apache-2.0

package v8engine

import (
	"math"

	scriptbridge "github.com/buke/script-bridge"
	"github.com/tommie/v8go"
)

// encode creates a JS value. Integers outside the int32 range become
// doubles, never BigInt.
func encode(iso *v8go.Isolate, v scriptbridge.Value) (*v8go.Value, error) {
	switch v.Kind() {
	case scriptbridge.KindInt:
		i, _ := v.AsInt()
		if i >= math.MinInt32 && i <= math.MaxInt32 {
			return v8go.NewValue(iso, int32(i))
		}
		return v8go.NewValue(iso, float64(i))
	case scriptbridge.KindFloat:
		f, _ := v.AsFloat()
		return v8go.NewValue(iso, f)
	case scriptbridge.KindBool:
		b, _ := v.AsBool()
		return v8go.NewValue(iso, b)
	case scriptbridge.KindString:
		s, _ := v.AsText()
		return v8go.NewValue(iso, s)
	default:
		return v8go.Null(iso), nil
	}
}

func decode(v *v8go.Value) scriptbridge.Value {
	switch {
	case v == nil || v.IsNullOrUndefined():
		return scriptbridge.None()
	case v.IsBoolean():
		return scriptbridge.Bool(v.Boolean())
	case v.IsInt32():
		return scriptbridge.Int(int64(v.Int32()))
	case v.IsNumber():
		return scriptbridge.Number(v.Number())
	case v.IsBigInt():
		if bi := v.BigInt(); bi != nil && bi.IsInt64() {
			return scriptbridge.Int(bi.Int64())
		}
		return scriptbridge.None()
	case v.IsString():
		return scriptbridge.Text(v.String())
	default:
		return scriptbridge.None()
	}
}
