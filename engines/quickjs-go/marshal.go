// Copyright 2025 Brian Wang <wangbuke@gmail.com>
// SPDX-License-Identifier: Apache-2.0

package quickjsengine

import (
	"github.com/buke/quickjs-go"
	scriptbridge "github.com/buke/script-bridge"
)

// encode returns a new value owned by the caller.
func encode(ctx *quickjs.Context, v scriptbridge.Value) *quickjs.Value {
	switch v.Kind() {
	case scriptbridge.KindInt:
		i, _ := v.AsInt()
		return ctx.NewInt64(i)
	case scriptbridge.KindFloat:
		f, _ := v.AsFloat()
		return ctx.NewFloat64(f)
	case scriptbridge.KindBool:
		b, _ := v.AsBool()
		return ctx.NewBool(b)
	case scriptbridge.KindString:
		s, _ := v.AsText()
		return ctx.NewString(s)
	default:
		return ctx.NewNull()
	}
}

// decode reads a value without taking ownership of it.
func decode(v *quickjs.Value) scriptbridge.Value {
	switch {
	case v.IsBool():
		return scriptbridge.Bool(v.ToBool())
	case v.IsNumber():
		return scriptbridge.Number(v.ToFloat64())
	case v.IsString():
		return scriptbridge.Text(v.ToString())
	default:
		return scriptbridge.None()
	}
}
