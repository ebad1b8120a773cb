// Copyright 2025 Brian Wang <wangbuke@gmail.com>
// SPDX-License-Identifier: Apache-2.0

package gojaengine

import (
	scriptbridge "github.com/buke/script-bridge"
	"github.com/dop251/goja"
)

func encode(vm *goja.Runtime, v scriptbridge.Value) goja.Value {
	switch v.Kind() {
	case scriptbridge.KindInt:
		i, _ := v.AsInt()
		return vm.ToValue(i)
	case scriptbridge.KindFloat:
		f, _ := v.AsFloat()
		return vm.ToValue(f)
	case scriptbridge.KindBool:
		b, _ := v.AsBool()
		return vm.ToValue(b)
	case scriptbridge.KindString:
		s, _ := v.AsText()
		return vm.ToValue(s)
	default:
		return goja.Null()
	}
}

// decode maps a JS value to a bridge value. Objects, functions and
// symbols have no bridge representation.
func decode(v goja.Value) scriptbridge.Value {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return scriptbridge.None()
	}
	switch x := v.Export().(type) {
	case bool:
		return scriptbridge.Bool(x)
	case int64:
		return scriptbridge.Int(x)
	case float64:
		return scriptbridge.Number(x)
	case string:
		return scriptbridge.Text(x)
	default:
		return scriptbridge.None()
	}
}
