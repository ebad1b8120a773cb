// Copyright 2025 Brian Wang <wangbuke@gmail.com>
// SPDX-License-Identifier: Apache-2.0

package risorengine

import (
	scriptbridge "github.com/buke/script-bridge"
	"github.com/risor-io/risor/object"
)

func encode(v scriptbridge.Value) object.Object {
	switch v.Kind() {
	case scriptbridge.KindInt:
		i, _ := v.AsInt()
		return object.NewInt(i)
	case scriptbridge.KindFloat:
		f, _ := v.AsFloat()
		return object.NewFloat(f)
	case scriptbridge.KindBool:
		b, _ := v.AsBool()
		return object.NewBool(b)
	case scriptbridge.KindString:
		s, _ := v.AsText()
		return object.NewString(s)
	default:
		return object.Nil
	}
}

func decode(obj object.Object) scriptbridge.Value {
	switch o := obj.(type) {
	case *object.Bool:
		return scriptbridge.Bool(o.Value())
	case *object.Int:
		return scriptbridge.Int(o.Value())
	case *object.Float:
		return scriptbridge.Number(o.Value())
	case *object.String:
		return scriptbridge.Text(o.Value())
	default:
		return scriptbridge.None()
	}
}
