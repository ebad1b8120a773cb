// Copyright 2025 Brian Wang <wangbuke@gmail.com>
// SPDX-License-Identifier: Apache-2.0

package luaengine

import (
	scriptbridge "github.com/buke/script-bridge"
	lua "github.com/yuin/gopher-lua"
)

func encode(v scriptbridge.Value) lua.LValue {
	switch v.Kind() {
	case scriptbridge.KindInt:
		i, _ := v.AsInt()
		return lua.LNumber(i)
	case scriptbridge.KindFloat:
		f, _ := v.AsFloat()
		return lua.LNumber(f)
	case scriptbridge.KindBool:
		b, _ := v.AsBool()
		return lua.LBool(b)
	case scriptbridge.KindString:
		s, _ := v.AsText()
		return lua.LString(s)
	default:
		return lua.LNil
	}
}

// decode maps Lua values by their type tag. Numeric strings stay text and
// booleans never turn into numbers.
func decode(lv lua.LValue) scriptbridge.Value {
	switch v := lv.(type) {
	case lua.LBool:
		return scriptbridge.Bool(bool(v))
	case lua.LNumber:
		return scriptbridge.Number(float64(v))
	case lua.LString:
		return scriptbridge.Text(string(v))
	default:
		return scriptbridge.None()
	}
}
