// Copyright 2025 Brian Wang <wangbuke@gmail.com>
// SPDX-License-Identifier: Apache-2.0

package luaengine

import (
	"fmt"
	"strings"

	scriptbridge "github.com/buke/script-bridge"
	lua "github.com/yuin/gopher-lua"
)

// Option configures a Lua engine.
type Option = scriptbridge.EngineOption

// Engine implements scriptbridge.ScriptEngine on a gopher-lua state.
type Engine struct {
	L      *lua.LState   // The Lua state owned by this engine
	Option *EngineOption // Engine configuration options
}

// NewFactory returns a scriptbridge.EngineFactory for creating Lua engines.
func NewFactory(opts ...Option) scriptbridge.EngineFactory {
	return func() (scriptbridge.ScriptEngine, error) {
		return newEngine(opts...)
	}
}

// newEngine applies the options first, then creates the state from them.
func newEngine(opts ...Option) (*Engine, error) {
	e := &Engine{
		Option: &EngineOption{},
	}

	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	L := lua.NewState(lua.Options{
		SkipOpenLibs:        e.Option.Sandbox,
		CallStackSize:       e.Option.CallStackSize,
		RegistrySize:        e.Option.RegistrySize,
		IncludeGoStackTrace: e.Option.IncludeGoStackTrace,
	})
	if L == nil {
		return nil, fmt.Errorf("failed to create lua state")
	}
	if e.Option.Sandbox {
		if err := openSandbox(L); err != nil {
			L.Close()
			return nil, err
		}
	}
	e.L = L

	return e, nil
}

// openSandbox opens the safe standard libraries only and strips the
// globals that reach the filesystem.
func openSandbox(L *lua.LState) error {
	for _, lib := range []struct {
		name string
		open lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	} {
		if err := L.CallByParam(lua.P{
			Fn:      L.NewFunction(lib.open),
			NRet:    0,
			Protect: true,
		}, lua.LString(lib.name)); err != nil {
			return fmt.Errorf("failed to open lua library %q: %w", lib.name, err)
		}
	}

	for _, name := range []string{"dofile", "loadfile", "load", "collectgarbage", "require"} {
		L.SetGlobal(name, lua.LNil)
	}
	return nil
}

// Load runs the top level of a script.
func (e *Engine) Load(script *scriptbridge.Script) error {
	if e.L == nil {
		return scriptbridge.ErrEngineClosed
	}
	fn, err := e.L.Load(strings.NewReader(script.Content), script.FileName)
	if err != nil {
		return &scriptbridge.ScriptError{FileName: script.FileName, Message: err.Error()}
	}
	e.L.Push(fn)
	if err := e.L.PCall(0, 0, nil); err != nil {
		return &scriptbridge.ScriptError{FileName: script.FileName, Message: err.Error()}
	}
	return nil
}

// HasFunction reports whether a global function with the name exists.
func (e *Engine) HasFunction(name string) bool {
	if e.L == nil {
		return false
	}
	return e.L.GetGlobal(name).Type() == lua.LTFunction
}

// Call invokes a global function and collects every value it returns.
func (e *Engine) Call(name string, args []scriptbridge.Value) ([]scriptbridge.Value, error) {
	if e.L == nil {
		return nil, scriptbridge.ErrEngineClosed
	}
	fn := e.L.GetGlobal(name)
	if fn.Type() != lua.LTFunction {
		return nil, scriptbridge.ErrNoHandler
	}

	top := e.L.GetTop()
	e.L.Push(fn)
	for _, arg := range args {
		e.L.Push(encode(arg))
	}
	if err := e.L.PCall(len(args), lua.MultRet, nil); err != nil {
		e.L.SetTop(top)
		return nil, &scriptbridge.ScriptError{Message: err.Error()}
	}

	n := e.L.GetTop() - top
	results := make([]scriptbridge.Value, n)
	for i := 0; i < n; i++ {
		results[i] = decode(e.L.Get(top + 1 + i))
	}
	e.L.SetTop(top)
	return results, nil
}

// Bind installs a native function as a global.
func (e *Engine) Bind(name string, fn scriptbridge.NativeFunc) error {
	if e.L == nil {
		return scriptbridge.ErrEngineClosed
	}
	e.L.SetGlobal(name, e.L.NewFunction(func(L *lua.LState) int {
		n := L.GetTop()
		args := make([]scriptbridge.Value, n)
		for i := 1; i <= n; i++ {
			args[i-1] = decode(L.Get(i))
		}
		results := fn(args)
		for _, r := range results {
			L.Push(encode(r))
		}
		return len(results)
	}))
	return nil
}

// Close releases the Lua state.
func (e *Engine) Close() error {
	if e.L != nil {
		e.L.Close()
		e.L = nil
	}
	return nil
}
