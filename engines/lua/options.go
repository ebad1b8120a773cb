// Copyright 2025 Brian Wang <wangbuke@gmail.com>
// SPDX-License-Identifier: Apache-2.0

package luaengine

import (
	"fmt"

	scriptbridge "github.com/buke/script-bridge"
)

// EngineOption holds configuration for a Lua engine instance.
type EngineOption struct {
	Sandbox             bool // Open only base, table, string and math
	CallStackSize       int  // 0 = gopher-lua default
	RegistrySize        int  // 0 = gopher-lua default
	IncludeGoStackTrace bool // Append Go stack traces to errors
}

// WithSandbox restricts the state to the safe standard libraries.
func WithSandbox() Option {
	return func(engine scriptbridge.ScriptEngine) error {
		e, ok := engine.(*Engine)
		if !ok {
			return fmt.Errorf("invalid engine type for WithSandbox")
		}
		e.Option.Sandbox = true
		return nil
	}
}

// WithCallStackSize sets the maximum call stack depth.
func WithCallStackSize(size int) Option {
	return func(engine scriptbridge.ScriptEngine) error {
		e, ok := engine.(*Engine)
		if !ok {
			return fmt.Errorf("invalid engine type for WithCallStackSize")
		}
		if size < 0 {
			return fmt.Errorf("invalid call stack size: %d", size)
		}
		e.Option.CallStackSize = size
		return nil
	}
}

// WithRegistrySize sets the initial size of the value registry.
func WithRegistrySize(size int) Option {
	return func(engine scriptbridge.ScriptEngine) error {
		e, ok := engine.(*Engine)
		if !ok {
			return fmt.Errorf("invalid engine type for WithRegistrySize")
		}
		if size < 0 {
			return fmt.Errorf("invalid registry size: %d", size)
		}
		e.Option.RegistrySize = size
		return nil
	}
}

// WithGoStackTrace includes Go stack traces in Lua error messages.
func WithGoStackTrace() Option {
	return func(engine scriptbridge.ScriptEngine) error {
		e, ok := engine.(*Engine)
		if !ok {
			return fmt.Errorf("invalid engine type for WithGoStackTrace")
		}
		e.Option.IncludeGoStackTrace = true
		return nil
	}
}
