// Copyright 2025 Brian Wang <wangbuke@gmail.com>
// SPDX-License-Identifier: Apache-2.0

package gojaengine

import (
	"fmt"
	"time"

	scriptbridge "github.com/buke/script-bridge"
	"github.com/dop251/goja_nodejs/console"
	"github.com/dop251/goja_nodejs/require"
)

// EngineOption holds configuration for a Goja engine instance.
type EngineOption struct {
	MaxCallStackSize int
	EnableConsole    bool
	EnableRequire    bool
	CallTimeout      time.Duration // 0 = no timeout
}

func asEngine(engine scriptbridge.ScriptEngine, option string) (*Engine, error) {
	e, ok := engine.(*Engine)
	if !ok || e.VM == nil {
		return nil, fmt.Errorf("invalid engine type for %s", option)
	}
	return e, nil
}

// WithMaxCallStackSize sets the maximum call stack size for the runtime.
// A value of 0 or less means no limit.
func WithMaxCallStackSize(size int) Option {
	return func(engine scriptbridge.ScriptEngine) error {
		e, err := asEngine(engine, "WithMaxCallStackSize")
		if err != nil {
			return err
		}
		e.Option.MaxCallStackSize = size
		e.VM.SetMaxCallStackSize(size)
		return nil
	}
}

// WithRequire enables the require() function for loading CommonJS modules.
func WithRequire() Option {
	return func(engine scriptbridge.ScriptEngine) error {
		e, err := asEngine(engine, "WithRequire")
		if err != nil {
			return err
		}
		if !e.Option.EnableRequire {
			new(require.Registry).Enable(e.VM)
			e.Option.EnableRequire = true
		}
		return nil
	}
}

// WithEnableConsole enables the console object (console.log, etc.) in the
// runtime. The console module is loaded through require, which is enabled
// as well.
func WithEnableConsole() Option {
	return func(engine scriptbridge.ScriptEngine) error {
		if err := WithRequire()(engine); err != nil {
			return fmt.Errorf("invalid engine type for WithEnableConsole")
		}
		e := engine.(*Engine)
		console.Enable(e.VM)
		e.Option.EnableConsole = true
		return nil
	}
}

// WithCallTimeout interrupts a script load or handler call that runs
// longer than d.
func WithCallTimeout(d time.Duration) Option {
	return func(engine scriptbridge.ScriptEngine) error {
		e, err := asEngine(engine, "WithCallTimeout")
		if err != nil {
			return err
		}
		if d < 0 {
			return fmt.Errorf("invalid call timeout: %s", d)
		}
		e.Option.CallTimeout = d
		return nil
	}
}
