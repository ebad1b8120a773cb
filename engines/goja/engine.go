// Copyright 2025 Brian Wang <wangbuke@gmail.com>
// SPDX-License-Identifier: Apache-2.0

package gojaengine

import (
	"errors"
	"fmt"
	"time"

	scriptbridge "github.com/buke/script-bridge"
	"github.com/dop251/goja"
)

// Option configures a Goja engine.
type Option = scriptbridge.EngineOption

// Engine implements scriptbridge.ScriptEngine using the Goja JS engine.
// The runtime is driven directly from the caller's goroutine.
type Engine struct {
	VM     *goja.Runtime // The JS runtime owned by this engine
	Option *EngineOption // Engine configuration options
}

// NewFactory returns a scriptbridge.EngineFactory for creating Goja engines.
// The factory is configured with the provided options.
func NewFactory(opts ...Option) scriptbridge.EngineFactory {
	return func() (scriptbridge.ScriptEngine, error) {
		return newEngine(opts...)
	}
}

// newEngine creates a runtime and applies the options to it.
func newEngine(opts ...Option) (*Engine, error) {
	e := &Engine{
		VM:     goja.New(),
		Option: &EngineOption{},
	}

	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	return e, nil
}

// Load runs the top level of a script.
func (e *Engine) Load(script *scriptbridge.Script) error {
	if e.VM == nil {
		return scriptbridge.ErrEngineClosed
	}
	if _, err := e.run(func() (goja.Value, error) {
		return e.VM.RunScript(script.FileName, script.Content)
	}); err != nil {
		return &scriptbridge.ScriptError{FileName: script.FileName, Message: errorMessage(err)}
	}
	return nil
}

// HasFunction reports whether a global function with the name exists.
func (e *Engine) HasFunction(name string) bool {
	if e.VM == nil {
		return false
	}
	_, ok := goja.AssertFunction(e.VM.Get(name))
	return ok
}

// Call invokes a global function. A function returning undefined yields no
// values.
func (e *Engine) Call(name string, args []scriptbridge.Value) ([]scriptbridge.Value, error) {
	if e.VM == nil {
		return nil, scriptbridge.ErrEngineClosed
	}
	fn, ok := goja.AssertFunction(e.VM.Get(name))
	if !ok {
		return nil, scriptbridge.ErrNoHandler
	}

	jsArgs := make([]goja.Value, len(args))
	for i, arg := range args {
		jsArgs[i] = encode(e.VM, arg)
	}

	result, err := e.run(func() (goja.Value, error) {
		return fn(goja.Undefined(), jsArgs...)
	})
	if err != nil {
		return nil, &scriptbridge.ScriptError{Message: errorMessage(err)}
	}
	if result == nil || goja.IsUndefined(result) {
		return nil, nil
	}
	return []scriptbridge.Value{decode(result)}, nil
}

// Bind installs a native function as a global. Only the first value the
// native returns reaches the script.
func (e *Engine) Bind(name string, fn scriptbridge.NativeFunc) error {
	if e.VM == nil {
		return scriptbridge.ErrEngineClosed
	}
	vm := e.VM
	return vm.Set(name, func(call goja.FunctionCall) goja.Value {
		args := make([]scriptbridge.Value, len(call.Arguments))
		for i, arg := range call.Arguments {
			args[i] = decode(arg)
		}
		results := fn(args)
		if len(results) == 0 {
			return goja.Undefined()
		}
		return encode(vm, results[0])
	})
}

// run executes fn, interrupting the runtime when the call timeout elapses.
func (e *Engine) run(fn func() (goja.Value, error)) (goja.Value, error) {
	if e.Option.CallTimeout <= 0 {
		return fn()
	}
	vm := e.VM
	timer := time.AfterFunc(e.Option.CallTimeout, func() {
		vm.Interrupt(fmt.Sprintf("execution timed out after %s", e.Option.CallTimeout))
	})
	defer func() {
		timer.Stop()
		vm.ClearInterrupt()
	}()
	return fn()
}

// Close releases the runtime.
func (e *Engine) Close() error {
	e.VM = nil
	return nil
}

func errorMessage(err error) string {
	var exception *goja.Exception
	if errors.As(err, &exception) {
		return exception.Error()
	}
	var interrupted *goja.InterruptedError
	if errors.As(err, &interrupted) {
		return fmt.Sprintf("interrupted: %v", interrupted.Value())
	}
	return err.Error()
}
