//go:build !windows

// Copyright 2025 Brian Wang <wangbuke@gmail.com>
// SPDX-License-Identifier: Apache-2.0

package v8engine

import (
	"errors"
	"fmt"
	"time"

	scriptbridge "github.com/buke/script-bridge"
	"github.com/tommie/v8go"
)

var (
	// Make these functions variables so they can be mocked in tests.
	v8NewIsolate = v8go.NewIsolate
	v8NewContext = v8go.NewContext
)

// Option configures a V8 engine.
type Option = scriptbridge.EngineOption

// Engine implements the scriptbridge.ScriptEngine interface using the V8 engine.
// It encapsulates a V8 Isolate and Context.
type Engine struct {
	// Iso is the V8 Isolate, representing a single-threaded VM instance.
	Iso *v8go.Isolate

	// Ctx is the V8 Context, representing the execution environment.
	Ctx *v8go.Context

	// Option holds the engine-specific configurations.
	Option *EngineOption
}

// NewFactory creates a new scriptbridge.EngineFactory for the V8 engine.
func NewFactory(opts ...Option) scriptbridge.EngineFactory {
	return func() (scriptbridge.ScriptEngine, error) {
		return newEngine(opts...)
	}
}

// newEngine creates and initializes a new V8 Engine instance.
func newEngine(opts ...Option) (*Engine, error) {
	e := &Engine{
		Option: &EngineOption{},
	}

	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	iso := v8NewIsolate()
	if iso == nil {
		return nil, fmt.Errorf("failed to create v8 isolate")
	}
	e.Iso = iso

	ctx := v8NewContext(iso)
	if ctx == nil {
		iso.Dispose()
		e.Iso = nil
		return nil, fmt.Errorf("failed to create v8 context")
	}
	e.Ctx = ctx

	return e, nil
}

// Load runs the top level of a script in the V8 context.
func (e *Engine) Load(script *scriptbridge.Script) error {
	if e.Ctx == nil {
		return scriptbridge.ErrEngineClosed
	}
	_, err := e.run(func() (*v8go.Value, error) {
		return e.Ctx.RunScript(script.Content, script.FileName)
	})
	if err != nil {
		return &scriptbridge.ScriptError{FileName: script.FileName, Message: errorMessage(err)}
	}
	return nil
}

// lookup returns the global function with the name, or nil.
func (e *Engine) lookup(name string) *v8go.Function {
	val, err := e.Ctx.Global().Get(name)
	if err != nil || !val.IsFunction() {
		return nil
	}
	fn, err := val.AsFunction()
	if err != nil {
		return nil
	}
	return fn
}

// HasFunction reports whether a global function with the name exists.
func (e *Engine) HasFunction(name string) bool {
	if e.Ctx == nil {
		return false
	}
	return e.lookup(name) != nil
}

// Call invokes a global function. A function returning undefined yields no
// values.
func (e *Engine) Call(name string, args []scriptbridge.Value) ([]scriptbridge.Value, error) {
	if e.Ctx == nil {
		return nil, scriptbridge.ErrEngineClosed
	}
	fn := e.lookup(name)
	if fn == nil {
		return nil, scriptbridge.ErrNoHandler
	}

	jsArgs := make([]v8go.Valuer, len(args))
	for i, arg := range args {
		val, err := encode(e.Iso, arg)
		if err != nil {
			return nil, fmt.Errorf("failed to encode argument %d: %w", i, err)
		}
		jsArgs[i] = val
	}

	result, err := e.run(func() (*v8go.Value, error) {
		return fn.Call(e.Ctx.Global(), jsArgs...)
	})
	if err != nil {
		return nil, &scriptbridge.ScriptError{Message: errorMessage(err)}
	}
	if result == nil || result.IsUndefined() {
		return nil, nil
	}
	return []scriptbridge.Value{decode(result)}, nil
}

// Bind installs a native function as a global. Only the first value the
// native returns reaches the script.
func (e *Engine) Bind(name string, fn scriptbridge.NativeFunc) error {
	if e.Ctx == nil {
		return scriptbridge.ErrEngineClosed
	}
	iso := e.Iso
	tmpl := v8go.NewFunctionTemplate(iso, func(info *v8go.FunctionCallbackInfo) *v8go.Value {
		args := info.Args()
		values := make([]scriptbridge.Value, len(args))
		for i, arg := range args {
			values[i] = decode(arg)
		}
		results := fn(values)
		if len(results) == 0 {
			return v8go.Undefined(iso)
		}
		val, err := encode(iso, results[0])
		if err != nil {
			return v8go.Undefined(iso)
		}
		return val
	})
	if err := e.Ctx.Global().Set(name, tmpl.GetFunction(e.Ctx)); err != nil {
		return fmt.Errorf("failed to bind %s: %w", name, err)
	}
	return nil
}

// run executes fn, terminating the isolate when the call timeout elapses.
func (e *Engine) run(fn func() (*v8go.Value, error)) (*v8go.Value, error) {
	if e.Option.CallTimeout <= 0 {
		return fn()
	}
	iso := e.Iso
	timer := time.AfterFunc(e.Option.CallTimeout, iso.TerminateExecution)
	defer timer.Stop()
	return fn()
}

// Close releases all resources associated with the V8 engine.
func (e *Engine) Close() error {
	if e.Ctx != nil {
		e.Ctx.Close()
		e.Ctx = nil
	}
	if e.Iso != nil {
		e.Iso.Dispose()
		e.Iso = nil
	}
	return nil
}

func errorMessage(err error) string {
	var jsErr *v8go.JSError
	if errors.As(err, &jsErr) && jsErr.Location != "" {
		return fmt.Sprintf("%s (at %s)", jsErr.Message, jsErr.Location)
	}
	return err.Error()
}
