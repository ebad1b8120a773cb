// Copyright 2025 Brian Wang <wangbuke@gmail.com>
// SPDX-License-Identifier: Apache-2.0

package quickjsengine

import (
	"fmt"

	"github.com/buke/quickjs-go"
	scriptbridge "github.com/buke/script-bridge"
)

// Option configures a QuickJS engine.
type Option = scriptbridge.EngineOption

// Engine represents a QuickJS engine instance with its runtime, context, and options.
type Engine struct {
	Runtime *quickjs.Runtime // QuickJS runtime instance
	Ctx     *quickjs.Context // QuickJS context instance
	Option  *EngineOption    // Engine configuration options
}

// Load evaluates the top level of a script in the engine context.
func (e *Engine) Load(script *scriptbridge.Script) error {
	if e.Ctx == nil {
		return scriptbridge.ErrEngineClosed
	}
	result := e.Ctx.Eval(script.Content, quickjs.EvalFileName(script.FileName))
	defer result.Free()
	if result.IsException() {
		return &scriptbridge.ScriptError{FileName: script.FileName, Message: e.Ctx.Exception().Error()}
	}
	return nil
}

// HasFunction reports whether a global function with the name exists.
func (e *Engine) HasFunction(name string) bool {
	if e.Ctx == nil {
		return false
	}
	fn := e.Ctx.Globals().Get(name)
	defer fn.Free()
	return fn.IsFunction()
}

// Call invokes a global function. A function returning undefined yields no
// values.
func (e *Engine) Call(name string, args []scriptbridge.Value) ([]scriptbridge.Value, error) {
	if e.Ctx == nil {
		return nil, scriptbridge.ErrEngineClosed
	}
	fn := e.Ctx.Globals().Get(name)
	defer fn.Free()
	if !fn.IsFunction() {
		return nil, scriptbridge.ErrNoHandler
	}

	jsArgs := make([]*quickjs.Value, len(args))
	for i, arg := range args {
		jsArgs[i] = encode(e.Ctx, arg)
	}
	defer func() {
		for _, arg := range jsArgs {
			arg.Free()
		}
	}()

	this := e.Ctx.NewUndefined()
	defer this.Free()

	result := fn.Execute(this, jsArgs...)
	defer result.Free()
	if result.IsException() {
		return nil, &scriptbridge.ScriptError{Message: e.Ctx.Exception().Error()}
	}
	if result.IsUndefined() {
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
	native := e.Ctx.NewFunction(func(ctx *quickjs.Context, this *quickjs.Value, args []*quickjs.Value) *quickjs.Value {
		values := make([]scriptbridge.Value, len(args))
		for i, arg := range args {
			values[i] = decode(arg)
		}
		results := fn(values)
		if len(results) == 0 {
			return ctx.NewUndefined()
		}
		return encode(ctx, results[0])
	})
	e.Ctx.Globals().Set(name, native)
	return nil
}

// Close releases all resources associated with the engine, including context and runtime.
func (e *Engine) Close() error {
	if e.Ctx != nil {
		e.Ctx.Close()
		e.Ctx = nil
	}
	if e.Runtime != nil {
		e.Runtime.Close()
		e.Runtime = nil
	}
	return nil
}

// newEngine creates a new QuickJS engine instance with the given options.
// It initializes the runtime, context, and applies all provided engine options.
func newEngine(options ...Option) (*Engine, error) {
	rt := quickjs.NewRuntime()
	ctx := rt.NewContext()

	engine := &Engine{
		Runtime: rt,
		Ctx:     ctx,
		Option: &EngineOption{
			GCThreshold: -1, // -1 means no threshold
			Strip:       1,
		},
	}

	for _, option := range options {
		if err := option(engine); err != nil {
			engine.Close()
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	return engine, nil
}

// NewFactory returns a scriptbridge.EngineFactory that creates QuickJS engines with the given options.
func NewFactory(options ...Option) scriptbridge.EngineFactory {
	return func() (scriptbridge.ScriptEngine, error) {
		return newEngine(options...)
	}
}
