// Copyright 2025 Brian Wang <wangbuke@gmail.com>
// SPDX-License-Identifier: Apache-2.0

package risorengine

import (
	"context"
	"errors"
	"fmt"
	"sort"

	scriptbridge "github.com/buke/script-bridge"
	"github.com/risor-io/risor/builtins"
	"github.com/risor-io/risor/compiler"
	"github.com/risor-io/risor/modules/all"
	"github.com/risor-io/risor/object"
	"github.com/risor-io/risor/parser"
	"github.com/risor-io/risor/vm"
)

// ErrAlreadyLoaded is returned when a second script is loaded into one engine.
var ErrAlreadyLoaded = errors.New("risor engine already has a script loaded")

// Option configures a Risor engine.
type Option = scriptbridge.EngineOption

// Engine implements scriptbridge.ScriptEngine on a Risor virtual machine.
// Natives must be bound before Load, since Risor resolves global names at
// compile time.
type Engine struct {
	VM      *vm.VirtualMachine // Nil until a script is loaded
	Option  *EngineOption      // Engine configuration options
	globals map[string]any     // Globals visible to the script
	closed  bool
}

// NewFactory returns a scriptbridge.EngineFactory for creating Risor engines.
func NewFactory(opts ...Option) scriptbridge.EngineFactory {
	return func() (scriptbridge.ScriptEngine, error) {
		return newEngine(opts...)
	}
}

func newEngine(opts ...Option) (*Engine, error) {
	e := &Engine{
		Option: &EngineOption{},
	}

	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	e.globals = make(map[string]any)
	if e.Option.Builtins {
		for name, value := range builtins.Builtins() {
			e.globals[name] = value
		}
		for name, value := range all.Builtins() {
			e.globals[name] = value
		}
	}
	return e, nil
}

// callContext returns the context for one load or call.
func (e *Engine) callContext() (context.Context, context.CancelFunc) {
	if e.Option.CallTimeout > 0 {
		return context.WithTimeout(context.Background(), e.Option.CallTimeout)
	}
	return context.WithCancel(context.Background())
}

// Load compiles the script against the bound globals and runs its top
// level. Definitions made before a runtime error stay callable.
func (e *Engine) Load(script *scriptbridge.Script) error {
	if e.closed {
		return scriptbridge.ErrEngineClosed
	}
	if e.VM != nil {
		return ErrAlreadyLoaded
	}

	ctx, cancel := e.callContext()
	defer cancel()

	ast, err := parser.Parse(ctx, script.Content)
	if err != nil {
		return &scriptbridge.ScriptError{FileName: script.FileName, Message: err.Error()}
	}
	code, err := compiler.Compile(ast, compiler.WithGlobalNames(e.globalNames()))
	if err != nil {
		return &scriptbridge.ScriptError{FileName: script.FileName, Message: err.Error()}
	}

	e.VM = vm.New(code, vm.WithGlobals(e.globals))
	if err := e.VM.Run(ctx); err != nil {
		return &scriptbridge.ScriptError{FileName: script.FileName, Message: err.Error()}
	}
	return nil
}

func (e *Engine) globalNames() []string {
	names := make([]string, 0, len(e.globals))
	for name := range e.globals {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (e *Engine) lookup(name string) *object.Function {
	if e.closed || e.VM == nil {
		return nil
	}
	obj, err := e.VM.Get(name)
	if err != nil {
		return nil
	}
	fn, _ := obj.(*object.Function)
	return fn
}

// HasFunction reports whether the script defines a global function with
// the name.
func (e *Engine) HasFunction(name string) bool {
	return e.lookup(name) != nil
}

// Call invokes a global function. A function returning nil yields no values.
func (e *Engine) Call(name string, args []scriptbridge.Value) ([]scriptbridge.Value, error) {
	if e.closed {
		return nil, scriptbridge.ErrEngineClosed
	}
	fn := e.lookup(name)
	if fn == nil {
		return nil, scriptbridge.ErrNoHandler
	}

	objArgs := make([]object.Object, len(args))
	for i, arg := range args {
		objArgs[i] = encode(arg)
	}

	ctx, cancel := e.callContext()
	defer cancel()

	result, err := e.VM.Call(ctx, fn, objArgs)
	if err != nil {
		return nil, &scriptbridge.ScriptError{Message: err.Error()}
	}
	if errObj, ok := result.(*object.Error); ok {
		return nil, &scriptbridge.ScriptError{Message: errObj.Inspect()}
	}
	if result == nil || result == object.Nil {
		return nil, nil
	}
	return []scriptbridge.Value{decode(result)}, nil
}

// Bind registers a native as a global builtin. Only the first value the
// native returns reaches the script.
func (e *Engine) Bind(name string, fn scriptbridge.NativeFunc) error {
	if e.closed {
		return scriptbridge.ErrEngineClosed
	}
	if e.VM != nil {
		return fmt.Errorf("cannot bind %s after the script is loaded", name)
	}
	builtin := object.NewBuiltin(name, func(ctx context.Context, args ...object.Object) object.Object {
		values := make([]scriptbridge.Value, len(args))
		for i, arg := range args {
			values[i] = decode(arg)
		}
		results := fn(values)
		if len(results) == 0 {
			return object.Nil
		}
		return encode(results[0])
	})
	e.globals[name] = builtin
	return nil
}

// Close drops the virtual machine.
func (e *Engine) Close() error {
	e.closed = true
	e.VM = nil
	e.globals = nil
	return nil
}
