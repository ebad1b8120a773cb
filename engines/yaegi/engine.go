// Copyright 2025 Brian Wang <wangbuke@gmail.com>
// SPDX-License-Identifier: Apache-2.0

package yaegiengine

import (
	"fmt"
	"go/parser"
	"go/token"
	"reflect"
	"unicode"
	"unicode/utf8"

	scriptbridge "github.com/buke/script-bridge"
	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"
)

// ImportPath is the package scripts import to reach the bound natives.
const ImportPath = "bridge"

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// Option configures a Yaegi engine.
type Option = scriptbridge.EngineOption

// Engine implements scriptbridge.ScriptEngine by interpreting Go source
// with Yaegi. Handlers are top-level functions of the loaded package.
// Natives are exported under ImportPath with a capitalized name, so
// print becomes bridge.Print.
type Engine struct {
	Interp  *interp.Interpreter // Nil until a script is loaded
	Option  *EngineOption       // Engine configuration options
	pkg     string              // Package name of the loaded script
	natives map[string]reflect.Value
	closed  bool
}

// NewFactory returns a scriptbridge.EngineFactory for creating Yaegi engines.
func NewFactory(opts ...Option) scriptbridge.EngineFactory {
	return func() (scriptbridge.ScriptEngine, error) {
		return newEngine(opts...)
	}
}

func newEngine(opts ...Option) (*Engine, error) {
	e := &Engine{
		Option:  &EngineOption{},
		natives: make(map[string]reflect.Value),
	}

	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}
	return e, nil
}

// ExportName returns the name a native is exported under.
func ExportName(name string) string {
	r, size := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError {
		return name
	}
	return string(unicode.ToUpper(r)) + name[size:]
}

// Load interprets a Go source file. Natives must be bound before.
func (e *Engine) Load(script *scriptbridge.Script) (err error) {
	if e.closed {
		return scriptbridge.ErrEngineClosed
	}
	if e.Interp != nil {
		return fmt.Errorf("yaegi engine already has a script loaded")
	}

	file, err := parser.ParseFile(token.NewFileSet(), script.FileName, script.Content, parser.PackageClauseOnly)
	if err != nil {
		return &scriptbridge.ScriptError{FileName: script.FileName, Message: err.Error()}
	}
	e.pkg = file.Name.Name

	i := interp.New(interp.Options{})
	if e.Option.Stdlib {
		if err := i.Use(stdlib.Symbols); err != nil {
			return fmt.Errorf("failed to use stdlib symbols: %w", err)
		}
	}
	if err := i.Use(interp.Exports{ImportPath + "/" + ImportPath: e.natives}); err != nil {
		return fmt.Errorf("failed to use bridge symbols: %w", err)
	}
	e.Interp = i

	defer func() {
		if r := recover(); r != nil {
			err = &scriptbridge.ScriptError{FileName: script.FileName, Message: fmt.Sprintf("panic: %v", r)}
		}
	}()
	if _, err := i.Eval(script.Content); err != nil {
		return &scriptbridge.ScriptError{FileName: script.FileName, Message: err.Error()}
	}
	return nil
}

// lookup evaluates the handler name on every call. A package-level func
// variable may be assigned after load.
func (e *Engine) lookup(name string) (fn reflect.Value, ok bool) {
	if e.closed || e.Interp == nil || name == "" {
		return reflect.Value{}, false
	}
	defer func() {
		if recover() != nil {
			fn, ok = reflect.Value{}, false
		}
	}()
	v, err := e.Interp.Eval(e.pkg + "." + name)
	if err != nil || !v.IsValid() || v.Kind() != reflect.Func || v.IsNil() {
		return reflect.Value{}, false
	}
	return v, true
}

// HasFunction reports whether the loaded package declares the function.
func (e *Engine) HasFunction(name string) bool {
	_, ok := e.lookup(name)
	return ok
}

// Call invokes a top-level function. Arguments are converted to the
// parameter types; missing ones are zero and extra ones are dropped. A
// non-nil trailing error result is returned as a script error.
func (e *Engine) Call(name string, args []scriptbridge.Value) (results []scriptbridge.Value, err error) {
	if e.closed {
		return nil, scriptbridge.ErrEngineClosed
	}
	fn, ok := e.lookup(name)
	if !ok {
		return nil, scriptbridge.ErrNoHandler
	}

	in, err := callArgs(fn.Type(), args)
	if err != nil {
		return nil, &scriptbridge.ScriptError{Message: fmt.Sprintf("%s: %v", name, err)}
	}

	defer func() {
		if r := recover(); r != nil {
			results, err = nil, &scriptbridge.ScriptError{Message: fmt.Sprintf("%s: panic: %v", name, r)}
		}
	}()

	out := fn.Call(in)
	if n := len(out); n > 0 && fn.Type().Out(n-1) == errorType {
		if callErr, _ := out[n-1].Interface().(error); callErr != nil {
			return nil, &scriptbridge.ScriptError{Message: fmt.Sprintf("%s: %v", name, callErr)}
		}
		out = out[:n-1]
	}
	if len(out) == 0 {
		return nil, nil
	}
	results = make([]scriptbridge.Value, len(out))
	for i, v := range out {
		results[i] = decode(v)
	}
	return results, nil
}

// Bind exports a native under ImportPath. It must be called before Load.
func (e *Engine) Bind(name string, fn scriptbridge.NativeFunc) error {
	if e.closed {
		return scriptbridge.ErrEngineClosed
	}
	if e.Interp != nil {
		return fmt.Errorf("cannot bind %s after the script is loaded", name)
	}
	e.natives[ExportName(name)] = reflect.ValueOf(func(args ...any) any {
		values := make([]scriptbridge.Value, len(args))
		for i, arg := range args {
			values[i] = decode(reflect.ValueOf(arg))
		}
		results := fn(values)
		if len(results) == 0 {
			return nil
		}
		return results[0].Interface()
	})
	return nil
}

// Close drops the interpreter.
func (e *Engine) Close() error {
	e.closed = true
	e.Interp = nil
	return nil
}
