// Copyright 2025 Brian Wang <wangbuke@gmail.com>
// SPDX-License-Identifier: Apache-2.0

package scriptbridge

import (
	"errors"
	"fmt"
)

var (
	// ErrNoHandler is returned by ScriptEngine.Call when no global callable
	// with the requested name exists.
	ErrNoHandler = errors.New("handler not defined")

	// ErrEngineClosed is returned by engine operations after Close.
	ErrEngineClosed = errors.New("engine is closed")
)

// Script is one script source handed to an engine.
type Script struct {
	Content  string // Script content
	FileName string // Script file name for diagnostics
}

// ScriptError is a syntax or runtime error raised by script code.
type ScriptError struct {
	FileName string // File the failing code was loaded from (may be empty)
	Message  string // Error text produced by the runtime
}

// Error implements the error interface.
func (e *ScriptError) Error() string {
	if e.FileName == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.FileName, e.Message)
}

// NativeFunc is a host function callable from script code. Arguments arrive
// already decoded; the returned values are encoded back into the runtime.
type NativeFunc func(args []Value) []Value

// ScriptEngine is one isolated script state. It is not safe for concurrent use.
type ScriptEngine interface {
	// Load runs the top level of a script once.
	Load(script *Script) error

	// HasFunction reports whether a global callable with the name exists.
	HasFunction(name string) bool

	// Call invokes a global callable. It returns ErrNoHandler when the name
	// is not callable and a *ScriptError when the script raises an error.
	Call(name string, args []Value) ([]Value, error)

	// Bind installs fn as a global callable, replacing any previous global.
	Bind(name string, fn NativeFunc) error

	// Close releases the state.
	Close() error
}

// EngineFactory creates script engine instances.
type EngineFactory func() (ScriptEngine, error)

// EngineOption is a function that configures a script engine.
type EngineOption func(ScriptEngine) error
