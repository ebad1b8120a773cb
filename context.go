// Copyright 2025 Brian Wang <wangbuke@gmail.com>
// SPDX-License-Identifier: Apache-2.0

package scriptbridge

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// ErrContextClosed is returned by operations on a destroyed context.
var ErrContextClosed = errors.New("script context is destroyed")

// ContextState is the lifecycle state of a ScriptContext.
type ContextState int

const (
	StateUninitialized ContextState = iota // No engine has been created yet
	StateLive                              // Engine created, calls are accepted
	StateDestroyed                         // Engine closed, calls are rejected
)

// String returns the string representation of a ContextState.
func (s ContextState) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateLive:
		return "live"
	case StateDestroyed:
		return "destroyed"
	default:
		return "unknown"
	}
}

// InvokeStatus tells apart the outcomes of ScriptContext.Invoke.
type InvokeStatus int

const (
	InvokeOK        InvokeStatus = iota // Handler ran (the result may still be empty)
	InvokeNoHandler                     // No callable with that name
	InvokeFailed                        // Handler raised an error
	InvokeRejected                      // Context is not live
)

// String returns the string representation of an InvokeStatus.
func (s InvokeStatus) String() string {
	switch s {
	case InvokeOK:
		return "ok"
	case InvokeNoHandler:
		return "no handler"
	case InvokeFailed:
		return "failed"
	case InvokeRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Result holds the values one handler call returned.
type Result []Value

// Empty reports whether the handler returned nothing.
func (r Result) Empty() bool { return len(r) == 0 }

// ScriptContext is one isolated script execution environment.
type ScriptContext struct {
	id       uint32 // Unique identifier inside the registry
	name     string // Human-readable name for logs
	origin   string // Source file path, empty for a primary context without a file
	primary  bool   // Whether this is the main context
	state    ContextState
	engine   ScriptEngine
	registry *Registry
	sink     Sink
	logger   *slog.Logger
}

// newScriptContext creates an uninitialized context.
func newScriptContext(r *Registry, id uint32, origin string, primary bool) *ScriptContext {
	name := "main"
	if !primary {
		name = filepath.Base(origin)
	}
	return &ScriptContext{
		id:       id,
		name:     name,
		origin:   origin,
		primary:  primary,
		state:    StateUninitialized,
		registry: r,
		sink:     r.sink,
		logger:   r.logger,
	}
}

// ID returns the context identifier.
func (c *ScriptContext) ID() uint32 { return c.id }

// Name returns the context name used in logs.
func (c *ScriptContext) Name() string { return c.name }

// Origin returns the source file path.
func (c *ScriptContext) Origin() string { return c.origin }

// Primary reports whether this is the main context.
func (c *ScriptContext) Primary() bool { return c.primary }

// State returns the lifecycle state.
func (c *ScriptContext) State() ContextState { return c.state }

// create builds the engine for this context.
func (c *ScriptContext) create(factory EngineFactory) (err error) {
	if c.state != StateUninitialized {
		return fmt.Errorf("context %s already created", c.name)
	}
	if factory == nil {
		return ErrNoEngine
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic while creating engine: %v", r)
		}
	}()

	engine, err := factory()
	if err != nil {
		return fmt.Errorf("failed to create script engine: %w", err)
	}
	if engine == nil {
		return fmt.Errorf("engine factory returned no engine")
	}
	c.engine = engine
	c.state = StateLive
	return nil
}

// bind installs natives into the context namespace. Each native closes over
// a Handle rather than the registry itself.
func (c *ScriptContext) bind(natives []Native) error {
	if c.state != StateLive {
		return ErrContextClosed
	}
	handle := &Handle{ctx: c, registry: c.registry, sink: c.sink}
	for _, native := range natives {
		fn := native.Fn
		if err := c.engine.Bind(native.Name, func(args []Value) []Value {
			return fn(handle, args)
		}); err != nil {
			return fmt.Errorf("failed to bind %s: %w", native.Name, err)
		}
	}
	return nil
}

// LoadSource reads a script file and runs its top level. A load error is
// forwarded to the sink and returned, but the context stays live.
func (c *ScriptContext) LoadSource(path string) error {
	if c.state != StateLive {
		return ErrContextClosed
	}

	c.origin = path
	content, err := os.ReadFile(path)
	if err != nil {
		err = fmt.Errorf("failed to read script %s: %w", path, err)
		c.sink.PrintLine(err.Error())
		return err
	}
	if err := c.load(&Script{Content: string(content), FileName: path}); err != nil {
		c.sink.PrintLine(err.Error())
		return err
	}
	return nil
}

// load runs a script with panic protection.
func (c *ScriptContext) load(script *Script) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &ScriptError{FileName: script.FileName, Message: fmt.Sprintf("panic: %v", r)}
			if c.logger != nil {
				c.logger.Error("Panic recovered while loading script",
					"context", c.name,
					"file", script.FileName,
					"error", r)
			}
		}
	}()
	return c.engine.Load(script)
}

// HasHandler reports whether a callable with the name exists right now.
func (c *ScriptContext) HasHandler(name string) bool {
	if c.state != StateLive {
		return false
	}
	return c.engine.HasFunction(name)
}

// Invoke calls a handler. Errors raised by the script are forwarded to the
// sink and never returned; the status tells what happened.
func (c *ScriptContext) Invoke(name string, args []Value) (result Result, status InvokeStatus) {
	if c.state != StateLive {
		return nil, InvokeRejected
	}

	defer func() {
		if r := recover(); r != nil {
			c.sink.PrintLine(fmt.Sprintf("%s: panic in %s: %v", c.name, name, r))
			if c.logger != nil {
				c.logger.Error("Handler panic",
					"context", c.name,
					"handler", name,
					"error", r)
			}
			result, status = nil, InvokeFailed
		}
	}()

	values, err := c.engine.Call(name, args)
	switch {
	case err == nil:
		return Result(values), InvokeOK
	case errors.Is(err, ErrNoHandler):
		return nil, InvokeNoHandler
	default:
		c.sink.PrintLine(err.Error())
		return nil, InvokeFailed
	}
}

// Close destroys the context. Closing twice is a no-op.
func (c *ScriptContext) Close() error {
	if c.state == StateDestroyed {
		return nil
	}
	wasLive := c.state == StateLive
	c.state = StateDestroyed
	if !wasLive || c.engine == nil {
		return nil
	}
	engine := c.engine
	c.engine = nil
	if err := engine.Close(); err != nil {
		if c.logger != nil {
			c.logger.Error("Failed to close script engine",
				"context", c.name,
				"error", err)
		}
		return err
	}
	return nil
}
