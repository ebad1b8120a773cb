// Copyright 2025 Brian Wang <wangbuke@gmail.com>
// SPDX-License-Identifier: Apache-2.0

package scriptbridge

import (
	"path/filepath"
	"strings"
)

// Native is a host function exposed to every script context.
type Native struct {
	Name string                                // Global name inside the context
	Fn   func(h *Handle, args []Value) []Value // Implementation
}

// Handle is the capability a native function receives. It refers to the
// context the native was bound into and to the registry owning it.
type Handle struct {
	ctx      *ScriptContext
	registry *Registry
	sink     Sink
}

// Valid reports whether the owning context is still live and its registry
// has not been unloaded.
func (h *Handle) Valid() bool {
	if h == nil || h.ctx == nil || h.registry == nil || h.sink == nil {
		return false
	}
	return h.ctx.State() == StateLive && !h.registry.Closed()
}

// PrintLine forwards text to the host sink. It reports false when the
// handle is no longer valid.
func (h *Handle) PrintLine(text string) bool {
	if !h.Valid() {
		return false
	}
	h.sink.PrintLine(text)
	return true
}

// Context returns the context the native is bound into.
func (h *Handle) Context() *ScriptContext {
	if h == nil {
		return nil
	}
	return h.ctx
}

// FormatArgs joins values with single spaces, the way print shows them.
func FormatArgs(args []Value) string {
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = arg.String()
	}
	return strings.Join(parts, " ")
}

// DefaultNatives returns the natives every context receives.
func DefaultNatives() []Native {
	return []Native{
		{Name: "print", Fn: nativePrint},
		{Name: "scriptName", Fn: nativeScriptName},
	}
}

func nativePrint(h *Handle, args []Value) []Value {
	h.PrintLine(FormatArgs(args))
	return nil
}

func nativeScriptName(h *Handle, args []Value) []Value {
	if !h.Valid() || h.ctx.Origin() == "" {
		return []Value{None()}
	}
	return []Value{Text(filepath.Base(h.ctx.Origin()))}
}
