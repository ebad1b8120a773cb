// Copyright 2025 Brian Wang <wangbuke@gmail.com>
// SPDX-License-Identifier: Apache-2.0

package quickjsengine

import (
	"fmt"

	scriptbridge "github.com/buke/script-bridge"
)

// EngineOption holds configuration options for a QuickJS engine instance.
type EngineOption struct {
	Timeout            uint64 `yaml:"timeout"`              // Execution timeout per load or call in seconds (0 = no timeout)
	MemoryLimit        uint64 `yaml:"memory_limit"`         // Memory limit in bytes (0 = no limit)
	GCThreshold        int64  `yaml:"gc_threshold"`         // GC threshold in bytes (-1 = disable, 0 = default)
	MaxStackSize       uint64 `yaml:"max_stack_size"`       // Stack size in bytes (0 = default)
	EnableModuleImport bool   `yaml:"enable_module_import"` // Enable ES6 module import support
	Strip              int    `yaml:"strip"`                // Strip level for bytecode compilation
}

// setting wraps an option body with the engine type check.
func setting(name string, apply func(e *Engine) error) Option {
	return func(engine scriptbridge.ScriptEngine) error {
		e, ok := engine.(*Engine)
		if !ok || e.Runtime == nil {
			return fmt.Errorf("invalid engine type for %s", name)
		}
		return apply(e)
	}
}

// WithGCThreshold sets the garbage collection threshold for the engine.
// Use -1 to disable automatic GC, 0 for default, or a positive value for a custom threshold.
func WithGCThreshold(threshold int64) Option {
	return setting("WithGCThreshold", func(e *Engine) error {
		if threshold < -1 {
			return fmt.Errorf("invalid GC threshold: %d", threshold)
		}
		e.Option.GCThreshold = threshold
		e.Runtime.SetGCThreshold(threshold)
		return nil
	})
}

// WithMemoryLimit sets the memory limit for the runtime in bytes.
// If limit is 0, there is no memory limit.
func WithMemoryLimit(limit uint64) Option {
	return setting("WithMemoryLimit", func(e *Engine) error {
		e.Option.MemoryLimit = limit
		e.Runtime.SetMemoryLimit(limit)
		return nil
	})
}

// WithTimeout interrupts a load or handler call running longer than
// timeout seconds. If timeout is 0, there is no timeout.
func WithTimeout(timeout uint64) Option {
	return setting("WithTimeout", func(e *Engine) error {
		e.Option.Timeout = timeout
		e.Runtime.SetExecuteTimeout(timeout)
		return nil
	})
}

// WithMaxStackSize sets the stack size for the runtime in bytes.
// If size is 0, the default stack size is used.
func WithMaxStackSize(size uint64) Option {
	return setting("WithMaxStackSize", func(e *Engine) error {
		e.Option.MaxStackSize = size
		e.Runtime.SetMaxStackSize(size)
		return nil
	})
}

// WithEnableModuleImport enables or disables ES6 module import support.
func WithEnableModuleImport(enable bool) Option {
	return setting("WithEnableModuleImport", func(e *Engine) error {
		e.Option.EnableModuleImport = enable
		e.Runtime.SetModuleImport(enable)
		return nil
	})
}

// WithStrip sets the strip level for bytecode compilation.
// 0 = no stripping, higher values strip more debug information.
func WithStrip(strip int) Option {
	return setting("WithStrip", func(e *Engine) error {
		if strip < 0 || strip > 2 {
			return fmt.Errorf("invalid strip level: %d", strip)
		}
		e.Option.Strip = strip
		e.Runtime.SetStripInfo(strip)
		return nil
	})
}
