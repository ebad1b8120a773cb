// Copyright 2025 Brian Wang <wangbuke@gmail.com>
// SPDX-License-Identifier: Apache-2.0

package risorengine

import (
	"fmt"
	"time"

	scriptbridge "github.com/buke/script-bridge"
)

// EngineOption holds configuration for a Risor engine instance.
type EngineOption struct {
	Builtins    bool          // Expose the Risor builtins and standard modules
	CallTimeout time.Duration // Cancels the context of a load or call, 0 = none
}

// WithBuiltins exposes the Risor builtins (len, sprintf, ...) and the
// standard modules (math, strings, json, ...) to scripts.
func WithBuiltins() Option {
	return func(engine scriptbridge.ScriptEngine) error {
		e, ok := engine.(*Engine)
		if !ok {
			return fmt.Errorf("invalid engine type for WithBuiltins")
		}
		e.Option.Builtins = true
		return nil
	}
}

// WithCallTimeout cancels a load or handler call after d.
func WithCallTimeout(d time.Duration) Option {
	return func(engine scriptbridge.ScriptEngine) error {
		e, ok := engine.(*Engine)
		if !ok {
			return fmt.Errorf("invalid engine type for WithCallTimeout")
		}
		if d < 0 {
			return fmt.Errorf("invalid call timeout: %s", d)
		}
		e.Option.CallTimeout = d
		return nil
	}
}
