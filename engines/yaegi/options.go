// Copyright 2025 Brian Wang <wangbuke@gmail.com>
// SPDX-License-Identifier: Apache-2.0

package yaegiengine

import (
	"fmt"

	scriptbridge "github.com/buke/script-bridge"
)

// EngineOption holds configuration for a Yaegi engine instance.
type EngineOption struct {
	Stdlib bool // Allow scripts to import the Go standard library
}

// WithStdlib lets scripts import the Go standard library.
func WithStdlib() Option {
	return func(engine scriptbridge.ScriptEngine) error {
		e, ok := engine.(*Engine)
		if !ok {
			return fmt.Errorf("invalid engine type for WithStdlib")
		}
		e.Option.Stdlib = true
		return nil
	}
}
