//go:build !windows

// Copyright 2025 Brian Wang <wangbuke@gmail.com>
// SPDX-License-Identifier: Apache-2.0

package v8engine

import (
	"fmt"
	"time"

	scriptbridge "github.com/buke/script-bridge"
)

// EngineOption holds specific configurations for the V8 engine.
type EngineOption struct {
	CallTimeout time.Duration // 0 = no timeout
}

// WithCallTimeout terminates a script load or handler call that runs
// longer than d. The isolate stays usable afterwards.
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
