//go:build !windows

// Copyright 2025 Brian Wang <wangbuke@gmail.com>
// SPDX-License-Identifier: Apache-2.0

package main

import (
	scriptbridge "github.com/buke/script-bridge"
	v8engine "github.com/buke/script-bridge/engines/v8go"
)

func v8Factory(cfg scriptbridge.Config) (scriptbridge.EngineFactory, error) {
	return v8engine.NewFactory(), nil
}
