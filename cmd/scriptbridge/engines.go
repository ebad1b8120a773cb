// Copyright 2025 Brian Wang <wangbuke@gmail.com>
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"strings"

	scriptbridge "github.com/buke/script-bridge"
	gojaengine "github.com/buke/script-bridge/engines/goja"
	luaengine "github.com/buke/script-bridge/engines/lua"
	quickjsengine "github.com/buke/script-bridge/engines/quickjs-go"
	risorengine "github.com/buke/script-bridge/engines/risor"
	yaegiengine "github.com/buke/script-bridge/engines/yaegi"
)

// engineFactory builds the factory for a runtime name using its section of
// the configuration.
func engineFactory(runtime string, cfg scriptbridge.Config) (scriptbridge.EngineFactory, error) {
	switch runtime {
	case scriptbridge.RuntimeLua:
		var opts []luaengine.Option
		if cfg.Lua.Sandbox {
			opts = append(opts, luaengine.WithSandbox())
		}
		return luaengine.NewFactory(opts...), nil

	case scriptbridge.RuntimeGoja:
		var opts []gojaengine.Option
		if cfg.Goja.MaxCallStackSize > 0 {
			opts = append(opts, gojaengine.WithMaxCallStackSize(cfg.Goja.MaxCallStackSize))
		}
		if cfg.Goja.Console {
			opts = append(opts, gojaengine.WithEnableConsole())
		}
		return gojaengine.NewFactory(opts...), nil

	case scriptbridge.RuntimeQuickJS:
		var opts []quickjsengine.Option
		if cfg.QuickJS.MemoryLimit > 0 {
			opts = append(opts, quickjsengine.WithMemoryLimit(cfg.QuickJS.MemoryLimit))
		}
		if cfg.QuickJS.MaxStackSize > 0 {
			opts = append(opts, quickjsengine.WithMaxStackSize(cfg.QuickJS.MaxStackSize))
		}
		return quickjsengine.NewFactory(opts...), nil

	case scriptbridge.RuntimeV8:
		return v8Factory(cfg)

	case scriptbridge.RuntimeRisor:
		var opts []risorengine.Option
		if cfg.Risor.Builtins {
			opts = append(opts, risorengine.WithBuiltins())
		}
		return risorengine.NewFactory(opts...), nil

	case scriptbridge.RuntimeYaegi:
		var opts []yaegiengine.Option
		if cfg.Yaegi.Stdlib {
			opts = append(opts, yaegiengine.WithStdlib())
		}
		return yaegiengine.NewFactory(opts...), nil
	}
	return nil, fmt.Errorf("unknown runtime %q", runtime)
}

// engineOptions registers one engine per configured extension.
func engineOptions(cfg scriptbridge.Config) ([]func(*scriptbridge.Bridge), error) {
	var opts []func(*scriptbridge.Bridge)
	for _, ext := range cfg.Extensions() {
		factory, err := engineFactory(cfg.Engines[ext], cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to configure %s scripts: %w", ext, err)
		}
		opts = append(opts, scriptbridge.WithEngine(ext, factory))
	}
	return opts, nil
}

// extensionFilter accepts file names ending in one of exts.
func extensionFilter(exts []string) func(name string) bool {
	return func(name string) bool {
		name = strings.ToLower(name)
		for _, ext := range exts {
			if strings.HasSuffix(name, ext) {
				return true
			}
		}
		return false
	}
}
