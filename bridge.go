// Copyright 2025 Brian Wang <wangbuke@gmail.com>
// SPDX-License-Identifier: Apache-2.0

package scriptbridge

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
)

// BridgeOption contains configuration options for the bridge.
type BridgeOption struct {
	mainScriptsDir string // Directory holding the single main script
	sideScriptsDir string // Directory holding side scripts
	defaultEngine  string // Extension of the engine used when there is no main script
}

// Bridge wires host events to script handlers. It is driven from the host
// loop and is not safe for concurrent use.
type Bridge struct {
	options    *BridgeOption
	engines    map[string]EngineFactory // Engine factories by file extension
	natives    []Native                 // Natives bound into every context
	registry   *Registry                // Contexts of the current load, nil before Start
	dispatcher *Dispatcher

	sink   Sink         // Host diagnostic sink
	logger *slog.Logger // Logger instance
}

// NewBridge creates a bridge with the given options. At least one engine
// must be configured.
func NewBridge(opts ...func(*Bridge)) (*Bridge, error) {
	bridge := &Bridge{
		logger:  slog.Default(), // Default logger
		engines: make(map[string]EngineFactory),
		natives: DefaultNatives(),
		options: &BridgeOption{
			mainScriptsDir: "./mainscripts",
			sideScriptsDir: "./sidescripts",
			defaultEngine:  ".lua",
		},
	}

	// Apply configuration options
	for _, opt := range opts {
		opt(bridge)
	}

	if len(bridge.engines) == 0 {
		return nil, fmt.Errorf("at least one script engine must be provided")
	}
	if _, ok := bridge.engines[bridge.options.defaultEngine]; !ok {
		return nil, fmt.Errorf("default engine %q is not registered", bridge.options.defaultEngine)
	}
	if bridge.sink == nil {
		bridge.sink = NewLogSink(bridge.logger)
	}
	bridge.dispatcher = NewDispatcher(nil, bridge.logger)

	return bridge, nil
}

// Start discovers scripts and loads every context.
func (b *Bridge) Start() error {
	if b.registry != nil && !b.registry.Closed() {
		return fmt.Errorf("bridge is already started")
	}

	mainPath := ScanMainScript(b.options.mainScriptsDir, b.knownExtension)
	sidePaths := ScanSideScripts(b.options.sideScriptsDir, b.knownExtension)

	registry := NewRegistry(
		ExtensionResolver(b.engines, b.options.defaultEngine),
		b.natives,
		b.sink,
		b.logger,
	)
	if err := registry.LoadAll(mainPath, sidePaths); err != nil {
		return fmt.Errorf("failed to load scripts: %w", err)
	}
	b.registry = registry
	b.dispatcher = NewDispatcher(registry, b.logger)

	b.logger.Debug("Script bridge started",
		"mainScriptsDir", b.options.mainScriptsDir,
		"sideScriptsDir", b.options.sideScriptsDir,
		"main", mainPath,
		"sideScripts", len(sidePaths),
		"contexts", registry.Len(),
	)
	b.sink.PrintLine("script bridge loaded.")
	return nil
}

// Stop unloads every context. Stopping twice is a no-op.
func (b *Bridge) Stop() error {
	if b.registry == nil {
		return nil
	}
	err := b.registry.UnloadAll()
	b.logger.Debug("Script bridge stopped")
	return err
}

// Reload unloads every context and loads the scripts again.
func (b *Bridge) Reload() error {
	if err := b.Stop(); err != nil {
		b.logger.Error("Failed to unload scripts cleanly", "error", err)
	}
	b.registry = nil
	return b.Start()
}

// Dispatch sends a host event to every context.
func (b *Bridge) Dispatch(event *Event, args ...any) Outcome {
	return b.dispatcher.Dispatch(event, args...)
}

// DispatchName sends a host event by handler name.
func (b *Bridge) DispatchName(name string, args ...any) (Outcome, error) {
	return b.dispatcher.DispatchName(name, args...)
}

// Registry returns the contexts of the current load, or nil before Start.
func (b *Bridge) Registry() *Registry {
	return b.registry
}

// Extensions returns the script extensions the bridge has engines for.
func (b *Bridge) Extensions() []string {
	exts := make([]string, 0, len(b.engines))
	for ext := range b.engines {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

func (b *Bridge) knownExtension(ext string) bool {
	_, ok := b.engines[ext]
	return ok
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(ext)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// WithEngine registers an engine factory for a script file extension.
func WithEngine(ext string, factory EngineFactory) func(*Bridge) {
	return func(bridge *Bridge) {
		if factory != nil {
			bridge.engines[normalizeExt(ext)] = factory
		}
	}
}

// WithDefaultEngine sets the extension whose engine backs the primary
// context when there is no main script.
func WithDefaultEngine(ext string) func(*Bridge) {
	return func(bridge *Bridge) {
		if ext != "" {
			bridge.options.defaultEngine = normalizeExt(ext)
		}
	}
}

// WithLogger configures the logger for the bridge
func WithLogger(logger *slog.Logger) func(*Bridge) {
	return func(bridge *Bridge) {
		if logger != nil {
			bridge.logger = logger
		}
	}
}

// WithSink configures the host diagnostic sink
func WithSink(sink Sink) func(*Bridge) {
	return func(bridge *Bridge) {
		bridge.sink = sink
	}
}

// WithNatives adds natives on top of the defaults. A native with the same
// name as an earlier one replaces it.
func WithNatives(natives ...Native) func(*Bridge) {
	return func(bridge *Bridge) {
		for _, native := range natives {
			replaced := false
			for i := range bridge.natives {
				if bridge.natives[i].Name == native.Name {
					bridge.natives[i] = native
					replaced = true
				}
			}
			if !replaced {
				bridge.natives = append(bridge.natives, native)
			}
		}
	}
}

func WithMainScriptsDir(dir string) func(*Bridge) {
	return func(bridge *Bridge) {
		if dir != "" {
			bridge.options.mainScriptsDir = dir
		}
	}
}

func WithSideScriptsDir(dir string) func(*Bridge) {
	return func(bridge *Bridge) {
		if dir != "" {
			bridge.options.sideScriptsDir = dir
		}
	}
}
