// Copyright 2025 Brian Wang <wangbuke@gmail.com>
// SPDX-License-Identifier: Apache-2.0

package scriptbridge

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
)

var (
	// ErrRegistryLoaded is returned when LoadAll is called twice.
	ErrRegistryLoaded = errors.New("registry already loaded")

	// ErrRegistryClosed is returned when LoadAll is called after UnloadAll.
	ErrRegistryClosed = errors.New("registry is unloaded")

	// ErrNoEngine is returned when no engine is registered for a script file.
	ErrNoEngine = errors.New("no script engine for file")
)

// EngineResolver picks the engine factory for a script path. An empty path
// asks for the default engine.
type EngineResolver func(path string) (EngineFactory, error)

// ExtensionResolver resolves engines by file extension. The default
// extension is used for an empty path.
func ExtensionResolver(engines map[string]EngineFactory, defaultExt string) EngineResolver {
	return func(path string) (EngineFactory, error) {
		ext := strings.ToLower(filepath.Ext(path))
		if path == "" {
			ext = defaultExt
		}
		factory, ok := engines[ext]
		if !ok || factory == nil {
			return nil, fmt.Errorf("%w: %q", ErrNoEngine, path)
		}
		return factory, nil
	}
}

// Registry owns every script context: one primary context and the side
// contexts in discovery order. It is single-use: LoadAll once, UnloadAll once.
type Registry struct {
	resolve   EngineResolver
	natives   []Native
	sink      Sink
	logger    *slog.Logger
	main      *ScriptContext   // Primary context, nil if it could not be created
	side      []*ScriptContext // Side contexts in discovery order
	idCounter uint32           // Counter for generating context IDs
	loaded    bool
	closed    bool
}

// NewRegistry creates an empty registry. A nil resolver resolves nothing,
// so every context fails with ErrNoEngine.
func NewRegistry(resolve EngineResolver, natives []Native, sink Sink, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	if resolve == nil {
		resolve = ExtensionResolver(nil, "")
	}
	if sink == nil {
		sink = NewLogSink(logger)
	}
	return &Registry{
		resolve: resolve,
		natives: natives,
		sink:    sink,
		logger:  logger,
	}
}

// LoadAll creates the primary context and loads mainPath into it, then
// creates one side context per path in sidePaths. Script problems are
// reported to the sink and never abort loading.
func (r *Registry) LoadAll(mainPath string, sidePaths []string) error {
	if r.closed {
		return ErrRegistryClosed
	}
	if r.loaded {
		return ErrRegistryLoaded
	}
	r.loaded = true

	r.main = r.loadMain(mainPath)

	for _, path := range sidePaths {
		if ctx := r.loadSide(path); ctx != nil {
			r.side = append(r.side, ctx)
		}
	}

	r.logger.Debug("Script contexts loaded",
		"main", mainPath,
		"sideScripts", len(r.side),
		"contexts", r.Len(),
	)
	return nil
}

// loadMain creates the primary context. A missing main script is reported
// but the context still exists, without handlers.
func (r *Registry) loadMain(path string) *ScriptContext {
	if path == "" {
		r.sink.PrintLine("No main script found!")
	}

	factory, err := r.resolve(path)
	if err != nil {
		r.sink.PrintLine(fmt.Sprintf("Script state for main script load error: %v", err))
		return nil
	}

	ctx := newScriptContext(r, r.nextID(), path, true)
	if err := ctx.create(factory); err != nil {
		r.sink.PrintLine(fmt.Sprintf("Script state for main script load error: %v", err))
		return nil
	}
	r.setup(ctx)

	if path != "" {
		_ = ctx.LoadSource(path)
	}
	return ctx
}

// loadSide creates a side context. Returns nil if the context is skipped.
func (r *Registry) loadSide(path string) *ScriptContext {
	factory, err := r.resolve(path)
	if err != nil {
		r.sink.PrintLine(fmt.Sprintf("Skipping side script %s: %v", path, err))
		return nil
	}

	ctx := newScriptContext(r, r.nextID(), path, false)
	if err := ctx.create(factory); err != nil {
		r.sink.PrintLine(fmt.Sprintf("Script state for side script %s load error: %v", path, err))
		return nil
	}
	r.setup(ctx)

	_ = ctx.LoadSource(path)
	return ctx
}

// setup binds the natives. Failure is reported, the context is kept.
func (r *Registry) setup(ctx *ScriptContext) {
	if err := ctx.bind(r.natives); err != nil {
		r.sink.PrintLine(fmt.Sprintf("Native setup for %s failed: %v", ctx.Name(), err))
	}
}

func (r *Registry) nextID() uint32 {
	r.idCounter++
	return r.idCounter
}

// ForEach applies fn to every live context: side contexts in discovery
// order, then the primary context last.
func (r *Registry) ForEach(fn func(ctx *ScriptContext)) {
	for _, ctx := range r.side {
		if ctx.State() == StateLive {
			fn(ctx)
		}
	}
	if r.main != nil && r.main.State() == StateLive {
		fn(r.main)
	}
}

// Contexts returns the live contexts in ForEach order.
func (r *Registry) Contexts() []*ScriptContext {
	contexts := make([]*ScriptContext, 0, len(r.side)+1)
	r.ForEach(func(ctx *ScriptContext) {
		contexts = append(contexts, ctx)
	})
	return contexts
}

// Main returns the primary context, or nil.
func (r *Registry) Main() *ScriptContext { return r.main }

// Len returns the number of live contexts.
func (r *Registry) Len() int {
	n := 0
	r.ForEach(func(*ScriptContext) { n++ })
	return n
}

// Closed reports whether UnloadAll has run.
func (r *Registry) Closed() bool { return r.closed }

// UnloadAll closes every context exactly once. Calling it again is a no-op.
func (r *Registry) UnloadAll() error {
	if r.closed {
		return nil
	}
	r.closed = true

	var errs []error
	for _, ctx := range r.side {
		if err := ctx.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close %s: %w", ctx.Name(), err))
		}
	}
	if r.main != nil {
		if err := r.main.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close %s: %w", r.main.Name(), err))
		}
	}

	r.logger.Debug("Script contexts unloaded", "errors", len(errs))
	return errors.Join(errs...)
}
