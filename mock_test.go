// Copyright 2025 Brian Wang <wangbuke@gmail.com>
// SPDX-License-Identifier: Apache-2.0

package scriptbridge

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// mockScript sets up a mockEngine the way running a real script would.
type mockScript func(m *mockEngine) error

// mockEngine is a simple mock implementation of ScriptEngine for testing.
// Scripts are looked up by file base name.
type mockEngine struct {
	scripts    map[string]mockScript
	handlers   map[string]func(args []Value) ([]Value, error)
	natives    map[string]NativeFunc
	loaded     []string // Base names passed to Load
	calls      []string // Handler names passed to Call
	bindErr    error    // Error to return from Bind
	closeErr   error    // Error to return from Close
	closeCalls int
	closed     bool
}

func newMockEngine(scripts map[string]mockScript) *mockEngine {
	return &mockEngine{
		scripts:  scripts,
		handlers: make(map[string]func(args []Value) ([]Value, error)),
		natives:  make(map[string]NativeFunc),
	}
}

// Load mocks running the top level of a script.
func (m *mockEngine) Load(script *Script) error {
	if m.closed {
		return ErrEngineClosed
	}
	name := filepath.Base(script.FileName)
	m.loaded = append(m.loaded, name)
	if setup, ok := m.scripts[name]; ok {
		if err := setup(m); err != nil {
			return &ScriptError{FileName: script.FileName, Message: err.Error()}
		}
	}
	return nil
}

// HasFunction mocks the handler lookup.
func (m *mockEngine) HasFunction(name string) bool {
	_, ok := m.handlers[name]
	return ok && !m.closed
}

// Call mocks invoking a handler.
func (m *mockEngine) Call(name string, args []Value) ([]Value, error) {
	if m.closed {
		return nil, ErrEngineClosed
	}
	m.calls = append(m.calls, name)
	h, ok := m.handlers[name]
	if !ok {
		return nil, ErrNoHandler
	}
	return h(args)
}

// Bind mocks installing a native.
func (m *mockEngine) Bind(name string, fn NativeFunc) error {
	if m.bindErr != nil {
		return m.bindErr
	}
	m.natives[name] = fn
	return nil
}

// Close mocks releasing the engine.
func (m *mockEngine) Close() error {
	m.closeCalls++
	m.closed = true
	return m.closeErr
}

// on registers a handler returning fixed values.
func (m *mockEngine) on(name string, results ...Value) {
	m.handlers[name] = func([]Value) ([]Value, error) { return results, nil }
}

// mockFactory returns an EngineFactory creating mockEngines. Every engine
// created is appended to engines when it is not nil.
func mockFactory(scripts map[string]mockScript, engines *[]*mockEngine) EngineFactory {
	return func() (ScriptEngine, error) {
		m := newMockEngine(scripts)
		if engines != nil {
			*engines = append(*engines, m)
		}
		return m, nil
	}
}

// recordingSink collects printed lines.
type recordingSink struct {
	mu    sync.Mutex
	lines []string
}

func (s *recordingSink) PrintLine(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = append(s.lines, text)
}

func (s *recordingSink) Lines() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.lines...)
}

// Contains reports whether any line contains substr.
func (s *recordingSink) Contains(substr string) bool {
	for _, line := range s.Lines() {
		if strings.Contains(line, substr) {
			return true
		}
	}
	return false
}

// writeScripts creates empty script files in dir and returns their paths.
func writeScripts(t *testing.T, dir string, names ...string) []string {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	paths := make([]string, len(names))
	for i, name := range names {
		paths[i] = filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(paths[i], []byte("-- "+name+"\n"), 0o644))
	}
	return paths
}
