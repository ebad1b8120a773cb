// Copyright 2025 Brian Wang <wangbuke@gmail.com>
// SPDX-License-Identifier: Apache-2.0

package scriptbridge_test

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	scriptbridge "github.com/buke/script-bridge"
	"github.com/stretchr/testify/require"
)

// scenario is one gamemode written in a script language. Every runtime
// implements the same behavior:
//
//	main:    denies spawning to player 3 and prints "hello <id> true" on connect
//	admin:   handles the "/ban" command
//	broken:  fails to compile
//	faulty:  raises "kaboom" from OnPlayerSpawn
//	counter: prints "spawned <n>" from OnPlayerSpawn
type scenario struct {
	ext     string
	main    string
	admin   string
	broken  string
	faulty  string
	counter string
}

type lineSink struct {
	mu    sync.Mutex
	lines []string
}

func (s *lineSink) PrintLine(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = append(s.lines, text)
}

func (s *lineSink) contains(substr string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, line := range s.lines {
		if strings.Contains(line, substr) {
			return true
		}
	}
	return false
}

func mkdirWrite(dir, name, content string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644)
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, mkdirWrite(dir, name, content))
}

func startScenario(t *testing.T, sc scenario, factory scriptbridge.EngineFactory) (*scriptbridge.Bridge, *lineSink) {
	t.Helper()
	dir := t.TempDir()
	mainDir := filepath.Join(dir, "mainscripts")
	sideDir := filepath.Join(dir, "sidescripts")

	writeFile(t, mainDir, "gamemode"+sc.ext, sc.main)
	writeFile(t, sideDir, "a_admin"+sc.ext, sc.admin)
	writeFile(t, sideDir, "b_broken"+sc.ext, sc.broken)
	writeFile(t, sideDir, "c_faulty"+sc.ext, sc.faulty)
	writeFile(t, sideDir, "d_counter"+sc.ext, sc.counter)

	sink := &lineSink{}
	bridge, err := scriptbridge.NewBridge(
		scriptbridge.WithEngine(sc.ext, factory),
		scriptbridge.WithDefaultEngine(sc.ext),
		scriptbridge.WithMainScriptsDir(mainDir),
		scriptbridge.WithSideScriptsDir(sideDir),
		scriptbridge.WithSink(sink),
	)
	require.NoError(t, err)
	require.NoError(t, bridge.Start())
	t.Cleanup(func() { require.NoError(t, bridge.Stop()) })
	return bridge, sink
}

func runScenario(t *testing.T, sc scenario, factory scriptbridge.EngineFactory) {
	bridge, sink := startScenario(t, sc, factory)

	require.Equal(t, 5, bridge.Registry().Len())
	require.True(t, sink.contains("b_broken"+sc.ext))
	require.True(t, sink.contains("script bridge loaded."))

	// Decisions
	require.False(t, bridge.OnPlayerRequestSpawn(3))
	require.True(t, bridge.OnPlayerRequestSpawn(1))
	require.True(t, bridge.OnPlayerCommandText(1, "/ban"))
	require.False(t, bridge.OnPlayerCommandText(1, "/help"))

	// Natives
	bridge.OnPlayerConnect(5)
	require.True(t, sink.contains("hello 5 true"))

	// A failing handler does not stop later contexts.
	outcome := bridge.Dispatch(scriptbridge.EventPlayerSpawn, 1)
	require.Equal(t, 1, outcome.Failed)
	require.True(t, sink.contains("kaboom"))
	require.True(t, sink.contains("spawned 1"))

	bridge.OnPlayerSpawn(1)
	require.True(t, sink.contains("spawned 2"))

	// Reload starts from fresh script state.
	require.NoError(t, bridge.Reload())
	bridge.OnPlayerSpawn(1)
	require.False(t, sink.contains("spawned 3"))
}
