// Copyright 2025 Brian Wang <wangbuke@gmail.com>
// SPDX-License-Identifier: Apache-2.0

package scriptbridge

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bridge.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	require.Equal(t, []string{".go", ".js", ".lua", ".risor"}, cfg.Extensions())
	require.Equal(t, RuntimeLua, cfg.Engines[cfg.DefaultEngine])
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
main_scripts_dir: /srv/main
side_scripts_dir: /srv/side
default_engine: JS
engines:
  js: quickjs
  .Lua: lua
watch: true
log:
  level: debug
  format: json
quickjs:
  memory_limit: 1048576
goja:
  console: true
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "/srv/main", cfg.MainScriptsDir)
	require.Equal(t, "/srv/side", cfg.SideScriptsDir)
	require.Equal(t, ".js", cfg.DefaultEngine)
	require.Equal(t, RuntimeQuickJS, cfg.Engines[".js"])
	require.Equal(t, RuntimeLua, cfg.Engines[".lua"])
	require.True(t, cfg.Watch)
	require.Equal(t, "debug", cfg.Log.Level)
	require.Equal(t, "json", cfg.Log.Format)
	require.Equal(t, uint64(1048576), cfg.QuickJS.MemoryLimit)
	require.True(t, cfg.Goja.Console)

	// Untouched sections keep their defaults.
	require.True(t, cfg.Risor.Builtins)
	require.True(t, cfg.Yaegi.Stdlib)
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errMsg  string
	}{
		{
			name:    "unknown runtime",
			content: "engines:\n  py: python\n",
			errMsg:  `unknown runtime "python" for .py scripts`,
		},
		{
			name:    "invalid log level",
			content: "log:\n  level: verbose\n",
			errMsg:  "invalid log level",
		},
		{
			name:    "invalid log format",
			content: "log:\n  format: xml\n",
			errMsg:  "invalid log format",
		},
		{
			name:    "default engine without runtime",
			content: "default_engine: rb\n",
			errMsg:  `default engine ".rb" has no runtime`,
		},
		{
			name:    "malformed yaml",
			content: "engines: [\n",
			errMsg:  "failed to parse config",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.content))
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestConfig_ValidateNoEngines(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Engines = nil
	require.EqualError(t, cfg.Validate(), "no engines configured")
}

func TestConfig_BridgeOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MainScriptsDir = "/srv/main"
	cfg.SideScriptsDir = "/srv/side"
	cfg.DefaultEngine = ".js"

	opts := append(cfg.BridgeOptions(), WithEngine(".js", mockFactory(nil, nil)))
	bridge, err := NewBridge(opts...)
	require.NoError(t, err)
	require.Equal(t, "/srv/main", bridge.options.mainScriptsDir)
	require.Equal(t, "/srv/side", bridge.options.sideScriptsDir)
	require.Equal(t, ".js", bridge.options.defaultEngine)
}
