// Copyright 2025 Brian Wang <wangbuke@gmail.com>
// SPDX-License-Identifier: Apache-2.0

package scriptbridge

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Runtime names accepted in the engines map of a Config.
const (
	RuntimeLua     = "lua"
	RuntimeGoja    = "goja"
	RuntimeQuickJS = "quickjs"
	RuntimeV8      = "v8"
	RuntimeRisor   = "risor"
	RuntimeYaegi   = "yaegi"
)

var runtimeNames = map[string]bool{
	RuntimeLua:     true,
	RuntimeGoja:    true,
	RuntimeQuickJS: true,
	RuntimeV8:      true,
	RuntimeRisor:   true,
	RuntimeYaegi:   true,
}

// LogConfig controls the host logger.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn or error
	Format string `yaml:"format"` // text or json
}

// LuaConfig holds Lua engine settings.
type LuaConfig struct {
	Sandbox bool `yaml:"sandbox"` // Open only the safe standard libraries
}

// GojaConfig holds Goja engine settings.
type GojaConfig struct {
	MaxCallStackSize int  `yaml:"max_call_stack_size"`
	Console          bool `yaml:"console"`
}

// QuickJSConfig holds QuickJS engine settings.
type QuickJSConfig struct {
	MemoryLimit  uint64 `yaml:"memory_limit"`   // Bytes, 0 = no limit
	MaxStackSize uint64 `yaml:"max_stack_size"` // Bytes, 0 = default
}

// RisorConfig holds Risor engine settings.
type RisorConfig struct {
	Builtins bool `yaml:"builtins"` // Expose the Risor standard modules
}

// YaegiConfig holds Yaegi engine settings.
type YaegiConfig struct {
	Stdlib bool `yaml:"stdlib"` // Allow importing the Go standard library
}

// Config describes one bridge deployment.
type Config struct {
	MainScriptsDir string            `yaml:"main_scripts_dir"`
	SideScriptsDir string            `yaml:"side_scripts_dir"`
	DefaultEngine  string            `yaml:"default_engine"` // File extension
	Engines        map[string]string `yaml:"engines"`        // File extension -> runtime name
	Watch          bool              `yaml:"watch"`

	Log     LogConfig     `yaml:"log"`
	Lua     LuaConfig     `yaml:"lua"`
	Goja    GojaConfig    `yaml:"goja"`
	QuickJS QuickJSConfig `yaml:"quickjs"`
	Risor   RisorConfig   `yaml:"risor"`
	Yaegi   YaegiConfig   `yaml:"yaegi"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		MainScriptsDir: "./mainscripts",
		SideScriptsDir: "./sidescripts",
		DefaultEngine:  ".lua",
		Engines: map[string]string{
			".lua":   RuntimeLua,
			".js":    RuntimeGoja,
			".risor": RuntimeRisor,
			".go":    RuntimeYaegi,
		},
		Log:   LogConfig{Level: "info", Format: "text"},
		Risor: RisorConfig{Builtins: true},
		Yaegi: YaegiConfig{Stdlib: true},
	}
}

// LoadConfig reads a YAML file on top of DefaultConfig. An engines map in
// the file replaces the default one.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	defaults := cfg.Engines
	cfg.Engines = nil

	data, err := os.ReadFile(path)
	if err != nil {
		return DefaultConfig(), fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if cfg.Engines == nil {
		cfg.Engines = defaults
	}

	normalized := make(map[string]string, len(cfg.Engines))
	for ext, runtime := range cfg.Engines {
		normalized[normalizeExt(ext)] = strings.ToLower(runtime)
	}
	cfg.Engines = normalized
	cfg.DefaultEngine = normalizeExt(cfg.DefaultEngine)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the configuration for unknown values.
func (c Config) Validate() error {
	switch c.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("invalid log format: %q", c.Log.Format)
	}
	if len(c.Engines) == 0 {
		return fmt.Errorf("no engines configured")
	}
	for _, ext := range c.Extensions() {
		if !runtimeNames[c.Engines[ext]] {
			return fmt.Errorf("unknown runtime %q for %s scripts", c.Engines[ext], ext)
		}
	}
	if _, ok := c.Engines[c.DefaultEngine]; !ok {
		return fmt.Errorf("default engine %q has no runtime", c.DefaultEngine)
	}
	return nil
}

// Extensions returns the configured script extensions in lexical order.
func (c Config) Extensions() []string {
	exts := make([]string, 0, len(c.Engines))
	for ext := range c.Engines {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// BridgeOptions returns the bridge options derived from the configuration.
// Engine factories are wired by the caller.
func (c Config) BridgeOptions() []func(*Bridge) {
	return []func(*Bridge){
		WithMainScriptsDir(c.MainScriptsDir),
		WithSideScriptsDir(c.SideScriptsDir),
		WithDefaultEngine(c.DefaultEngine),
	}
}
