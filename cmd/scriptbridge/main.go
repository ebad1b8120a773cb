// Copyright 2025 Brian Wang <wangbuke@gmail.com>
// SPDX-License-Identifier: Apache-2.0

// Command scriptbridge loads a script deployment and feeds it host events
// typed on stdin, one per line:
//
//	OnPlayerConnect 0
//	OnPlayerText 0 hello world
//
// It stands in for the game server while developing gamemode scripts.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	scriptbridge "github.com/buke/script-bridge"
	"github.com/fatih/color"
)

type options struct {
	ConfigFile string
	MainDir    string
	SideDir    string
	Watch      bool
}

func main() {
	opts := parseFlags()

	cfg, err := loadConfig(opts)
	if err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.Log, os.Stderr)

	bridgeOpts, err := engineOptions(cfg)
	if err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
	bridgeOpts = append(bridgeOpts, cfg.BridgeOptions()...)
	bridgeOpts = append(bridgeOpts,
		scriptbridge.WithLogger(logger),
		scriptbridge.WithSink(scriptbridge.SinkFunc(func(text string) {
			fmt.Fprintln(os.Stdout, text)
		})),
	)

	bridge, err := scriptbridge.NewBridge(bridgeOpts...)
	if err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}

	color.Blue("Main scripts: %s", cfg.MainScriptsDir)
	color.Blue("Side scripts: %s", cfg.SideScriptsDir)
	if err := bridge.Start(); err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reload := make(chan struct{}, 1)
	if cfg.Watch {
		accept := extensionFilter(bridge.Extensions())
		dirs := []string{cfg.MainScriptsDir, cfg.SideScriptsDir}
		if err := watchScripts(ctx, dirs, accept, reload, logger); err != nil {
			logger.Error("Failed to watch script directories", "error", err)
		} else {
			color.Green("Watching script directories for changes")
		}
	}

	h := newHost(bridge, os.Stdout)
	h.run(ctx, readLines(os.Stdin), reload)

	if err := bridge.Stop(); err != nil {
		logger.Error("Failed to stop bridge", "error", err)
		os.Exit(1)
	}
}

func parseFlags() *options {
	opts := &options{}

	flag.StringVar(&opts.ConfigFile, "config", "", "Path to the YAML configuration file (optional)")
	flag.StringVar(&opts.ConfigFile, "c", "", "Path to the YAML configuration file (shorthand)")
	flag.StringVar(&opts.MainDir, "main", "", "Directory holding the main script (overrides the configuration)")
	flag.StringVar(&opts.SideDir, "side", "", "Directory holding side scripts (overrides the configuration)")
	flag.BoolVar(&opts.Watch, "watch", false, "Reload scripts when files change")
	flag.BoolVar(&opts.Watch, "w", false, "Reload scripts when files change (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `Script bridge host simulator

Usage: %s [options]

Reads one host event per line from stdin and dispatches it to the loaded
scripts. Arguments follow the event parameters; a trailing text parameter
takes the rest of the line.

Examples:
  OnPlayerConnect 0
  OnPlayerText 0 hello world
  OnPlayerTakeDamage 0 -1 12.5 54 3

Commands:
  events     List the host events and their parameters
  contexts   List the loaded script contexts
  reload     Unload every script and load them again
  quit       Stop the bridge and exit

Options:
`, os.Args[0])
		flag.PrintDefaults()
	}

	flag.Parse()
	return opts
}

// loadConfig reads the configuration file, if any, and applies flag overrides.
func loadConfig(opts *options) (scriptbridge.Config, error) {
	cfg := scriptbridge.DefaultConfig()
	if opts.ConfigFile != "" {
		var err error
		if cfg, err = scriptbridge.LoadConfig(opts.ConfigFile); err != nil {
			return cfg, err
		}
	}
	if opts.MainDir != "" {
		cfg.MainScriptsDir = opts.MainDir
	}
	if opts.SideDir != "" {
		cfg.SideScriptsDir = opts.SideDir
	}
	if opts.Watch {
		cfg.Watch = true
	}
	return cfg, nil
}
