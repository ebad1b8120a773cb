// Copyright 2025 Brian Wang <wangbuke@gmail.com>
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fsnotify/fsnotify"
)

const debounceDelay = 500 * time.Millisecond

// watchScripts watches the script directories and requests a reload once
// changes to script files settle. The reload itself runs on the host loop.
func watchScripts(ctx context.Context, dirs []string, accept func(name string) bool, reload chan<- struct{}, logger *slog.Logger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}

	watched := 0
	for _, dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			logger.Warn("Not watching script directory", "dir", dir, "error", err)
			continue
		}
		watched++
	}
	if watched == 0 {
		_ = watcher.Close()
		return fmt.Errorf("no script directory could be watched")
	}

	go func() {
		defer func() { _ = watcher.Close() }()

		var timer *time.Timer
		for {
			select {
			case <-ctx.Done():
				if timer != nil {
					timer.Stop()
				}
				return

			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !accept(event.Name) {
					continue
				}
				if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
					continue
				}
				logger.Debug("Script changed", "file", event.Name, "op", event.Op.String())

				if timer != nil {
					timer.Stop()
				}
				timer = time.AfterFunc(debounceDelay, func() {
					select {
					case reload <- struct{}{}:
					default: // A reload is already pending
					}
				})

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Error("File watcher error", "error", err)
			}
		}
	}()

	return nil
}
