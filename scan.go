// Copyright 2025 Brian Wang <wangbuke@gmail.com>
// SPDX-License-Identifier: Apache-2.0

package scriptbridge

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// scanDir lists regular files in dir whose extension is accepted, in
// lexical order. A missing directory yields nothing.
func scanDir(dir string, accept func(ext string) bool) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		if accept != nil && !accept(strings.ToLower(filepath.Ext(entry.Name()))) {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	paths := make([]string, len(names))
	for i, name := range names {
		paths[i] = filepath.Join(dir, name)
	}
	return paths
}

// ScanMainScript returns the first script in dir, or "" if there is none.
func ScanMainScript(dir string, accept func(ext string) bool) string {
	paths := scanDir(dir, accept)
	if len(paths) == 0 {
		return ""
	}
	return paths[0]
}

// ScanSideScripts returns every script in dir in discovery order.
func ScanSideScripts(dir string, accept func(ext string) bool) []string {
	return scanDir(dir, accept)
}
