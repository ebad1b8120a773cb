// Copyright 2025 Brian Wang <wangbuke@gmail.com>
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"

	scriptbridge "github.com/buke/script-bridge"
)

func v8Factory(cfg scriptbridge.Config) (scriptbridge.EngineFactory, error) {
	return nil, fmt.Errorf("the v8 runtime is not available on windows")
}
