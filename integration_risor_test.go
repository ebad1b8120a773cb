// Copyright 2025 Brian Wang <wangbuke@gmail.com>
// SPDX-License-Identifier: Apache-2.0

package scriptbridge_test

import (
	"testing"

	risorengine "github.com/buke/script-bridge/engines/risor"
)

var risorScenario = scenario{
	ext: ".risor",
	main: `
func OnPlayerRequestSpawn(playerid) {
	return playerid != 3
}

func OnPlayerConnect(playerid) {
	print("hello", playerid, true)
}
`,
	admin: `
func OnPlayerCommandText(playerid, cmdtext) {
	return cmdtext == "/ban"
}
`,
	broken: `func OnPlayerSpawn(playerid {`,
	faulty: `
func OnPlayerSpawn(playerid) {
	return error("kaboom")
}
`,
	counter: `
spawns := 0
func OnPlayerSpawn(playerid) {
	spawns = spawns + 1
	print("spawned", spawns)
}
`,
}

func TestIntegration_Risor(t *testing.T) {
	runScenario(t, risorScenario, risorengine.NewFactory(risorengine.WithBuiltins()))
}
