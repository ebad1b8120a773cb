// Copyright 2025 Brian Wang <wangbuke@gmail.com>
// SPDX-License-Identifier: Apache-2.0

package risorengine

import (
	"testing"
	"time"

	scriptbridge "github.com/buke/script-bridge"
	"github.com/stretchr/testify/require"
)

func TestWithBuiltins(t *testing.T) {
	e := newTestEngine(t, WithBuiltins())
	require.True(t, e.Option.Builtins)

	require.NoError(t, e.Load(&scriptbridge.Script{FileName: "len.risor", Content: `
		func size(s) { return len(s) }
	`}))
	results, err := e.Call("size", []scriptbridge.Value{scriptbridge.Text("abc")})
	require.NoError(t, err)
	require.Equal(t, []scriptbridge.Value{scriptbridge.Int(3)}, results)
}

func TestWithoutBuiltins(t *testing.T) {
	e := newTestEngine(t)
	require.False(t, e.Option.Builtins)
	require.Empty(t, e.globals)
}

func TestWithCallTimeout(t *testing.T) {
	e := newTestEngine(t, WithCallTimeout(time.Second))
	require.Equal(t, time.Second, e.Option.CallTimeout)

	_, err := newEngine(WithCallTimeout(-time.Second))
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid call timeout")
}

type otherEngine struct{ scriptbridge.ScriptEngine }

func TestOptions_InvalidEngineType(t *testing.T) {
	for _, opt := range []Option{WithBuiltins(), WithCallTimeout(0)} {
		err := opt(&otherEngine{})
		require.Error(t, err)
		require.Contains(t, err.Error(), "invalid engine type")
	}
}
