// Copyright 2025 Brian Wang <wangbuke@gmail.com>
// SPDX-License-Identifier: Apache-2.0

package scriptbridge

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestContext(t *testing.T, sink Sink) *ScriptContext {
	t.Helper()
	registry := NewRegistry(nil, nil, sink, nil)
	return newScriptContext(registry, 1, "", false)
}

func TestScriptContext_Names(t *testing.T) {
	registry := NewRegistry(nil, nil, &recordingSink{}, nil)

	primary := newScriptContext(registry, 1, "/scripts/main/gamemode.lua", true)
	require.Equal(t, "main", primary.Name())
	require.True(t, primary.Primary())
	require.Equal(t, uint32(1), primary.ID())

	side := newScriptContext(registry, 2, "/scripts/side/admin.lua", false)
	require.Equal(t, "admin.lua", side.Name())
	require.False(t, side.Primary())
	require.Equal(t, "/scripts/side/admin.lua", side.Origin())
	require.Equal(t, StateUninitialized, side.State())
}

func TestScriptContext_Create(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		ctx := newTestContext(t, &recordingSink{})
		require.NoError(t, ctx.create(mockFactory(nil, nil)))
		require.Equal(t, StateLive, ctx.State())

		err := ctx.create(mockFactory(nil, nil))
		require.Error(t, err)
	})

	t.Run("Nil Factory", func(t *testing.T) {
		ctx := newTestContext(t, &recordingSink{})
		require.ErrorIs(t, ctx.create(nil), ErrNoEngine)
		require.Equal(t, StateUninitialized, ctx.State())
	})

	t.Run("Factory Error", func(t *testing.T) {
		ctx := newTestContext(t, &recordingSink{})
		err := ctx.create(func() (ScriptEngine, error) { return nil, errors.New("out of memory") })
		require.Error(t, err)
		require.Contains(t, err.Error(), "out of memory")
		require.Equal(t, StateUninitialized, ctx.State())
	})

	t.Run("Factory Panic", func(t *testing.T) {
		ctx := newTestContext(t, &recordingSink{})
		err := ctx.create(func() (ScriptEngine, error) { panic("runtime exploded") })
		require.Error(t, err)
		require.Contains(t, err.Error(), "runtime exploded")
	})

	t.Run("Nil Engine", func(t *testing.T) {
		ctx := newTestContext(t, &recordingSink{})
		err := ctx.create(func() (ScriptEngine, error) { return nil, nil })
		require.Error(t, err)
	})
}

func TestScriptContext_LoadSource(t *testing.T) {
	paths := writeScripts(t, t.TempDir(), "good.lua", "bad.lua")
	scripts := map[string]mockScript{
		"good.lua": func(m *mockEngine) error {
			m.on("OnPlayerConnect", Bool(true))
			return nil
		},
		"bad.lua": func(m *mockEngine) error {
			m.on("OnPlayerSpawn")
			return errors.New("syntax error near 'end'")
		},
	}

	t.Run("Success", func(t *testing.T) {
		sink := &recordingSink{}
		ctx := newTestContext(t, sink)
		require.NoError(t, ctx.create(mockFactory(scripts, nil)))

		require.NoError(t, ctx.LoadSource(paths[0]))
		require.Equal(t, paths[0], ctx.Origin())
		require.True(t, ctx.HasHandler("OnPlayerConnect"))
		require.Empty(t, sink.Lines())
	})

	t.Run("Script Error Keeps Context Live", func(t *testing.T) {
		sink := &recordingSink{}
		ctx := newTestContext(t, sink)
		require.NoError(t, ctx.create(mockFactory(scripts, nil)))

		err := ctx.LoadSource(paths[1])
		require.Error(t, err)
		var scriptErr *ScriptError
		require.True(t, errors.As(err, &scriptErr))
		require.True(t, sink.Contains("syntax error near 'end'"))
		require.Equal(t, StateLive, ctx.State())
		require.True(t, ctx.HasHandler("OnPlayerSpawn"))
	})

	t.Run("Missing File", func(t *testing.T) {
		sink := &recordingSink{}
		ctx := newTestContext(t, sink)
		require.NoError(t, ctx.create(mockFactory(scripts, nil)))

		missing := filepath.Join(t.TempDir(), "missing.lua")
		require.Error(t, ctx.LoadSource(missing))
		require.True(t, sink.Contains("failed to read script"))
		require.Equal(t, StateLive, ctx.State())
	})

	t.Run("Load Panic", func(t *testing.T) {
		sink := &recordingSink{}
		ctx := newTestContext(t, sink)
		require.NoError(t, ctx.create(mockFactory(map[string]mockScript{
			"good.lua": func(m *mockEngine) error { panic("loader bug") },
		}, nil)))

		err := ctx.LoadSource(paths[0])
		require.Error(t, err)
		require.Contains(t, err.Error(), "loader bug")
	})

	t.Run("Not Live", func(t *testing.T) {
		ctx := newTestContext(t, &recordingSink{})
		require.ErrorIs(t, ctx.LoadSource(paths[0]), ErrContextClosed)
	})
}

func TestScriptContext_Invoke(t *testing.T) {
	sink := &recordingSink{}
	ctx := newTestContext(t, sink)
	var engines []*mockEngine
	require.NoError(t, ctx.create(mockFactory(nil, &engines)))
	engine := engines[0]

	engine.on("Allow", Bool(true))
	engine.on("Nothing")
	engine.handlers["Fail"] = func([]Value) ([]Value, error) {
		return nil, &ScriptError{FileName: "side.lua", Message: "attempt to index a nil value"}
	}
	engine.handlers["Panic"] = func([]Value) ([]Value, error) { panic("handler bug") }

	result, status := ctx.Invoke("Allow", nil)
	require.Equal(t, InvokeOK, status)
	require.Equal(t, Result{Bool(true)}, result)

	result, status = ctx.Invoke("Nothing", nil)
	require.Equal(t, InvokeOK, status)
	require.True(t, result.Empty())

	_, status = ctx.Invoke("Missing", nil)
	require.Equal(t, InvokeNoHandler, status)

	_, status = ctx.Invoke("Fail", nil)
	require.Equal(t, InvokeFailed, status)
	require.True(t, sink.Contains("side.lua: attempt to index a nil value"))

	_, status = ctx.Invoke("Panic", nil)
	require.Equal(t, InvokeFailed, status)
	require.True(t, sink.Contains("handler bug"))

	// The context survives handler failures.
	_, status = ctx.Invoke("Allow", nil)
	require.Equal(t, InvokeOK, status)

	require.NoError(t, ctx.Close())
	_, status = ctx.Invoke("Allow", nil)
	require.Equal(t, InvokeRejected, status)
	require.False(t, ctx.HasHandler("Allow"))
}

func TestScriptContext_Close(t *testing.T) {
	ctx := newTestContext(t, &recordingSink{})
	var engines []*mockEngine
	require.NoError(t, ctx.create(mockFactory(nil, &engines)))

	require.NoError(t, ctx.Close())
	require.NoError(t, ctx.Close())
	require.Equal(t, StateDestroyed, ctx.State())
	require.Equal(t, 1, engines[0].closeCalls)
}

func TestScriptContext_Close_Error(t *testing.T) {
	ctx := newTestContext(t, &recordingSink{})
	var engines []*mockEngine
	require.NoError(t, ctx.create(mockFactory(nil, &engines)))
	engines[0].closeErr = errors.New("close failed")

	require.Error(t, ctx.Close())
	require.Equal(t, StateDestroyed, ctx.State())
	require.NoError(t, ctx.Close())
}

func TestScriptContext_Close_Uninitialized(t *testing.T) {
	ctx := newTestContext(t, &recordingSink{})
	require.NoError(t, ctx.Close())
	require.Equal(t, StateDestroyed, ctx.State())
	require.Error(t, ctx.create(mockFactory(nil, nil)))
}

func TestScriptContext_Bind(t *testing.T) {
	ctx := newTestContext(t, &recordingSink{})
	require.ErrorIs(t, ctx.bind(DefaultNatives()), ErrContextClosed)

	var engines []*mockEngine
	require.NoError(t, ctx.create(mockFactory(nil, &engines)))
	engines[0].bindErr = errors.New("read-only globals")

	err := ctx.bind(DefaultNatives())
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to bind print")
}

func TestStates_String(t *testing.T) {
	require.Equal(t, "uninitialized", StateUninitialized.String())
	require.Equal(t, "live", StateLive.String())
	require.Equal(t, "destroyed", StateDestroyed.String())
	require.Equal(t, "unknown", ContextState(9).String())

	require.Equal(t, "ok", InvokeOK.String())
	require.Equal(t, "no handler", InvokeNoHandler.String())
	require.Equal(t, "failed", InvokeFailed.String())
	require.Equal(t, "rejected", InvokeRejected.String())
	require.Equal(t, "unknown", InvokeStatus(9).String())
}
