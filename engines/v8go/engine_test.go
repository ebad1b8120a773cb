//go:build !windows

// Copyright 2025 Brian Wang <wangbuke@gmail.com>
// SPDX-License-Identifier: Apache-2.0

package v8engine

import (
	"errors"
	"testing"

	scriptbridge "github.com/buke/script-bridge"
	"github.com/stretchr/testify/require"
	"github.com/tommie/v8go"
)

func newTestEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	engine, err := newEngine(opts...)
	require.NoError(t, err)
	t.Cleanup(func() { engine.Close() })
	return engine
}

// TestNewEngine tests the creation of a new V8 engine.
func TestNewEngine(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		engine, err := newEngine()
		require.NoError(t, err)
		require.NotNil(t, engine)
		require.NotNil(t, engine.Iso)
		require.NotNil(t, engine.Ctx)
		engine.Close()
	})

	t.Run("Factory", func(t *testing.T) {
		engine, err := NewFactory()()
		require.NoError(t, err)
		_, ok := engine.(*Engine)
		require.True(t, ok)
		engine.Close()
	})

	t.Run("With Failing Option", func(t *testing.T) {
		expectedErr := errors.New("option failed")
		failingOption := func(e scriptbridge.ScriptEngine) error {
			return expectedErr
		}
		engine, err := newEngine(failingOption)
		require.Error(t, err)
		require.ErrorIs(t, err, expectedErr)
		require.Nil(t, engine)
	})
}

// TestNewEngine_Fails tests the failure paths of newEngine.
func TestNewEngine_Fails(t *testing.T) {
	t.Run("Isolate Creation Fails", func(t *testing.T) {
		originalNewIsolate := v8NewIsolate
		v8NewIsolate = func() *v8go.Isolate {
			return nil
		}
		defer func() {
			v8NewIsolate = originalNewIsolate
		}()

		_, err := newEngine()
		require.Error(t, err)
		require.Contains(t, err.Error(), "failed to create v8 isolate")
	})

	t.Run("Context Creation Fails", func(t *testing.T) {
		originalNewContext := v8NewContext
		v8NewContext = func(opt ...v8go.ContextOption) *v8go.Context {
			return nil
		}
		defer func() {
			v8NewContext = originalNewContext
		}()

		_, err := newEngine()
		require.Error(t, err)
		require.Contains(t, err.Error(), "failed to create v8 context")
	})
}

func TestEngine_Load(t *testing.T) {
	engine := newTestEngine(t)

	require.NoError(t, engine.Load(&scriptbridge.Script{FileName: "test.js", Content: "var a = 10;"}))
	val, err := engine.Ctx.Global().Get("a")
	require.NoError(t, err)
	require.Equal(t, int32(10), val.Int32())

	err = engine.Load(&scriptbridge.Script{FileName: "error.js", Content: "var a =;"})
	require.Error(t, err)
	var scriptErr *scriptbridge.ScriptError
	require.True(t, errors.As(err, &scriptErr))
	require.Equal(t, "error.js", scriptErr.FileName)
}

func TestEngine_HasFunction(t *testing.T) {
	engine := newTestEngine(t)
	require.NoError(t, engine.Load(&scriptbridge.Script{FileName: "h.js", Content: `
		function handler() {}
		var notAFunction = 5;
	`}))

	require.True(t, engine.HasFunction("handler"))
	require.False(t, engine.HasFunction("notAFunction"))
	require.False(t, engine.HasFunction("missing"))
}

func TestEngine_Call(t *testing.T) {
	engine := newTestEngine(t)
	require.NoError(t, engine.Load(&scriptbridge.Script{FileName: "test.js", Content: `
		function hello(name) { return "Hello, " + name; }
		function fail() { throw new Error("a serious error"); }
		function nothing() {}
		function pick(which) {
			switch (which) {
			case 0: return true;
			case 1: return 3000000000;
			case 2: return 0.5;
			case 3: return "1";
			default: return null;
			}
		}
	`}))

	t.Run("Success", func(t *testing.T) {
		results, err := engine.Call("hello", []scriptbridge.Value{scriptbridge.Text("V8")})
		require.NoError(t, err)
		require.Equal(t, []scriptbridge.Value{scriptbridge.Text("Hello, V8")}, results)
	})

	t.Run("No Handler", func(t *testing.T) {
		_, err := engine.Call("missing", nil)
		require.ErrorIs(t, err, scriptbridge.ErrNoHandler)
	})

	t.Run("Throw", func(t *testing.T) {
		_, err := engine.Call("fail", nil)
		require.Error(t, err)
		require.Contains(t, err.Error(), "a serious error")
	})

	t.Run("Undefined Is Empty", func(t *testing.T) {
		results, err := engine.Call("nothing", nil)
		require.NoError(t, err)
		require.Empty(t, results)
	})

	t.Run("Decode", func(t *testing.T) {
		cases := []scriptbridge.Value{
			scriptbridge.Bool(true),
			scriptbridge.Int(3000000000),
			scriptbridge.Float(0.5),
			scriptbridge.Text("1"),
			scriptbridge.None(),
		}
		for i, expected := range cases {
			results, err := engine.Call("pick", []scriptbridge.Value{scriptbridge.Int(int64(i))})
			require.NoError(t, err)
			require.Equal(t, []scriptbridge.Value{expected}, results, "case %d", i)
		}
	})
}

func TestEngine_Bind(t *testing.T) {
	engine := newTestEngine(t)

	var got []scriptbridge.Value
	require.NoError(t, engine.Bind("record", func(args []scriptbridge.Value) []scriptbridge.Value {
		got = args
		return []scriptbridge.Value{scriptbridge.Int(1 << 40)}
	}))
	require.NoError(t, engine.Load(&scriptbridge.Script{FileName: "bind.js", Content: `
		function run() { return record("x", 1, false, null); }
	`}))

	results, err := engine.Call("run", nil)
	require.NoError(t, err)
	require.Equal(t, []scriptbridge.Value{
		scriptbridge.Text("x"),
		scriptbridge.Int(1),
		scriptbridge.Bool(false),
		scriptbridge.None(),
	}, got)
	require.Equal(t, []scriptbridge.Value{scriptbridge.Int(1 << 40)}, results)
}

// TestEngine_Close tests the Close method.
func TestEngine_Close(t *testing.T) {
	engine, err := newEngine()
	require.NoError(t, err)

	require.NoError(t, engine.Close())
	require.Nil(t, engine.Ctx)
	require.Nil(t, engine.Iso)

	// Calling Close again should be safe
	require.NoError(t, engine.Close())

	require.False(t, engine.HasFunction("anything"))
	_, err = engine.Call("anything", nil)
	require.ErrorIs(t, err, scriptbridge.ErrEngineClosed)
	require.ErrorIs(t, engine.Load(&scriptbridge.Script{Content: "1"}), scriptbridge.ErrEngineClosed)
	require.ErrorIs(t, engine.Bind("f", nil), scriptbridge.ErrEngineClosed)
}

// Numbers without a separate integer type come back as integers when whole.
func TestEngine_WholeFloatDecodesAsInt(t *testing.T) {
	e := newTestEngine(t)
	require.NoError(t, e.Load(&scriptbridge.Script{FileName: "echo.js", Content: `
		function echo(x) { return x; }
	`}))

	results, err := e.Call("echo", []scriptbridge.Value{scriptbridge.Float(2)})
	require.NoError(t, err)
	require.Equal(t, []scriptbridge.Value{scriptbridge.Int(2)}, results)

	results, err = e.Call("echo", []scriptbridge.Value{scriptbridge.Float(2.5)})
	require.NoError(t, err)
	require.Equal(t, []scriptbridge.Value{scriptbridge.Float(2.5)}, results)
}
