package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func noop(any, ...any) (any, error) { return nil, nil }

// =============================================================================
// IsShadowedBy Tests
// =============================================================================

func TestIsShadowedBy(t *testing.T) {
	t.Run("same name and parameters shadow", func(t *testing.T) {
		base := NewMethod("run", noop, WithParams("int", "string"))
		derived := NewMethod("run", noop, WithParams("int", "string"))
		require.True(t, base.IsShadowedBy(derived))
	})

	t.Run("different name does not shadow", func(t *testing.T) {
		base := NewMethod("run", noop)
		derived := NewMethod("walk", noop)
		require.False(t, base.IsShadowedBy(derived))
	})

	t.Run("parameter order matters", func(t *testing.T) {
		base := NewMethod("run", noop, WithParams("int", "string"))
		derived := NewMethod("run", noop, WithParams("string", "int"))
		require.False(t, base.IsShadowedBy(derived))
	})

	t.Run("parameter types must match exactly", func(t *testing.T) {
		base := NewMethod("run", noop, WithParams("any"))
		derived := NewMethod("run", noop, WithParams("string"))
		require.False(t, base.IsShadowedBy(derived))
	})

	t.Run("static members are never shadowed", func(t *testing.T) {
		base := NewMethod("setUpClass", noop, Static())
		derived := NewMethod("setUpClass", noop, Static())
		require.False(t, base.IsShadowedBy(derived))
	})
}

// =============================================================================
// HandlePossibleBridgeMethod Tests
// =============================================================================

func TestHandlePossibleBridgeMethod(t *testing.T) {
	t.Run("accepts candidate when nothing shadows it", func(t *testing.T) {
		accepted := []*Method{NewMethod("other", noop)}
		candidate := NewMethod("run", noop)

		use, remaining := candidate.HandlePossibleBridgeMethod(accepted)
		require.Same(t, candidate, use)
		require.Equal(t, accepted, remaining)
	})

	t.Run("discards candidate shadowed by a regular override", func(t *testing.T) {
		override := NewMethod("run", noop, DeclaredIn("Derived"))
		candidate := NewMethod("run", noop, DeclaredIn("Base"))

		use, remaining := candidate.HandlePossibleBridgeMethod([]*Method{override})
		require.Nil(t, use)
		require.Equal(t, []*Method{override}, remaining)
	})

	t.Run("substitutes a shadowing bridge", func(t *testing.T) {
		other := NewMethod("other", noop)
		bridge := NewMethod("run", noop, DeclaredIn("Derived"), Bridge())
		candidate := NewMethod("run", noop, DeclaredIn("Base"))

		use, remaining := candidate.HandlePossibleBridgeMethod([]*Method{other, bridge})
		require.Same(t, bridge, use)
		require.Equal(t, []*Method{other}, remaining)
	})

	t.Run("first match scanning backwards decides", func(t *testing.T) {
		bridge := NewMethod("run", noop, Bridge())
		override := NewMethod("run", noop)
		candidate := NewMethod("run", noop)

		use, remaining := candidate.HandlePossibleBridgeMethod([]*Method{bridge, override})
		require.Nil(t, use)
		require.Len(t, remaining, 2)
	})

	t.Run("does not modify the accepted slice", func(t *testing.T) {
		bridge := NewMethod("run", noop, Bridge())
		accepted := []*Method{bridge}

		_, remaining := NewMethod("run", noop).HandlePossibleBridgeMethod(accepted)
		require.Empty(t, remaining)
		require.Len(t, accepted, 1)
		require.Same(t, bridge, accepted[0])
	})
}

// =============================================================================
// InvokeExplosively Tests
// =============================================================================

func TestInvokeExplosively(t *testing.T) {
	t.Run("returns invoker result", func(t *testing.T) {
		m := NewMethod("sum", func(subject any, args ...any) (any, error) {
			return args[0].(int) + args[1].(int), nil
		})
		result, err := m.InvokeExplosively(nil, 1, 2)
		require.NoError(t, err)
		require.Equal(t, 3, result)
	})

	t.Run("returns invoker error", func(t *testing.T) {
		boom := errors.New("boom")
		m := NewMethod("fail", func(any, ...any) (any, error) { return nil, boom })
		_, err := m.InvokeExplosively(nil)
		require.ErrorIs(t, err, boom)
	})

	t.Run("normalizes panics", func(t *testing.T) {
		m := NewMethod("explode", func(any, ...any) (any, error) { panic("kaboom") })
		_, err := m.InvokeExplosively(nil)

		var panicErr *PanicError
		require.ErrorAs(t, err, &panicErr)
		require.Equal(t, "kaboom", panicErr.Value)
		require.NotEmpty(t, panicErr.Stack)
	})

	t.Run("panics with errors stay matchable", func(t *testing.T) {
		boom := errors.New("boom")
		m := NewMethod("explode", func(any, ...any) (any, error) { panic(boom) })
		_, err := m.InvokeExplosively(nil)
		require.ErrorIs(t, err, boom)
	})

	t.Run("missing invoker", func(t *testing.T) {
		_, err := NewMethod("empty", nil).InvokeExplosively(nil)
		require.EqualError(t, err, "method empty has no invoker")
	})
}

func TestErrorMatchers(t *testing.T) {
	boom := errors.New("boom")

	t.Run("ErrorIs", func(t *testing.T) {
		matcher := ErrorIs(boom)
		require.True(t, matcher.Match(boom))
		require.True(t, matcher.Match(errors.Join(errors.New("x"), boom)))
		require.False(t, matcher.Match(errors.New("boom")))
		require.Equal(t, "boom", matcher.String())
	})

	t.Run("ErrorOfType", func(t *testing.T) {
		matcher := ErrorOfType[*AssumptionViolatedError]()
		require.True(t, matcher.Match(&AssumptionViolatedError{}))
		require.False(t, matcher.Match(boom))
		require.Equal(t, "*model.AssumptionViolatedError", matcher.String())
	})
}
