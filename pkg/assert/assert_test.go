package assert

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/denizgursoy/kosu/pkg/model"
	"github.com/denizgursoy/kosu/pkg/statement"
)

func TestCheck(t *testing.T) {
	t.Run("returns nil when assertions hold", func(t *testing.T) {
		err := Check(func(a *Assert) {
			a.Equal(2, 1+1)
			a.True(true)
			a.NoError(nil)
		})
		require.NoError(t, err)
	})

	t.Run("returns the first failed assertion", func(t *testing.T) {
		reached := false
		err := Check(func(a *Assert) {
			a.Equal(2, 3, "cart size")
			reached = true
		})

		var assertionErr *model.AssertionError
		require.ErrorAs(t, err, &assertionErr)
		require.Contains(t, assertionErr.Message, "Not equal")
		require.Contains(t, assertionErr.Message, "cart size")
		require.False(t, reached)
	})

	t.Run("supports every require assertion", func(t *testing.T) {
		boom := errors.New("boom")
		err := Check(func(a *Assert) {
			a.ErrorIs(errors.Join(boom), boom)
			a.Len([]int{1, 2}, 2)
			a.Contains("kosu", "os")
			a.Nil(nil)
		})
		require.NoError(t, err)
	})

	t.Run("does not swallow other panics", func(t *testing.T) {
		require.PanicsWithValue(t, "bug", func() {
			_ = Check(func(*Assert) { panic("bug") })
		})
	})
}

func TestAssert_InsideTests(t *testing.T) {
	failing := func() error {
		New().Equal("paid", "pending")
		return nil
	}

	t.Run("fails a method without a panic stack", func(t *testing.T) {
		method := model.NewMethod("pays", func(any, ...any) (any, error) {
			return nil, failing()
		})

		_, err := method.InvokeExplosively(nil)

		var assertionErr *model.AssertionError
		require.ErrorAs(t, err, &assertionErr)
		var panicErr *model.PanicError
		require.False(t, errors.As(err, &panicErr))
	})

	t.Run("fails an evaluated statement", func(t *testing.T) {
		err := statement.Evaluate(failing)
		require.IsType(t, &model.AssertionError{}, err)
		require.Contains(t, err.Error(), "Not equal")
	})

	t.Run("assertions are independent", func(t *testing.T) {
		first := Check(func(a *Assert) { a.Fail("first") })
		second := Check(func(a *Assert) { a.Fail("second") })

		require.NotContains(t, second.Error(), "first")
		require.Contains(t, first.Error(), "first")
	})
}
