package statement

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/denizgursoy/kosu/pkg/model"
)

type recorder struct {
	calls []string
}

func (r *recorder) method(name string, err error, opts ...model.MethodOption) *model.Method {
	return model.NewMethod(name, func(any, ...any) (any, error) {
		r.calls = append(r.calls, name)
		return nil, err
	}, opts...)
}

func (r *recorder) rule(name string) model.TestRule {
	return model.RuleFunc(func(base model.Statement, _ *model.Description) model.Statement {
		return func() error {
			r.calls = append(r.calls, name+":start")
			err := base()
			r.calls = append(r.calls, name+":end")
			return err
		}
	})
}

func newSpec(t *testing.T, methods ...*model.Method) *model.Specification {
	t.Helper()
	spec, err := model.NewSpecification(model.Definition{
		Name:   "Calc",
		Sorter: model.SortDeclaration,
		New:    func() (any, error) { return struct{}{}, nil },
		Types:  []model.TypeDecl{{Name: "Calc", Methods: methods}},
	})
	require.NoError(t, err)
	return spec
}

// =============================================================================
// Build Tests
// =============================================================================

func TestBuild(t *testing.T) {
	t.Run("first layer is innermost", func(t *testing.T) {
		var calls []string
		wrap := func(name string) Layer {
			return Layer{Name: name, Wrap: func(next model.Statement) model.Statement {
				return func() error {
					calls = append(calls, name)
					return next()
				}
			}}
		}

		s := Build(func() error { calls = append(calls, "base"); return nil }, wrap("inner"), wrap("outer"))
		require.NoError(t, s())
		require.Equal(t, []string{"outer", "inner", "base"}, calls)
	})

	t.Run("skips empty layers", func(t *testing.T) {
		s := Build(Fail(errors.New("boom")), Layer{Name: "empty"}, Timeout(0), Expect(nil, nil))
		require.EqualError(t, s(), "boom")
	})
}

func TestEvaluate(t *testing.T) {
	err := Evaluate(func() error { panic("kaboom") })
	var panicErr *model.PanicError
	require.ErrorAs(t, err, &panicErr)
	require.Equal(t, "kaboom", panicErr.Value)
}

// =============================================================================
// Hooks Tests
// =============================================================================

func TestHooks(t *testing.T) {
	t.Run("post-hook runs after failing action and failures are kept", func(t *testing.T) {
		rec := &recorder{}
		actionErr := errors.New("action failed")
		hookErr := errors.New("after failed")
		spec := newSpec(t,
			rec.method("setUp", nil, model.WithRoles(model.RoleBefore)),
			rec.method("tearDown", hookErr, model.WithRoles(model.RoleAfter)),
		)
		action := rec.method("action", actionErr, model.WithRoles(model.RoleTest))

		err := ForMethod(spec, action, nil, nil, 0)()
		require.Equal(t, []string{"setUp", "action", "tearDown"}, rec.calls)

		var multi *model.MultipleFailureError
		require.ErrorAs(t, err, &multi)
		require.Equal(t, []error{actionErr, hookErr}, multi.Errors)
	})

	t.Run("failing action alone is reported as is", func(t *testing.T) {
		rec := &recorder{}
		actionErr := errors.New("action failed")
		spec := newSpec(t, rec.method("tearDown", nil, model.WithRoles(model.RoleAfter)))

		err := ForMethod(spec, rec.method("action", actionErr), nil, nil, 0)()
		require.Same(t, actionErr, err)
	})

	t.Run("failing pre-hook skips action but not post-hooks", func(t *testing.T) {
		rec := &recorder{}
		setUpErr := errors.New("setUp failed")
		spec := newSpec(t,
			rec.method("setUp", setUpErr, model.WithRoles(model.RoleBefore)),
			rec.method("tearDown", nil, model.WithRoles(model.RoleAfter)),
		)

		err := ForMethod(spec, rec.method("action", nil), nil, nil, 0)()
		require.Same(t, setUpErr, err)
		require.Equal(t, []string{"setUp", "tearDown"}, rec.calls)
	})

	t.Run("first failing pre-hook stops the rest", func(t *testing.T) {
		rec := &recorder{}
		befores := []*model.Method{rec.method("b1", errors.New("b1 failed")), rec.method("b2", nil)}

		err := RunBefores(InvokeMethod(rec.method("action", nil), nil), befores, nil)()
		require.EqualError(t, err, "b1 failed")
		require.Equal(t, []string{"b1"}, rec.calls)
	})

	t.Run("every post-hook runs even when the action panics", func(t *testing.T) {
		rec := &recorder{}
		first := errors.New("first")
		second := errors.New("second")
		afters := []*model.Method{rec.method("a1", first), rec.method("a2", second)}

		err := RunAfters(func() error { panic("boom") }, afters, nil)()
		require.Equal(t, []string{"a1", "a2"}, rec.calls)

		var multi *model.MultipleFailureError
		require.ErrorAs(t, err, &multi)
		require.Len(t, multi.Errors, 3)
		require.IsType(t, &model.PanicError{}, multi.Errors[0])
	})

	t.Run("class hooks wrap the children", func(t *testing.T) {
		rec := &recorder{}
		spec := newSpec(t,
			rec.method("init", nil, model.Static(), model.WithRoles(model.RoleBeforeClass)),
			rec.method("cleanup", nil, model.Static(), model.WithRoles(model.RoleAfterClass)),
		)
		children := func() error {
			rec.calls = append(rec.calls, "children")
			return errors.New("child failure")
		}

		err := ForClass(spec, children)()
		require.EqualError(t, err, "child failure")
		require.Equal(t, []string{"init", "children", "cleanup"}, rec.calls)
	})
}

// =============================================================================
// Timeout Tests
// =============================================================================

func TestFailOnTimeout(t *testing.T) {
	t.Run("never returning action times out", func(t *testing.T) {
		release := make(chan struct{})
		t.Cleanup(func() { close(release) })

		s := FailOnTimeout(func() error { <-release; return nil }, 50*time.Millisecond)

		start := time.Now()
		err := s()
		require.Less(t, time.Since(start), 5*time.Second)

		var timeoutErr *TimeoutError
		require.ErrorAs(t, err, &timeoutErr)
		require.Equal(t, 50*time.Millisecond, timeoutErr.Timeout)
		require.EqualError(t, err, "test timed out after 50ms")
	})

	t.Run("fast action returns its result", func(t *testing.T) {
		boom := errors.New("boom")
		require.Same(t, boom, FailOnTimeout(Fail(boom), time.Second)())
		require.NoError(t, FailOnTimeout(func() error { return nil }, time.Second)())
	})

	t.Run("panic in action is reported", func(t *testing.T) {
		err := FailOnTimeout(func() error { panic("boom") }, time.Second)()
		require.IsType(t, &model.PanicError{}, err)
	})

	t.Run("method timeout overrides the default", func(t *testing.T) {
		release := make(chan struct{})
		t.Cleanup(func() { close(release) })

		spec := newSpec(t)
		method := model.NewMethod("slow", func(any, ...any) (any, error) {
			<-release
			return nil, nil
		}, model.WithTimeout(20*time.Millisecond))

		err := ForMethod(spec, method, nil, nil, time.Hour)()
		require.IsType(t, &TimeoutError{}, err)
	})
}

// =============================================================================
// Expect Tests
// =============================================================================

var errExpected = errors.New("expected")

func TestExpectError(t *testing.T) {
	matcher := model.ErrorIs(errExpected)

	t.Run("matching failure passes", func(t *testing.T) {
		require.NoError(t, ExpectError(Fail(errExpected), matcher)())
	})

	t.Run("success fails", func(t *testing.T) {
		err := ExpectError(func() error { return nil }, matcher)()
		require.EqualError(t, err, "expected error: expected")
	})

	t.Run("wrong failure fails and keeps the cause", func(t *testing.T) {
		wrong := errors.New("wrong")
		err := ExpectError(Fail(wrong), matcher)()

		var expectation *ExpectationError
		require.ErrorAs(t, err, &expectation)
		require.ErrorIs(t, err, wrong)
		require.Equal(t, "unexpected error, expected<expected> but was<wrong>", err.Error())
	})

	t.Run("assumption violations pass through", func(t *testing.T) {
		assumption := &model.AssumptionViolatedError{Message: "offline"}
		require.Same(t, assumption, ExpectError(Fail(assumption), matcher)())
	})

	t.Run("expected assumption matches", func(t *testing.T) {
		assumption := &model.AssumptionViolatedError{Message: "offline"}
		m := model.ErrorOfType[*model.AssumptionViolatedError]()
		require.NoError(t, ExpectError(Fail(assumption), m)())
	})

	t.Run("expectation wraps the timeout", func(t *testing.T) {
		release := make(chan struct{})
		t.Cleanup(func() { close(release) })

		method := model.NewMethod("slow", func(any, ...any) (any, error) {
			<-release
			return nil, nil
		}, model.WithTimeout(10*time.Millisecond), model.Expecting(matcher))

		err := ForMethod(newSpec(t), method, nil, nil, 0)()
		var timeoutErr *TimeoutError
		require.ErrorAs(t, err, &timeoutErr)
		require.IsType(t, &ExpectationError{}, err)
	})
}

func TestExpectError_WithHooks(t *testing.T) {
	matcher := model.ErrorIs(errExpected)

	t.Run("failing post-hook is kept when the test fails as expected", func(t *testing.T) {
		rec := &recorder{}
		hookErr := errors.New("after failed")
		spec := newSpec(t, rec.method("tearDown", hookErr, model.WithRoles(model.RoleAfter)))

		err := ForMethod(spec, rec.method("test", errExpected, model.Expecting(matcher)), nil, nil, 0)()
		require.Equal(t, []string{"test", "tearDown"}, rec.calls)
		require.Same(t, hookErr, err)
	})

	t.Run("post-hook failing with the expected error does not rescue the test", func(t *testing.T) {
		rec := &recorder{}
		wrong := errors.New("wrong")
		spec := newSpec(t, rec.method("tearDown", errExpected, model.WithRoles(model.RoleAfter)))

		err := ForMethod(spec, rec.method("test", wrong, model.Expecting(matcher)), nil, nil, 0)()

		var multi *model.MultipleFailureError
		require.ErrorAs(t, err, &multi)
		require.Len(t, multi.Errors, 2)
		require.IsType(t, &ExpectationError{}, multi.Errors[0])
		require.ErrorIs(t, multi.Errors[0], wrong)
		require.Same(t, errExpected, multi.Errors[1])
	})

	t.Run("passing test with failing post-hook reports both", func(t *testing.T) {
		rec := &recorder{}
		hookErr := errors.New("after failed")
		spec := newSpec(t, rec.method("tearDown", hookErr, model.WithRoles(model.RoleAfter)))

		err := ForMethod(spec, rec.method("test", nil, model.Expecting(matcher)), nil, nil, 0)()

		var multi *model.MultipleFailureError
		require.ErrorAs(t, err, &multi)
		require.Len(t, multi.Errors, 2)
		require.EqualError(t, multi.Errors[0], "expected error: expected")
		require.Same(t, hookErr, multi.Errors[1])
	})

	t.Run("pre-hook failing with the expected error fails the test", func(t *testing.T) {
		rec := &recorder{}
		spec := newSpec(t,
			rec.method("setUp", errExpected, model.WithRoles(model.RoleBefore)),
			rec.method("tearDown", nil, model.WithRoles(model.RoleAfter)),
		)

		err := ForMethod(spec, rec.method("test", nil, model.Expecting(matcher)), nil, nil, 0)()
		require.Equal(t, []string{"setUp", "tearDown"}, rec.calls)
		require.Same(t, errExpected, err)
	})

	t.Run("passing hooks keep the expectation", func(t *testing.T) {
		rec := &recorder{}
		spec := newSpec(t,
			rec.method("setUp", nil, model.WithRoles(model.RoleBefore)),
			rec.method("tearDown", nil, model.WithRoles(model.RoleAfter)),
		)

		err := ForMethod(spec, rec.method("test", errExpected, model.Expecting(matcher)), nil, nil, 0)()
		require.NoError(t, err)
		require.Equal(t, []string{"setUp", "test", "tearDown"}, rec.calls)
	})
}

// =============================================================================
// Rules Tests
// =============================================================================

func TestRunRules(t *testing.T) {
	t.Run("lowest priority is innermost and ties keep declaration order", func(t *testing.T) {
		rec := &recorder{}
		rules := []model.RuleEntry{
			{Name: "outer", Priority: 10, Rule: rec.rule("outer")},
			{Name: "first", Priority: 0, Rule: rec.rule("first")},
			{Name: "second", Priority: 0, Rule: rec.rule("second")},
		}
		base := func() error { rec.calls = append(rec.calls, "base"); return nil }

		require.NoError(t, RunRules(base, rules, nil)())
		require.Equal(t, []string{
			"outer:start", "second:start", "first:start", "base", "first:end", "second:end", "outer:end",
		}, rec.calls)
	})

	t.Run("rule may replace the outcome", func(t *testing.T) {
		swallow := model.RuleFunc(func(base model.Statement, _ *model.Description) model.Statement {
			return func() error {
				_ = base()
				return nil
			}
		})
		rules := []model.RuleEntry{{Name: "swallow", Rule: swallow}}
		require.NoError(t, RunRules(Fail(errors.New("boom")), rules, nil)())
	})

	t.Run("rules receive the description", func(t *testing.T) {
		var got *model.Description
		capture := model.RuleFunc(func(base model.Statement, d *model.Description) model.Statement {
			got = d
			return base
		})
		d := model.CreateTestDescription("Calc", "adds")
		_ = RunRules(func() error { return nil }, []model.RuleEntry{{Rule: capture}}, d)
		require.Same(t, d, got)
	})
}
