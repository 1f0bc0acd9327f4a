package statement

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/denizgursoy/kosu/pkg/model"
)

// ExpectationError reports a test that did not fail the way it declared.
// Actual is nil when the test passed.
type ExpectationError struct {
	Expected string
	Actual   error
}

func (e *ExpectationError) Error() string {
	if e.Actual == nil {
		return "expected error: " + e.Expected
	}
	return fmt.Sprintf("unexpected error, expected<%s> but was<%v>", e.Expected, e.Actual)
}

func (e *ExpectationError) Unwrap() error {
	return e.Actual
}

// Action records the outcome of the primary action of a chain, so the
// expectation wrapping the whole chain judges the action alone.
type Action struct {
	mu       sync.Mutex
	started  bool
	finished bool
	err      error
}

// Track returns s recording its outcome in a.
func (a *Action) Track(s model.Statement) model.Statement {
	return func() error {
		a.mu.Lock()
		a.started = true
		a.mu.Unlock()

		err := Evaluate(s)

		a.mu.Lock()
		a.finished = true
		a.err = err
		a.mu.Unlock()
		return err
	}
}

func (a *Action) state() (started, finished bool, err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.started, a.finished, a.err
}

// ExpectError turns a failure matching matcher into success, and success or
// any other failure into *ExpectationError. Assumption violations that the
// matcher does not accept pass through unchanged.
func ExpectError(next model.Statement, matcher model.ErrorMatcher) model.Statement {
	return func() error {
		return judge(Evaluate(next), matcher)
	}
}

// ExpectActionError judges only the outcome of action, which must be tracked
// inside next. Failures of hooks around the action are kept as they are:
//   - an action that never started leaves the chain error unchanged,
//   - an action cut off by a timeout has the timeout judged,
//   - otherwise the verdict on the action is reported before hook failures.
func ExpectActionError(next model.Statement, matcher model.ErrorMatcher, action *Action) model.Statement {
	return func() error {
		err := Evaluate(next)
		started, finished, actionErr := action.state()
		var timeout *TimeoutError
		switch {
		case errors.As(err, &timeout) && !finished:
			return judge(err, matcher)
		case !started:
			if err != nil {
				return err
			}
			return &ExpectationError{Expected: matcher.String()}
		case !finished:
			return judge(err, matcher)
		}

		var errs []error
		if verdict := judge(actionErr, matcher); verdict != nil {
			errs = append(errs, verdict)
		}
		errs = append(errs, without(flatten(err), actionErr)...)
		return model.CombineErrors(errs)
	}
}

func judge(err error, matcher model.ErrorMatcher) error {
	if err == nil {
		return &ExpectationError{Expected: matcher.String()}
	}
	if matcher.Match(err) {
		return nil
	}

	var assumption *model.AssumptionViolatedError
	if errors.As(err, &assumption) {
		return err
	}
	return &ExpectationError{Expected: matcher.String(), Actual: err}
}

func flatten(err error) []error {
	if err == nil {
		return nil
	}
	multi, ok := err.(*model.MultipleFailureError)
	if !ok {
		return []error{err}
	}
	var errs []error
	for _, each := range multi.Errors {
		errs = append(errs, flatten(each)...)
	}
	return errs
}

// without removes the first occurrence of target from errs.
func without(errs []error, target error) []error {
	if target == nil {
		return errs
	}
	for i, err := range errs {
		if sameError(err, target) {
			return append(errs[:i:i], errs[i+1:]...)
		}
	}
	return errs
}

func sameError(a, b error) bool {
	typ := reflect.TypeOf(a)
	if typ != reflect.TypeOf(b) || !typ.Comparable() {
		return false
	}
	return a == b
}

// Expect is the layer checking the expected error. A nil matcher disables it.
// With a non-nil action only the tracked action is judged.
func Expect(matcher model.ErrorMatcher, action *Action) Layer {
	if matcher == nil {
		return Layer{Name: "expect"}
	}
	return Layer{Name: "expect", Wrap: func(next model.Statement) model.Statement {
		if action == nil {
			return ExpectError(next, matcher)
		}
		return ExpectActionError(next, matcher, action)
	}}
}
