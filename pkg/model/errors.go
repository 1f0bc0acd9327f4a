package model

import (
	"errors"
	"fmt"
	"runtime/debug"
	"strings"
)

// ErrUnknownTarget is returned by introspectors that do not recognize a target string.
var ErrUnknownTarget = errors.New("unknown target")

// AssumptionViolatedError marks a test whose preconditions do not hold.
// It is reported to listeners but never counted as a failure.
type AssumptionViolatedError struct {
	Message string
}

func (e *AssumptionViolatedError) Error() string {
	if e.Message == "" {
		return "assumption violated"
	}
	return "assumption violated: " + e.Message
}

// Assume returns an *AssumptionViolatedError when condition is false.
func Assume(condition bool, message string) error {
	if condition {
		return nil
	}
	return &AssumptionViolatedError{Message: message}
}

// AssumeNoError returns an *AssumptionViolatedError when err is not nil.
func AssumeNoError(err error) error {
	if err == nil {
		return nil
	}
	return &AssumptionViolatedError{Message: err.Error()}
}

// MultipleFailureError carries several independent failures of one unit,
// e.g. a failing test followed by a failing post-hook.
type MultipleFailureError struct {
	Errors []error
}

func (e *MultipleFailureError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "there were %d errors:", len(e.Errors))
	for _, err := range e.Errors {
		b.WriteString("\n  ")
		b.WriteString(err.Error())
	}
	return b.String()
}

func (e *MultipleFailureError) Unwrap() []error {
	return e.Errors
}

// CombineErrors returns nil for no errors, the error itself for one error
// and a *MultipleFailureError otherwise.
func CombineErrors(errs []error) error {
	switch len(errs) {
	case 0:
		return nil
	case 1:
		return errs[0]
	default:
		return &MultipleFailureError{Errors: errs}
	}
}

// InitializationError reports every problem found while building a runner.
type InitializationError struct {
	Causes []error
}

func NewInitializationError(causes ...error) *InitializationError {
	return &InitializationError{Causes: causes}
}

func (e *InitializationError) Error() string {
	messages := make([]string, 0, len(e.Causes))
	for _, cause := range e.Causes {
		messages = append(messages, cause.Error())
	}
	return "initialization error: " + strings.Join(messages, "; ")
}

func (e *InitializationError) Unwrap() []error {
	return e.Causes
}

// PanicError is a recovered panic normalized into an error.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// Unwrap exposes the panic value when it was an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// AssertionError is raised by a failed assertion. When recovered it fails the
// test with its message alone, without a panic stack.
type AssertionError struct {
	Message string
}

func (e *AssertionError) Error() string {
	return e.Message
}

// Recovered normalizes the value of a recovered panic. It must be called from
// the deferred function so the stack still shows the panicking frames.
func Recovered(r any) error {
	if err, ok := r.(*AssertionError); ok {
		return err
	}
	return &PanicError{Value: r, Stack: debug.Stack()}
}
