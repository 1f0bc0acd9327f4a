package statement

import (
	"fmt"
	"time"

	"github.com/denizgursoy/kosu/pkg/model"
)

// TimeoutError is reported when a statement does not finish in time.
type TimeoutError struct {
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("test timed out after %v", e.Timeout)
}

// FailOnTimeout runs next in its own goroutine and stops waiting for it once
// timeout elapses. The goroutine is abandoned, not killed.
func FailOnTimeout(next model.Statement, timeout time.Duration) model.Statement {
	return func() error {
		done := make(chan error, 1)
		go func() {
			done <- Evaluate(next)
		}()

		timer := time.NewTimer(timeout)
		defer timer.Stop()

		select {
		case err := <-done:
			return err
		case <-timer.C:
			return &TimeoutError{Timeout: timeout}
		}
	}
}

// Timeout is the layer enforcing a deadline. A non-positive timeout disables it.
func Timeout(timeout time.Duration) Layer {
	if timeout <= 0 {
		return Layer{Name: "timeout"}
	}
	return Layer{Name: "timeout", Wrap: func(next model.Statement) model.Statement {
		return FailOnTimeout(next, timeout)
	}}
}
