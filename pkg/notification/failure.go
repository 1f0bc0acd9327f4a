package notification

import (
	"errors"
	"fmt"
	"time"

	"github.com/denizgursoy/kosu/pkg/model"
)

// Failure ties the cause of a failure to the test it happened in.
type Failure struct {
	Description *model.Description
	Err         error
	// Elapsed is the time between the test start and the failure.
	Elapsed time.Duration
}

// NewFailure creates a failure without elapsed time.
func NewFailure(description *model.Description, err error) *Failure {
	return &Failure{Description: description, Err: err}
}

// TestHeader returns the display name of the failed test.
func (f *Failure) TestHeader() string {
	if f.Description == nil {
		return ""
	}
	return f.Description.DisplayName()
}

// Message returns the message of the cause.
func (f *Failure) Message() string {
	if f.Err == nil {
		return ""
	}
	return f.Err.Error()
}

// Trace returns the stack of a recovered panic, or the message otherwise.
func (f *Failure) Trace() string {
	var panicErr *model.PanicError
	if errors.As(f.Err, &panicErr) && len(panicErr.Stack) > 0 {
		return f.Message() + "\n" + string(panicErr.Stack)
	}
	return f.Message()
}

func (f *Failure) String() string {
	return fmt.Sprintf("%s: %s", f.TestHeader(), f.Message())
}
