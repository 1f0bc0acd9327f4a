package runner

import (
	"fmt"

	"github.com/denizgursoy/kosu/pkg/model"
	"github.com/denizgursoy/kosu/pkg/notification"
)

const initializationError = "initializationError"

// ErrorReportingRunner reports the errors that kept a node from being built.
// Running it fires one failure per cause and executes no test.
type ErrorReportingRunner struct {
	name   string
	causes []error
}

// NewErrorReportingRunner creates the runner reporting err for the target
// name. Initialization errors and multiple failures are split into their
// causes.
func NewErrorReportingRunner(name string, err error) *ErrorReportingRunner {
	return &ErrorReportingRunner{
		name:   name,
		causes: causes(err),
	}
}

func causes(err error) []error {
	switch e := err.(type) {
	case nil:
		return nil
	case *model.InitializationError:
		return flatten(e.Causes)
	case *model.MultipleFailureError:
		return flatten(e.Errors)
	default:
		return []error{err}
	}
}

func flatten(errs []error) []error {
	var result []error
	for _, err := range errs {
		result = append(result, causes(err)...)
	}
	return result
}

// Causes returns the reported errors.
func (r *ErrorReportingRunner) Causes() []error {
	return r.causes
}

func (r *ErrorReportingRunner) Description() *model.Description {
	d := model.CreateSuiteDescription(r.name)
	for i := range r.causes {
		d.AddChild(r.describeCause(i))
	}
	return d
}

func (r *ErrorReportingRunner) describeCause(i int) *model.Description {
	name := initializationError
	if i > 0 {
		name = fmt.Sprintf("%s[%d]", initializationError, i)
	}
	return model.CreateTestDescription(r.name, name)
}

func (r *ErrorReportingRunner) Run(notifier *notification.Notifier) {
	for i, cause := range r.causes {
		notifier.FireTestFailure(notification.NewFailure(r.describeCause(i), cause))
	}
}
