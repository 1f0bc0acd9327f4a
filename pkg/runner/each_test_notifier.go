package runner

import (
	"errors"
	"time"

	"github.com/denizgursoy/kosu/pkg/model"
	"github.com/denizgursoy/kosu/pkg/notification"
	"github.com/denizgursoy/kosu/pkg/statement"
)

// EachTestNotifier reports the events of one node and classifies its errors.
type EachTestNotifier struct {
	notifier    *notification.Notifier
	description *model.Description
	clock       notification.Clock
	startedAt   time.Time
}

func NewEachTestNotifier(notifier *notification.Notifier, description *model.Description, clock notification.Clock) *EachTestNotifier {
	if clock == nil {
		clock = notification.RealClock{}
	}
	return &EachTestNotifier{
		notifier:    notifier,
		description: description,
		clock:       clock,
	}
}

// AddError reports err. Multiple failures are reported one by one, also
// when they are the actual error of an unmet expectation, and assumption
// violations are not failures.
func (e *EachTestNotifier) AddError(err error) {
	if multi, ok := err.(*model.MultipleFailureError); ok {
		for _, each := range multi.Errors {
			e.AddError(each)
		}
		return
	}

	var expectation *statement.ExpectationError
	if errors.As(err, &expectation) {
		if multi, ok := expectation.Actual.(*model.MultipleFailureError); ok {
			for _, each := range multi.Errors {
				e.AddFailure(&statement.ExpectationError{Expected: expectation.Expected, Actual: each})
			}
			return
		}
	}

	var assumption *model.AssumptionViolatedError
	if errors.As(err, &assumption) {
		e.AddFailedAssumption(err)
		return
	}
	e.AddFailure(err)
}

func (e *EachTestNotifier) AddFailure(err error) {
	e.notifier.FireTestFailure(e.failure(err))
}

func (e *EachTestNotifier) AddFailedAssumption(err error) {
	e.notifier.FireTestAssumptionFailure(e.failure(err))
}

func (e *EachTestNotifier) FireTestStarted() {
	e.startedAt = e.clock.Now()
	e.notifier.FireTestStarted(e.description)
}

func (e *EachTestNotifier) FireTestFinished() {
	e.notifier.FireTestFinished(e.description)
}

func (e *EachTestNotifier) FireTestIgnored() {
	e.notifier.FireTestIgnored(e.description)
}

func (e *EachTestNotifier) failure(err error) *notification.Failure {
	var elapsed time.Duration
	if !e.startedAt.IsZero() {
		elapsed = e.clock.Now().Sub(e.startedAt)
	}
	return &notification.Failure{Description: e.description, Err: err, Elapsed: elapsed}
}
