package runner

import (
	"time"

	"github.com/denizgursoy/kosu/pkg/model"
	"github.com/denizgursoy/kosu/pkg/notification"
	"github.com/denizgursoy/kosu/pkg/statement"
)

// TestRunner is the leaf running one test of a specification on a fresh
// subject.
type TestRunner struct {
	spec           *model.Specification
	method         *model.Method
	description    *model.Description
	defaultTimeout time.Duration
	clock          notification.Clock
}

func NewTestRunner(spec *model.Specification, method *model.Method, opts Options) *TestRunner {
	return &TestRunner{
		spec:           spec,
		method:         method,
		description:    spec.TestDescription(method),
		defaultTimeout: opts.DefaultTimeout,
		clock:          opts.clock(),
	}
}

func (r *TestRunner) Description() *model.Description {
	return r.description
}

// Method returns the test member run by the leaf.
func (r *TestRunner) Method() *model.Method {
	return r.method
}

func (r *TestRunner) Run(notifier *notification.Notifier) {
	each := NewEachTestNotifier(notifier, r.description, r.clock)
	if r.method.IsIgnored() {
		each.FireTestIgnored()
		return
	}

	each.FireTestStarted()
	defer each.FireTestFinished()

	subject, err := r.newSubject()
	if err != nil {
		each.AddError(err)
		return
	}

	chain := statement.ForMethod(r.spec, r.method, subject, r.description, r.defaultTimeout)
	if err := statement.Evaluate(chain); err != nil {
		each.AddError(err)
	}
}

func (r *TestRunner) newSubject() (subject any, err error) {
	if r.method.IsStatic() {
		return nil, nil
	}
	err = statement.Evaluate(func() error {
		subject, err = r.spec.NewSubject(r.method)
		return err
	})
	return subject, err
}
