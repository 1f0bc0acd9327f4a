// Package statement composes the action of a test with the concerns wrapped
// around it: rules, pre- and post-hooks, timeouts and expected errors.
package statement

import (
	"time"

	"github.com/denizgursoy/kosu/pkg/model"
)

// Layer is one wrap step of a statement chain. A layer with a nil Wrap is
// skipped, which lets callers build the full layer list unconditionally.
type Layer struct {
	Name string
	Wrap func(next model.Statement) model.Statement
}

// Build applies layers to base in order: the first layer ends up innermost,
// the last one outermost.
func Build(base model.Statement, layers ...Layer) model.Statement {
	result := base
	for _, layer := range layers {
		if layer.Wrap == nil {
			continue
		}
		result = layer.Wrap(result)
	}
	return result
}

// Evaluate runs s and converts a panic into an error, see model.Recovered.
func Evaluate(s model.Statement) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = model.Recovered(r)
		}
	}()
	return s()
}

// Fail returns a statement that always fails with err.
func Fail(err error) model.Statement {
	return func() error {
		return err
	}
}

// InvokeMethod returns the base statement calling method on subject.
func InvokeMethod(method *model.Method, subject any) model.Statement {
	return func() error {
		_, err := method.InvokeExplosively(subject)
		return err
	}
}

// ForMethod builds the chain of one test, innermost to outermost: the
// method call, rules, pre-hooks, post-hooks, timeout and expected error.
// The expected error is checked against the method call only, so hook
// failures are never taken for the expected one.
// A method without its own timeout uses defaultTimeout.
func ForMethod(spec *model.Specification, method *model.Method, subject any, description *model.Description, defaultTimeout time.Duration) model.Statement {
	timeout := method.Timeout()
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	action := &Action{}
	return Build(action.Track(InvokeMethod(method, subject)),
		Rules(spec.Rules(), description),
		Befores(spec.Methods(model.RoleBefore), subject),
		Afters(spec.Methods(model.RoleAfter), subject),
		Timeout(timeout),
		Expect(method.Expected(), action),
	)
}

// ForClass wraps the statement running the children of spec with its class
// hooks.
func ForClass(spec *model.Specification, children model.Statement) model.Statement {
	return Build(children,
		BeforeClasses(spec.Methods(model.RoleBeforeClass)),
		AfterClasses(spec.Methods(model.RoleAfterClass)),
	)
}
