package statement

import (
	"github.com/denizgursoy/kosu/pkg/model"
)

// RunBefores runs every pre-hook in order and then next. The first failing
// pre-hook stops the statement; next is not run.
func RunBefores(next model.Statement, befores []*model.Method, subject any) model.Statement {
	return func() error {
		for _, before := range befores {
			if _, err := before.InvokeExplosively(subject); err != nil {
				return err
			}
		}
		return next()
	}
}

// RunAfters runs next and then every post-hook, even when next fails or
// panics. All failures are reported together.
func RunAfters(next model.Statement, afters []*model.Method, subject any) model.Statement {
	return func() error {
		var errs []error
		if err := Evaluate(next); err != nil {
			errs = append(errs, err)
		}
		for _, after := range afters {
			if _, err := after.InvokeExplosively(subject); err != nil {
				errs = append(errs, err)
			}
		}
		return model.CombineErrors(errs)
	}
}

// Befores is the layer running the per-test pre-hooks.
func Befores(befores []*model.Method, subject any) Layer {
	if len(befores) == 0 {
		return Layer{Name: "befores"}
	}
	return Layer{Name: "befores", Wrap: func(next model.Statement) model.Statement {
		return RunBefores(next, befores, subject)
	}}
}

// Afters is the layer running the per-test post-hooks.
func Afters(afters []*model.Method, subject any) Layer {
	if len(afters) == 0 {
		return Layer{Name: "afters"}
	}
	return Layer{Name: "afters", Wrap: func(next model.Statement) model.Statement {
		return RunAfters(next, afters, subject)
	}}
}

// BeforeClasses is the layer running static class hooks once before the
// children of a specification.
func BeforeClasses(befores []*model.Method) Layer {
	layer := Befores(befores, nil)
	layer.Name = "before-classes"
	return layer
}

// AfterClasses is the layer running static class hooks once after the
// children of a specification.
func AfterClasses(afters []*model.Method) Layer {
	layer := Afters(afters, nil)
	layer.Name = "after-classes"
	return layer
}
