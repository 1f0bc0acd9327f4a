package runner

import (
	"github.com/denizgursoy/kosu/pkg/model"
)

// Builder creates the runner of one specification.
type Builder interface {
	RunnerFor(spec *model.Specification) (Runner, error)
}

// BuilderFunc adapts a function to Builder.
type BuilderFunc func(spec *model.Specification) (Runner, error)

func (f BuilderFunc) RunnerFor(spec *model.Specification) (Runner, error) {
	return f(spec)
}

// DefaultBuilder validates specifications and creates class runners for
// them. Ignored specifications get an IgnoredRunner.
type DefaultBuilder struct {
	Options Options
}

func NewDefaultBuilder(opts Options) *DefaultBuilder {
	return &DefaultBuilder{Options: opts}
}

func (b *DefaultBuilder) RunnerFor(spec *model.Specification) (Runner, error) {
	if spec.Ignored() {
		return NewIgnoredRunner(spec), nil
	}
	if errs := model.Validate(spec); len(errs) > 0 {
		b.Options.logger().Warn("invalid specification", "specification", spec.Name(), "errors", len(errs))
		return nil, model.NewInitializationError(errs...)
	}
	return NewClassRunner(spec, b.Options), nil
}

// SafeRunnerFor never fails: a builder error becomes an ErrorReportingRunner.
func SafeRunnerFor(builder Builder, spec *model.Specification) Runner {
	runner, err := builder.RunnerFor(spec)
	if err != nil {
		return NewErrorReportingRunner(spec.Name(), err)
	}
	return runner
}

// Runners builds the runners of specs in order.
func Runners(builder Builder, specs []*model.Specification) []Runner {
	runners := make([]Runner, 0, len(specs))
	for _, spec := range specs {
		runners = append(runners, SafeRunnerFor(builder, spec))
	}
	return runners
}

// Computer decides how the runners of several specifications are combined.
type Computer interface {
	Suite(builder Builder, specs []*model.Specification) (Runner, error)
}

// SerialComputer puts every specification into one suite named "classes",
// run one after the other.
type SerialComputer struct{}

func (SerialComputer) Suite(builder Builder, specs []*model.Specification) (Runner, error) {
	return NewSuite("classes", Runners(builder, specs)), nil
}
