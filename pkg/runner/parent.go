package runner

import (
	"errors"
	"slices"

	"github.com/denizgursoy/kosu/pkg/model"
	"github.com/denizgursoy/kosu/pkg/notification"
	"github.com/denizgursoy/kosu/pkg/statement"
)

// ParentRunner is a composite node running its children one after the other.
// When it was built from a specification, the class hooks of that
// specification wrap the children.
type ParentRunner struct {
	description *model.Description
	spec        *model.Specification
	clock       notification.Clock
	all         []Runner
	children    []Runner
}

// NewSuite creates a composite node without class hooks.
func NewSuite(name string, children []Runner) *ParentRunner {
	return &ParentRunner{
		description: model.CreateSuiteDescription(name),
		clock:       notification.RealClock{},
		all:         slices.Clone(children),
		children:    slices.Clone(children),
	}
}

// NewClassRunner creates the node of one specification with one child per
// test.
func NewClassRunner(spec *model.Specification, opts Options) *ParentRunner {
	tests := spec.Methods(model.RoleTest)
	children := make([]Runner, 0, len(tests))
	for _, method := range tests {
		children = append(children, NewTestRunner(spec, method, opts))
	}

	return &ParentRunner{
		description: model.CreateSuiteDescription(spec.Name(), spec.Categories()...),
		spec:        spec,
		clock:       opts.clock(),
		all:         children,
		children:    slices.Clone(children),
	}
}

// Description describes the node with its current children.
func (p *ParentRunner) Description() *model.Description {
	d := p.description.ChildlessCopy()
	for _, child := range p.children {
		d.AddChild(child.Description())
	}
	return d
}

// Children returns the children left after filtering.
func (p *ParentRunner) Children() []Runner {
	return slices.Clone(p.children)
}

// Run runs every child. Class hooks are skipped when no child is left.
// Failures of the class hooks are reported against the node itself.
func (p *ParentRunner) Run(notifier *notification.Notifier) {
	runChildren := func() error {
		for _, child := range p.children {
			if notifier.Stopped() {
				break
			}
			child.Run(notifier)
		}
		return nil
	}

	block := model.Statement(runChildren)
	if p.spec != nil && len(p.children) > 0 {
		block = statement.ForClass(p.spec, runChildren)
	}

	if err := statement.Evaluate(block); err != nil {
		NewEachTestNotifier(notifier, p.Description(), p.clock).AddError(err)
	}
}

// Filter keeps the children accepted by filter. Filtering starts over from
// every original child, so a previous filter is discarded.
func (p *ParentRunner) Filter(filter Filter) error {
	kept := make([]Runner, 0, len(p.all))
	for _, child := range p.all {
		if filterable, ok := child.(Filterable); ok {
			err := filterable.Filter(filter)
			var noTests *NoTestsRemainError
			if errors.As(err, &noTests) {
				continue
			}
			if err != nil {
				return err
			}
			kept = append(kept, child)
			continue
		}
		if filter.ShouldRun(child.Description()) {
			kept = append(kept, child)
		}
	}

	p.children = kept
	if len(kept) == 0 {
		return &NoTestsRemainError{Description: p.description}
	}
	return nil
}

// Sort orders the children, and theirs, with compare.
func (p *ParentRunner) Sort(compare func(a, b *model.Description) int) {
	for _, child := range p.all {
		if sortable, ok := child.(Sortable); ok {
			sortable.Sort(compare)
		}
	}
	byDescription := func(a, b Runner) int {
		return compare(a.Description(), b.Description())
	}
	slices.SortStableFunc(p.all, byDescription)
	slices.SortStableFunc(p.children, byDescription)
}
