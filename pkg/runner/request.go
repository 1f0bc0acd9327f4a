package runner

import (
	"errors"
	"fmt"
	"sync"

	"github.com/denizgursoy/kosu/pkg/model"
)

// Request is a description of the tests to run. Runner creates the runner
// lazily.
type Request interface {
	Runner() Runner
	// FilterWith returns a request running only the tests accepted by
	// filter. It replaces any filter applied before.
	FilterWith(filter Filter) Request
	// SortWith returns a request running tests in the order of compare.
	SortWith(compare func(a, b *model.Description) int) Request
}

// Classes creates the request running specs combined by computer. The runner
// is created once and shared by every derived request.
func Classes(computer Computer, builder Builder, specs ...*model.Specification) Request {
	return &classesRequest{computer: computer, builder: builder, specs: specs}
}

// Aggregate wraps an existing runner.
func Aggregate(runner Runner) Request {
	return &runnerRequest{runner: runner}
}

// ErrorReport creates the request reporting err as failures for name.
func ErrorReport(name string, err error) Request {
	return Aggregate(NewErrorReportingRunner(name, err))
}

func filterWith(base Request, filter Filter) Request {
	return &filterRequest{base: base, filter: filter}
}

func sortWith(base Request, compare func(a, b *model.Description) int) Request {
	return &sortRequest{base: base, compare: compare}
}

type classesRequest struct {
	computer Computer
	builder  Builder
	specs    []*model.Specification

	once   sync.Once
	runner Runner
}

func (r *classesRequest) Runner() Runner {
	r.once.Do(func() {
		runner, err := r.computer.Suite(r.builder, r.specs)
		if err != nil {
			runner = NewErrorReportingRunner("classes", err)
		}
		r.runner = runner
	})
	return r.runner
}

func (r *classesRequest) FilterWith(filter Filter) Request {
	return filterWith(r, filter)
}

func (r *classesRequest) SortWith(compare func(a, b *model.Description) int) Request {
	return sortWith(r, compare)
}

type runnerRequest struct {
	runner Runner
}

func (r *runnerRequest) Runner() Runner {
	return r.runner
}

func (r *runnerRequest) FilterWith(filter Filter) Request {
	return filterWith(r, filter)
}

func (r *runnerRequest) SortWith(compare func(a, b *model.Description) int) Request {
	return sortWith(r, compare)
}

// filterRequest applies its filter to the runner of base. Filtering an
// already filtered request replaces the filter instead of narrowing it.
type filterRequest struct {
	base   Request
	filter Filter
}

func (r *filterRequest) Runner() Runner {
	runner := r.base.Runner()
	from := runner.Description()

	err := Apply(r.filter, runner)
	var noTests *NoTestsRemainError
	switch {
	case errors.As(err, &noTests):
		return NewErrorReportingRunner("filter", fmt.Errorf("No tests found matching %s from %s", r.filter.Describe(), from.DisplayName()))
	case err != nil:
		return NewErrorReportingRunner("filter", err)
	}
	return runner
}

func (r *filterRequest) FilterWith(filter Filter) Request {
	return &filterRequest{base: r.base, filter: filter}
}

func (r *filterRequest) SortWith(compare func(a, b *model.Description) int) Request {
	return sortWith(r, compare)
}

type sortRequest struct {
	base    Request
	compare func(a, b *model.Description) int
}

func (r *sortRequest) Runner() Runner {
	runner := r.base.Runner()
	if sortable, ok := runner.(Sortable); ok {
		sortable.Sort(r.compare)
	}
	return runner
}

func (r *sortRequest) FilterWith(filter Filter) Request {
	return filterWith(r, filter)
}

func (r *sortRequest) SortWith(compare func(a, b *model.Description) int) Request {
	return sortWith(r, compare)
}
