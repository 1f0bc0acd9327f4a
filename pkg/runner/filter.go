package runner

import (
	"cmp"

	"github.com/denizgursoy/kosu/pkg/model"
)

// Filter selects the tests to run.
type Filter interface {
	// ShouldRun reports whether the test, or for a suite any of its tests,
	// should run.
	ShouldRun(description *model.Description) bool
	// Describe returns a human readable form of the filter.
	Describe() string
}

// Filterable is implemented by runners that can drop some of their children.
//
// Filter always starts from every child the runner was created with, so
// only the most recent filter has an effect. It returns *NoTestsRemainError
// when no child survives.
type Filterable interface {
	Filter(filter Filter) error
}

// Sortable is implemented by runners that can reorder their children.
type Sortable interface {
	Sort(compare func(a, b *model.Description) int)
}

// NoTestsRemainError is returned when a filter removed every test of a node.
type NoTestsRemainError struct {
	Description *model.Description
}

func (e *NoTestsRemainError) Error() string {
	if e.Description == nil {
		return "no tests remain"
	}
	return "no tests remain in " + e.Description.DisplayName()
}

// Apply filters runner when it supports it.
func Apply(filter Filter, runner Runner) error {
	if filterable, ok := runner.(Filterable); ok {
		return filterable.Filter(filter)
	}
	return nil
}

type funcFilter struct {
	describe  string
	shouldRun func(*model.Description) bool
}

// NewFilter creates a filter from a predicate.
func NewFilter(describe string, shouldRun func(*model.Description) bool) Filter {
	return &funcFilter{describe: describe, shouldRun: shouldRun}
}

func (f *funcFilter) ShouldRun(description *model.Description) bool {
	return f.shouldRun(description)
}

func (f *funcFilter) Describe() string {
	return f.describe
}

// MatchAll accepts every test.
func MatchAll() Filter {
	return NewFilter("all tests", func(*model.Description) bool { return true })
}

// MatchTests accepts the tests for which match returns true and every suite
// containing at least one of them.
func MatchTests(describe string, match func(*model.Description) bool) Filter {
	var shouldRun func(*model.Description) bool
	shouldRun = func(d *model.Description) bool {
		if d.IsTest() {
			return match(d)
		}
		for _, child := range d.Children() {
			if shouldRun(child) {
				return true
			}
		}
		return false
	}
	return NewFilter(describe, shouldRun)
}

// MatchMethod accepts only the test described by desired.
func MatchMethod(desired *model.Description) Filter {
	return MatchTests("Method "+desired.DisplayName(), func(d *model.Description) bool {
		return d.DisplayName() == desired.DisplayName()
	})
}

// ByDisplayName orders descriptions alphabetically.
func ByDisplayName(a, b *model.Description) int {
	return cmp.Compare(a.DisplayName(), b.DisplayName())
}
