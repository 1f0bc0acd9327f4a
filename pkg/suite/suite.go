// Package suite defines specifications in plain Go: a subject type, its
// tests and its hooks.
//
//	spec := suite.Define("Calculator", func() *Calculator { return &Calculator{} }).
//		Before("reset", (*Calculator).Reset).
//		Test("adds", (*Calculator).TestAdds).
//		MustBuild()
package suite

import (
	"fmt"

	"github.com/denizgursoy/kosu/pkg/model"
)

// Builder collects the members of one specification. Members are added to
// the most derived type first; DeclaredIn switches to a base type.
type Builder[T any] struct {
	def model.Definition
}

// Define starts a specification whose tests run on subjects created by
// newSubject. A nil newSubject is allowed for specifications with static
// members only.
func Define[T any](name string, newSubject func() *T) *Builder[T] {
	b := &Builder[T]{def: model.Definition{
		Name:  name,
		Types: []model.TypeDecl{{Name: name}},
	}}
	if newSubject != nil {
		b.def.New = func() (any, error) {
			return newSubject(), nil
		}
	}
	return b
}

// Member adds a method bound to the subject with the given options.
func (b *Builder[T]) Member(name string, fn func(*T) error, opts ...model.MethodOption) *Builder[T] {
	return b.add(model.NewMethod(name, bind(name, fn), opts...))
}

// Static adds a method that needs no subject.
func (b *Builder[T]) Static(name string, fn func() error, opts ...model.MethodOption) *Builder[T] {
	invoker := func(any, ...any) (any, error) {
		return nil, fn()
	}
	return b.add(model.NewMethod(name, invoker, append([]model.MethodOption{model.Static()}, opts...)...))
}

func (b *Builder[T]) Test(name string, fn func(*T) error, opts ...model.MethodOption) *Builder[T] {
	return b.Member(name, fn, append(opts, model.WithRoles(model.RoleTest))...)
}

func (b *Builder[T]) Before(name string, fn func(*T) error, opts ...model.MethodOption) *Builder[T] {
	return b.Member(name, fn, append(opts, model.WithRoles(model.RoleBefore))...)
}

func (b *Builder[T]) After(name string, fn func(*T) error, opts ...model.MethodOption) *Builder[T] {
	return b.Member(name, fn, append(opts, model.WithRoles(model.RoleAfter))...)
}

func (b *Builder[T]) BeforeClass(name string, fn func() error, opts ...model.MethodOption) *Builder[T] {
	return b.Static(name, fn, append(opts, model.WithRoles(model.RoleBeforeClass))...)
}

func (b *Builder[T]) AfterClass(name string, fn func() error, opts ...model.MethodOption) *Builder[T] {
	return b.Static(name, fn, append(opts, model.WithRoles(model.RoleAfterClass))...)
}

// Rule wraps every test with rule. Lower priorities run closer to the test.
func (b *Builder[T]) Rule(name string, priority int, rule model.TestRule) *Builder[T] {
	b.def.Rules = append(b.def.Rules, model.RuleEntry{Name: name, Priority: priority, Rule: rule})
	return b
}

func (b *Builder[T]) Categories(categories ...string) *Builder[T] {
	b.def.Categories = append(b.def.Categories, categories...)
	return b
}

// Ignore skips the whole specification.
func (b *Builder[T]) Ignore() *Builder[T] {
	b.def.Ignored = true
	return b
}

func (b *Builder[T]) Sorter(sorter model.MethodSorter) *Builder[T] {
	b.def.Sorter = sorter
	return b
}

// DeclaredIn makes the following members belong to typeName, a base type of
// everything declared so far.
func (b *Builder[T]) DeclaredIn(typeName string) *Builder[T] {
	b.def.Types = append(b.def.Types, model.TypeDecl{Name: typeName})
	return b
}

func (b *Builder[T]) Build() (*model.Specification, error) {
	return model.NewSpecification(b.def)
}

// MustBuild is like Build but panics on error.
func (b *Builder[T]) MustBuild() *model.Specification {
	spec, err := b.Build()
	if err != nil {
		panic(err)
	}
	return spec
}

func (b *Builder[T]) add(method *model.Method) *Builder[T] {
	last := &b.def.Types[len(b.def.Types)-1]
	last.Methods = append(last.Methods, method)
	return b
}

func bind[T any](name string, fn func(*T) error) model.Invoker {
	return func(subject any, _ ...any) (any, error) {
		s, ok := subject.(*T)
		if !ok {
			return nil, fmt.Errorf("method %s: subject is %T, want %T", name, subject, s)
		}
		return nil, fn(s)
	}
}
