package model

import (
	"errors"
	"fmt"
	"slices"
)

// TypeDecl holds the members declared by one type of a specification's
// hierarchy.
type TypeDecl struct {
	Name    string
	Methods []*Method
}

// Definition is the raw material an introspector hands to NewSpecification.
// Types are listed most-derived first.
type Definition struct {
	Name       string
	Categories []string
	Ignored    bool
	Sorter     MethodSorter
	// New creates a fresh subject for every test. Static-only
	// specifications may leave it nil.
	New func() (any, error)
	// NewFor, when set, is used instead of New and receives the test the
	// subject is created for.
	NewFor func(test *Method) (any, error)
	Rules  []RuleEntry
	Types  []TypeDecl
}

// Specification is the resolved structure of one test target: its members
// partitioned by role after shadowing has been applied.
type Specification struct {
	name       string
	categories []string
	ignored    bool
	newSubject func(test *Method) (any, error)
	rules      []RuleEntry
	methods    map[Role][]*Method
}

// NewSpecification scans the declared types of def and resolves overridden
// and bridged members.
func NewSpecification(def Definition) (*Specification, error) {
	if def.Name == "" {
		return nil, errors.New("specification name is empty")
	}

	spec := &Specification{
		name:       def.Name,
		categories: slices.Clone(def.Categories),
		ignored:    def.Ignored,
		newSubject: def.NewFor,
		rules:      slices.Clone(def.Rules),
		methods:    make(map[Role][]*Method),
	}
	if spec.newSubject == nil && def.New != nil {
		spec.newSubject = func(*Method) (any, error) {
			return def.New()
		}
	}

	for _, decl := range def.Types {
		for _, method := range def.Sorter.Sort(decl.Methods) {
			if method == nil {
				continue
			}
			if decl.Name != "" {
				method = method.withDeclaringType(decl.Name)
			}
			spec.add(method)
		}
	}

	return spec, nil
}

func (s *Specification) add(method *Method) {
	for _, role := range method.roles {
		members := s.methods[role]
		use, members := method.HandlePossibleBridgeMethod(members)
		if use == nil {
			continue
		}
		if role.runsTopToBottom() {
			members = slices.Insert(members, 0, use)
		} else {
			members = append(members, use)
		}
		s.methods[role] = members
	}
}

// Name returns the target name of the specification.
func (s *Specification) Name() string {
	return s.name
}

// Categories returns the categories declared on the specification itself.
func (s *Specification) Categories() []string {
	return slices.Clone(s.categories)
}

// Ignored reports whether the whole specification is skipped.
func (s *Specification) Ignored() bool {
	return s.ignored
}

// Methods returns the accepted members for role in execution order.
func (s *Specification) Methods(role Role) []*Method {
	return slices.Clone(s.methods[role])
}

// Rules returns the declared rules in declaration order.
func (s *Specification) Rules() []RuleEntry {
	return slices.Clone(s.rules)
}

// HasSubjectConstructor reports whether the specification can create subjects.
func (s *Specification) HasSubjectConstructor() bool {
	return s.newSubject != nil
}

// NewSubject creates a fresh subject for test.
func (s *Specification) NewSubject(test *Method) (any, error) {
	if s.newSubject == nil {
		return nil, fmt.Errorf("specification %s has no subject constructor", s.name)
	}
	return s.newSubject(test)
}

// TestDescription describes one test member of the specification. The
// categories of the specification are inherited by the test.
func (s *Specification) TestDescription(method *Method) *Description {
	categories := append(slices.Clone(s.categories), method.categories...)
	return CreateTestDescription(s.name, method.Name(), categories...)
}

// Description returns the suite description with one child per test.
func (s *Specification) Description() *Description {
	d := CreateSuiteDescription(s.name, s.categories...)
	for _, method := range s.methods[RoleTest] {
		d.AddChild(s.TestDescription(method))
	}
	return d
}
