package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func names(methods []*Method) []string {
	result := make([]string, 0, len(methods))
	for _, m := range methods {
		result = append(result, m.DeclaringType()+"."+m.Name())
	}
	return result
}

func newSubject() (any, error) { return struct{}{}, nil }

func TestNewSpecification(t *testing.T) {
	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewSpecification(Definition{})
		require.Error(t, err)
	})

	t.Run("derived override replaces base member", func(t *testing.T) {
		spec, err := NewSpecification(Definition{
			Name: "Calc",
			New:  newSubject,
			Types: []TypeDecl{
				{Name: "Derived", Methods: []*Method{NewMethod("adds", noop, WithRoles(RoleTest))}},
				{Name: "Base", Methods: []*Method{NewMethod("adds", noop, WithRoles(RoleTest))}},
			},
		})
		require.NoError(t, err)
		require.Equal(t, []string{"Derived.adds"}, names(spec.Methods(RoleTest)))
	})

	t.Run("derived bridge is kept over inaccessible base member", func(t *testing.T) {
		spec, err := NewSpecification(Definition{
			Name: "Calc",
			New:  newSubject,
			Types: []TypeDecl{
				{Name: "PublicDerived", Methods: []*Method{NewMethod("adds", noop, WithRoles(RoleTest), Bridge())}},
				{Name: "hiddenBase", Methods: []*Method{NewMethod("adds", noop, WithRoles(RoleTest))}},
			},
		})
		require.NoError(t, err)

		tests := spec.Methods(RoleTest)
		require.Len(t, tests, 1)
		require.True(t, tests[0].IsBridge())
		require.Equal(t, "PublicDerived", tests[0].DeclaringType())
	})

	t.Run("base pre-hooks run first and base post-hooks last", func(t *testing.T) {
		spec, err := NewSpecification(Definition{
			Name: "Calc",
			New:  newSubject,
			Types: []TypeDecl{
				{Name: "Derived", Methods: []*Method{
					NewMethod("setUpDerived", noop, WithRoles(RoleBefore)),
					NewMethod("tearDownDerived", noop, WithRoles(RoleAfter)),
				}},
				{Name: "Base", Methods: []*Method{
					NewMethod("setUpBase", noop, WithRoles(RoleBefore)),
					NewMethod("tearDownBase", noop, WithRoles(RoleAfter)),
				}},
			},
		})
		require.NoError(t, err)
		require.Equal(t, []string{"Base.setUpBase", "Derived.setUpDerived"}, names(spec.Methods(RoleBefore)))
		require.Equal(t, []string{"Derived.tearDownDerived", "Base.tearDownBase"}, names(spec.Methods(RoleAfter)))
	})

	t.Run("static hooks with the same name are all kept", func(t *testing.T) {
		spec, err := NewSpecification(Definition{
			Name: "Calc",
			Types: []TypeDecl{
				{Name: "Derived", Methods: []*Method{NewMethod("init", noop, Static(), WithRoles(RoleBeforeClass))}},
				{Name: "Base", Methods: []*Method{NewMethod("init", noop, Static(), WithRoles(RoleBeforeClass))}},
			},
		})
		require.NoError(t, err)
		require.Equal(t, []string{"Base.init", "Derived.init"}, names(spec.Methods(RoleBeforeClass)))
	})

	t.Run("declaration sorter keeps order", func(t *testing.T) {
		spec, err := NewSpecification(Definition{
			Name:   "Calc",
			Sorter: SortDeclaration,
			Types: []TypeDecl{{Name: "Calc", Methods: []*Method{
				NewMethod("zeta", noop, WithRoles(RoleTest)),
				NewMethod("alpha", noop, WithRoles(RoleTest)),
			}}},
		})
		require.NoError(t, err)
		require.Equal(t, []string{"Calc.zeta", "Calc.alpha"}, names(spec.Methods(RoleTest)))
	})

	t.Run("description lists tests with inherited categories", func(t *testing.T) {
		spec, err := NewSpecification(Definition{
			Name:       "Calc",
			Categories: []string{"@slow"},
			Sorter:     SortNameAscending,
			Types: []TypeDecl{{Name: "Calc", Methods: []*Method{
				NewMethod("b", noop, WithRoles(RoleTest), WithCategories("@db")),
				NewMethod("a", noop, WithRoles(RoleTest)),
				NewMethod("setUp", noop, WithRoles(RoleBefore)),
			}}},
		})
		require.NoError(t, err)

		d := spec.Description()
		require.Equal(t, "Calc", d.DisplayName())
		require.Equal(t, 2, d.TestCount())
		children := d.Children()
		require.Equal(t, "a(Calc)", children[0].DisplayName())
		require.Equal(t, "b(Calc)", children[1].DisplayName())
		require.Equal(t, []string{"@slow", "@db"}, children[1].Categories())
	})
}

func TestMethodSorter(t *testing.T) {
	methods := []*Method{
		NewMethod("charlie", noop),
		NewMethod("alpha", noop),
		NewMethod("bravo", noop),
	}

	t.Run("name ascending", func(t *testing.T) {
		sorted := SortNameAscending.Sort(methods)
		require.Equal(t, "alpha", sorted[0].Name())
		require.Equal(t, "bravo", sorted[1].Name())
		require.Equal(t, "charlie", sorted[2].Name())
		require.Equal(t, "charlie", methods[0].Name())
	})

	t.Run("default order is deterministic", func(t *testing.T) {
		first := SortDefault.Sort(methods)
		reversed := SortDefault.Sort([]*Method{methods[2], methods[1], methods[0]})
		require.Equal(t, names(first), names(reversed))
	})
}

func TestValidate(t *testing.T) {
	t.Run("valid specification", func(t *testing.T) {
		spec, err := NewSpecification(Definition{
			Name: "Calc",
			New:  newSubject,
			Types: []TypeDecl{{Name: "Calc", Methods: []*Method{
				NewMethod("adds", noop, WithRoles(RoleTest)),
				NewMethod("init", noop, Static(), WithRoles(RoleBeforeClass)),
			}}},
		})
		require.NoError(t, err)
		require.Empty(t, Validate(spec))
	})

	t.Run("reports every member problem", func(t *testing.T) {
		spec, err := NewSpecification(Definition{
			Name: "Calc",
			New:  newSubject,
			Types: []TypeDecl{{Name: "Calc", Methods: []*Method{
				NewMethod("adds", noop, WithRoles(RoleTest), WithParams("int")),
				NewMethod("hidden", noop, WithRoles(RoleTest), Unexported()),
				NewMethod("init", noop, WithRoles(RoleBeforeClass)),
				NewMethod("setUp", noop, Static(), WithRoles(RoleBefore)),
			}}},
		})
		require.NoError(t, err)

		errs := Validate(spec)
		require.Len(t, errs, 4)
		require.EqualError(t, errs[0], "before-class method init() should be static")
		require.EqualError(t, errs[1], "before method setUp() should not be static")
	})

	t.Run("no runnable methods", func(t *testing.T) {
		spec, err := NewSpecification(Definition{Name: "Empty", New: newSubject})
		require.NoError(t, err)
		require.Equal(t, []error{ErrNoRunnableMethods}, Validate(spec))
	})

	t.Run("ignored specification may be empty", func(t *testing.T) {
		spec, err := NewSpecification(Definition{Name: "Empty", Ignored: true})
		require.NoError(t, err)
		require.Empty(t, Validate(spec))
	})

	t.Run("missing subject constructor", func(t *testing.T) {
		spec, err := NewSpecification(Definition{
			Name:  "Calc",
			Types: []TypeDecl{{Methods: []*Method{NewMethod("adds", noop, WithRoles(RoleTest))}}},
		})
		require.NoError(t, err)
		require.Equal(t, []error{ErrNoSubjectConstructor}, Validate(spec))
	})
}
