package filters

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/denizgursoy/kosu/pkg/model"
	"github.com/denizgursoy/kosu/pkg/runner"
)

var (
	fast   = model.CreateTestDescription("Calc", "adds", "@fast")
	slow   = model.CreateTestDescription("Calc", "divides", "@slow", "db")
	plain  = model.CreateTestDescription("Calc", "subtracts")
	suite  = suiteOf(fast, slow, plain)
	others = suiteOf(plain)
)

func suiteOf(children ...*model.Description) *model.Description {
	d := model.CreateSuiteDescription("Calc")
	for _, child := range children {
		d.AddChild(child)
	}
	return d
}

func create(t *testing.T, spec string) runner.Filter {
	t.Helper()
	filter, err := Defaults().CreateFilterFromSpec(spec, suite)
	require.NoError(t, err)
	return filter
}

// =============================================================================
// Registry Tests
// =============================================================================

func TestRegistry(t *testing.T) {
	t.Run("unknown factory names the factory", func(t *testing.T) {
		_, err := Defaults().CreateFilterFromSpec("CategoryFilter=Fast", suite)

		var notCreated *NotCreatedError
		require.ErrorAs(t, err, &notCreated)
		require.Equal(t, "CategoryFilter", notCreated.Factory)
		require.ErrorIs(t, err, ErrFactoryNotFound)
		require.Contains(t, err.Error(), "CategoryFilter")
	})

	t.Run("factory receives arguments and the top level description", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		factory := NewMockFactory(ctrl)
		want := runner.MatchAll()
		factory.EXPECT().
			CreateFilter(Params{Args: "a=b", TopLevelDescription: suite}).
			Return(want, nil)

		registry := NewRegistry().Register("Custom", factory)
		got, err := registry.CreateFilterFromSpec("Custom=a=b", suite)
		require.NoError(t, err)
		require.Same(t, want, got)
	})

	t.Run("factory errors are wrapped", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		factory := NewMockFactory(ctrl)
		boom := errors.New("bad arguments")
		factory.EXPECT().CreateFilter(gomock.Any()).Return(nil, boom)

		_, err := NewRegistry().Register("Custom", factory).CreateFilterFromSpec("Custom=x", suite)
		var notCreated *NotCreatedError
		require.ErrorAs(t, err, &notCreated)
		require.ErrorIs(t, err, boom)
		require.Equal(t, `could not create filter Custom with arguments "x": bad arguments`, err.Error())
	})

	t.Run("bare spec goes to the default factory", func(t *testing.T) {
		registry := Defaults()
		name, args := registry.ParseSpec("@fast and not @slow")
		require.Equal(t, Tags, name)
		require.Equal(t, "@fast and not @slow", args)
	})

	t.Run("bare spec without default factory", func(t *testing.T) {
		_, err := NewRegistry().CreateFilterFromSpec("@fast", suite)
		require.ErrorIs(t, err, ErrFactoryNotFound)
	})

	t.Run("names", func(t *testing.T) {
		require.Equal(t, []string{ExcludeCategories, IncludeCategories, Method, Tags}, Defaults().Names())
	})
}

// =============================================================================
// Built-in Factory Tests
// =============================================================================

func TestIncludeCategories(t *testing.T) {
	filter := create(t, "IncludeCategories=fast, db")

	require.True(t, filter.ShouldRun(fast))
	require.True(t, filter.ShouldRun(slow))
	require.False(t, filter.ShouldRun(plain))
	require.True(t, filter.ShouldRun(suite))
	require.False(t, filter.ShouldRun(others))
	require.Equal(t, "includes categories [fast, db]", filter.Describe())

	_, err := Defaults().CreateFilterFromSpec("IncludeCategories= , ", suite)
	require.ErrorIs(t, err, ErrNoCategories)
}

func TestExcludeCategories(t *testing.T) {
	filter := create(t, "ExcludeCategories=@slow")

	require.True(t, filter.ShouldRun(fast))
	require.False(t, filter.ShouldRun(slow))
	require.True(t, filter.ShouldRun(plain))
	require.True(t, filter.ShouldRun(suite))
}

func TestTags(t *testing.T) {
	t.Run("evaluates tag expressions", func(t *testing.T) {
		filter := create(t, "@fast or @db")
		require.True(t, filter.ShouldRun(fast))
		require.True(t, filter.ShouldRun(slow))
		require.False(t, filter.ShouldRun(plain))
		require.Equal(t, "tags @fast or @db", filter.Describe())
	})

	t.Run("negation", func(t *testing.T) {
		filter := create(t, "Tags=not @slow")
		require.True(t, filter.ShouldRun(fast))
		require.False(t, filter.ShouldRun(slow))
		require.True(t, filter.ShouldRun(plain))
	})

	t.Run("invalid expression", func(t *testing.T) {
		_, err := Defaults().CreateFilterFromSpec("Tags=@a and", suite)
		var notCreated *NotCreatedError
		require.ErrorAs(t, err, &notCreated)
	})
}

func TestMethod(t *testing.T) {
	for _, spec := range []string{"Method=Calc#adds", "Method=adds(Calc)"} {
		t.Run(spec, func(t *testing.T) {
			filter := create(t, spec)
			require.True(t, filter.ShouldRun(fast))
			require.False(t, filter.ShouldRun(plain))
			require.True(t, filter.ShouldRun(suite))
			require.Equal(t, "Method adds(Calc)", filter.Describe())
		})
	}

	_, err := Defaults().CreateFilterFromSpec("Method=adds", suite)
	require.Error(t, err)
}
