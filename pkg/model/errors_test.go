package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCombineErrors(t *testing.T) {
	first := errors.New("first")
	second := errors.New("second")

	require.NoError(t, CombineErrors(nil))
	require.Same(t, first, CombineErrors([]error{first}))

	err := CombineErrors([]error{first, second})
	var multi *MultipleFailureError
	require.ErrorAs(t, err, &multi)
	require.Len(t, multi.Errors, 2)
	require.ErrorIs(t, err, second)
	require.Equal(t, "there were 2 errors:\n  first\n  second", err.Error())
}

func TestAssume(t *testing.T) {
	require.NoError(t, Assume(true, "ok"))
	require.EqualError(t, Assume(false, "needs network"), "assumption violated: needs network")
	require.NoError(t, AssumeNoError(nil))

	var assumption *AssumptionViolatedError
	require.ErrorAs(t, AssumeNoError(errors.New("offline")), &assumption)
	require.Equal(t, "offline", assumption.Message)
}

func TestInitializationError(t *testing.T) {
	err := NewInitializationError(ErrNoRunnableMethods, ErrNoSubjectConstructor)
	require.ErrorIs(t, err, ErrNoRunnableMethods)
	require.Equal(t,
		"initialization error: no runnable methods; specification should have a subject constructor",
		err.Error())
}

func TestDescription(t *testing.T) {
	suite := CreateSuiteDescription("All")
	require.True(t, suite.IsTest())

	child := CreateTestDescription("Calc", "adds", "@fast")
	suite.AddChild(child)
	require.True(t, suite.IsSuite())
	require.Equal(t, "adds(Calc)", child.String())
	require.Equal(t, "Calc", child.ClassName())
	require.Equal(t, "adds", child.MethodName())

	leaf := suite.ChildlessCopy()
	require.True(t, leaf.IsTest())
	require.Equal(t, 1, suite.TestCount())
}
