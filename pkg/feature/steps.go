package feature

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"time"

	messages "github.com/cucumber/messages/go/v21"
)

var (
	ErrUndefinedStep = errors.New("no matching step definition found")

	contextType   = reflect.TypeFor[context.Context]()
	errorType     = reflect.TypeFor[error]()
	worldType     = reflect.TypeFor[*World]()
	tableType     = reflect.TypeFor[*messages.PickleTable]()
	dataTableType = reflect.TypeFor[Table]()
	docStringType = reflect.TypeFor[*messages.PickleDocString]()
	durationType  = reflect.TypeFor[time.Duration]()
)

// StepDefinition holds a compiled regex pattern and its associated function
type StepDefinition struct {
	Pattern  *regexp.Regexp
	Function any
}

// StepRegistry matches step texts against registered definitions and calls
// them. It is shared by every scenario; per-scenario state lives in the
// World passed to Run.
type StepRegistry struct {
	steps      []StepDefinition
	patternSet map[string]bool // Track registered patterns for duplicate detection
}

func NewStepRegistry() *StepRegistry {
	return &StepRegistry{
		steps:      make([]StepDefinition, 0),
		patternSet: make(map[string]bool),
	}
}

// RegisterStep registers a step definition with its regex pattern and function.
//
// Parameters of type context.Context, *World, Table, *messages.PickleTable
// and *messages.PickleDocString are injected; every other parameter consumes the
// next capture group. Results may be a context.Context, which replaces the
// scenario context, and an error, which fails the step.
func (r *StepRegistry) RegisterStep(pattern string, fn any) error {
	// Check for duplicate pattern
	if r.patternSet[pattern] {
		return fmt.Errorf("duplicate step pattern: %s", pattern)
	}

	compiled, err := regexp.Compile(pattern)
	if err != nil {
		return fmt.Errorf("invalid step pattern %q: %w", pattern, err)
	}

	// Validate function signature
	fnType := reflect.TypeOf(fn)
	if fnType == nil || fnType.Kind() != reflect.Func {
		return fmt.Errorf("step handler must be a function, got %T", fn)
	}
	for i := 0; i < fnType.NumOut(); i++ {
		if out := fnType.Out(i); out != contextType && out != errorType {
			return fmt.Errorf("step handler for %q returns unsupported type %s", pattern, out)
		}
	}

	r.steps = append(r.steps, StepDefinition{
		Pattern:  compiled,
		Function: fn,
	})
	r.patternSet[pattern] = true
	return nil
}

// MustRegisterStep is RegisterStep that panics on error, for use in
// package-level setup.
func (r *StepRegistry) MustRegisterStep(pattern string, fn any) *StepRegistry {
	if err := r.RegisterStep(pattern, fn); err != nil {
		panic(err)
	}
	return r
}

// Len returns the number of registered step definitions.
func (r *StepRegistry) Len() int {
	return len(r.steps)
}

// Run finds the first definition matching step and calls it in world.
func (r *StepRegistry) Run(world *World, step *messages.PickleStep) error {
	for _, stepDef := range r.steps {
		matches := stepDef.Pattern.FindStringSubmatch(step.Text)
		if matches == nil {
			continue
		}

		// Extract capture groups (skip the full match at index 0)
		newCtx, err := r.invoke(world, stepDef.Function, matches[1:], step.Argument)
		if newCtx != nil {
			world.SetContext(newCtx)
		}
		return err
	}

	return fmt.Errorf("%w: %s", ErrUndefinedStep, step.Text)
}

func (r *StepRegistry) invoke(world *World, fn any, captured []string, argument *messages.PickleStepArgument) (context.Context, error) {
	fnValue := reflect.ValueOf(fn)
	fnType := fnValue.Type()

	callArgs, err := buildCallArgs(world, fnType, captured, argument)
	if err != nil {
		return nil, err
	}

	return processReturnValues(fnType, fnValue.Call(callArgs))
}

// buildCallArgs constructs the argument slice for function invocation
func buildCallArgs(world *World, fnType reflect.Type, captured []string, argument *messages.PickleStepArgument) ([]reflect.Value, error) {
	numParams := fnType.NumIn()
	callArgs := make([]reflect.Value, 0, numParams)

	capturedIndex := 0

	for i := 0; i < numParams; i++ {
		paramType := fnType.In(i)

		switch paramType {
		case contextType:
			callArgs = append(callArgs, reflect.ValueOf(world.Context()))
			continue
		case worldType:
			callArgs = append(callArgs, reflect.ValueOf(world))
			continue
		case tableType:
			if argument == nil || argument.DataTable == nil {
				return nil, errors.New("step has no data table")
			}
			callArgs = append(callArgs, reflect.ValueOf(argument.DataTable))
			continue
		case dataTableType:
			if argument == nil || argument.DataTable == nil {
				return nil, errors.New("step has no data table")
			}
			callArgs = append(callArgs, reflect.ValueOf(NewTableFromPickle(argument.DataTable)))
			continue
		case docStringType:
			if argument == nil || argument.DocString == nil {
				return nil, errors.New("step has no doc string")
			}
			callArgs = append(callArgs, reflect.ValueOf(argument.DocString))
			continue
		}

		// Otherwise, consume from captured arguments
		if capturedIndex >= len(captured) {
			return nil, fmt.Errorf("not enough captured arguments: expected %d more, have %d", numParams-i, len(captured)-capturedIndex)
		}

		arg := captured[capturedIndex]
		capturedIndex++

		converted, err := convertArg(arg, paramType)
		if err != nil {
			return nil, fmt.Errorf("failed to convert argument %q to %s: %w", arg, paramType, err)
		}
		callArgs = append(callArgs, converted)
	}

	return callArgs, nil
}

// processReturnValues extracts context and error from function return values
func processReturnValues(fnType reflect.Type, results []reflect.Value) (context.Context, error) {
	var newCtx context.Context
	var retErr error

	for i, result := range results {
		if result.IsNil() {
			continue
		}
		switch fnType.Out(i) {
		case contextType:
			newCtx = result.Interface().(context.Context)
		case errorType:
			retErr = result.Interface().(error)
		}
	}

	return newCtx, retErr
}

// convertArg converts a captured string to the target type. Named types are
// supported through their underlying kind.
func convertArg(arg string, targetType reflect.Type) (reflect.Value, error) {
	if targetType == durationType {
		d, err := time.ParseDuration(arg)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(d), nil
	}

	var v any
	var err error
	switch targetType.Kind() {
	case reflect.String:
		v = arg
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v, err = strconv.ParseInt(arg, 10, targetType.Bits())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		v, err = strconv.ParseUint(arg, 10, targetType.Bits())
	case reflect.Float32, reflect.Float64:
		v, err = strconv.ParseFloat(arg, targetType.Bits())
	case reflect.Bool:
		v, err = strconv.ParseBool(arg)
	default:
		return reflect.Value{}, fmt.Errorf("unsupported parameter type: %s", targetType.Kind())
	}
	if err != nil {
		return reflect.Value{}, err
	}
	return reflect.ValueOf(v).Convert(targetType), nil
}
