package feature

import (
	"sort"

	"github.com/denizgursoy/kosu/pkg/model"
)

// Hooks holds lifecycle hooks for feature execution.
// All registered hook functions are executed, sorted by Order.
type Hooks struct {
	// Order determines execution order (lower = runs first).
	// Default is 0. Hooks with same Order run in registration order.
	Order int

	// BeforeAll runs once before the scenarios of each feature. An error
	// fails the feature and its scenarios are not run.
	BeforeAll func() error

	// AfterAll runs once after the scenarios of each feature.
	AfterAll func() error

	// BeforeScenario runs before each scenario.
	// The Scenario argument contains the scenario metadata (name, tags, etc.).
	BeforeScenario func(Scenario) error

	// AfterScenario runs after each scenario, even a failed one.
	// The error is nil when the scenario passed, non-nil on failure.
	AfterScenario func(Scenario, error) error

	// BeforeStep runs before each step.
	BeforeStep func(Step)

	// AfterStep runs after each step.
	// The error is nil when the step passed, non-nil on failure.
	AfterStep func(Step, error)
}

// SortHooks sorts hooks by Order (ascending).
// Hooks with the same Order maintain their relative order (stable sort).
func SortHooks(hooks []*Hooks) []*Hooks {
	sorted := make([]*Hooks, len(hooks))
	copy(sorted, hooks)

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Order < sorted[j].Order
	})

	return sorted
}

// HookExecutor manages execution of multiple hooks.
type HookExecutor struct {
	hooks []*Hooks // sorted by Order
}

// NewHookExecutor creates a new HookExecutor with sorted hooks.
func NewHookExecutor(hooks ...*Hooks) *HookExecutor {
	// Filter out nil hooks
	validHooks := make([]*Hooks, 0, len(hooks))
	for _, h := range hooks {
		if h != nil {
			validHooks = append(validHooks, h)
		}
	}

	return &HookExecutor{
		hooks: SortHooks(validHooks),
	}
}

// Empty reports whether there is no hook at all.
func (e *HookExecutor) Empty() bool {
	return len(e.hooks) == 0
}

// ExecuteBeforeAll executes BeforeAll hooks in order until one fails.
func (e *HookExecutor) ExecuteBeforeAll() error {
	for _, h := range e.hooks {
		if h.BeforeAll != nil {
			if err := h.BeforeAll(); err != nil {
				return err
			}
		}
	}
	return nil
}

// ExecuteAfterAll executes every AfterAll hook in order (same as BeforeAll)
// and reports all failures.
func (e *HookExecutor) ExecuteAfterAll() error {
	var errs []error
	for _, h := range e.hooks {
		if h.AfterAll != nil {
			if err := h.AfterAll(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return model.CombineErrors(errs)
}

// ExecuteBeforeScenario executes BeforeScenario hooks in order until one fails.
func (e *HookExecutor) ExecuteBeforeScenario(scenario Scenario) error {
	for _, h := range e.hooks {
		if h.BeforeScenario != nil {
			if err := h.BeforeScenario(scenario); err != nil {
				return err
			}
		}
	}
	return nil
}

// ExecuteAfterScenario executes every AfterScenario hook in order and
// reports all failures.
func (e *HookExecutor) ExecuteAfterScenario(scenario Scenario, scenarioErr error) error {
	var errs []error
	for _, h := range e.hooks {
		if h.AfterScenario != nil {
			if err := h.AfterScenario(scenario, scenarioErr); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return model.CombineErrors(errs)
}

// ExecuteBeforeStep executes all BeforeStep hooks in order.
func (e *HookExecutor) ExecuteBeforeStep(step Step) {
	for _, h := range e.hooks {
		if h.BeforeStep != nil {
			h.BeforeStep(step)
		}
	}
}

// ExecuteAfterStep executes all AfterStep hooks in order.
func (e *HookExecutor) ExecuteAfterStep(step Step, err error) {
	for _, h := range e.hooks {
		if h.AfterStep != nil {
			h.AfterStep(step, err)
		}
	}
}
