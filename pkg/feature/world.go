package feature

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/denizgursoy/kosu/pkg/assert"
)

// World is the subject of one scenario run: it carries the scenario's
// context, logger and data from step to step. A fresh World is created for
// every scenario.
type World struct {
	ctx      context.Context
	logger   *slog.Logger
	values   map[string]any
	scenario Scenario
	err      error
}

// NewWorld creates the world of scenario. A nil logger discards output.
func NewWorld(scenario Scenario, logger *slog.Logger) *World {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &World{
		ctx:      context.Background(),
		logger:   logger.With("scenario", scenario.Name),
		values:   make(map[string]any),
		scenario: scenario,
	}
}

// Context returns the context passed to steps.
func (w *World) Context() context.Context {
	return w.ctx
}

// SetContext replaces the context passed to the next steps.
func (w *World) SetContext(ctx context.Context) {
	if ctx != nil {
		w.ctx = ctx
	}
}

func (w *World) Logger() *slog.Logger {
	return w.logger
}

// Assert returns fail-fast assertions. A failed assertion fails the running
// step.
func (w *World) Assert() *assert.Assert {
	return assert.New()
}

// Scenario returns the metadata of the running scenario.
func (w *World) Scenario() Scenario {
	return w.scenario
}

// Err returns the failure of the scenario so far, nil while it passes.
func (w *World) Err() error {
	return w.err
}

// Set stores a value in the scenario-scoped data store.
func (w *World) Set(key string, value any) {
	w.values[key] = value
}

// Get retrieves a value from the scenario-scoped data store.
func (w *World) Get(key string) (any, bool) {
	v, ok := w.values[key]
	return v, ok
}

// MustGet retrieves a value or panics if not found. The panic fails the
// running step.
func (w *World) MustGet(key string) any {
	v, ok := w.values[key]
	if !ok {
		panic(fmt.Errorf("key %q not found in world data", key))
	}
	return v
}

func (w *World) fail(err error) {
	if w.err == nil {
		w.err = err
	}
}
