// Package runner builds and runs the tree of runnable nodes: suites,
// specifications and single tests.
package runner

import (
	"log/slog"
	"time"

	"github.com/denizgursoy/kosu/pkg/model"
	"github.com/denizgursoy/kosu/pkg/notification"
)

// Runner is a node of the execution tree.
type Runner interface {
	// Description describes the node and its current children.
	Description() *model.Description
	// Run executes the node and reports every event to notifier.
	Run(notifier *notification.Notifier)
}

// Options configures the runners created for specifications.
type Options struct {
	// DefaultTimeout applies to tests that declare no timeout. Zero disables it.
	DefaultTimeout time.Duration
	// Clock measures the elapsed time of failures. Nil uses the system clock.
	Clock notification.Clock
	// Logger receives builder diagnostics. Nil discards them.
	Logger *slog.Logger
}

func (o Options) clock() notification.Clock {
	if o.Clock == nil {
		return notification.RealClock{}
	}
	return o.Clock
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return o.Logger
}
