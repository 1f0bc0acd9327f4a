package notification

import (
	"log/slog"

	"github.com/denizgursoy/kosu/pkg/model"
)

// LogListener writes every event to a structured logger. Test-level events
// are logged at debug, failures at warn.
type LogListener struct {
	logger *slog.Logger
}

func NewLogListener(logger *slog.Logger) *LogListener {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogListener{logger: logger}
}

func (l *LogListener) TestRunStarted(description *model.Description) {
	l.logger.Info("test run started", "suite", description.DisplayName(), "tests", description.TestCount())
}

func (l *LogListener) TestRunFinished(result *Result) {
	l.logger.Info("test run finished",
		"run_id", result.RunID().String(),
		"run", result.RunCount(),
		"failures", result.FailureCount(),
		"ignored", result.IgnoreCount(),
		"assumption_failures", result.AssumptionFailureCount(),
		"elapsed", result.RunTime(),
		"successful", result.WasSuccessful(),
	)
}

func (l *LogListener) TestStarted(description *model.Description) {
	l.logger.Debug("test started", "test", description.DisplayName())
}

func (l *LogListener) TestFinished(description *model.Description) {
	l.logger.Debug("test finished", "test", description.DisplayName())
}

func (l *LogListener) TestFailure(failure *Failure) {
	l.logger.Warn("test failed",
		"test", failure.TestHeader(),
		"error", failure.Message(),
		"elapsed", failure.Elapsed,
	)
}

func (l *LogListener) TestAssumptionFailure(failure *Failure) {
	l.logger.Info("assumption failed", "test", failure.TestHeader(), "reason", failure.Message())
}

func (l *LogListener) TestIgnored(description *model.Description) {
	l.logger.Info("test ignored", "test", description.DisplayName())
}
