// Package report turns run events into human readable output: a console
// listener printing each test as it finishes and a self-contained HTML
// report written from the collected results.
package report

import (
	"sync"
	"time"

	"github.com/denizgursoy/kosu/pkg/model"
	"github.com/denizgursoy/kosu/pkg/notification"
)

// Status represents the execution outcome of a test.
type Status int

const (
	// StatusPassed indicates the test finished without failure.
	StatusPassed Status = iota
	// StatusFailed indicates a failure was reported for the test.
	StatusFailed
	// StatusSkipped indicates an assumption of the test did not hold.
	StatusSkipped
	// StatusIgnored indicates the test was not run at all.
	StatusIgnored
)

func (s Status) String() string {
	switch s {
	case StatusPassed:
		return "passed"
	case StatusFailed:
		return "failed"
	case StatusSkipped:
		return "skipped"
	case StatusIgnored:
		return "ignored"
	default:
		return "unknown"
	}
}

// TestResult holds the outcome of a single test, or of a class level
// failure that happened outside any test.
type TestResult struct {
	Class      string
	Name       string
	Categories []string
	Status     Status
	// Error is the failure or assumption message. Empty for passed tests.
	Error string
	// Trace is the detailed failure description, when one exists.
	Trace     string
	Duration  time.Duration
	StartedAt time.Time
}

// Summary holds aggregate counters.
type Summary struct {
	Total   int
	Passed  int
	Failed  int
	Skipped int
	Ignored int
}

// RunResult holds the complete results of a run.
type RunResult struct {
	Tests     []TestResult
	Summary   Summary
	Duration  time.Duration
	StartedAt time.Time
}

func summarize(tests []TestResult) Summary {
	var s Summary
	for _, t := range tests {
		s.Total++
		switch t.Status {
		case StatusPassed:
			s.Passed++
		case StatusFailed:
			s.Failed++
		case StatusSkipped:
			s.Skipped++
		case StatusIgnored:
			s.Ignored++
		}
	}
	return s
}

// Collector is a listener recording a RunResult. A new run started on the
// same notifier replaces the previous result.
type Collector struct {
	mu      sync.Mutex
	clock   notification.Clock
	run     RunResult
	running map[*model.Description]*TestResult
}

// NewCollector creates a collector. A nil clock uses the system clock.
func NewCollector(clock notification.Clock) *Collector {
	if clock == nil {
		clock = notification.RealClock{}
	}
	return &Collector{
		clock:   clock,
		running: make(map[*model.Description]*TestResult),
	}
}

// Result returns the results collected so far.
func (c *Collector) Result() RunResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	run := c.run
	run.Tests = append([]TestResult(nil), c.run.Tests...)
	run.Summary = summarize(run.Tests)
	return run
}

func (c *Collector) TestRunStarted(*model.Description) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.run = RunResult{StartedAt: c.clock.Now()}
	c.running = make(map[*model.Description]*TestResult)
}

func (c *Collector) TestRunFinished(result *notification.Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.run.Duration = result.RunTime()
	c.run.Summary = summarize(c.run.Tests)
}

func (c *Collector) TestStarted(description *model.Description) {
	c.mu.Lock()
	defer c.mu.Unlock()
	test := newTestResult(description, StatusPassed)
	test.StartedAt = c.clock.Now()
	c.running[description] = &test
}

func (c *Collector) TestFinished(description *model.Description) {
	c.mu.Lock()
	defer c.mu.Unlock()
	test, ok := c.running[description]
	if !ok {
		return
	}
	delete(c.running, description)
	test.Duration = c.clock.Now().Sub(test.StartedAt)
	c.run.Tests = append(c.run.Tests, *test)
}

func (c *Collector) TestFailure(failure *notification.Failure) {
	c.record(failure, StatusFailed)
}

func (c *Collector) TestAssumptionFailure(failure *notification.Failure) {
	c.record(failure, StatusSkipped)
}

func (c *Collector) TestIgnored(description *model.Description) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.run.Tests = append(c.run.Tests, newTestResult(description, StatusIgnored))
}

// record marks the running test of failure. Failures of descriptions that
// are not running, such as a failing class hook, become results of their own.
func (c *Collector) record(failure *notification.Failure, status Status) {
	c.mu.Lock()
	defer c.mu.Unlock()

	test, ok := c.running[failure.Description]
	if !ok {
		result := newTestResult(failure.Description, status)
		result.Error = failure.Message()
		result.Trace = failure.Trace()
		result.Duration = failure.Elapsed
		c.run.Tests = append(c.run.Tests, result)
		return
	}
	if test.Status == StatusFailed {
		test.Error += "\n" + failure.Message()
		test.Trace += "\n" + failure.Trace()
		return
	}
	test.Status = status
	test.Error = failure.Message()
	test.Trace = failure.Trace()
}

func newTestResult(description *model.Description, status Status) TestResult {
	name := description.MethodName()
	if name == "" {
		name = description.DisplayName()
	}
	return TestResult{
		Class:      description.ClassName(),
		Name:       name,
		Categories: description.Categories(),
		Status:     status,
	}
}
