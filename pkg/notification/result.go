package notification

import (
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/denizgursoy/kosu/pkg/model"
)

// Result accumulates the outcome of one run. It is mutated only through the
// listener returned by Listener and is frozen once the run has finished.
type Result struct {
	mu                     sync.Mutex
	runID                  uuid.UUID
	clock                  Clock
	runCount               int
	ignoreCount            int
	assumptionFailureCount int
	failures               []*Failure
	startedAt              time.Time
	runTime                time.Duration
	finished               bool
}

// NewResult creates an empty result. A nil clock uses the system clock.
func NewResult(clock Clock) *Result {
	if clock == nil {
		clock = RealClock{}
	}
	return &Result{
		runID: uuid.New(),
		clock: clock,
	}
}

// Listener returns the listener feeding this result.
func (r *Result) Listener() Listener {
	return &resultListener{result: r}
}

// RunID identifies the run.
func (r *Result) RunID() uuid.UUID {
	return r.runID
}

// RunCount returns the number of tests started.
func (r *Result) RunCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.runCount
}

// FailureCount returns the number of failures.
func (r *Result) FailureCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.failures)
}

// Failures returns the failures in the order they happened.
func (r *Result) Failures() []*Failure {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.failures)
}

// IgnoreCount returns the number of ignored tests.
func (r *Result) IgnoreCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ignoreCount
}

// AssumptionFailureCount returns the number of violated assumptions. They
// are not failures.
func (r *Result) AssumptionFailureCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.assumptionFailureCount
}

// RunTime returns the elapsed time of the run, zero until it has finished.
func (r *Result) RunTime() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.runTime
}

// Finished reports whether the run has finished.
func (r *Result) Finished() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.finished
}

// WasSuccessful reports whether the run had no failures.
func (r *Result) WasSuccessful() bool {
	return r.FailureCount() == 0
}

// update applies fn unless the result is frozen.
func (r *Result) update(fn func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.finished {
		return
	}
	fn()
}

type resultListener struct {
	result *Result
}

func (l *resultListener) TestRunStarted(*model.Description) {
	r := l.result
	r.update(func() {
		r.runCount = 0
		r.ignoreCount = 0
		r.assumptionFailureCount = 0
		r.failures = nil
		r.startedAt = r.clock.Now()
	})
}

func (l *resultListener) TestRunFinished(*Result) {
	r := l.result
	r.update(func() {
		r.runTime = r.clock.Now().Sub(r.startedAt)
		r.finished = true
	})
}

func (l *resultListener) TestStarted(*model.Description) {
	r := l.result
	r.update(func() { r.runCount++ })
}

func (l *resultListener) TestFinished(*model.Description) {}

func (l *resultListener) TestFailure(failure *Failure) {
	r := l.result
	r.update(func() { r.failures = append(r.failures, failure) })
}

func (l *resultListener) TestAssumptionFailure(*Failure) {
	r := l.result
	r.update(func() { r.assumptionFailureCount++ })
}

func (l *resultListener) TestIgnored(*model.Description) {
	r := l.result
	r.update(func() { r.ignoreCount++ })
}
