package notification

import (
	"slices"
	"sync"
	"time"

	"github.com/denizgursoy/kosu/pkg/model"
)

// EventKind identifies an execution event.
type EventKind int

const (
	EventRunStarted EventKind = iota
	EventTestStarted
	EventTestFailure
	EventTestAssumptionFailure
	EventTestIgnored
	EventTestFinished
	EventRunFinished
)

// String returns a human-readable label for the event kind.
func (k EventKind) String() string {
	switch k {
	case EventRunStarted:
		return "run-started"
	case EventTestStarted:
		return "started"
	case EventTestFailure:
		return "failed"
	case EventTestAssumptionFailure:
		return "assumption-failed"
	case EventTestIgnored:
		return "ignored"
	case EventTestFinished:
		return "finished"
	case EventRunFinished:
		return "run-finished"
	default:
		return "unknown"
	}
}

// Event is one recorded execution event.
type Event struct {
	Kind        EventKind
	Description *model.Description
	// Failure is set for failure and assumption failure events.
	Failure *Failure
	At      time.Time
}

// Recorder is a listener keeping every event in order.
type Recorder struct {
	mu     sync.Mutex
	clock  Clock
	events []Event
}

// NewRecorder creates an empty recorder. A nil clock uses the system clock.
func NewRecorder(clock Clock) *Recorder {
	if clock == nil {
		clock = RealClock{}
	}
	return &Recorder{clock: clock}
}

// Events returns the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.events)
}

// Kinds returns the kinds of the recorded events.
func (r *Recorder) Kinds() []EventKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	kinds := make([]EventKind, 0, len(r.events))
	for _, e := range r.events {
		kinds = append(kinds, e.Kind)
	}
	return kinds
}

// Trace returns "kind:name" for every recorded event.
func (r *Recorder) Trace() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	trace := make([]string, 0, len(r.events))
	for _, e := range r.events {
		name := ""
		if e.Description != nil {
			name = e.Description.DisplayName()
		}
		trace = append(trace, e.Kind.String()+":"+name)
	}
	return trace
}

func (r *Recorder) record(kind EventKind, description *model.Description, failure *Failure) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Event{
		Kind:        kind,
		Description: description,
		Failure:     failure,
		At:          r.clock.Now(),
	})
}

func (r *Recorder) TestRunStarted(description *model.Description) {
	r.record(EventRunStarted, description, nil)
}

func (r *Recorder) TestRunFinished(*Result) {
	r.record(EventRunFinished, nil, nil)
}

func (r *Recorder) TestStarted(description *model.Description) {
	r.record(EventTestStarted, description, nil)
}

func (r *Recorder) TestFinished(description *model.Description) {
	r.record(EventTestFinished, description, nil)
}

func (r *Recorder) TestFailure(failure *Failure) {
	r.record(EventTestFailure, failure.Description, failure)
}

func (r *Recorder) TestAssumptionFailure(failure *Failure) {
	r.record(EventTestAssumptionFailure, failure.Description, failure)
}

func (r *Recorder) TestIgnored(description *model.Description) {
	r.record(EventTestIgnored, description, nil)
}
