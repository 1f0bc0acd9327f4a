package notification

import (
	"fmt"
	"log/slog"
	"reflect"
	"slices"
	"sync"

	"github.com/denizgursoy/kosu/pkg/model"
)

// Notifier broadcasts execution events to its listeners in registration
// order. A listener that panics is removed for the rest of the run and the
// remaining listeners still receive the event.
//
// The listener slice is copy-on-write: every Fire call iterates over the
// snapshot taken when it started, so listeners may add or remove listeners
// while being notified.
type Notifier struct {
	mu        sync.Mutex
	listeners []*registration
	stopped   bool
	logger    *slog.Logger
}

// registration gives every added listener an identity, so listeners of
// non-comparable types can still be removed after a panic.
type registration struct {
	listener Listener
}

// NewNotifier creates a notifier without listeners. A nil logger discards
// log output.
func NewNotifier(logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Notifier{logger: logger}
}

// AddListener appends listener.
func (n *Notifier) AddListener(listener Listener) {
	if listener == nil {
		return
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.listeners = append(slices.Clone(n.listeners), &registration{listener: listener})
}

// AddFirstListener puts listener in front of all others so it observes every
// event before them.
func (n *Notifier) AddFirstListener(listener Listener) {
	if listener == nil {
		return
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.listeners = append([]*registration{{listener: listener}}, n.listeners...)
}

// RemoveListener removes the first occurrence of listener. Listeners of
// non-comparable types are never equal to anything and stay registered.
func (n *Notifier) RemoveListener(listener Listener) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for i, r := range n.listeners {
		if sameListener(r.listener, listener) {
			n.listeners = slices.Delete(slices.Clone(n.listeners), i, i+1)
			return
		}
	}
}

func (n *Notifier) remove(target *registration) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for i, r := range n.listeners {
		if r == target {
			n.listeners = slices.Delete(slices.Clone(n.listeners), i, i+1)
			return
		}
	}
}

func sameListener(a, b Listener) bool {
	typ := reflect.TypeOf(a)
	if typ != reflect.TypeOf(b) || !typ.Comparable() {
		return false
	}
	return a == b
}

// Listeners returns the current listeners in notification order.
func (n *Notifier) Listeners() []Listener {
	registrations := n.snapshot()
	listeners := make([]Listener, 0, len(registrations))
	for _, r := range registrations {
		listeners = append(listeners, r.listener)
	}
	return listeners
}

func (n *Notifier) snapshot() []*registration {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.listeners
}

// PleaseStop asks the runners to stop before the next test starts.
func (n *Notifier) PleaseStop() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.stopped = true
}

// Stopped reports whether PleaseStop was called.
func (n *Notifier) Stopped() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.stopped
}

func (n *Notifier) FireTestRunStarted(description *model.Description) {
	n.fire("TestRunStarted", func(l Listener) { l.TestRunStarted(description) })
}

func (n *Notifier) FireTestRunFinished(result *Result) {
	n.fire("TestRunFinished", func(l Listener) { l.TestRunFinished(result) })
}

func (n *Notifier) FireTestStarted(description *model.Description) {
	n.fire("TestStarted", func(l Listener) { l.TestStarted(description) })
}

func (n *Notifier) FireTestFinished(description *model.Description) {
	n.fire("TestFinished", func(l Listener) { l.TestFinished(description) })
}

func (n *Notifier) FireTestFailure(failure *Failure) {
	n.fire("TestFailure", func(l Listener) { l.TestFailure(failure) })
}

func (n *Notifier) FireTestAssumptionFailure(failure *Failure) {
	n.fire("TestAssumptionFailure", func(l Listener) { l.TestAssumptionFailure(failure) })
}

func (n *Notifier) FireTestIgnored(description *model.Description) {
	n.fire("TestIgnored", func(l Listener) { l.TestIgnored(description) })
}

func (n *Notifier) fire(event string, notify func(Listener)) {
	for _, r := range n.snapshot() {
		if err := safeNotify(r.listener, notify); err != nil {
			n.remove(r)
			n.logger.Warn("listener removed after panic",
				"event", event,
				"listener", fmt.Sprintf("%T", r.listener),
				"error", err,
			)
		}
	}
}

func safeNotify(listener Listener, notify func(Listener)) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &model.PanicError{Value: r}
		}
	}()
	notify(listener)
	return nil
}
