// Package metrics exports test run events as Prometheus metrics.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/denizgursoy/kosu/pkg/model"
	"github.com/denizgursoy/kosu/pkg/notification"
)

const (
	Namespace = "kosu"

	ResultPassed            = "passed"
	ResultFailed            = "failed"
	ResultAssumptionFailure = "assumption_failed"
	ResultIgnored           = "ignored"
)

// Listener is a notification.Listener that counts tests by result and
// observes their durations. Every Listener owns its registry.
type Listener struct {
	registry *prometheus.Registry
	clock    notification.Clock

	mu      sync.Mutex
	started map[*model.Description]time.Time
	outcome map[*model.Description]string

	testsTotal    *prometheus.CounterVec
	failuresTotal *prometheus.CounterVec
	testDuration  *prometheus.HistogramVec
	runDuration   prometheus.Gauge
	runSuccessful prometheus.Gauge
	runsTotal     prometheus.Counter
}

// NewListener registers the run metrics in a new registry. A nil clock
// uses the wall clock.
func NewListener(clock notification.Clock) *Listener {
	if clock == nil {
		clock = notification.RealClock{}
	}
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Listener{
		registry: registry,
		clock:    clock,
		started:  make(map[*model.Description]time.Time),
		outcome:  make(map[*model.Description]string),

		testsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "tests_total",
			Help:      "Count of tests by result",
		}, []string{
			"class",
			"result",
		}),
		failuresTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "failures_total",
			Help:      "Count of reported failures, including class level failures",
		}, []string{
			"class",
		}),
		testDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "test_duration_seconds",
			Help:      "Duration of tests",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}, []string{
			"class",
		}),
		runDuration: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "run_duration_seconds",
			Help:      "Duration of the last test run",
		}),
		runSuccessful: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "run_successful",
			Help:      "1 if the last test run had no failures, 0 otherwise",
		}),
		runsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "runs_total",
			Help:      "Count of finished test runs",
		}),
	}
}

// Registry returns the registry holding the run metrics.
func (l *Listener) Registry() *prometheus.Registry {
	return l.registry
}

// WriteToTextfile writes the metrics in the text exposition format, for
// the node exporter textfile collector.
func (l *Listener) WriteToTextfile(path string) error {
	return prometheus.WriteToTextfile(path, l.registry)
}

func (l *Listener) TestRunStarted(*model.Description) {}

func (l *Listener) TestRunFinished(result *notification.Result) {
	l.runsTotal.Inc()
	l.runDuration.Set(result.RunTime().Seconds())
	if result.WasSuccessful() {
		l.runSuccessful.Set(1)
	} else {
		l.runSuccessful.Set(0)
	}
}

func (l *Listener) TestStarted(description *model.Description) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.started[description] = l.clock.Now()
	l.outcome[description] = ResultPassed
}

func (l *Listener) TestFinished(description *model.Description) {
	l.mu.Lock()
	start, ok := l.started[description]
	outcome := l.outcome[description]
	delete(l.started, description)
	delete(l.outcome, description)
	l.mu.Unlock()

	if !ok {
		return
	}
	class := className(description)
	l.testsTotal.WithLabelValues(class, outcome).Inc()
	l.testDuration.WithLabelValues(class).Observe(l.clock.Now().Sub(start).Seconds())
}

func (l *Listener) TestFailure(failure *notification.Failure) {
	l.failuresTotal.WithLabelValues(className(failure.Description)).Inc()
	l.setOutcome(failure.Description, ResultFailed)
}

func (l *Listener) TestAssumptionFailure(failure *notification.Failure) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.outcome[failure.Description] == ResultPassed {
		l.outcome[failure.Description] = ResultAssumptionFailure
	}
}

func (l *Listener) TestIgnored(description *model.Description) {
	l.testsTotal.WithLabelValues(className(description), ResultIgnored).Inc()
}

func (l *Listener) setOutcome(description *model.Description, outcome string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.outcome[description]; ok {
		l.outcome[description] = outcome
	}
}

func className(description *model.Description) string {
	if description == nil {
		return ""
	}
	return description.ClassName()
}
