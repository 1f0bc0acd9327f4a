package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/denizgursoy/kosu/pkg/model"
	"github.com/denizgursoy/kosu/pkg/notification"
)

type stepClock struct {
	now  time.Time
	step time.Duration
}

func (c *stepClock) Now() time.Time {
	c.now = c.now.Add(c.step)
	return c.now
}

func runTest(n *notification.Notifier, d *model.Description, fail func()) {
	n.FireTestStarted(d)
	if fail != nil {
		fail()
	}
	n.FireTestFinished(d)
}

func TestListener(t *testing.T) {
	passing := model.CreateTestDescription("Calc", "adds")
	failing := model.CreateTestDescription("Calc", "divides")
	assumed := model.CreateTestDescription("Calc", "needsNetwork")
	ignored := model.CreateTestDescription("Calc", "later")
	suite := model.CreateSuiteDescription("Broken")

	setup := func() (*Listener, *notification.Notifier, *notification.Result) {
		listener := NewListener(&stepClock{step: time.Millisecond})
		result := notification.NewResult(notification.FixedClock{})
		n := notification.NewNotifier(nil)
		n.AddListener(result.Listener())
		n.AddListener(listener)
		return listener, n, result
	}

	t.Run("counts tests by result", func(t *testing.T) {
		listener, n, result := setup()

		n.FireTestRunStarted(model.CreateSuiteDescription("all"))
		runTest(n, passing, nil)
		runTest(n, failing, func() {
			n.FireTestFailure(notification.NewFailure(failing, errors.New("division by zero")))
		})
		runTest(n, assumed, func() {
			n.FireTestAssumptionFailure(notification.NewFailure(assumed, &model.AssumptionViolatedError{Message: "offline"}))
		})
		n.FireTestIgnored(ignored)
		n.FireTestRunFinished(result)

		require.Equal(t, 1.0, testutil.ToFloat64(listener.testsTotal.WithLabelValues("Calc", ResultPassed)))
		require.Equal(t, 1.0, testutil.ToFloat64(listener.testsTotal.WithLabelValues("Calc", ResultFailed)))
		require.Equal(t, 1.0, testutil.ToFloat64(listener.testsTotal.WithLabelValues("Calc", ResultAssumptionFailure)))
		require.Equal(t, 1.0, testutil.ToFloat64(listener.testsTotal.WithLabelValues("Calc", ResultIgnored)))
		require.Equal(t, 1.0, testutil.ToFloat64(listener.failuresTotal.WithLabelValues("Calc")))
		require.Equal(t, 1.0, testutil.ToFloat64(listener.runsTotal))
		require.Equal(t, 0.0, testutil.ToFloat64(listener.runSuccessful))
		require.Equal(t, 1, testutil.CollectAndCount(listener.testDuration))
	})

	t.Run("counts class level failures without a test", func(t *testing.T) {
		listener, n, result := setup()

		n.FireTestRunStarted(suite)
		n.FireTestFailure(notification.NewFailure(suite, errors.New("before class failed")))
		n.FireTestRunFinished(result)

		require.Equal(t, 1.0, testutil.ToFloat64(listener.failuresTotal.WithLabelValues("Broken")))
		require.Zero(t, testutil.CollectAndCount(listener.testsTotal))
	})

	t.Run("marks successful runs", func(t *testing.T) {
		listener, n, result := setup()

		n.FireTestRunStarted(suite)
		runTest(n, passing, nil)
		n.FireTestRunFinished(result)

		require.Equal(t, 1.0, testutil.ToFloat64(listener.runSuccessful))
	})

	t.Run("writes a textfile", func(t *testing.T) {
		listener, n, result := setup()
		n.FireTestRunStarted(suite)
		runTest(n, passing, nil)
		n.FireTestRunFinished(result)

		path := filepath.Join(t.TempDir(), "kosu.prom")
		require.NoError(t, listener.WriteToTextfile(path))

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		require.Contains(t, string(content), `kosu_tests_total{class="Calc",result="passed"} 1`)
		require.Contains(t, string(content), "kosu_runs_total 1")
	})
}
