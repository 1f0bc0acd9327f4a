// Package notification delivers execution events to listeners and
// aggregates them into a run result.
package notification

import "github.com/denizgursoy/kosu/pkg/model"

// Listener receives execution events. For one test the events always arrive
// in the order started, failures or assumption failures, finished.
//
// RemoveListener compares listeners with ==, so implementations meant to be
// removed by the caller should be pointers.
type Listener interface {
	// TestRunStarted is called before any test runs.
	TestRunStarted(description *model.Description)
	// TestRunFinished is called after every test has finished.
	TestRunFinished(result *Result)
	// TestStarted is called when a test is about to start.
	TestStarted(description *model.Description)
	// TestFinished is called when a test has finished, whether or not it failed.
	TestFinished(description *model.Description)
	// TestFailure is called when a test fails.
	TestFailure(failure *Failure)
	// TestAssumptionFailure is called when a test's assumption does not hold.
	TestAssumptionFailure(failure *Failure)
	// TestIgnored is called when a test will not run.
	TestIgnored(description *model.Description)
}

// BaseListener implements every Listener method as a no-op. Embed it to
// handle only the events of interest.
type BaseListener struct{}

func (BaseListener) TestRunStarted(*model.Description) {}
func (BaseListener) TestRunFinished(*Result)           {}
func (BaseListener) TestStarted(*model.Description)    {}
func (BaseListener) TestFinished(*model.Description)   {}
func (BaseListener) TestFailure(*Failure)              {}
func (BaseListener) TestAssumptionFailure(*Failure)    {}
func (BaseListener) TestIgnored(*model.Description)    {}
