package report

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/denizgursoy/kosu/pkg/model"
	"github.com/denizgursoy/kosu/pkg/notification"
)

// ANSI color codes
const (
	colorReset = "\033[0m"
	colorGreen = "\033[32m"
	colorRed   = "\033[31m"

	colorKeyword = "\033[38;2;207;142;109m" // #CF8E6D class headers
	colorText    = "\033[38;2;188;190;196m" // #BCBEC4 test names
	colorSkipped = "\033[38;2;111;115;122m" // #6F737A skipped and ignored test names
	colorYellow  = "\033[33m"               // skipped symbol
)

// Symbols for test status
const (
	symbolPass = "✓"
	symbolFail = "✗"
	symbolSkip = "-"
)

const nameWidth = 56

// ConsoleReporter is a listener printing every test when it finishes,
// grouped under its class, followed by a summary at the end of the run.
type ConsoleReporter struct {
	out       io.Writer
	useColors bool

	mu       sync.Mutex
	class    string
	failures map[*model.Description][]string
	skipped  map[*model.Description]string
	summary  Summary
}

// NewConsoleReporter creates a reporter writing to out.
func NewConsoleReporter(out io.Writer, useColors bool) *ConsoleReporter {
	return &ConsoleReporter{
		out:       out,
		useColors: useColors,
		failures:  make(map[*model.Description][]string),
		skipped:   make(map[*model.Description]string),
	}
}

func (r *ConsoleReporter) writeln(s string) {
	_, _ = io.WriteString(r.out, s+"\n")
}

func (r *ConsoleReporter) color(c, s string) string {
	if r.useColors {
		return c + s + colorReset
	}
	return s
}

// header prints the class name when it differs from the previous one.
func (r *ConsoleReporter) header(description *model.Description) {
	class := description.ClassName()
	if class == r.class {
		return
	}
	r.class = class
	r.writeln("")
	r.writeln(r.color(colorKeyword, class))
}

func (r *ConsoleReporter) line(name, nameColor, symbol, symbolColor string) {
	padded := fmt.Sprintf("%-*s", nameWidth, name)
	r.writeln("  " + r.color(nameColor, padded) + " " + r.color(symbolColor, symbol))
}

func (r *ConsoleReporter) messages(messages ...string) {
	for _, message := range messages {
		for _, line := range strings.Split(message, "\n") {
			r.writeln(r.color(colorRed, "      "+line))
		}
	}
}

// GetSummary returns the counters of the current run.
func (r *ConsoleReporter) GetSummary() Summary {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.summary
}

func (r *ConsoleReporter) TestRunStarted(*model.Description) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.class = ""
	r.summary = Summary{}
	r.failures = make(map[*model.Description][]string)
	r.skipped = make(map[*model.Description]string)
}

func (r *ConsoleReporter) TestRunFinished(result *notification.Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.printSummary(result)
}

func (r *ConsoleReporter) TestStarted(description *model.Description) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures[description] = nil
}

func (r *ConsoleReporter) TestFinished(description *model.Description) {
	r.mu.Lock()
	defer r.mu.Unlock()

	failures, running := r.failures[description]
	if !running {
		return
	}
	delete(r.failures, description)
	reason, skipped := r.skipped[description]
	delete(r.skipped, description)

	r.header(description)
	r.summary.Total++
	name := testName(description)
	switch {
	case len(failures) > 0:
		r.summary.Failed++
		r.line(name, colorText, symbolFail, colorRed)
		r.messages(failures...)
	case skipped:
		r.summary.Skipped++
		r.line(name, colorSkipped, symbolSkip, colorYellow)
		r.writeln(r.color(colorSkipped, "      "+reason))
	default:
		r.summary.Passed++
		r.line(name, colorText, symbolPass, colorGreen)
	}
}

func (r *ConsoleReporter) TestFailure(failure *notification.Failure) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if failures, running := r.failures[failure.Description]; running {
		r.failures[failure.Description] = append(failures, failure.Message())
		return
	}
	// failures outside of a test, e.g. a failing class hook
	r.header(failure.Description)
	r.summary.Total++
	r.summary.Failed++
	r.line(testName(failure.Description), colorText, symbolFail, colorRed)
	r.messages(failure.Message())
}

func (r *ConsoleReporter) TestAssumptionFailure(failure *notification.Failure) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, running := r.failures[failure.Description]; running {
		r.skipped[failure.Description] = failure.Message()
	}
}

func (r *ConsoleReporter) TestIgnored(description *model.Description) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.header(description)
	r.summary.Total++
	r.summary.Ignored++
	r.line(testName(description), colorSkipped, symbolSkip, colorYellow)
}

// printSummary prints the final test summary
func (r *ConsoleReporter) printSummary(result *notification.Result) {
	summary := r.summary

	r.writeln("")
	line := fmt.Sprintf("%d test(s)", summary.Total)
	if summary.Total > 0 {
		var parts []string
		if summary.Passed > 0 {
			parts = append(parts, r.color(colorGreen, fmt.Sprintf("%d passed", summary.Passed)))
		}
		if summary.Failed > 0 {
			parts = append(parts, r.color(colorRed, fmt.Sprintf("%d failed", summary.Failed)))
		}
		if summary.Skipped > 0 {
			parts = append(parts, r.color(colorYellow, fmt.Sprintf("%d skipped", summary.Skipped)))
		}
		if summary.Ignored > 0 {
			parts = append(parts, r.color(colorYellow, fmt.Sprintf("%d ignored", summary.Ignored)))
		}
		line += " (" + strings.Join(parts, ", ") + ")"
	}
	r.writeln(line)
	r.writeln(fmt.Sprintf("Time: %s", result.RunTime()))
}

func testName(description *model.Description) string {
	if name := description.MethodName(); name != "" {
		return name
	}
	return description.DisplayName()
}
