package report

import (
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"
)

const uncategorized = "Uncategorized"

// categoryGroup holds tests sharing the same category combination.
type categoryGroup struct {
	Label    string
	Count    int
	Duration time.Duration
	Tests    []TestResult
}

// statusSection holds every test of one status, grouped by categories.
type statusSection struct {
	Label    string
	CSSClass string
	Count    int
	Duration time.Duration
	Groups   []categoryGroup
}

// reportData is the view model passed to the HTML template.
type reportData struct {
	Summary       Summary
	TotalDuration time.Duration
	ExecutedAt    time.Time
	Sections      []statusSection
}

func sumDurations(tests []TestResult) time.Duration {
	var total time.Duration
	for _, t := range tests {
		total += t.Duration
	}
	return total
}

// buildReportData orders the sections failed, skipped, ignored and passed,
// leaving out empty ones.
func buildReportData(result RunResult) reportData {
	byStatus := make(map[Status][]TestResult)
	for _, test := range result.Tests {
		byStatus[test.Status] = append(byStatus[test.Status], test)
	}

	var sections []statusSection
	for _, status := range []Status{StatusFailed, StatusSkipped, StatusIgnored, StatusPassed} {
		tests := byStatus[status]
		if len(tests) == 0 {
			continue
		}
		sections = append(sections, statusSection{
			Label:    strings.ToUpper(status.String()[:1]) + status.String()[1:] + " Tests",
			CSSClass: status.String(),
			Count:    len(tests),
			Duration: sumDurations(tests),
			Groups:   groupByCategories(tests),
		})
	}

	summary := result.Summary
	if summary == (Summary{}) {
		summary = summarize(result.Tests)
	}
	return reportData{
		Summary:       summary,
		TotalDuration: result.Duration,
		ExecutedAt:    result.StartedAt,
		Sections:      sections,
	}
}

// groupByCategories groups tests by their sorted category set. Tests
// without categories are shown last.
func groupByCategories(tests []TestResult) []categoryGroup {
	groups := make(map[string][]TestResult)
	for _, test := range tests {
		key := categoryKey(test.Categories)
		groups[key] = append(groups[key], test)
	}

	keys := make([]string, 0, len(groups))
	for key := range groups {
		if key != uncategorized {
			keys = append(keys, key)
		}
	}
	slices.Sort(keys)
	if _, ok := groups[uncategorized]; ok {
		keys = append(keys, uncategorized)
	}

	result := make([]categoryGroup, 0, len(keys))
	for _, key := range keys {
		tests := groups[key]
		result = append(result, categoryGroup{Label: key, Count: len(tests), Duration: sumDurations(tests), Tests: tests})
	}
	return result
}

func categoryKey(categories []string) string {
	if len(categories) == 0 {
		return uncategorized
	}
	sorted := slices.Clone(categories)
	slices.Sort(sorted)
	return strings.Join(slices.Compact(sorted), ", ")
}

func formatDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%.0fµs", float64(d)/float64(time.Microsecond))
	}
	if d < time.Second {
		return fmt.Sprintf("%.0fms", float64(d)/float64(time.Millisecond))
	}
	return fmt.Sprintf("%.2fs", d.Seconds())
}

var reportTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"summaryClass": func(failed int) string {
		if failed > 0 {
			return "has-failures"
		}
		return "all-passed"
	},
	"statusSymbol": func(s Status) string {
		switch s {
		case StatusPassed:
			return "✓"
		case StatusFailed:
			return "✗"
		default:
			return "–"
		}
	},
	"formatDuration": formatDuration,
	"formatTime": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format("2006-01-02 15:04:05")
	},
}).Parse(htmlTemplate))

// GenerateHTMLReport writes a self-contained HTML report of result to path,
// creating missing parent directories.
func GenerateHTMLReport(path string, result RunResult) error {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("could not create report directory %q: %w", dir, err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create report file %q: %w", path, err)
	}
	defer f.Close()

	if err := reportTemplate.Execute(f, buildReportData(result)); err != nil {
		return fmt.Errorf("could not render HTML report: %w", err)
	}
	return nil
}

const htmlTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Test Execution Report</title>
<style>
  *, *::before, *::after { box-sizing: border-box; margin: 0; padding: 0; }
  body {
    font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
    background: #f8f9fa; color: #212529; line-height: 1.6; padding: 2rem;
  }
  h1 { font-size: 1.5rem; margin-bottom: 0.25rem; font-weight: 700; }
  .executed-at { font-size: 0.8rem; color: #868e96; margin-bottom: 1.5rem; }

  .summary {
    display: flex; gap: 1rem; flex-wrap: wrap; margin-bottom: 2rem;
    padding: 1rem 1.25rem; background: #fff; border-radius: 10px;
  }
  .summary.all-passed { border: 2px solid #2b8a3e; background: #f6fef7; }
  .summary.has-failures { border: 2px solid #c92a2a; background: #fff5f5; }
  .summary-item { text-align: center; min-width: 90px; }
  .summary-item .number { font-size: 1.8rem; font-weight: 700; }
  .summary-item .label {
    font-size: 0.7rem; text-transform: uppercase; letter-spacing: 0.05em; color: #868e96;
  }
  .number.green  { color: #2b8a3e; }
  .number.red    { color: #c92a2a; }
  .number.yellow { color: #e67700; }
  .number.blue   { color: #1864ab; }

  .section { margin-bottom: 2rem; }
  .section-header {
    font-size: 1.1rem; font-weight: 700; margin-bottom: 0.75rem;
    padding-bottom: 0.4rem; border-bottom: 2px solid #dee2e6;
  }
  .section-meta { font-size: 0.8rem; font-weight: 500; color: #868e96; }
  .section.failed .section-header { color: #c92a2a; }
  .section.skipped .section-header, .section.ignored .section-header { color: #e67700; }
  .section.passed .section-header { color: #2b8a3e; }

  .category-group { margin-bottom: 1.25rem; margin-left: 0.25rem; }
  .category-label { font-size: 0.8rem; font-weight: 600; color: #495057; margin-bottom: 0.4rem; }
  .category-meta { font-size: 0.75rem; font-weight: 400; color: #868e96; }

  .test {
    margin-bottom: 0.5rem; background: #fff; border-radius: 8px;
    border: 1px solid #e9ecef; border-left: 4px solid #ced4da; overflow: hidden;
  }
  .test.passed { border-left-color: #69db7c; }
  .test.failed { border-left-color: #ff6b6b; }
  .test.skipped, .test.ignored { border-left-color: #ffd43b; }
  .test-header {
    display: flex; justify-content: space-between; align-items: center;
    padding: 0.6rem 1rem; cursor: pointer; user-select: none;
  }
  .test-header:hover { background: #f1f3f5; }
  .test-name { font-weight: 600; font-size: 0.9rem; }
  .class-label { color: #495057; font-size: 0.78rem; }
  .test-meta { display: flex; gap: 0.75rem; font-size: 0.78rem; color: #868e96; }
  .category {
    background: #e9ecef; border-radius: 4px; padding: 0.1rem 0.45rem;
    font-size: 0.68rem; color: #495057; font-weight: 500;
  }
  .details {
    display: none; padding: 0.5rem 1rem 0.75rem 1rem; background: #1e1f22;
    font-family: "JetBrains Mono", "Fira Code", "SF Mono", monospace; font-size: 0.78rem;
  }
  .test.open .details { display: block; }
  .error { color: #ff4444; white-space: pre-wrap; }
  .skip-reason { color: #BCBEC4; white-space: pre-wrap; }

  .empty-msg { color: #868e96; font-style: italic; padding: 1rem 0; text-align: center; }
</style>
</head>
<body>
<h1>Test Execution Report</h1>
{{if not .ExecutedAt.IsZero}}<div class="executed-at">Executed at {{formatTime .ExecutedAt}}</div>{{end}}

<div class="summary {{summaryClass .Summary.Failed}}">
  <div class="summary-item"><div class="number blue">{{.Summary.Total}}</div><div class="label">Tests</div></div>
  <div class="summary-item"><div class="number green">{{.Summary.Passed}}</div><div class="label">Passed</div></div>
  <div class="summary-item"><div class="number red">{{.Summary.Failed}}</div><div class="label">Failed</div></div>
  <div class="summary-item"><div class="number yellow">{{.Summary.Skipped}}</div><div class="label">Skipped</div></div>
  <div class="summary-item"><div class="number yellow">{{.Summary.Ignored}}</div><div class="label">Ignored</div></div>
  <div class="summary-item"><div class="number blue">{{formatDuration .TotalDuration}}</div><div class="label">Duration</div></div>
</div>

{{if not .Sections}}<div class="empty-msg">No tests were executed.</div>{{end}}

{{range .Sections}}
<div class="section {{.CSSClass}}">
  <div class="section-header">{{.Label}} <span class="section-meta">{{.Count}} tests, {{formatDuration .Duration}}</span></div>
  {{range .Groups}}
  <div class="category-group">
    <div class="category-label"># {{.Label}} <span class="category-meta">({{.Count}} tests, {{formatDuration .Duration}})</span></div>
    {{range .Tests}}
    <div class="test {{.Status}}">
      <div class="test-header" onclick="this.parentElement.classList.toggle('open')">
        <div>
          <span class="class-label">{{.Class}}</span><br>
          <span class="test-name">{{statusSymbol .Status}} {{.Name}}</span>
          {{range .Categories}}<span class="category">{{.}}</span> {{end}}
        </div>
        <div class="test-meta"><span>{{formatDuration .Duration}}</span></div>
      </div>
      {{if .Error}}
      <div class="details">
        {{if eq .Status.String "failed"}}<div class="error">{{.Trace}}</div>{{else}}<div class="skip-reason">{{.Error}}</div>{{end}}
      </div>
      {{end}}
    </div>
    {{end}}
  </div>
  {{end}}
</div>
{{end}}

<script>
document.querySelectorAll('.test.failed').forEach(function(el) { el.classList.add('open'); });
</script>
</body>
</html>
`
