package kosu

import (
	"fmt"
	"os"
	"strings"

	"github.com/denizgursoy/kosu/pkg/metrics"
	"github.com/denizgursoy/kosu/pkg/notification"
	"github.com/denizgursoy/kosu/pkg/report"
)

// ArgsEnv holds command line arguments for generated test entry points,
// where os.Args belongs to the go test binary.
const ArgsEnv = "KOSU_ARGS"

// Main loads the config file, runs args and returns the process exit code.
// Options are applied over the config file.
func Main(args []string, opts ...Option) int {
	config, err := LoadConfig(ConfigPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "kosu: %v\n", err)
		return 1
	}

	core := New(append([]Option{WithConfig(config)}, opts...)...)
	merged := core.Config()

	switch merged.Reporter {
	case "", ReporterConsole:
		core.AddListener(report.NewConsoleReporter(core.output, !merged.NoColor))
	case ReporterNone:
	default:
		core.logger.Error("unknown reporter", "reporter", merged.Reporter)
		return 1
	}

	var exporter *metrics.Listener
	if merged.MetricsFile != "" {
		exporter = metrics.NewListener(core.clock)
		core.AddListener(exporter)
	}

	var collector *report.Collector
	if merged.HTMLReport != "" {
		collector = report.NewCollector(core.clock)
		core.AddListener(collector)
	}

	result := core.RunMain(withConfigFilters(merged.Filters, args))
	code := ExitCode(result)

	if exporter != nil {
		if err := exporter.WriteToTextfile(merged.MetricsFile); err != nil {
			core.logger.Error("could not write metrics", "file", merged.MetricsFile, "error", err)
			code = 1
		}
	}
	if collector != nil {
		if err := report.GenerateHTMLReport(merged.HTMLReport, collector.Result()); err != nil {
			core.logger.Error("could not write HTML report", "file", merged.HTMLReport, "error", err)
			code = 1
		}
	}
	return code
}

// ExitCode is 0 for a successful run and 1 otherwise.
func ExitCode(result *notification.Result) int {
	if result.WasSuccessful() {
		return 0
	}
	return 1
}

// ArgsOrDefault returns the whitespace separated arguments in KOSU_ARGS, or
// defaults when it is unset.
func ArgsOrDefault(defaults ...string) []string {
	if args, ok := os.LookupEnv(ArgsEnv); ok {
		return strings.Fields(args)
	}
	return defaults
}

// withConfigFilters puts the config filters in front of args so that
// command line filters, coming later, win.
func withConfigFilters(specs []string, args []string) []string {
	if len(specs) == 0 {
		return args
	}
	combined := make([]string, 0, len(specs)+len(args))
	for _, spec := range specs {
		combined = append(combined, filterOption+"="+spec)
	}
	return append(combined, args...)
}
