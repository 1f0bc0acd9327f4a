package kosu

import (
	"fmt"
	"slices"
	"strings"

	"github.com/denizgursoy/kosu/pkg/filters"
	"github.com/denizgursoy/kosu/pkg/model"
	"github.com/denizgursoy/kosu/pkg/runner"
)

const (
	filterOption    = "--filter"
	endOfOptions    = "--"
	parseResultName = "command line"
)

// CommandLineParserError reports malformed command line input. It is
// collected while parsing and reported as a failure when the request runs.
type CommandLineParserError struct {
	Message string
}

func (e *CommandLineParserError) Error() string {
	return e.Message
}

// ParseResult is the outcome of ParseCommandLine: filter specs, targets and
// the errors found on the way.
type ParseResult struct {
	filterSpecs []string
	targets     []string
	errs        []error
}

// Collaborators resolve what the command line names.
type Collaborators struct {
	Introspector Introspector
	Builder      runner.Builder
	Filters      *filters.Registry
}

// ParseCommandLine parses
//
//	[--filter=<spec> | --filter <spec>]* [--] <target>...
//
// Parsing never fails: errors are recorded and surface when the request
// created from the result is run.
func ParseCommandLine(args []string) *ParseResult {
	result := &ParseResult{}
	result.targets = result.parseOptions(args)
	return result
}

func (r *ParseResult) parseOptions(args []string) []string {
	for i := 0; i < len(args); i++ {
		arg := args[i]

		switch {
		case arg == endOfOptions:
			return slices.Clone(args[i+1:])
		case arg == filterOption:
			i++
			if i >= len(args) {
				r.errs = append(r.errs, &CommandLineParserError{Message: arg + " value not specified"})
				return nil
			}
			r.filterSpecs = append(r.filterSpecs, args[i])
		case strings.HasPrefix(arg, filterOption+"="):
			r.filterSpecs = append(r.filterSpecs, strings.TrimPrefix(arg, filterOption+"="))
		case strings.HasPrefix(arg, "--"):
			r.errs = append(r.errs, &CommandLineParserError{Message: "unknown option " + arg})
		default:
			return slices.Clone(args[i:])
		}
	}
	return nil
}

// FilterSpecs returns the filter specs in command line order.
func (r *ParseResult) FilterSpecs() []string {
	return slices.Clone(r.filterSpecs)
}

// Targets returns the target strings in command line order.
func (r *ParseResult) Targets() []string {
	return slices.Clone(r.targets)
}

// Errors returns the parse errors.
func (r *ParseResult) Errors() []error {
	return slices.Clone(r.errs)
}

// CreateRequest resolves the targets and filter specs. Any parse or
// resolution error turns the request into an error report that fails
// once per error without running a test.
func (r *ParseResult) CreateRequest(computer runner.Computer, collaborators Collaborators) runner.Request {
	errs := r.Errors()
	specs := make([]*model.Specification, 0, len(r.targets))
	for _, target := range r.targets {
		spec, err := r.introspect(collaborators.Introspector, target)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		specs = append(specs, spec)
	}
	if len(errs) > 0 {
		return runner.ErrorReport(parseResultName, model.NewInitializationError(errs...))
	}

	builder := collaborators.Builder
	if builder == nil {
		builder = runner.NewDefaultBuilder(runner.Options{})
	}
	return r.applyFilterSpecs(runner.Classes(computer, builder, specs...), collaborators.Filters)
}

func (r *ParseResult) introspect(introspector Introspector, target string) (*model.Specification, error) {
	if introspector == nil {
		introspector = Introspectors{}
	}
	spec, err := introspector.Introspect(target)
	if err != nil {
		return nil, fmt.Errorf("could not find specification [%s]: %w", target, err)
	}
	return spec, nil
}

// applyFilterSpecs applies every filter spec in order. Each FilterWith
// replaces the filter before it, so only the last spec takes effect.
func (r *ParseResult) applyFilterSpecs(request runner.Request, registry *filters.Registry) runner.Request {
	if len(r.filterSpecs) == 0 {
		return request
	}
	if registry == nil {
		registry = filters.Defaults()
	}

	top := request.Runner().Description()
	for _, spec := range r.filterSpecs {
		filter, err := registry.CreateFilterFromSpec(spec, top)
		if err != nil {
			return runner.ErrorReport(parseResultName, err)
		}
		request = request.FilterWith(filter)
	}
	return request
}
