// Package kosu runs specifications and reports their results. It is the
// entry point tying introspection, request composition and notification
// together.
package kosu

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/denizgursoy/kosu/internal/logging"
	"github.com/denizgursoy/kosu/pkg/filters"
	"github.com/denizgursoy/kosu/pkg/model"
	"github.com/denizgursoy/kosu/pkg/notification"
	"github.com/denizgursoy/kosu/pkg/runner"
)

// Version is the version of kosu.
const Version = "0.3.0"

// Core runs requests through one notifier. Create it with New; a Core may
// run several requests one after the other.
type Core struct {
	notifier      *notification.Notifier
	logger        *slog.Logger
	clock         notification.Clock
	introspectors Introspectors
	filters       *filters.Registry
	computer      runner.Computer
	builder       runner.Builder
	listeners     []notification.Listener
	configs       []*Config
	config        *Config
	output        io.Writer
}

type Option func(*Core)

// WithLogger sets the logger. By default one is built from the config.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Core) {
		c.logger = logger
	}
}

// WithClock sets the clock used for elapsed times.
func WithClock(clock notification.Clock) Option {
	return func(c *Core) {
		c.clock = clock
	}
}

// WithIntrospector adds an introspector consulted for command line targets.
// Introspectors are asked in the order they were added.
func WithIntrospector(introspector Introspector) Option {
	return func(c *Core) {
		c.introspectors = append(c.introspectors, introspector)
	}
}

// WithFilters replaces the filter factory registry, filters.Defaults() by
// default.
func WithFilters(registry *filters.Registry) Option {
	return func(c *Core) {
		c.filters = registry
	}
}

// WithComputer sets how runners of several specifications are combined.
func WithComputer(computer runner.Computer) Option {
	return func(c *Core) {
		c.computer = computer
	}
}

// WithBuilder replaces the default builder.
func WithBuilder(builder runner.Builder) Option {
	return func(c *Core) {
		c.builder = builder
	}
}

// WithListener adds a listener receiving the events of every run.
func WithListener(listener notification.Listener) Option {
	return func(c *Core) {
		c.listeners = append(c.listeners, listener)
	}
}

// WithOutput sets where Main prints the console report, os.Stdout by
// default.
func WithOutput(w io.Writer) Option {
	return func(c *Core) {
		c.output = w
	}
}

// WithConfig merges config over the configs given before it.
func WithConfig(config *Config) Option {
	return func(c *Core) {
		c.configs = append(c.configs, config)
	}
}

// WithDefaultTimeout sets the timeout of tests that declare none.
func WithDefaultTimeout(timeout time.Duration) Option {
	return WithConfig(&Config{DefaultTimeout: timeout})
}

func New(opts ...Option) *Core {
	c := &Core{}
	for _, opt := range opts {
		opt(c)
	}

	c.config = MergeConfigs(c.configs...)
	if c.logger == nil {
		c.logger = configLogger(c.config)
	}
	if c.clock == nil {
		c.clock = notification.RealClock{}
	}
	if c.output == nil {
		c.output = os.Stdout
	}
	if c.filters == nil {
		c.filters = filters.Defaults()
	}
	if c.computer == nil {
		c.computer = runner.SerialComputer{}
	}
	if c.builder == nil {
		c.builder = runner.NewDefaultBuilder(runner.Options{
			DefaultTimeout: c.config.DefaultTimeout,
			Clock:          c.clock,
			Logger:         c.logger,
		})
	}

	c.notifier = notification.NewNotifier(c.logger)
	for _, listener := range c.listeners {
		c.notifier.AddListener(listener)
	}
	return c
}

func configLogger(config *Config) *slog.Logger {
	logger, err := logging.New(config.LogLevel, config.LogFormat, os.Stderr)
	if err != nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
		logger.Warn("invalid logging configuration, using defaults", "error", err)
	}
	return logger
}

// Config returns the merged configuration.
func (c *Core) Config() Config {
	return *c.config
}

func (c *Core) Logger() *slog.Logger {
	return c.logger
}

func (c *Core) AddListener(listener notification.Listener) {
	c.notifier.AddListener(listener)
}

func (c *Core) RemoveListener(listener notification.Listener) {
	c.notifier.RemoveListener(listener)
}

// RunMain parses args, adds a log listener and runs the resulting request.
// Errors in args are reported as failures of the run.
func (c *Core) RunMain(args []string) *notification.Result {
	c.logger.Info("kosu", "version", Version)

	parsed := ParseCommandLine(args)
	c.AddListener(notification.NewLogListener(c.logger))

	return c.Run(parsed.CreateRequest(c.computer, Collaborators{
		Introspector: c.introspectors,
		Builder:      c.builder,
		Filters:      c.filters,
	}))
}

// RunSpecifications runs specs one after the other.
func (c *Core) RunSpecifications(specs ...*model.Specification) *notification.Result {
	return c.Run(runner.Classes(c.computer, c.builder, specs...))
}

// Run runs the runner of request.
func (c *Core) Run(request runner.Request) *notification.Result {
	return c.RunRunner(request.Runner())
}

// RunRunner runs r and returns its result. The result listener is notified
// before every other listener and removed once the run has finished.
func (c *Core) RunRunner(r runner.Runner) *notification.Result {
	result := notification.NewResult(c.clock)
	listener := result.Listener()
	c.notifier.AddFirstListener(listener)
	defer c.notifier.RemoveListener(listener)

	c.notifier.FireTestRunStarted(r.Description())
	r.Run(c.notifier)
	c.notifier.FireTestRunFinished(result)

	return result
}
