package feature

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"

	messages "github.com/cucumber/messages/go/v21"

	"github.com/denizgursoy/kosu/pkg/model"
)

// IgnoreTag marks a feature or scenario that is reported as ignored instead
// of being run.
const IgnoreTag = "@ignore"

// Introspector resolves .feature files into specifications. Each scenario
// (and each example row of an outline) is one test; the feature is the
// class.
type Introspector struct {
	steps  *StepRegistry
	hooks  *HookExecutor
	logger *slog.Logger
}

type Option func(*Introspector)

// WithHooks adds lifecycle hooks run around every feature, scenario and
// step.
func WithHooks(hooks ...*Hooks) Option {
	return func(i *Introspector) {
		i.hooks = NewHookExecutor(hooks...)
	}
}

// WithLogger sets the logger handed to every World.
func WithLogger(logger *slog.Logger) Option {
	return func(i *Introspector) {
		i.logger = logger
	}
}

func NewIntrospector(steps *StepRegistry, opts ...Option) *Introspector {
	i := &Introspector{
		steps:  steps,
		hooks:  NewHookExecutor(),
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Introspect reads the feature file at target. Targets without the .feature
// extension are reported as model.ErrUnknownTarget.
func (i *Introspector) Introspect(target string) (*model.Specification, error) {
	if filepath.Ext(target) != FeatureExtension {
		return nil, fmt.Errorf("%w: %s", model.ErrUnknownTarget, target)
	}

	file, err := os.Open(target)
	if err != nil {
		return nil, fmt.Errorf("could not read file %s: %w", target, err)
	}
	defer file.Close()

	document, err := ParseFeature(file)
	if err != nil {
		return nil, fmt.Errorf("gherkin parse error in file %s: %w", target, err)
	}

	return i.Specification(document, target)
}

// Specification builds the specification of a parsed document. uri names
// the document when the feature has no name.
func (i *Introspector) Specification(document *messages.GherkinDocument, uri string) (*model.Specification, error) {
	if document == nil || document.Feature == nil {
		return nil, fmt.Errorf("%s has no feature", uri)
	}

	feature := document.Feature
	featureTags := tagNames(feature.Tags)
	name := feature.Name
	if name == "" {
		name = uri
	}

	index := newASTIndex(document)
	scenarios := make(map[string]Scenario)
	seen := make(map[string]int)

	var methods []*model.Method
	for _, pickle := range Compile(document, uri) {
		testName := uniqueName(pickle.Name, seen)
		scenarios[testName] = index.scenario(pickle)

		pickleTags := pickleTagNames(pickle.Tags)
		opts := []model.MethodOption{
			model.WithRoles(model.RoleTest),
			model.WithCategories(ownTags(pickleTags, featureTags)...),
		}
		if slices.Contains(pickleTags, IgnoreTag) {
			opts = append(opts, model.Ignored())
		}
		methods = append(methods, model.NewMethod(testName, i.scenarioInvoker(pickle, index), opts...))
	}
	methods = append(methods, i.hookMethods()...)

	return model.NewSpecification(model.Definition{
		Name:       name,
		Categories: featureTags,
		Ignored:    slices.Contains(featureTags, IgnoreTag),
		Sorter:     model.SortDeclaration,
		NewFor: func(test *model.Method) (any, error) {
			return NewWorld(scenarios[test.Name()], i.logger), nil
		},
		Types: []model.TypeDecl{{Name: name, Methods: methods}},
	})
}

func (i *Introspector) scenarioInvoker(pickle *messages.Pickle, index *astIndex) model.Invoker {
	return func(subject any, _ ...any) (any, error) {
		world, ok := subject.(*World)
		if !ok {
			return nil, fmt.Errorf("scenario %s: subject is %T, want *feature.World", pickle.Name, subject)
		}
		return nil, i.runPickle(world, pickle, index)
	}
}

func (i *Introspector) runPickle(world *World, pickle *messages.Pickle, index *astIndex) error {
	for _, step := range pickle.Steps {
		meta := index.step(step)
		world.Logger().Debug("running step", "step", meta.Keyword+meta.Text)

		i.hooks.ExecuteBeforeStep(meta)
		err := i.runStep(world, step)
		i.hooks.ExecuteAfterStep(meta, err)

		if err != nil {
			err = fmt.Errorf("step %q failed: %w", step.Text, err)
			world.fail(err)
			return err
		}
	}
	return nil
}

func (i *Introspector) runStep(world *World, step *messages.PickleStep) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = model.Recovered(r)
		}
	}()
	return i.steps.Run(world, step)
}

// hookMethods exposes the hook executor as class and per-test hooks of the
// specification.
func (i *Introspector) hookMethods() []*model.Method {
	if i.hooks.Empty() {
		return nil
	}
	return []*model.Method{
		model.NewMethod("beforeAll", func(any, ...any) (any, error) {
			return nil, i.hooks.ExecuteBeforeAll()
		}, model.Static(), model.WithRoles(model.RoleBeforeClass)),
		model.NewMethod("afterAll", func(any, ...any) (any, error) {
			return nil, i.hooks.ExecuteAfterAll()
		}, model.Static(), model.WithRoles(model.RoleAfterClass)),
		model.NewMethod("beforeScenario", func(subject any, _ ...any) (any, error) {
			world := subject.(*World)
			return nil, i.hooks.ExecuteBeforeScenario(world.Scenario())
		}, model.WithRoles(model.RoleBefore)),
		model.NewMethod("afterScenario", func(subject any, _ ...any) (any, error) {
			world := subject.(*World)
			return nil, i.hooks.ExecuteAfterScenario(world.Scenario(), world.Err())
		}, model.WithRoles(model.RoleAfter)),
	}
}

// uniqueName suffixes repeated scenario names with " #2", " #3" and so on,
// skipping suffixed names that are already taken.
func uniqueName(name string, seen map[string]int) string {
	seen[name]++
	if seen[name] == 1 {
		return name
	}
	for n := seen[name]; ; n++ {
		candidate := name + " #" + strconv.Itoa(n)
		if seen[candidate] == 0 {
			seen[name] = n
			seen[candidate] = 1
			return candidate
		}
	}
}

// ownTags returns the tags of a scenario that it does not inherit from its
// feature.
func ownTags(tags, featureTags []string) []string {
	own := make([]string, 0, len(tags))
	for _, t := range tags {
		if !slices.Contains(featureTags, t) && !slices.Contains(own, t) {
			own = append(own, t)
		}
	}
	return own
}
