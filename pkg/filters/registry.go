// Package filters resolves filter specs such as "IncludeCategories=fast"
// into runner filters.
package filters

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/denizgursoy/kosu/pkg/model"
	"github.com/denizgursoy/kosu/pkg/runner"
)

var ErrFactoryNotFound = errors.New("filter factory not found")

// NotCreatedError is returned when a filter spec could not be turned into a
// filter: its factory is unknown or rejected the arguments.
type NotCreatedError struct {
	Factory string
	Args    string
	Err     error
}

func (e *NotCreatedError) Error() string {
	return fmt.Sprintf("could not create filter %s with arguments %q: %v", e.Factory, e.Args, e.Err)
}

func (e *NotCreatedError) Unwrap() error {
	return e.Err
}

// Registry maps factory names to factories.
type Registry struct {
	mu          sync.RWMutex
	factories   map[string]Factory
	defaultName string
}

func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds factory under name, replacing a previous one.
func (r *Registry) Register(name string, factory Factory) *Registry {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = factory
	return r
}

// SetDefault names the factory used for specs without a factory name.
func (r *Registry) SetDefault(name string) *Registry {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.defaultName = name
	return r
}

// Lookup returns the factory registered under name.
func (r *Registry) Lookup(name string) (Factory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	factory, ok := r.factories[name]
	return factory, ok
}

// Names returns the registered factory names in alphabetical order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// ParseSpec splits "<factory>=<args>" at the first '='. A spec without '='
// is passed as a whole to the default factory.
func (r *Registry) ParseSpec(spec string) (factory, args string) {
	if name, rest, ok := strings.Cut(spec, "="); ok {
		return name, rest
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.defaultName, spec
}

// CreateFilterFromSpec resolves spec into a filter. Errors are
// *NotCreatedError.
func (r *Registry) CreateFilterFromSpec(spec string, top *model.Description) (runner.Filter, error) {
	name, args := r.ParseSpec(spec)
	return r.CreateFilter(name, Params{Args: args, TopLevelDescription: top})
}

// CreateFilter asks the factory registered under name for a filter.
func (r *Registry) CreateFilter(name string, params Params) (runner.Filter, error) {
	factory, ok := r.Lookup(name)
	if !ok {
		return nil, &NotCreatedError{Factory: name, Args: params.Args, Err: ErrFactoryNotFound}
	}

	filter, err := factory.CreateFilter(params)
	if err != nil {
		return nil, &NotCreatedError{Factory: name, Args: params.Args, Err: err}
	}
	return filter, nil
}
