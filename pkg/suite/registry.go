package suite

import (
	"fmt"
	"slices"
	"sync"

	"github.com/denizgursoy/kosu/pkg/model"
)

// Registry resolves target names to the specifications added to it.
type Registry struct {
	mu    sync.RWMutex
	specs map[string]*model.Specification
	names []string
}

// NewRegistry creates a registry holding specs. It panics on duplicate names.
func NewRegistry(specs ...*model.Specification) *Registry {
	r := &Registry{specs: make(map[string]*model.Specification)}
	for _, spec := range specs {
		if err := r.Add(spec); err != nil {
			panic(err)
		}
	}
	return r
}

// Add registers spec under its name.
func (r *Registry) Add(spec *model.Specification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.specs[spec.Name()]; ok {
		return fmt.Errorf("specification %s is already registered", spec.Name())
	}
	r.specs[spec.Name()] = spec
	r.names = append(r.names, spec.Name())
	return nil
}

// Names returns the registered names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.names)
}

// Introspect returns the specification registered as target.
func (r *Registry) Introspect(target string) (*model.Specification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	spec, ok := r.specs[target]
	if !ok {
		return nil, fmt.Errorf("%w: %s", model.ErrUnknownTarget, target)
	}
	return spec, nil
}
