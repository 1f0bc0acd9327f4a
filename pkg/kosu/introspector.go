package kosu

import (
	"errors"
	"fmt"

	"github.com/denizgursoy/kosu/pkg/model"
)

// IntrospectorFunc adapts a function to Introspector.
type IntrospectorFunc func(target string) (*model.Specification, error)

func (f IntrospectorFunc) Introspect(target string) (*model.Specification, error) {
	return f(target)
}

// Introspectors asks each introspector in turn. The first one that does not
// answer model.ErrUnknownTarget decides.
type Introspectors []Introspector

func (c Introspectors) Introspect(target string) (*model.Specification, error) {
	for _, introspector := range c {
		spec, err := introspector.Introspect(target)
		if errors.Is(err, model.ErrUnknownTarget) {
			continue
		}
		return spec, err
	}
	return nil, fmt.Errorf("%w: %s", model.ErrUnknownTarget, target)
}
