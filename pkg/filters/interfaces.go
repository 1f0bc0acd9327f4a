//go:generate mockgen -source=interfaces.go -destination=interfaces_mock.go -package=filters
package filters

import (
	"github.com/denizgursoy/kosu/pkg/model"
	"github.com/denizgursoy/kosu/pkg/runner"
)

type (
	// Params carries what a factory needs to create a filter.
	Params struct {
		// Args is the part of the filter spec after the factory name.
		Args string
		// TopLevelDescription describes the unfiltered request.
		TopLevelDescription *model.Description
	}

	// Factory creates filters from arguments.
	Factory interface {
		CreateFilter(params Params) (runner.Filter, error)
	}
)

// FactoryFunc adapts a function to Factory.
type FactoryFunc func(params Params) (runner.Filter, error)

func (f FactoryFunc) CreateFilter(params Params) (runner.Filter, error) {
	return f(params)
}
