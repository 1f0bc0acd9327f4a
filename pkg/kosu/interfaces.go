//go:generate mockgen -source=interfaces.go -destination=interfaces_mock.go -package=kosu
package kosu

import "github.com/denizgursoy/kosu/pkg/model"

type (
	// Introspector resolves a target string, such as a suite name or a
	// feature file path, into a specification. Targets it does not
	// recognize are reported as model.ErrUnknownTarget.
	Introspector interface {
		Introspect(target string) (*model.Specification, error)
	}
)
