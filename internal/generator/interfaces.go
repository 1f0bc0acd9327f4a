//go:generate mockgen -source=interfaces.go -destination=interface_mock.go -package=generator
package generator

import "context"

type (
	// GoCodeParser collects the annotated functions of the Go files in a
	// directory tree.
	GoCodeParser interface {
		ParseDirectory(ctx context.Context, directory string) (*Output, error)
	}
)
