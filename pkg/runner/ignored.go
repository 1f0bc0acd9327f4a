package runner

import (
	"github.com/denizgursoy/kosu/pkg/model"
	"github.com/denizgursoy/kosu/pkg/notification"
)

// IgnoredRunner stands for a specification skipped as a whole.
type IgnoredRunner struct {
	spec *model.Specification
}

func NewIgnoredRunner(spec *model.Specification) *IgnoredRunner {
	return &IgnoredRunner{spec: spec}
}

func (r *IgnoredRunner) Description() *model.Description {
	return r.spec.Description()
}

func (r *IgnoredRunner) Run(notifier *notification.Notifier) {
	notifier.FireTestIgnored(r.Description())
}
