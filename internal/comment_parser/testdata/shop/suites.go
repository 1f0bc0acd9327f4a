package shop

import (
	"errors"

	"github.com/denizgursoy/kosu/pkg/feature"
	"github.com/denizgursoy/kosu/pkg/kosu"
	"github.com/denizgursoy/kosu/pkg/model"
	"github.com/denizgursoy/kosu/pkg/suite"
)

type cart struct {
	items int
}

// @kosu suite
func CartSuite() *model.Specification {
	return suite.Define("Cart", func() *cart { return &cart{} }).
		Test("starts empty", func(c *cart) error {
			if c.items != 0 {
				return errors.New("cart is not empty")
			}
			return nil
		}).
		MustBuild()
}

// @kosu hooks
func Hooks() *feature.Hooks {
	return &feature.Hooks{}
}

// @kosu config
func Config() *kosu.Config {
	return &kosu.Config{LogLevel: "debug"}
}

// NotAnnotated is ignored.
func NotAnnotated() *kosu.Config {
	return nil
}
