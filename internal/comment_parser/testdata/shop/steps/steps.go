package steps

import (
	"time"

	"github.com/denizgursoy/kosu/pkg/feature"
)

type Color string

const (
	Red   Color = "red"
	Blue  Color = "blue"
	Azure       = Blue
)

type Priority int

const (
	Low Priority = iota + 1
	Medium
	High
)

// @kosu step `^I have {int} apples$`
func HaveApples(world *feature.World, n int) {
	world.Set("apples", n)
}

// @kosu step `^I paint it {color}$`
func Paint(world *feature.World, color Color) {
	world.Set("color", color)
}

// @kosu step `^priority is {priority}$`
func SetPriority(world *feature.World, priority Priority) {
	world.Set("priority", priority)
}

// @kosu step `^I wait {duration}$`
func Wait(d time.Duration) {}

// @kosu step `^the code is [A-Z]{3}$`
func Code() {}

// Say prints a quoted string.
//
// @kosu step `^I say {string}$`
func Say(text string) {}
