package model

import (
	"fmt"
	"slices"
)

// Description describes a node of the runnable tree: a suite with children or a
// single test. Descriptions are what listeners receive.
type Description struct {
	displayName string
	className   string
	methodName  string
	categories  []string
	children    []*Description
}

// CreateSuiteDescription creates a description for a composite node.
func CreateSuiteDescription(name string, categories ...string) *Description {
	return &Description{
		displayName: name,
		className:   name,
		categories:  slices.Clone(categories),
	}
}

// CreateTestDescription creates a description for a single test named
// "method(Class)".
func CreateTestDescription(className, methodName string, categories ...string) *Description {
	return &Description{
		displayName: fmt.Sprintf("%s(%s)", methodName, className),
		className:   className,
		methodName:  methodName,
		categories:  slices.Clone(categories),
	}
}

// DisplayName returns the human readable, unique name of the node.
func (d *Description) DisplayName() string {
	return d.displayName
}

// ClassName returns the specification name the node belongs to.
func (d *Description) ClassName() string {
	return d.className
}

// MethodName returns the test name, empty for suites.
func (d *Description) MethodName() string {
	return d.methodName
}

// Categories returns the categories attached to the node.
func (d *Description) Categories() []string {
	return slices.Clone(d.categories)
}

// Children returns a copy of the child descriptions.
func (d *Description) Children() []*Description {
	return slices.Clone(d.children)
}

// AddChild appends a child description.
func (d *Description) AddChild(child *Description) {
	d.children = append(d.children, child)
}

// IsTest reports whether the node has no children.
func (d *Description) IsTest() bool {
	return len(d.children) == 0
}

// IsSuite reports whether the node has children.
func (d *Description) IsSuite() bool {
	return !d.IsTest()
}

// TestCount returns the number of leaves below (and including) the node.
func (d *Description) TestCount() int {
	if d.IsTest() {
		return 1
	}
	count := 0
	for _, child := range d.children {
		count += child.TestCount()
	}
	return count
}

// ChildlessCopy returns the node without its children.
func (d *Description) ChildlessCopy() *Description {
	return &Description{
		displayName: d.displayName,
		className:   d.className,
		methodName:  d.methodName,
		categories:  slices.Clone(d.categories),
	}
}

func (d *Description) String() string {
	return d.displayName
}
