package model

// Statement is one composed, invokable unit of behavior. A nil error means
// the statement passed.
type Statement func() error

// TestRule wraps the statement of a test with custom behavior.
type TestRule interface {
	Apply(base Statement, description *Description) Statement
}

// RuleFunc adapts a function to TestRule.
type RuleFunc func(base Statement, description *Description) Statement

func (f RuleFunc) Apply(base Statement, description *Description) Statement {
	return f(base, description)
}

// RuleEntry is a rule declared on a specification.
// Rules with a lower Priority are applied closer to the test; equal
// priorities keep declaration order.
type RuleEntry struct {
	Name     string
	Priority int
	Rule     TestRule
}
