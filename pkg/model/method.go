package model

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"time"
)

// Role tells the engine at which point of the lifecycle a method runs.
type Role int

const (
	// RoleTest marks the primary action of a test.
	RoleTest Role = iota
	// RoleBefore runs before each test.
	RoleBefore
	// RoleAfter runs after each test, whatever its outcome.
	RoleAfter
	// RoleBeforeClass runs once before the first test of a specification.
	RoleBeforeClass
	// RoleAfterClass runs once after the last test of a specification.
	RoleAfterClass
)

// String returns a human-readable label for the role.
func (r Role) String() string {
	switch r {
	case RoleTest:
		return "test"
	case RoleBefore:
		return "before"
	case RoleAfter:
		return "after"
	case RoleBeforeClass:
		return "before-class"
	case RoleAfterClass:
		return "after-class"
	default:
		return "unknown"
	}
}

// runsTopToBottom reports whether base-type members of the role run before
// derived-type ones.
func (r Role) runsTopToBottom() bool {
	return r == RoleBefore || r == RoleBeforeClass
}

// Invoker performs the call of a member on a subject. Static members receive a
// nil subject.
type Invoker func(subject any, args ...any) (any, error)

// ErrorMatcher decides whether an error is the one a test expects.
type ErrorMatcher interface {
	Match(err error) bool
	String() string
}

type isMatcher struct {
	target error
}

// ErrorIs matches errors for which errors.Is(err, target) holds.
func ErrorIs(target error) ErrorMatcher {
	return isMatcher{target: target}
}

func (m isMatcher) Match(err error) bool { return errors.Is(err, m.target) }
func (m isMatcher) String() string       { return m.target.Error() }

type typeMatcher[T error] struct{}

// ErrorOfType matches errors that errors.As can convert to T.
func ErrorOfType[T error]() ErrorMatcher {
	return typeMatcher[T]{}
}

func (typeMatcher[T]) Match(err error) bool {
	var target T
	return errors.As(err, &target)
}

func (typeMatcher[T]) String() string {
	return reflect.TypeFor[T]().String()
}

// Method is the descriptor of one invokable member: a test or a hook.
// It is created once during discovery and never changes afterwards.
type Method struct {
	name          string
	declaringType string
	params        []string
	static        bool
	public        bool
	bridge        bool
	roles         []Role
	timeout       time.Duration
	expected      ErrorMatcher
	categories    []string
	ignored       bool
	invoker       Invoker
}

// MethodOption configures a Method.
type MethodOption func(*Method)

// NewMethod creates a public, non-static method descriptor.
func NewMethod(name string, invoker Invoker, opts ...MethodOption) *Method {
	m := &Method{
		name:    name,
		public:  true,
		invoker: invoker,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// WithRoles adds lifecycle roles to the method.
func WithRoles(roles ...Role) MethodOption {
	return func(m *Method) {
		for _, role := range roles {
			if !slices.Contains(m.roles, role) {
				m.roles = append(m.roles, role)
			}
		}
	}
}

// WithParams sets the parameter type names, in declaration order.
func WithParams(params ...string) MethodOption {
	return func(m *Method) {
		m.params = slices.Clone(params)
	}
}

// DeclaredIn sets the declaring type.
func DeclaredIn(typeName string) MethodOption {
	return func(m *Method) {
		m.declaringType = typeName
	}
}

// Static marks the method as not bound to a subject.
func Static() MethodOption {
	return func(m *Method) {
		m.static = true
	}
}

// Unexported marks the method as not invocable from outside its declaring type.
func Unexported() MethodOption {
	return func(m *Method) {
		m.public = false
	}
}

// Bridge marks the method as a synthesized forwarder to a true override.
func Bridge() MethodOption {
	return func(m *Method) {
		m.bridge = true
	}
}

// WithTimeout limits the time the test may take.
func WithTimeout(timeout time.Duration) MethodOption {
	return func(m *Method) {
		m.timeout = timeout
	}
}

// Expecting declares that the test passes only when it fails with a matching error.
func Expecting(matcher ErrorMatcher) MethodOption {
	return func(m *Method) {
		m.expected = matcher
	}
}

// WithCategories attaches categories used by filters.
func WithCategories(categories ...string) MethodOption {
	return func(m *Method) {
		m.categories = append(m.categories, categories...)
	}
}

// Ignored marks the method as skipped.
func Ignored() MethodOption {
	return func(m *Method) {
		m.ignored = true
	}
}

func (m *Method) Name() string           { return m.name }
func (m *Method) DeclaringType() string  { return m.declaringType }
func (m *Method) Params() []string       { return slices.Clone(m.params) }
func (m *Method) IsStatic() bool         { return m.static }
func (m *Method) IsPublic() bool         { return m.public }
func (m *Method) IsBridge() bool         { return m.bridge }
func (m *Method) Roles() []Role          { return slices.Clone(m.roles) }
func (m *Method) HasRole(role Role) bool { return slices.Contains(m.roles, role) }
func (m *Method) Timeout() time.Duration { return m.timeout }
func (m *Method) Expected() ErrorMatcher { return m.expected }
func (m *Method) Categories() []string   { return slices.Clone(m.categories) }
func (m *Method) IsIgnored() bool        { return m.ignored }
func (m *Method) Invoker() Invoker       { return m.invoker }

func (m *Method) withDeclaringType(t string) *Method {
	if m.declaringType == t {
		return m
	}
	c := *m
	c.declaringType = t
	return &c
}

// InvokeExplosively calls the method on subject. Failed assertions are
// returned as *AssertionError, any other panic as *PanicError.
func (m *Method) InvokeExplosively(subject any, args ...any) (result any, err error) {
	if m.invoker == nil {
		return nil, fmt.Errorf("method %s has no invoker", m.name)
	}
	defer func() {
		if r := recover(); r != nil {
			err = Recovered(r)
		}
	}()
	return m.invoker(subject, args...)
}

func (m *Method) String() string {
	if m.declaringType == "" {
		return m.name
	}
	return m.declaringType + "." + m.name
}
