package model

import (
	"errors"
	"fmt"
)

var (
	ErrNoRunnableMethods    = errors.New("no runnable methods")
	ErrNoSubjectConstructor = errors.New("specification should have a subject constructor")
)

// Validate lists every structural problem of spec. Tests and per-test hooks
// must be public, non-static and take no parameters; class hooks must be
// public, static and take no parameters.
func Validate(spec *Specification) []error {
	var errs []error

	errs = append(errs, validateMembers(spec, RoleBeforeClass, true)...)
	errs = append(errs, validateMembers(spec, RoleAfterClass, true)...)
	errs = append(errs, validateMembers(spec, RoleBefore, false)...)
	errs = append(errs, validateMembers(spec, RoleAfter, false)...)
	errs = append(errs, validateMembers(spec, RoleTest, false)...)

	if spec.Ignored() {
		return errs
	}
	if len(spec.Methods(RoleTest)) == 0 {
		errs = append(errs, ErrNoRunnableMethods)
	}
	if !spec.HasSubjectConstructor() && !onlyStatic(spec) {
		errs = append(errs, ErrNoSubjectConstructor)
	}

	return errs
}

func validateMembers(spec *Specification, role Role, static bool) []error {
	var errs []error
	for _, method := range spec.Methods(role) {
		if method.IsStatic() != static {
			if static {
				errs = append(errs, fmt.Errorf("%s method %s() should be static", role, method.Name()))
			} else {
				errs = append(errs, fmt.Errorf("%s method %s() should not be static", role, method.Name()))
			}
		}
		if !method.IsPublic() {
			errs = append(errs, fmt.Errorf("%s method %s() should be public", role, method.Name()))
		}
		if len(method.params) > 0 {
			errs = append(errs, fmt.Errorf("%s method %s should have no parameters", role, method.Name()))
		}
	}
	return errs
}

// onlyStatic reports whether no member needs a subject.
func onlyStatic(spec *Specification) bool {
	for _, role := range []Role{RoleTest, RoleBefore, RoleAfter} {
		for _, method := range spec.methods[role] {
			if !method.IsStatic() {
				return false
			}
		}
	}
	return true
}
