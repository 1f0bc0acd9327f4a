package model

import (
	"cmp"
	"slices"

	"github.com/cespare/xxhash/v2"
)

// MethodSorter decides the order in which the members of one declaring type
// are scanned, and therefore the order tests run in.
type MethodSorter int

const (
	// SortDefault orders members by a hash of their name, ties broken by name.
	// The order looks arbitrary but is the same on every run.
	SortDefault MethodSorter = iota
	// SortDeclaration keeps the order members were declared in.
	SortDeclaration
	// SortNameAscending orders members lexicographically by name.
	SortNameAscending
)

func (s MethodSorter) String() string {
	switch s {
	case SortDefault:
		return "default"
	case SortDeclaration:
		return "declaration"
	case SortNameAscending:
		return "name-ascending"
	default:
		return "unknown"
	}
}

// Sort returns a sorted copy of methods.
func (s MethodSorter) Sort(methods []*Method) []*Method {
	sorted := slices.Clone(methods)
	switch s {
	case SortDeclaration:
	case SortNameAscending:
		slices.SortStableFunc(sorted, func(a, b *Method) int {
			return cmp.Compare(a.Name(), b.Name())
		})
	default:
		slices.SortStableFunc(sorted, func(a, b *Method) int {
			if c := cmp.Compare(xxhash.Sum64String(a.Name()), xxhash.Sum64String(b.Name())); c != 0 {
				return c
			}
			return cmp.Compare(a.Name(), b.Name())
		})
	}
	return sorted
}
