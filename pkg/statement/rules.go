package statement

import (
	"cmp"
	"slices"

	"github.com/denizgursoy/kosu/pkg/model"
)

// SortRules orders rules by ascending priority. Rules with the same priority
// keep their declaration order.
func SortRules(rules []model.RuleEntry) []model.RuleEntry {
	sorted := slices.Clone(rules)
	slices.SortStableFunc(sorted, func(a, b model.RuleEntry) int {
		return cmp.Compare(a.Priority, b.Priority)
	})
	return sorted
}

// RunRules wraps next with every rule; the lowest priority rule is applied
// first and so sits closest to the test.
func RunRules(next model.Statement, rules []model.RuleEntry, description *model.Description) model.Statement {
	result := next
	for _, entry := range SortRules(rules) {
		if entry.Rule == nil {
			continue
		}
		result = entry.Rule.Apply(result, description)
	}
	return result
}

// Rules is the layer applying custom rules.
func Rules(rules []model.RuleEntry, description *model.Description) Layer {
	if len(rules) == 0 {
		return Layer{Name: "rules"}
	}
	return Layer{Name: "rules", Wrap: func(next model.Statement) model.Statement {
		return RunRules(next, rules, description)
	}}
}
