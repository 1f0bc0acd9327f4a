package model

import "slices"

// IsShadowedBy reports whether other hides m: same name and the exact same
// parameter types in the same order. Static members are never shadowed.
func (m *Method) IsShadowedBy(other *Method) bool {
	if m.IsStatic() {
		return false
	}
	if other.Name() != m.Name() {
		return false
	}
	return slices.Equal(other.params, m.params)
}

// HandlePossibleBridgeMethod decides which member to keep when m is added to
// the members accepted so far. Accepted members are scanned from the most
// recently added backwards and the first one shadowing m decides:
//
//   - none shadows m: m is returned and accepted is unchanged;
//   - a bridge shadows m: the bridge is removed from accepted and returned,
//     because m's declaring type may not allow calling m directly;
//   - any other member shadows m: nil is returned and m must be dropped.
func (m *Method) HandlePossibleBridgeMethod(accepted []*Method) (*Method, []*Method) {
	for i := len(accepted) - 1; i >= 0; i-- {
		other := accepted[i]
		if !m.IsShadowedBy(other) {
			continue
		}
		if other.IsBridge() {
			return other, slices.Delete(slices.Clone(accepted), i, i+1)
		}
		return nil, accepted
	}
	return m, accepted
}
