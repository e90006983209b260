package domain

import (
	"slices"
)

// MarkRead adds userID to the message read set. It reports false, and
// returns the message untouched, when there is nothing to record: system
// messages, tombstones, non-members and users who already read it.
func MarkRead(a Admission, m Message, userID UserID) (Message, bool) {
	if m.IsSystem() || m.Deleted || !CanAccess(userID, a) {
		return m, false
	}
	if slices.Contains(m.ReadBy, userID) {
		return m, false
	}
	m = m.clone()
	m.ReadBy = addToSet(m.ReadBy, userID)
	return m, true
}

// MergeReadBy is the union of two read sets. It is commutative, associative
// and idempotent, so replicas converge whatever the arrival order.
func MergeReadBy(left, right []UserID) []UserID {
	merged := slices.Clone(left)
	slices.Sort(merged)
	merged = slices.Compact(merged)
	for _, id := range right {
		merged = addToSet(merged, id)
	}
	return merged
}
