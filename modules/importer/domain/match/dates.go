package match

import "time"

// Two sources often disagree by a few weeks about when something started;
// dates within this window count as the same moment.
const approxEqualWindow = 45 * 24 * time.Hour

// DatesOverlap reports whether two date ranges share at least one day.
// A nil start makes its range incomparable and the result false; a nil end
// means the range is ongoing and extends indefinitely.
func DatesOverlap(startA, endA, startB, endB *time.Time) bool {
	if startA == nil || startB == nil {
		return false
	}
	if endA != nil && endA.Before(*startB) {
		return false
	}
	if endB != nil && endB.Before(*startA) {
		return false
	}
	return true
}

// DatesApproxEqual reports whether both dates are non-nil and within the
// tolerance window of each other.
func DatesApproxEqual(a, b *time.Time) bool {
	if a == nil || b == nil {
		return false
	}
	diff := a.Sub(*b)
	if diff < 0 {
		diff = -diff
	}
	return diff <= approxEqualWindow
}
