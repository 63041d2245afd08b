// README: Temporal comparators for ride dates and departure windows.
package matching

import (
	"time"

	"hopper/internal/types"
)

// SameDay reports whether a and b fall on the same calendar day, each read in
// its own location.
func SameDay(a, b time.Time) bool {
	return types.Day(a).Equal(types.Day(b))
}

// TimeOverlap reports whether the windows [t1-f1, t1+f1] and [t2-f2, t2+f2]
// intersect. Both times are on the same day; windows do not wrap midnight.
// Negative flexibility never overlaps.
func TimeOverlap(t1 types.Clock, f1 int, t2 types.Clock, f2 int) bool {
	if f1 < 0 || f2 < 0 {
		return false
	}
	diff := int(t1) - int(t2)
	if diff < 0 {
		diff = -diff
	}
	return diff <= f1+f2
}
