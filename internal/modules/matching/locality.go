// README: Locality comparator for free-text pickup and drop locations.
package matching

import "strings"

// LocationMatch reports whether a and b name the same place: after trimming,
// collapsing inner whitespace and lower-casing, one must contain the other.
// Empty locations never match. The relation is symmetric.
func LocationMatch(a, b string) bool {
	a, b = normalizeLocation(a), normalizeLocation(b)
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}

func normalizeLocation(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
