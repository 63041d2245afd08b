// README: Match evaluator combining locality and temporal comparators.
package matching

import "hopper/internal/modules/ride"

// Matches reports whether candidate matches draft on pickup, drop, date and
// departure window. All four must hold.
func Matches(draft ride.Draft, candidate ride.Draft) bool {
	return LocationMatch(draft.Pickup, candidate.Pickup) &&
		LocationMatch(draft.Drop, candidate.Drop) &&
		SameDay(draft.Date, candidate.Date) &&
		TimeOverlap(draft.DepartureTime, draft.FlexibilityMinutes, candidate.DepartureTime, candidate.FlexibilityMinutes)
}

// Evaluate returns the candidates matching p, in input order. Rides hosted by
// the proposer and rides that are not active are skipped. The input is not modified.
func Evaluate(p Proposal, candidates []ride.Ride) []ride.Ride {
	var out []ride.Ride
	for i := range candidates {
		c := &candidates[i]
		if c.HostID == p.ProposerID || c.Status != ride.StatusActive {
			continue
		}
		if Matches(p.Draft, c.Draft()) {
			out = append(out, *c)
		}
	}
	return out
}
