// README: Matching service looks up active rides and evaluates a proposal against them.
package matching

import (
	"context"
	"errors"
	"time"

	"hopper/internal/modules/ride"
	"hopper/internal/observability"
	"hopper/internal/types"
)

var ErrBadRequest = errors.New("bad request")

type ActiveRideLister interface {
	ListActive(ctx context.Context, f ride.ListFilter) ([]ride.Ride, error)
}

type Service struct {
	rides ActiveRideLister
}

func NewService(rides ActiveRideLister) *Service {
	return &Service{rides: rides}
}

// FindMatches never blocks ride creation; the caller decides what to do with the result.
func (s *Service) FindMatches(ctx context.Context, p Proposal) ([]ride.Ride, error) {
	if p.ProposerID == "" || p.Draft.Date.IsZero() {
		return nil, ErrBadRequest
	}
	start := time.Now()
	candidates, err := s.rides.ListActive(ctx, ride.ListFilter{
		Date:        types.Day(p.Draft.Date),
		ExcludeHost: p.ProposerID,
		Unbounded:   true,
	})
	if err != nil {
		return nil, err
	}
	matches := Evaluate(p, candidates)

	observability.MatchEvaluations.Inc()
	observability.MatchesFound.Add(float64(len(matches)))
	observability.MatchLatency.Observe(time.Since(start).Seconds())
	return matches, nil
}
