// README: Badge evaluation and the service that gathers a user's stats.
package badge

import (
	"context"
	"fmt"

	"hopper/internal/modules/profile"
	"hopper/internal/types"
)

// Earned returns the catalog badges stats qualifies for, in catalog order.
func Earned(stats Stats) []Badge {
	out := make([]Badge, 0, len(Catalog))
	for _, b := range Catalog {
		if qualifies(b, stats) {
			out = append(out, b)
		}
	}
	return out
}

func qualifies(b Badge, s Stats) bool {
	switch b.Category {
	case CategoryRides:
		return float64(s.CompletedRides) >= b.Requirement
	case CategoryTrust:
		return s.TrustScore >= b.Requirement
	case CategoryReferral:
		return float64(s.CompletedReferrals) >= b.Requirement
	case CategoryReliability:
		return float64(s.CompletedRides) >= b.Requirement && s.NoShows == 0
	}
	return false
}

type ProfileReader interface {
	Get(ctx context.Context, id types.ID) (*profile.Profile, error)
}

type RideCounter interface {
	CountCompleted(ctx context.Context, userID types.ID) (int, error)
}

type ReferralCounter interface {
	CompletedCount(ctx context.Context, userID types.ID) (int, error)
}

type Service struct {
	profiles  ProfileReader
	rides     RideCounter
	referrals ReferralCounter
}

func NewService(profiles ProfileReader, rides RideCounter, referrals ReferralCounter) *Service {
	return &Service{profiles: profiles, rides: rides, referrals: referrals}
}

func (s *Service) ForUser(ctx context.Context, userID types.ID) ([]Badge, error) {
	p, err := s.profiles.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	rides, err := s.rides.CountCompleted(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count rides: %w", err)
	}
	refs, err := s.referrals.CompletedCount(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count referrals: %w", err)
	}
	return Earned(Stats{
		CompletedRides:     rides,
		TrustScore:         p.TrustScore,
		CompletedReferrals: refs,
		NoShows:            p.NoShowCount,
	}), nil
}
