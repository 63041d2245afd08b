// README: Trust service applies score deltas to profiles with optimistic retries.
package trust

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"hopper/internal/config"
	"hopper/internal/modules/profile"
	"hopper/internal/observability"
	"hopper/internal/types"
)

var ErrConflict = errors.New("trust score update conflict")

type Reason string

const (
	ReasonCompletion Reason = "ride_completed"
	ReasonLateCancel Reason = "cancel_after_lock"
	ReasonNoShow     Reason = "no_show"
)

type ProfileStore interface {
	Get(ctx context.Context, id types.ID) (*profile.Profile, error)
	CompareAndSetTrust(ctx context.Context, id types.ID, version int, score float64) (bool, error)
	IncrementNoShow(ctx context.Context, id types.ID) error
}

type Service struct {
	profiles ProfileStore
	cfg      config.TrustConfig
}

func NewService(profiles ProfileStore, cfg config.TrustConfig) *Service {
	if cfg.MaxRetries < 1 {
		cfg.MaxRetries = 1
	}
	return &Service{profiles: profiles, cfg: cfg}
}

// Apply reads the score, adjusts it and writes it back only if nobody else
// wrote in between, retrying up to the configured limit.
func (s *Service) Apply(ctx context.Context, userID types.ID, delta float64, reason Reason) (float64, error) {
	for attempt := 0; attempt < s.cfg.MaxRetries; attempt++ {
		p, err := s.profiles.Get(ctx, userID)
		if err != nil {
			return 0, err
		}
		next := Adjust(p.TrustScore, delta)
		ok, err := s.profiles.CompareAndSetTrust(ctx, userID, p.ScoreVersion, next)
		if err != nil {
			return 0, err
		}
		if ok {
			observability.TrustAdjustments.WithLabelValues(string(reason)).Inc()
			slog.Info("trust adjusted", "user_id", userID, "reason", reason, "from", p.TrustScore, "to", next)
			return next, nil
		}
	}
	return 0, fmt.Errorf("%w: user %s after %d attempts", ErrConflict, userID, s.cfg.MaxRetries)
}

// AwardCompletion gives each user the completion delta once. Duplicate ids are
// awarded once. Every user is attempted even if one fails.
func (s *Service) AwardCompletion(ctx context.Context, userIDs []types.ID) error {
	seen := make(map[types.ID]bool, len(userIDs))
	var errs []error
	for _, id := range userIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		if _, err := s.Apply(ctx, id, DeltaCompletion, ReasonCompletion); err != nil {
			errs = append(errs, fmt.Errorf("user %s: %w", id, err))
		}
	}
	return errors.Join(errs...)
}

func (s *Service) PenalizeLateCancel(ctx context.Context, hostID types.ID) error {
	_, err := s.Apply(ctx, hostID, DeltaLateCancel, ReasonLateCancel)
	return err
}

func (s *Service) MarkNoShow(ctx context.Context, userID types.ID) error {
	if _, err := s.Apply(ctx, userID, DeltaNoShow, ReasonNoShow); err != nil {
		return err
	}
	return s.profiles.IncrementNoShow(ctx, userID)
}
