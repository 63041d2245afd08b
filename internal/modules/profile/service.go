// README: Profile service for reads and self-service updates. Trust score changes go through the trust module.
package profile

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"hopper/internal/types"
)

// DefaultTrustScore is the score a new profile starts with.
const DefaultTrustScore = 4.0

const maxNameLength = 80

const (
	defaultTopLimit = 10
	maxTopLimit     = 100
)

var (
	ErrNotFound   = errors.New("profile not found")
	ErrBadRequest = errors.New("bad request")
)

type Repository interface {
	Get(ctx context.Context, id types.ID) (*Profile, error)
	Upsert(ctx context.Context, id types.ID, name string, defaultScore float64) error
	Ensure(ctx context.Context, id types.ID, defaultScore float64) error
	MarkPhoneVerified(ctx context.Context, id types.ID) error
	TopByTrust(ctx context.Context, limit int) ([]Profile, error)
}

type Service struct {
	store Repository
}

func NewService(store Repository) *Service {
	return &Service{store: store}
}

func (s *Service) Get(ctx context.Context, id types.ID) (*Profile, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) UpdateName(ctx context.Context, id types.ID, name string) (*Profile, error) {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > maxNameLength {
		return nil, fmt.Errorf("%w: name must be 1..%d characters", ErrBadRequest, maxNameLength)
	}
	if err := s.store.Upsert(ctx, id, name, DefaultTrustScore); err != nil {
		return nil, err
	}
	return s.store.Get(ctx, id)
}

// Ensure creates an empty profile for a first-time caller so trust changes
// always have a row to land on.
func (s *Service) Ensure(ctx context.Context, id types.ID) error {
	return s.store.Ensure(ctx, id, DefaultTrustScore)
}

// MarkPhoneVerified is called once the external SMS provider confirms the number.
func (s *Service) MarkPhoneVerified(ctx context.Context, id types.ID) error {
	return s.store.MarkPhoneVerified(ctx, id)
}

// TopByTrust is the reliability leaderboard.
func (s *Service) TopByTrust(ctx context.Context, limit int) ([]Profile, error) {
	if limit <= 0 {
		limit = defaultTopLimit
	}
	if limit > maxTopLimit {
		limit = maxTopLimit
	}
	return s.store.TopByTrust(ctx, limit)
}
