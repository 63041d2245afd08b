// README: Referral service tracks signups and credits referrers once the friend rides.
package referral

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"hopper/internal/types"
)

const (
	defaultTopLimit = 10
	maxTopLimit     = 100
)

var (
	ErrBadRequest      = errors.New("bad request")
	ErrNotFound        = errors.New("referral not found")
	ErrSelfReferral    = errors.New("cannot refer yourself")
	ErrAlreadyReferred = errors.New("user has already been referred")
	ErrNotEligible     = errors.New("referee has not completed a ride yet")
	ErrNotAuthorized   = errors.New("not authorized")
)

type Repository interface {
	Create(ctx context.Context, r *Referral) error
	Get(ctx context.Context, id types.ID) (*Referral, error)
	MarkCompleted(ctx context.Context, id types.ID) (bool, error)
	CountByReferrer(ctx context.Context, referrerID types.ID) (completed, pending int, err error)
	TopReferrers(ctx context.Context, limit int) ([]Leader, error)
}

// RideCounter reports how many completed rides a user took part in.
type RideCounter interface {
	CountCompleted(ctx context.Context, userID types.ID) (int, error)
}

type Service struct {
	store Repository
	rides RideCounter
	now   func() time.Time
}

func NewService(store Repository, rides RideCounter) *Service {
	return &Service{store: store, rides: rides, now: time.Now}
}

// TrackSignup records that refereeID signed up with code. A user can be referred once.
func (s *Service) TrackSignup(ctx context.Context, refereeID types.ID, code string) (*Referral, error) {
	if refereeID == "" {
		return nil, ErrBadRequest
	}
	referrerID, err := Decode(code)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	if referrerID == refereeID {
		return nil, ErrSelfReferral
	}
	r := &Referral{
		ID:           types.NewID(),
		ReferrerID:   referrerID,
		RefereeID:    refereeID,
		CreditAmount: Credit,
		Status:       StatusPending,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.store.Create(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// Complete credits the referrer. The referee must have finished a ride.
// Completing an already completed referral is a no-op.
func (s *Service) Complete(ctx context.Context, id, callerID types.ID) (*Referral, error) {
	r, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if callerID != r.RefereeID && callerID != r.ReferrerID {
		return nil, ErrNotAuthorized
	}
	if r.Status == StatusCompleted {
		return r, nil
	}
	n, err := s.rides.CountCompleted(ctx, r.RefereeID)
	if err != nil {
		return nil, err
	}
	if n < 1 {
		return nil, ErrNotEligible
	}
	ok, err := s.store.MarkCompleted(ctx, r.ID)
	if err != nil {
		return nil, err
	}
	if ok {
		slog.Info("referral completed", "referral_id", r.ID, "referrer_id", r.ReferrerID, "credit", r.CreditAmount.Amount)
	}
	return s.store.Get(ctx, r.ID)
}

func (s *Service) Stats(ctx context.Context, userID types.ID) (Stats, error) {
	completed, pending, err := s.store.CountByReferrer(ctx, userID)
	if err != nil {
		return Stats{}, err
	}
	return Stats{
		Code:      Code(userID),
		Total:     completed + pending,
		Completed: completed,
		Pending:   pending,
		Earned:    types.Money{Amount: int64(completed) * Credit.Amount, Currency: Credit.Currency},
	}, nil
}

// CompletedCount is used for the referral badge.
func (s *Service) CompletedCount(ctx context.Context, userID types.ID) (int, error) {
	completed, _, err := s.store.CountByReferrer(ctx, userID)
	return completed, err
}

func (s *Service) TopReferrers(ctx context.Context, limit int) ([]Leader, error) {
	if limit <= 0 {
		limit = defaultTopLimit
	}
	if limit > maxTopLimit {
		limit = maxTopLimit
	}
	return s.store.TopReferrers(ctx, limit)
}
