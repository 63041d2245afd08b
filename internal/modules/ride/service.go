// README: Ride service implements the hopper lifecycle and its trust side effects.
package ride

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"hopper/internal/config"
	"hopper/internal/modules/fare"
	"hopper/internal/modules/feed"
	"hopper/internal/types"
)

const (
	defaultListLimit = 100
	staleBatchSize   = 100
)

var (
	ErrInvalidState  = errors.New("invalid state transition")
	ErrNotFound      = errors.New("ride not found")
	ErrConflict      = errors.New("ride state conflict")
	ErrBadRequest    = errors.New("bad request")
	ErrNotAuthorized = errors.New("not authorized")
	ErrNotMember     = errors.New("user is not an accepted member of this ride")
	ErrNoShowTwice   = errors.New("no-show already reported for this member")
	// ErrPartialAward means the ride was completed but not every member was awarded.
	ErrPartialAward = errors.New("ride completed but trust award failed")
)

type Repository interface {
	Create(ctx context.Context, r *Ride) error
	Get(ctx context.Context, id types.ID) (*Ride, error)
	ListActive(ctx context.Context, f ListFilter) ([]Ride, error)
	UpdateStatus(ctx context.Context, id types.ID, from, to Status, version int) (bool, error)
	AppendEvent(ctx context.Context, e *Event) error
	ListStale(ctx context.Context, day time.Time, limit int) ([]Ride, error)
}

// MemberDirectory lists the accepted members of a ride. The host has no membership row.
type MemberDirectory interface {
	AcceptedMemberIDs(ctx context.Context, rideID types.ID) ([]types.ID, error)
	// FlagNoShow reports false when the member was already flagged on this ride.
	FlagNoShow(ctx context.Context, rideID, userID types.ID) (bool, error)
}

type TrustAdjuster interface {
	AwardCompletion(ctx context.Context, userIDs []types.ID) error
	PenalizeLateCancel(ctx context.Context, hostID types.ID) error
	MarkNoShow(ctx context.Context, userID types.ID) error
}

type ListFilter struct {
	Date        time.Time
	Pickup      string
	Drop        string
	ExcludeHost types.ID
	Limit       int
	// Unbounded ignores Limit and returns every matching ride.
	Unbounded bool
}

type Service struct {
	store   Repository
	members MemberDirectory
	trust   TrustAdjuster
	feed    feed.Publisher
	cfg     config.RideConfig
	now     func() time.Time
}

func NewService(store Repository, members MemberDirectory, trust TrustAdjuster, pub feed.Publisher, cfg config.RideConfig) *Service {
	return &Service{store: store, members: members, trust: trust, feed: pub, cfg: cfg, now: time.Now}
}

// DraftInput is the raw, user-supplied shape of a ride proposal.
type DraftInput struct {
	Pickup             string
	Drop               string
	Date               string
	DepartureTime      string
	FlexibilityMinutes *int
}

type CreateCommand struct {
	HostID types.ID
	DraftInput
	SeatsTotal    int
	EstimatedFare *types.Money
}

type LockCommand struct {
	RideID types.ID
	HostID types.ID
}

type CompleteCommand struct {
	RideID types.ID
	HostID types.ID
}

type CancelCommand struct {
	RideID types.ID
	HostID types.ID
}

type NoShowCommand struct {
	RideID types.ID
	HostID types.ID
	UserID types.ID
}

// ParseDraft validates and normalises a proposal. Missing flexibility falls back
// to the configured default.
func (s *Service) ParseDraft(in DraftInput) (Draft, error) {
	pickup := strings.TrimSpace(in.Pickup)
	drop := strings.TrimSpace(in.Drop)
	if pickup == "" {
		return Draft{}, fmt.Errorf("%w: pickup location is required", ErrBadRequest)
	}
	if drop == "" {
		return Draft{}, fmt.Errorf("%w: drop location is required", ErrBadRequest)
	}
	date, err := types.ParseDate(in.Date)
	if err != nil {
		return Draft{}, fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	dep, err := types.ParseClock(in.DepartureTime)
	if err != nil {
		return Draft{}, fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	flex := s.cfg.DefaultFlexMinutes
	if in.FlexibilityMinutes != nil {
		flex = *in.FlexibilityMinutes
	}
	if flex < 0 || flex > s.cfg.MaxFlexMinutes {
		return Draft{}, fmt.Errorf("%w: flexibility must be between 0 and %d minutes", ErrBadRequest, s.cfg.MaxFlexMinutes)
	}
	return Draft{
		Pickup:             pickup,
		Drop:               drop,
		Date:               date,
		DepartureTime:      dep,
		FlexibilityMinutes: flex,
	}, nil
}

func (s *Service) Create(ctx context.Context, cmd CreateCommand) (*Ride, error) {
	if cmd.HostID == "" {
		return nil, fmt.Errorf("%w: host is required", ErrBadRequest)
	}
	draft, err := s.ParseDraft(cmd.DraftInput)
	if err != nil {
		return nil, err
	}
	seats := cmd.SeatsTotal
	if seats == 0 {
		seats = s.cfg.DefaultSeats
	}
	if seats < 1 || seats > MaxSeats {
		return nil, fmt.Errorf("%w: seats must be between 1 and %d", ErrBadRequest, MaxSeats)
	}
	if cmd.EstimatedFare != nil {
		if cmd.EstimatedFare.Amount < 0 {
			return nil, fmt.Errorf("%w: estimated fare must not be negative", ErrBadRequest)
		}
		if cmd.EstimatedFare.Currency == "" {
			cmd.EstimatedFare.Currency = types.DefaultCurrency
		}
	}

	r := &Ride{
		ID:                 types.NewID(),
		HostID:             cmd.HostID,
		Pickup:             draft.Pickup,
		Drop:               draft.Drop,
		Date:               draft.Date,
		DepartureTime:      draft.DepartureTime,
		FlexibilityMinutes: draft.FlexibilityMinutes,
		SeatsTotal:         seats,
		SeatsTaken:         0,
		Status:             StatusActive,
		StatusVersion:      0,
		EstimatedFare:      cmd.EstimatedFare,
		CreatedAt:          s.now(),
	}
	if err := s.store.Create(ctx, r); err != nil {
		return nil, err
	}
	s.appendEvent(ctx, r.ID, StatusNone, StatusActive, ActorHost, &r.HostID, r.CreatedAt)
	s.publish(ctx, feed.KindRideInserted, r)
	return r, nil
}

func (s *Service) Get(ctx context.Context, id types.ID) (*Ride, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) ListActive(ctx context.Context, f ListFilter) ([]Ride, error) {
	f.Pickup = strings.TrimSpace(f.Pickup)
	f.Drop = strings.TrimSpace(f.Drop)
	return s.store.ListActive(ctx, f)
}

func (s *Service) Lock(ctx context.Context, cmd LockCommand) error {
	_, err := s.transition(ctx, cmd.RideID, cmd.HostID, StatusLocked)
	return err
}

// Complete finishes the ride and awards every accepted member. The host has no
// membership row and is not awarded on this path.
func (s *Service) Complete(ctx context.Context, cmd CompleteCommand) error {
	r, err := s.transition(ctx, cmd.RideID, cmd.HostID, StatusCompleted)
	if err != nil {
		return err
	}
	members, err := s.members.AcceptedMemberIDs(ctx, r.ID)
	if err != nil {
		return fmt.Errorf("%w: list accepted members: %w", ErrPartialAward, err)
	}
	if err := s.trust.AwardCompletion(ctx, members); err != nil {
		return fmt.Errorf("%w: %w", ErrPartialAward, err)
	}
	return nil
}

// Cancel is terminal from active or locked. Only a cancellation after locking
// costs the host trust.
func (s *Service) Cancel(ctx context.Context, cmd CancelCommand) error {
	before, err := s.store.Get(ctx, cmd.RideID)
	if err != nil {
		return err
	}
	wasLocked := before.WasLocked()
	if _, err := s.transitionFrom(ctx, before, cmd.HostID, StatusCancelled); err != nil {
		return err
	}
	if wasLocked {
		if err := s.trust.PenalizeLateCancel(ctx, before.HostID); err != nil {
			return fmt.Errorf("ride cancelled but penalty failed: %w", err)
		}
	}
	return nil
}

// ReportNoShow lets the host flag an accepted member who did not turn up once the
// trip has started. Each member can be reported once per ride.
func (s *Service) ReportNoShow(ctx context.Context, cmd NoShowCommand) error {
	r, err := s.store.Get(ctx, cmd.RideID)
	if err != nil {
		return err
	}
	if r.HostID != cmd.HostID {
		return ErrNotAuthorized
	}
	if r.Status != StatusLocked && r.Status != StatusCompleted {
		return ErrInvalidState
	}
	members, err := s.members.AcceptedMemberIDs(ctx, r.ID)
	if err != nil {
		return err
	}
	found := false
	for _, m := range members {
		if m == cmd.UserID {
			found = true
			break
		}
	}
	if !found {
		return ErrNotMember
	}
	flagged, err := s.members.FlagNoShow(ctx, r.ID, cmd.UserID)
	if err != nil {
		return err
	}
	if !flagged {
		return ErrNoShowTwice
	}
	return s.trust.MarkNoShow(ctx, cmd.UserID)
}

// FareSplit divides the ride's estimated fare between the host and accepted members.
func (s *Service) FareSplit(ctx context.Context, id types.ID) (fare.Split, error) {
	r, err := s.store.Get(ctx, id)
	if err != nil {
		return fare.Split{}, err
	}
	if r.EstimatedFare == nil {
		return fare.Split{}, fmt.Errorf("%w: ride has no estimated fare", ErrBadRequest)
	}
	return fare.SplitEvenly(*r.EstimatedFare, r.SeatsTaken+1)
}

func (s *Service) transition(ctx context.Context, rideID, hostID types.ID, to Status) (*Ride, error) {
	r, err := s.store.Get(ctx, rideID)
	if err != nil {
		return nil, err
	}
	return s.transitionFrom(ctx, r, hostID, to)
}

func (s *Service) transitionFrom(ctx context.Context, r *Ride, hostID types.ID, to Status) (*Ride, error) {
	if r.HostID != hostID {
		return nil, ErrNotAuthorized
	}
	return s.apply(ctx, r, to, ActorHost, &hostID)
}

func (s *Service) apply(ctx context.Context, r *Ride, to Status, actorType string, actorID *types.ID) (*Ride, error) {
	if !CanTransition(r.Status, to) {
		return nil, ErrInvalidState
	}
	ok, err := s.store.UpdateStatus(ctx, r.ID, r.Status, to, r.StatusVersion)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrConflict
	}
	next := *r
	now := s.now()
	next.Status = to
	next.StatusVersion++
	switch to {
	case StatusLocked:
		next.LockedAt = &now
	case StatusCompleted:
		next.CompletedAt = &now
	case StatusCancelled:
		next.CancelledAt = &now
	}
	s.appendEvent(ctx, r.ID, r.Status, to, actorType, actorID, now)
	s.publish(ctx, feed.KindRideUpdated, &next)
	return &next, nil
}

func (s *Service) appendEvent(ctx context.Context, rideID types.ID, from, to Status, actorType string, actorID *types.ID, at time.Time) {
	err := s.store.AppendEvent(ctx, &Event{
		RideID:     rideID,
		FromStatus: from,
		ToStatus:   to,
		ActorType:  actorType,
		ActorID:    actorID,
		CreatedAt:  at,
	})
	if err != nil {
		slog.Warn("ride: append state event failed", "ride_id", rideID, "to", to, "err", err)
	}
}

// SweepStale cancels rides still active after their day has passed. Nobody
// locked them, so no trust penalty applies.
func (s *Service) SweepStale(ctx context.Context) (int, error) {
	today := types.Day(s.now())
	stale, err := s.store.ListStale(ctx, today, staleBatchSize)
	if err != nil {
		return 0, err
	}
	n := 0
	for i := range stale {
		_, err := s.apply(ctx, &stale[i], StatusCancelled, ActorSystem, nil)
		switch {
		case err == nil:
			n++
		case errors.Is(err, ErrConflict), errors.Is(err, ErrInvalidState):
			// host acted in between
		default:
			return n, err
		}
	}
	return n, nil
}

func (s *Service) RunStaleSweeper(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.SweepStale(ctx)
			if err != nil {
				slog.Error("ride: stale sweep failed", "err", err)
				continue
			}
			if n > 0 {
				slog.Info("ride: stale rides cancelled", "count", n)
			}
		}
	}
}

func (s *Service) publish(ctx context.Context, kind feed.Kind, r *Ride) {
	if s.feed == nil {
		return
	}
	e, err := feed.NewEvent(kind, r.ID, NewView(r))
	if err == nil {
		err = s.feed.Publish(ctx, feed.RidesChannel, e)
	}
	if err != nil {
		slog.Warn("ride: feed publish failed", "ride_id", r.ID, "kind", kind, "err", err)
	}
}
