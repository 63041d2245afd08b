// README: Membership service implements the join request and host approval flow.
package membership

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"hopper/internal/modules/ride"
	"hopper/internal/notify"
	"hopper/internal/observability"
	"hopper/internal/types"
)

var (
	ErrBadRequest       = errors.New("bad request")
	ErrNotFound         = errors.New("membership not found")
	ErrInvalidState     = errors.New("invalid state transition")
	ErrConflict         = errors.New("membership state conflict")
	ErrDuplicateRequest = errors.New("an active request for this ride already exists")
	ErrOverbooked       = errors.New("ride has no seats left")
	ErrNotAuthorized    = errors.New("not authorized")
	ErrOwnRide          = errors.New("cannot join your own ride")
	ErrRideClosed       = errors.New("ride is not accepting requests")
)

type Repository interface {
	Create(ctx context.Context, m *Membership) error
	Get(ctx context.Context, id types.ID) (*Membership, error)
	HasActive(ctx context.Context, rideID, userID types.ID) (bool, error)
	ListByRide(ctx context.Context, rideID types.ID) ([]Membership, error)
	AcceptedMemberIDs(ctx context.Context, rideID types.ID) ([]types.ID, error)
	CountCompleted(ctx context.Context, userID types.ID) (int, error)
	TopRiders(ctx context.Context, limit int) ([]RiderCount, error)
	AcceptAndReserveSeat(ctx context.Context, id, rideID types.ID) error
	UpdateStatus(ctx context.Context, id types.ID, from, to Status) (bool, error)
	CancelAndReleaseSeat(ctx context.Context, id, rideID types.ID) error
	SetPaymentStatus(ctx context.Context, id types.ID, ps PaymentStatus) (bool, error)
}

const (
	defaultTopLimit = 10
	maxTopLimit     = 100
)

type RideReader interface {
	Get(ctx context.Context, id types.ID) (*ride.Ride, error)
}

type Service struct {
	store    Repository
	rides    RideReader
	notifier notify.Notifier
	now      func() time.Time
}

func NewService(store Repository, rides RideReader, notifier notify.Notifier) *Service {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &Service{store: store, rides: rides, notifier: notifier, now: time.Now}
}

type RequestCommand struct {
	RideID types.ID
	UserID types.ID
}

// DecideCommand is used for accept and reject; HostID is the caller.
type DecideCommand struct {
	MembershipID types.ID
	HostID       types.ID
}

type CancelCommand struct {
	MembershipID types.ID
	UserID       types.ID
}

type MarkPaidCommand struct {
	MembershipID types.ID
	HostID       types.ID
}

// Request creates a new pending membership. A rejected or cancelled request
// does not block a new one; an active one does.
func (s *Service) Request(ctx context.Context, cmd RequestCommand) (*Membership, error) {
	if cmd.RideID == "" || cmd.UserID == "" {
		return nil, ErrBadRequest
	}
	r, err := s.rides.Get(ctx, cmd.RideID)
	if err != nil {
		return nil, err
	}
	if r.HostID == cmd.UserID {
		observability.JoinRequests.WithLabelValues("own_ride").Inc()
		return nil, ErrOwnRide
	}
	if r.Status != ride.StatusActive {
		observability.JoinRequests.WithLabelValues("closed").Inc()
		return nil, ErrRideClosed
	}
	active, err := s.store.HasActive(ctx, cmd.RideID, cmd.UserID)
	if err != nil {
		return nil, err
	}
	if active {
		observability.JoinRequests.WithLabelValues("duplicate").Inc()
		return nil, ErrDuplicateRequest
	}

	m := &Membership{
		ID:            types.NewID(),
		RideID:        cmd.RideID,
		UserID:        cmd.UserID,
		Status:        StatusPending,
		PaymentStatus: PaymentUnpaid,
		JoinedAt:      s.now(),
	}
	if err := s.store.Create(ctx, m); err != nil {
		if errors.Is(err, ErrDuplicateRequest) {
			observability.JoinRequests.WithLabelValues("duplicate").Inc()
		}
		return nil, err
	}
	observability.JoinRequests.WithLabelValues("created").Inc()
	s.push(ctx, r.HostID, notify.Message{
		Kind:   notify.KindJoinRequested,
		RideID: r.ID,
		Title:  "New ride request",
		Body:   fmt.Sprintf("Someone wants to join your ride to %s", r.Drop),
	})
	return m, nil
}

// Accept seats the requester. The seat check and increment happen atomically
// in the store; a full ride yields ErrOverbooked.
func (s *Service) Accept(ctx context.Context, cmd DecideCommand) (*Membership, error) {
	m, r, err := s.loadForHost(ctx, cmd.MembershipID, cmd.HostID)
	if err != nil {
		return nil, err
	}
	if !CanTransition(m.Status, StatusAccepted) {
		return nil, ErrInvalidState
	}
	if r.Status != ride.StatusActive {
		return nil, ErrRideClosed
	}
	if r.SeatsTaken >= r.SeatsTotal {
		observability.SeatAccepts.WithLabelValues("overbooked").Inc()
		return nil, ErrOverbooked
	}
	if err := s.store.AcceptAndReserveSeat(ctx, m.ID, r.ID); err != nil {
		switch {
		case errors.Is(err, ErrOverbooked):
			observability.SeatAccepts.WithLabelValues("overbooked").Inc()
		case errors.Is(err, ErrConflict):
			observability.SeatAccepts.WithLabelValues("conflict").Inc()
		case errors.Is(err, ErrRideClosed):
			observability.SeatAccepts.WithLabelValues("closed").Inc()
		}
		return nil, err
	}
	observability.SeatAccepts.WithLabelValues("accepted").Inc()

	now := s.now()
	m.Status = StatusAccepted
	m.RespondedAt = &now
	s.push(ctx, m.UserID, notify.Message{
		Kind:   notify.KindRequestAccepted,
		RideID: r.ID,
		Title:  "You're in",
		Body:   fmt.Sprintf("Your request to join the ride to %s was accepted", r.Drop),
	})
	return m, nil
}

func (s *Service) Reject(ctx context.Context, cmd DecideCommand) (*Membership, error) {
	m, r, err := s.loadForHost(ctx, cmd.MembershipID, cmd.HostID)
	if err != nil {
		return nil, err
	}
	if !CanTransition(m.Status, StatusRejected) {
		return nil, ErrInvalidState
	}
	ok, err := s.store.UpdateStatus(ctx, m.ID, m.Status, StatusRejected)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrConflict
	}
	now := s.now()
	m.Status = StatusRejected
	m.RespondedAt = &now
	s.push(ctx, m.UserID, notify.Message{
		Kind:   notify.KindRequestRejected,
		RideID: r.ID,
		Title:  "Request declined",
		Body:   fmt.Sprintf("The host declined your request for the ride to %s", r.Drop),
	})
	return m, nil
}

// Cancel withdraws the caller's own request. Cancelling an accepted membership
// gives the seat back.
func (s *Service) Cancel(ctx context.Context, cmd CancelCommand) (*Membership, error) {
	m, err := s.store.Get(ctx, cmd.MembershipID)
	if err != nil {
		return nil, err
	}
	if m.UserID != cmd.UserID {
		return nil, ErrNotAuthorized
	}
	if !CanTransition(m.Status, StatusCancelled) {
		return nil, ErrInvalidState
	}
	switch m.Status {
	case StatusAccepted:
		if err := s.store.CancelAndReleaseSeat(ctx, m.ID, m.RideID); err != nil {
			return nil, err
		}
	default:
		ok, err := s.store.UpdateStatus(ctx, m.ID, m.Status, StatusCancelled)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrConflict
		}
	}
	now := s.now()
	m.Status = StatusCancelled
	m.RespondedAt = &now
	return m, nil
}

func (s *Service) MarkPaid(ctx context.Context, cmd MarkPaidCommand) (*Membership, error) {
	m, _, err := s.loadForHost(ctx, cmd.MembershipID, cmd.HostID)
	if err != nil {
		return nil, err
	}
	if m.Status != StatusAccepted {
		return nil, ErrInvalidState
	}
	ok, err := s.store.SetPaymentStatus(ctx, m.ID, PaymentPaid)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrConflict
	}
	m.PaymentStatus = PaymentPaid
	return m, nil
}

func (s *Service) Get(ctx context.Context, id types.ID) (*Membership, error) {
	return s.store.Get(ctx, id)
}

// ListByRide is visible to the host and to anyone holding a membership on the ride.
func (s *Service) ListByRide(ctx context.Context, rideID, callerID types.ID) ([]Membership, error) {
	r, err := s.rides.Get(ctx, rideID)
	if err != nil {
		return nil, err
	}
	ms, err := s.store.ListByRide(ctx, rideID)
	if err != nil {
		return nil, err
	}
	if r.HostID == callerID {
		return ms, nil
	}
	for i := range ms {
		if ms[i].UserID == callerID {
			return ms, nil
		}
	}
	return nil, ErrNotAuthorized
}

func (s *Service) AcceptedMemberIDs(ctx context.Context, rideID types.ID) ([]types.ID, error) {
	return s.store.AcceptedMemberIDs(ctx, rideID)
}

func (s *Service) CountCompleted(ctx context.Context, userID types.ID) (int, error) {
	return s.store.CountCompleted(ctx, userID)
}

// TopRiders ranks users by completed rides, hosted or joined.
func (s *Service) TopRiders(ctx context.Context, limit int) ([]RiderCount, error) {
	if limit <= 0 {
		limit = defaultTopLimit
	}
	if limit > maxTopLimit {
		limit = maxTopLimit
	}
	return s.store.TopRiders(ctx, limit)
}

// IsParticipant reports whether userID is the host or an accepted member of the ride.
func (s *Service) IsParticipant(ctx context.Context, rideID, userID types.ID) (bool, error) {
	r, err := s.rides.Get(ctx, rideID)
	if err != nil {
		return false, err
	}
	if r.HostID == userID {
		return true, nil
	}
	ids, err := s.store.AcceptedMemberIDs(ctx, rideID)
	if err != nil {
		return false, err
	}
	for _, id := range ids {
		if id == userID {
			return true, nil
		}
	}
	return false, nil
}

func (s *Service) loadForHost(ctx context.Context, membershipID, hostID types.ID) (*Membership, *ride.Ride, error) {
	m, err := s.store.Get(ctx, membershipID)
	if err != nil {
		return nil, nil, err
	}
	r, err := s.rides.Get(ctx, m.RideID)
	if err != nil {
		return nil, nil, err
	}
	if r.HostID != hostID {
		return nil, nil, ErrNotAuthorized
	}
	return m, r, nil
}

func (s *Service) push(ctx context.Context, userID types.ID, msg notify.Message) {
	if err := s.notifier.Notify(ctx, userID, msg); err != nil {
		slog.Warn("membership: push failed", "user_id", userID, "kind", msg.Kind, "err", err)
	}
}
