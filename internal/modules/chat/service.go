// README: Chat service validates and stores ride messages and fans them out on the feed.
package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"hopper/internal/modules/feed"
	"hopper/internal/types"
)

const (
	defaultListLimit = 200
	maxListLimit     = 500
)

var (
	ErrBadRequest    = errors.New("bad request")
	ErrNotAuthorized = errors.New("only ride participants can use the ride chat")
)

type Repository interface {
	Create(ctx context.Context, m *Message) error
	ListByRide(ctx context.Context, rideID types.ID, limit int) ([]Message, error)
}

// Participants answers whether a user is the host or an accepted member of a ride.
type Participants interface {
	IsParticipant(ctx context.Context, rideID, userID types.ID) (bool, error)
}

type Service struct {
	store        Repository
	participants Participants
	feed         feed.Publisher
	now          func() time.Time
}

func NewService(store Repository, participants Participants, pub feed.Publisher) *Service {
	return &Service{store: store, participants: participants, feed: pub, now: time.Now}
}

type SendCommand struct {
	RideID  types.ID
	UserID  types.ID
	Content string
}

func (s *Service) Send(ctx context.Context, cmd SendCommand) (*Message, error) {
	content := strings.TrimSpace(cmd.Content)
	if content == "" {
		return nil, fmt.Errorf("%w: message is empty", ErrBadRequest)
	}
	if utf8.RuneCountInString(content) > MaxContentLength {
		return nil, fmt.Errorf("%w: message exceeds %d characters", ErrBadRequest, MaxContentLength)
	}
	if err := s.authorize(ctx, cmd.RideID, cmd.UserID); err != nil {
		return nil, err
	}

	m := &Message{
		ID:        types.NewID(),
		RideID:    cmd.RideID,
		UserID:    cmd.UserID,
		Content:   content,
		CreatedAt: s.now().UTC(),
	}
	if err := s.store.Create(ctx, m); err != nil {
		return nil, err
	}
	s.publish(ctx, m)
	return m, nil
}

func (s *Service) List(ctx context.Context, rideID, callerID types.ID, limit int) ([]Message, error) {
	if err := s.authorize(ctx, rideID, callerID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	return s.store.ListByRide(ctx, rideID, limit)
}

// Authorize is exported for the websocket endpoint, which checks once on connect.
func (s *Service) Authorize(ctx context.Context, rideID, userID types.ID) error {
	return s.authorize(ctx, rideID, userID)
}

func (s *Service) authorize(ctx context.Context, rideID, userID types.ID) error {
	if rideID == "" || userID == "" {
		return ErrBadRequest
	}
	ok, err := s.participants.IsParticipant(ctx, rideID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotAuthorized
	}
	return nil
}

func (s *Service) publish(ctx context.Context, m *Message) {
	if s.feed == nil {
		return
	}
	e, err := feed.NewEvent(feed.KindMessageInserted, m.RideID, m)
	if err == nil {
		err = s.feed.Publish(ctx, feed.MessagesChannel(m.RideID), e)
	}
	if err != nil {
		slog.Warn("chat: feed publish failed", "ride_id", m.RideID, "message_id", m.ID, "err", err)
	}
}
