// README: Realtime feed events pushed to subscribers when rides and messages change.
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"hopper/internal/types"
)

type Kind string

const (
	KindRideInserted    Kind = "ride.inserted"
	KindRideUpdated     Kind = "ride.updated"
	KindMessageInserted Kind = "message.inserted"
)

const RidesChannel = "hopper:rides"

func MessagesChannel(rideID types.ID) string {
	return fmt.Sprintf("hopper:ride:%s:messages", string(rideID))
}

type Event struct {
	Kind    Kind            `json:"kind"`
	RideID  types.ID        `json:"ride_id"`
	Payload json.RawMessage `json:"payload,omitempty"`
	At      time.Time       `json:"at"`
}

func NewEvent(kind Kind, rideID types.ID, payload any) (Event, error) {
	e := Event{Kind: kind, RideID: rideID, At: time.Now().UTC()}
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return Event{}, fmt.Errorf("encode %s payload: %w", kind, err)
		}
		e.Payload = b
	}
	return e, nil
}

type Publisher interface {
	Publish(ctx context.Context, channel string, e Event) error
}

type Subscriber interface {
	Subscribe(ctx context.Context, channel string) (*Subscription, error)
}

// Subscription delivers events until Close is called or the subscribing
// context ends, after which Events is closed.
type Subscription struct {
	Events <-chan Event
	closer func() error
}

func NewSubscription(events <-chan Event, closer func() error) *Subscription {
	return &Subscription{Events: events, closer: closer}
}

func (s *Subscription) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer()
}
