// README: Chat service tests with in-memory store and participant set.
package chat

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"hopper/internal/modules/feed"
	"hopper/internal/types"
)

type memStore struct {
	mu   sync.Mutex
	msgs []Message
}

func (m *memStore) Create(_ context.Context, msg *Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.msgs = append(m.msgs, *msg)
	return nil
}

func (m *memStore) ListByRide(_ context.Context, rideID types.ID, limit int) ([]Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Message
	for _, msg := range m.msgs {
		if msg.RideID == rideID {
			out = append(out, msg)
		}
	}
	if len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

type participantSet map[types.ID]bool

func (p participantSet) IsParticipant(_ context.Context, _ types.ID, userID types.ID) (bool, error) {
	return p[userID], nil
}

type capturedFeed struct {
	channels []string
	events   []feed.Event
}

func (c *capturedFeed) Publish(_ context.Context, channel string, e feed.Event) error {
	c.channels = append(c.channels, channel)
	c.events = append(c.events, e)
	return nil
}

func newTestService() (*Service, *memStore, *capturedFeed) {
	store := &memStore{}
	pub := &capturedFeed{}
	svc := NewService(store, participantSet{"host": true, "member": true}, pub)
	tick := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	svc.now = func() time.Time {
		tick = tick.Add(time.Second)
		return tick
	}
	return svc, store, pub
}

func TestSendTrimsAndPublishes(t *testing.T) {
	svc, store, pub := newTestService()
	m, err := svc.Send(context.Background(), SendCommand{RideID: "r1", UserID: "member", Content: "  leaving in 5  "})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if m.Content != "leaving in 5" {
		t.Fatalf("expected trimmed content, got %q", m.Content)
	}
	if len(store.msgs) != 1 {
		t.Fatalf("expected stored message")
	}
	if len(pub.channels) != 1 || pub.channels[0] != feed.MessagesChannel("r1") {
		t.Fatalf("unexpected channels %v", pub.channels)
	}
	var payload Message
	if err := json.Unmarshal(pub.events[0].Payload, &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if payload.ID != m.ID || pub.events[0].Kind != feed.KindMessageInserted {
		t.Fatalf("unexpected event %+v", pub.events[0])
	}
}

func TestSendValidation(t *testing.T) {
	svc, store, _ := newTestService()
	ctx := context.Background()

	cases := []struct {
		name string
		cmd  SendCommand
		want error
	}{
		{"blank", SendCommand{RideID: "r1", UserID: "member", Content: " \n\t "}, ErrBadRequest},
		{"too long", SendCommand{RideID: "r1", UserID: "member", Content: strings.Repeat("a", MaxContentLength+1)}, ErrBadRequest},
		{"outsider", SendCommand{RideID: "r1", UserID: "stranger", Content: "hi"}, ErrNotAuthorized},
	}
	for _, tc := range cases {
		if _, err := svc.Send(ctx, tc.cmd); !errors.Is(err, tc.want) {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
	if len(store.msgs) != 0 {
		t.Fatalf("nothing should be stored, got %d", len(store.msgs))
	}

	exact := strings.Repeat("é", MaxContentLength)
	if _, err := svc.Send(ctx, SendCommand{RideID: "r1", UserID: "host", Content: exact}); err != nil {
		t.Fatalf("limit counts characters, not bytes: %v", err)
	}
}

func TestListAscendingForParticipants(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	for _, text := range []string{"one", "two", "three"} {
		if _, err := svc.Send(ctx, SendCommand{RideID: "r1", UserID: "host", Content: text}); err != nil {
			t.Fatalf("send: %v", err)
		}
	}

	msgs, err := svc.List(ctx, "r1", "member", 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(msgs) != 3 || msgs[0].Content != "one" || msgs[2].Content != "three" {
		t.Fatalf("unexpected order %+v", msgs)
	}
	for i := 1; i < len(msgs); i++ {
		if msgs[i].CreatedAt.Before(msgs[i-1].CreatedAt) {
			t.Fatalf("messages out of order at %d", i)
		}
	}
	if _, err := svc.List(ctx, "r1", "stranger", 0); !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized, got %v", err)
	}
}
