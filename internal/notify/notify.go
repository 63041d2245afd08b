// README: Push notification contract for ride request events.
package notify

import (
	"context"

	"hopper/internal/types"
)

type Kind string

const (
	KindJoinRequested   Kind = "join_requested"
	KindRequestAccepted Kind = "request_accepted"
	KindRequestRejected Kind = "request_rejected"
)

type Message struct {
	Kind   Kind
	RideID types.ID
	Title  string
	Body   string
}

type Notifier interface {
	Notify(ctx context.Context, userID types.ID, msg Message) error
}

// Nop drops every message. Used when push is disabled.
type Nop struct{}

func (Nop) Notify(context.Context, types.ID, Message) error { return nil }

// UserTopic is the FCM topic each client subscribes to after sign-in.
func UserTopic(userID types.ID) string {
	return "user-" + string(userID)
}
