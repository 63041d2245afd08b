// README: Firebase Cloud Messaging notifier for ride request pushes.
package notify

import (
	"context"
	"fmt"
	"log/slog"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"

	"hopper/internal/types"
)

// FCM sends to the per-user topic; device tokens stay on the client.
type FCM struct {
	client *messaging.Client
}

func NewFCM(ctx context.Context, app *firebase.App) (*FCM, error) {
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("initialising firebase messaging client: %w", err)
	}
	return &FCM{client: client}, nil
}

func (f *FCM) Notify(ctx context.Context, userID types.ID, msg Message) error {
	m := &messaging.Message{
		Topic: UserTopic(userID),
		Data: map[string]string{
			"type":    string(msg.Kind),
			"ride_id": string(msg.RideID),
		},
		Notification: &messaging.Notification{
			Title: msg.Title,
			Body:  msg.Body,
		},
		Android: &messaging.AndroidConfig{
			Priority: "high",
		},
	}
	id, err := f.client.Send(ctx, m)
	if err != nil {
		return fmt.Errorf("sending FCM to %s: %w", UserTopic(userID), err)
	}
	slog.Debug("fcm sent", "user_id", userID, "kind", msg.Kind, "message_id", id)
	return nil
}
