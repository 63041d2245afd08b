// README: Feed backed by Redis Pub/Sub.
package feed

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

const subscriberBuffer = 32

type RedisFeed struct {
	redis *redis.Client
}

func NewRedisFeed(redis *redis.Client) *RedisFeed {
	return &RedisFeed{redis: redis}
}

func (f *RedisFeed) Publish(ctx context.Context, channel string, e Event) error {
	b, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return f.redis.Publish(ctx, channel, b).Err()
}


// Subscribe blocks until Redis confirms the subscription. Events stop when ctx
// is done or the subscription is closed.
func (f *RedisFeed) Subscribe(ctx context.Context, channel string) (*Subscription, error) {
	ps := f.redis.Subscribe(ctx, channel)
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, err
	}

	out := make(chan Event, subscriberBuffer)
	go func() {
		defer close(out)
		in := ps.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-in:
				if !ok {
					return
				}
				var e Event
				if err := json.Unmarshal([]byte(msg.Payload), &e); err != nil {
					slog.Warn("feed: drop malformed event", "channel", channel, "err", err)
					continue
				}
				select {
				case out <- e:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return NewSubscription(out, ps.Close), nil
}
