// README: Websocket streaming of realtime feed channels.
package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"hopper/internal/modules/feed"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = 30 * time.Second
)

// Any origin is accepted; streams sit behind the Firebase token check.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// streamChannel subscribes before upgrading so a feed outage is reported as a
// normal HTTP error. It returns when the client goes away or the feed closes.
func streamChannel(c *gin.Context, subscriber feed.Subscriber, channel string) {
	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	sub, err := subscriber.Subscribe(ctx, channel)
	if err != nil {
		slog.Warn("feed subscribe failed", "channel", channel, "err", err)
		writeError(c, http.StatusServiceUnavailable, "realtime feed unavailable")
		return
	}
	defer sub.Close()

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})
	// Client frames are ignored; reading is what surfaces a closed socket.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(wsPingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-sub.Events:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteJSON(e); err != nil {
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait)); err != nil {
				return
			}
		}
	}
}

type FeedHandler struct {
	subscriber feed.Subscriber
}

func NewFeedHandler(subscriber feed.Subscriber) *FeedHandler {
	return &FeedHandler{subscriber: subscriber}
}

// Rides streams ride inserts and updates to any signed-in user.
func (h *FeedHandler) Rides(c *gin.Context) {
	if _, ok := caller(c); !ok {
		return
	}
	streamChannel(c, h.subscriber, feed.RidesChannel)
}
