// README: Ride chat handlers (history, send, live stream).
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hopper/internal/modules/chat"
	"hopper/internal/modules/feed"
)

type ChatHandler struct {
	chat       *chat.Service
	subscriber feed.Subscriber
}

func NewChatHandler(chat *chat.Service, subscriber feed.Subscriber) *ChatHandler {
	return &ChatHandler{chat: chat, subscriber: subscriber}
}

type sendMessageReq struct {
	Content string `json:"content"`
}

func (h *ChatHandler) List(c *gin.Context) {
	uid, ok := caller(c)
	if !ok {
		return
	}
	rideID, ok := pathID(c, "id")
	if !ok {
		return
	}
	limit, ok := queryLimit(c)
	if !ok {
		return
	}
	msgs, err := h.chat.List(c.Request.Context(), rideID, uid, limit)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"messages": msgs})
}

func (h *ChatHandler) Send(c *gin.Context) {
	uid, ok := caller(c)
	if !ok {
		return
	}
	rideID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req sendMessageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	m, err := h.chat.Send(c.Request.Context(), chat.SendCommand{RideID: rideID, UserID: uid, Content: req.Content})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, m)
}

// Stream pushes new messages of one ride to a participant.
func (h *ChatHandler) Stream(c *gin.Context) {
	uid, ok := caller(c)
	if !ok {
		return
	}
	rideID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.chat.Authorize(c.Request.Context(), rideID, uid); err != nil {
		writeServiceError(c, err)
		return
	}
	streamChannel(c, h.subscriber, feed.MessagesChannel(rideID))
}
