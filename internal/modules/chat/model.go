// README: Ride group chat message model.
package chat

import (
	"time"

	"hopper/internal/types"
)

const MaxContentLength = 1000

type Message struct {
	ID        types.ID  `json:"id"`
	RideID    types.ID  `json:"ride_id"`
	UserID    types.ID  `json:"user_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
