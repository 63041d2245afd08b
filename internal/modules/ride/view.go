// README: JSON view of a ride shared by handlers and the realtime feed.
package ride

import (
	"time"

	"hopper/internal/types"
)

type View struct {
	ID                 types.ID     `json:"id"`
	HostID             types.ID     `json:"host_id"`
	Pickup             string       `json:"pickup_location"`
	Drop               string       `json:"drop_location"`
	Date               string       `json:"date"`
	DepartureTime      types.Clock  `json:"departure_time"`
	FlexibilityMinutes int          `json:"flexibility_minutes"`
	SeatsTotal         int          `json:"seats_total"`
	SeatsTaken         int          `json:"seats_taken"`
	Status             Status       `json:"status"`
	EstimatedFare      *types.Money `json:"estimated_fare,omitempty"`
	CreatedAt          time.Time    `json:"created_at"`
	LockedAt           *time.Time   `json:"locked_at,omitempty"`
}

func NewView(r *Ride) View {
	return View{
		ID:                 r.ID,
		HostID:             r.HostID,
		Pickup:             r.Pickup,
		Drop:               r.Drop,
		Date:               types.FormatDate(r.Date),
		DepartureTime:      r.DepartureTime,
		FlexibilityMinutes: r.FlexibilityMinutes,
		SeatsTotal:         r.SeatsTotal,
		SeatsTaken:         r.SeatsTaken,
		Status:             r.Status,
		EstimatedFare:      r.EstimatedFare,
		CreatedAt:          r.CreatedAt,
		LockedAt:           r.LockedAt,
	}
}

func NewViews(rs []Ride) []View {
	out := make([]View, len(rs))
	for i := range rs {
		out[i] = NewView(&rs[i])
	}
	return out
}
