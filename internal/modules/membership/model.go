// README: Ride membership (join request) aggregate and status definitions.
package membership

import (
	"time"

	"hopper/internal/types"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusAccepted  Status = "accepted"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"
)

type PaymentStatus string

const (
	PaymentUnpaid PaymentStatus = "unpaid"
	PaymentPaid   PaymentStatus = "paid"
)

type Membership struct {
	ID            types.ID
	RideID        types.ID
	UserID        types.ID
	Status        Status
	PaymentStatus PaymentStatus
	NoShow        bool
	JoinedAt      time.Time
	RespondedAt   *time.Time
}

// RiderCount is one row of the most-rides leaderboard. Hosted rides count too.
type RiderCount struct {
	UserID types.ID `json:"user_id"`
	Name   string   `json:"name"`
	Rides  int      `json:"rides"`
}

// Active memberships hold or may soon hold a seat. At most one exists per (ride, user).
func (m *Membership) Active() bool {
	return m.Status == StatusPending || m.Status == StatusAccepted
}

// AllowedTransitions is the join request flow. Rejected and cancelled are terminal.
var AllowedTransitions = map[Status][]Status{
	StatusPending:  {StatusAccepted, StatusRejected, StatusCancelled},
	StatusAccepted: {StatusCancelled},
}

func CanTransition(from, to Status) bool {
	next, ok := AllowedTransitions[from]
	if !ok {
		return false
	}
	for _, s := range next {
		if s == to {
			return true
		}
	}
	return false
}

type View struct {
	ID            types.ID      `json:"id"`
	RideID        types.ID      `json:"ride_id"`
	UserID        types.ID      `json:"user_id"`
	Status        Status        `json:"status"`
	PaymentStatus PaymentStatus `json:"payment_status"`
	NoShow        bool          `json:"no_show"`
	JoinedAt      time.Time     `json:"joined_at"`
	RespondedAt   *time.Time    `json:"responded_at,omitempty"`
}

func NewView(m *Membership) View {
	return View{
		ID:            m.ID,
		RideID:        m.RideID,
		UserID:        m.UserID,
		Status:        m.Status,
		PaymentStatus: m.PaymentStatus,
		NoShow:        m.NoShow,
		JoinedAt:      m.JoinedAt,
		RespondedAt:   m.RespondedAt,
	}
}

func NewViews(ms []Membership) []View {
	out := make([]View, len(ms))
	for i := range ms {
		out[i] = NewView(&ms[i])
	}
	return out
}
