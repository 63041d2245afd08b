// README: Ride (Hopper) aggregate and status definitions.
package ride

import (
	"time"

	"hopper/internal/types"
)

type Status string

const (
	// StatusNone is the from-status of a ride's creation event.
	StatusNone      Status = "none"
	StatusActive    Status = "active"
	StatusLocked    Status = "locked"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

const MaxSeats = 8

type Ride struct {
	ID                 types.ID
	HostID             types.ID
	Pickup             string
	Drop               string
	Date               time.Time
	DepartureTime      types.Clock
	FlexibilityMinutes int
	SeatsTotal         int
	SeatsTaken         int
	Status             Status
	StatusVersion      int
	EstimatedFare      *types.Money
	CreatedAt          time.Time
	LockedAt           *time.Time
	CompletedAt        *time.Time
	CancelledAt        *time.Time
}

// Draft is the part of a ride that takes part in matching.
type Draft struct {
	Pickup             string
	Drop               string
	Date               time.Time
	DepartureTime      types.Clock
	FlexibilityMinutes int
}

func (r *Ride) Draft() Draft {
	return Draft{
		Pickup:             r.Pickup,
		Drop:               r.Drop,
		Date:               r.Date,
		DepartureTime:      r.DepartureTime,
		FlexibilityMinutes: r.FlexibilityMinutes,
	}
}

func (r *Ride) SeatsLeft() int {
	if r.SeatsTaken >= r.SeatsTotal {
		return 0
	}
	return r.SeatsTotal - r.SeatsTaken
}

// WasLocked reports whether the host ever started the trip.
func (r *Ride) WasLocked() bool {
	return r.LockedAt != nil || r.Status == StatusLocked
}

const (
	ActorHost   = "host"
	ActorSystem = "system"
)

// Event is one row of the ride status audit trail.
type Event struct {
	ID         int64
	RideID     types.ID
	FromStatus Status
	ToStatus   Status
	ActorType  string
	ActorID    *types.ID
	CreatedAt  time.Time
}

// AllowedTransitions is the ride lifecycle. Completed and cancelled are terminal.
var AllowedTransitions = map[Status][]Status{
	StatusActive: {StatusLocked, StatusCancelled},
	StatusLocked: {StatusCompleted, StatusCancelled},
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
