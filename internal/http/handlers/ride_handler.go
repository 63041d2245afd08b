// README: Ride handlers for matching, creation, listing and the host lifecycle.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hopper/internal/modules/matching"
	"hopper/internal/modules/ride"
	"hopper/internal/types"
)

type RideHandler struct {
	rides    *ride.Service
	matching *matching.Service
}

func NewRideHandler(rides *ride.Service, matching *matching.Service) *RideHandler {
	return &RideHandler{rides: rides, matching: matching}
}

type proposalReq struct {
	Pickup             string `json:"pickup_location"`
	Drop               string `json:"drop_location"`
	Date               string `json:"date"`
	DepartureTime      string `json:"departure_time"`
	FlexibilityMinutes *int   `json:"flexibility_minutes"`
}

func (r proposalReq) input() ride.DraftInput {
	return ride.DraftInput{
		Pickup:             r.Pickup,
		Drop:               r.Drop,
		Date:               r.Date,
		DepartureTime:      r.DepartureTime,
		FlexibilityMinutes: r.FlexibilityMinutes,
	}
}

type createRideReq struct {
	proposalReq
	SeatsTotal    int    `json:"seats_total"`
	EstimatedFare *int64 `json:"estimated_fare"`
	// Confirm skips the match check and creates the ride regardless.
	Confirm bool `json:"confirm"`
}

// Match returns existing rides the caller could join instead of creating one.
func (h *RideHandler) Match(c *gin.Context) {
	uid, ok := caller(c)
	if !ok {
		return
	}
	var req proposalReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	matches, err := h.findMatches(c, uid, req.input())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"matches": ride.NewViews(matches)})
}

// Create checks for matching rides first. When some exist and the caller has not
// confirmed, they are returned and nothing is created.
func (h *RideHandler) Create(c *gin.Context) {
	uid, ok := caller(c)
	if !ok {
		return
	}
	var req createRideReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if !req.Confirm {
		matches, err := h.findMatches(c, uid, req.input())
		if err != nil {
			writeServiceError(c, err)
			return
		}
		if len(matches) > 0 {
			writeJSON(c, http.StatusOK, gin.H{"created": false, "matches": ride.NewViews(matches)})
			return
		}
	}

	cmd := ride.CreateCommand{
		HostID:     uid,
		DraftInput: req.input(),
		SeatsTotal: req.SeatsTotal,
	}
	if req.EstimatedFare != nil {
		cmd.EstimatedFare = &types.Money{Amount: *req.EstimatedFare, Currency: types.DefaultCurrency}
	}
	r, err := h.rides.Create(c.Request.Context(), cmd)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, gin.H{"created": true, "ride": ride.NewView(r)})
}

func (h *RideHandler) findMatches(c *gin.Context, uid types.ID, in ride.DraftInput) ([]ride.Ride, error) {
	draft, err := h.rides.ParseDraft(in)
	if err != nil {
		return nil, err
	}
	return h.matching.FindMatches(c.Request.Context(), matching.Proposal{ProposerID: uid, Draft: draft})
}

// List returns active rides, optionally filtered by ?date=, ?pickup= and ?drop=.
func (h *RideHandler) List(c *gin.Context) {
	limit, ok := queryLimit(c)
	if !ok {
		return
	}
	f := ride.ListFilter{
		Pickup: c.Query("pickup"),
		Drop:   c.Query("drop"),
		Limit:  limit,
	}
	if d := c.Query("date"); d != "" {
		day, err := types.ParseDate(d)
		if err != nil {
			writeError(c, http.StatusBadRequest, err.Error())
			return
		}
		f.Date = day
	}
	rides, err := h.rides.ListActive(c.Request.Context(), f)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"rides": ride.NewViews(rides)})
}

func (h *RideHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	r, err := h.rides.Get(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, ride.NewView(r))
}

func (h *RideHandler) Lock(c *gin.Context) {
	h.hostAction(c, ride.StatusLocked, func(id, uid types.ID) error {
		return h.rides.Lock(c.Request.Context(), ride.LockCommand{RideID: id, HostID: uid})
	})
}

func (h *RideHandler) Complete(c *gin.Context) {
	h.hostAction(c, ride.StatusCompleted, func(id, uid types.ID) error {
		return h.rides.Complete(c.Request.Context(), ride.CompleteCommand{RideID: id, HostID: uid})
	})
}

func (h *RideHandler) Cancel(c *gin.Context) {
	h.hostAction(c, ride.StatusCancelled, func(id, uid types.ID) error {
		return h.rides.Cancel(c.Request.Context(), ride.CancelCommand{RideID: id, HostID: uid})
	})
}

func (h *RideHandler) hostAction(c *gin.Context, next ride.Status, do func(id, uid types.ID) error) {
	uid, ok := caller(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := do(id, uid); err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"ride_id": id, "status": next})
}

func (h *RideHandler) Fare(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	split, err := h.rides.FareSplit(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, split)
}

func (h *RideHandler) NoShow(c *gin.Context) {
	uid, ok := caller(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	member, ok := pathID(c, "user_id")
	if !ok {
		return
	}
	err := h.rides.ReportNoShow(c.Request.Context(), ride.NoShowCommand{RideID: id, HostID: uid, UserID: member})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"ride_id": id, "user_id": member, "no_show": true})
}
