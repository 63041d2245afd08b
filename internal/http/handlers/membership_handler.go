// README: Join request handlers (request, host decision, withdrawal, payment).
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"hopper/internal/modules/membership"
	"hopper/internal/types"
)

type MembershipHandler struct {
	members *membership.Service
}

func NewMembershipHandler(members *membership.Service) *MembershipHandler {
	return &MembershipHandler{members: members}
}

func (h *MembershipHandler) Request(c *gin.Context) {
	uid, ok := caller(c)
	if !ok {
		return
	}
	rideID, ok := pathID(c, "id")
	if !ok {
		return
	}
	m, err := h.members.Request(c.Request.Context(), membership.RequestCommand{RideID: rideID, UserID: uid})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, membership.NewView(m))
}

func (h *MembershipHandler) ListByRide(c *gin.Context) {
	uid, ok := caller(c)
	if !ok {
		return
	}
	rideID, ok := pathID(c, "id")
	if !ok {
		return
	}
	ms, err := h.members.ListByRide(c.Request.Context(), rideID, uid)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"requests": membership.NewViews(ms)})
}

func (h *MembershipHandler) Accept(c *gin.Context) {
	h.decide(c, func(ctx context.Context, id, uid types.ID) (*membership.Membership, error) {
		return h.members.Accept(ctx, membership.DecideCommand{MembershipID: id, HostID: uid})
	})
}

func (h *MembershipHandler) Reject(c *gin.Context) {
	h.decide(c, func(ctx context.Context, id, uid types.ID) (*membership.Membership, error) {
		return h.members.Reject(ctx, membership.DecideCommand{MembershipID: id, HostID: uid})
	})
}

func (h *MembershipHandler) Cancel(c *gin.Context) {
	h.decide(c, func(ctx context.Context, id, uid types.ID) (*membership.Membership, error) {
		return h.members.Cancel(ctx, membership.CancelCommand{MembershipID: id, UserID: uid})
	})
}

func (h *MembershipHandler) MarkPaid(c *gin.Context) {
	h.decide(c, func(ctx context.Context, id, uid types.ID) (*membership.Membership, error) {
		return h.members.MarkPaid(ctx, membership.MarkPaidCommand{MembershipID: id, HostID: uid})
	})
}

func (h *MembershipHandler) decide(c *gin.Context, do func(ctx context.Context, id, uid types.ID) (*membership.Membership, error)) {
	uid, ok := caller(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	m, err := do(c.Request.Context(), id, uid)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, membership.NewView(m))
}
