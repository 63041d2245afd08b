// README: Referral handlers (own stats, signup tracking, completion, leaderboard).
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hopper/internal/modules/referral"
)

type ReferralHandler struct {
	referrals *referral.Service
}

func NewReferralHandler(referrals *referral.Service) *ReferralHandler {
	return &ReferralHandler{referrals: referrals}
}

type referralSignupReq struct {
	Code string `json:"code"`
}

func (h *ReferralHandler) Me(c *gin.Context) {
	uid, ok := caller(c)
	if !ok {
		return
	}
	stats, err := h.referrals.Stats(c.Request.Context(), uid)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, stats)
}

func (h *ReferralHandler) Signup(c *gin.Context) {
	uid, ok := caller(c)
	if !ok {
		return
	}
	var req referralSignupReq
	if err := c.ShouldBindJSON(&req); err != nil || req.Code == "" {
		writeError(c, http.StatusBadRequest, "missing referral code")
		return
	}
	r, err := h.referrals.TrackSignup(c.Request.Context(), uid, req.Code)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, r)
}

func (h *ReferralHandler) Complete(c *gin.Context) {
	uid, ok := caller(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	r, err := h.referrals.Complete(c.Request.Context(), id, uid)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, r)
}

func (h *ReferralHandler) Top(c *gin.Context) {
	limit, ok := queryLimit(c)
	if !ok {
		return
	}
	leaders, err := h.referrals.TopReferrers(c.Request.Context(), limit)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"referrers": leaders})
}
