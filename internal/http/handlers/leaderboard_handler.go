// README: Leaderboard handlers (reliability, most rides, top referrers).
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hopper/internal/modules/membership"
	"hopper/internal/modules/profile"
	"hopper/internal/modules/referral"
	"hopper/internal/types"
)

type LeaderboardHandler struct {
	profiles  *profile.Service
	members   *membership.Service
	referrals *referral.Service
}

func NewLeaderboardHandler(profiles *profile.Service, members *membership.Service, referrals *referral.Service) *LeaderboardHandler {
	return &LeaderboardHandler{profiles: profiles, members: members, referrals: referrals}
}

type reliabilityEntry struct {
	Rank       int      `json:"rank"`
	UserID     types.ID `json:"user_id"`
	Name       string   `json:"name"`
	TrustScore float64  `json:"trust_score"`
}

type riderEntry struct {
	Rank   int      `json:"rank"`
	UserID types.ID `json:"user_id"`
	Name   string   `json:"name"`
	Rides  int      `json:"rides"`
}

type referrerEntry struct {
	Rank      int         `json:"rank"`
	UserID    types.ID    `json:"user_id"`
	Referrals int         `json:"referrals"`
	Earned    types.Money `json:"earned"`
}

func (h *LeaderboardHandler) Reliability(c *gin.Context) {
	limit, ok := queryLimit(c)
	if !ok {
		return
	}
	ps, err := h.profiles.TopByTrust(c.Request.Context(), limit)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	out := make([]reliabilityEntry, len(ps))
	for i, p := range ps {
		out[i] = reliabilityEntry{Rank: i + 1, UserID: p.ID, Name: p.Name, TrustScore: p.TrustScore}
	}
	writeJSON(c, http.StatusOK, gin.H{"leaders": out})
}

func (h *LeaderboardHandler) Riders(c *gin.Context) {
	limit, ok := queryLimit(c)
	if !ok {
		return
	}
	rs, err := h.members.TopRiders(c.Request.Context(), limit)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	out := make([]riderEntry, len(rs))
	for i, r := range rs {
		out[i] = riderEntry{Rank: i + 1, UserID: r.UserID, Name: r.Name, Rides: r.Rides}
	}
	writeJSON(c, http.StatusOK, gin.H{"leaders": out})
}

func (h *LeaderboardHandler) Referrers(c *gin.Context) {
	limit, ok := queryLimit(c)
	if !ok {
		return
	}
	ls, err := h.referrals.TopReferrers(c.Request.Context(), limit)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	out := make([]referrerEntry, len(ls))
	for i, l := range ls {
		out[i] = referrerEntry{
			Rank:      i + 1,
			UserID:    l.ReferrerID,
			Referrals: l.Count,
			Earned:    types.Money{Amount: int64(l.Count) * referral.Credit.Amount, Currency: referral.Credit.Currency},
		}
	}
	writeJSON(c, http.StatusOK, gin.H{"leaders": out})
}
