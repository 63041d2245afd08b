// README: Profile handlers (read, self update, badges, phone verification callback).
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hopper/internal/http/middleware"
	"hopper/internal/modules/badge"
	"hopper/internal/modules/profile"
)

type ProfileHandler struct {
	profiles *profile.Service
	badges   *badge.Service
}

func NewProfileHandler(profiles *profile.Service, badges *badge.Service) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, badges: badges}
}

type updateProfileReq struct {
	Name string `json:"name"`
}

func (h *ProfileHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	p, err := h.profiles.Get(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, profile.NewView(p))
}

func (h *ProfileHandler) UpdateMe(c *gin.Context) {
	uid, ok := caller(c)
	if !ok {
		return
	}
	var req updateProfileReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	p, err := h.profiles.UpdateName(c.Request.Context(), uid, req.Name)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, profile.NewView(p))
}

func (h *ProfileHandler) Badges(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	bs, err := h.badges.ForUser(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"badges": bs})
}

// PhoneVerified is called by the verification backend, which signs in with an admin role claim.
func (h *ProfileHandler) PhoneVerified(c *gin.Context) {
	if !middleware.IsAdmin(c) {
		writeError(c, http.StatusForbidden, "admin only")
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.profiles.MarkPhoneVerified(c.Request.Context(), id); err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"id": id, "phone_verified": true})
}
