// README: Base handler utilities (JSON helpers, caller lookup, error mapping).
package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"hopper/internal/http/middleware"
	"hopper/internal/modules/chat"
	"hopper/internal/modules/fare"
	"hopper/internal/modules/matching"
	"hopper/internal/modules/membership"
	"hopper/internal/modules/profile"
	"hopper/internal/modules/referral"
	"hopper/internal/modules/ride"
	"hopper/internal/modules/trust"
	"hopper/internal/types"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

// caller returns the authenticated uid. Every API route sits behind Auth, so an
// empty uid means the router was wired wrong.
func caller(c *gin.Context) (types.ID, bool) {
	uid := middleware.CallerUID(c)
	if uid == "" {
		writeError(c, http.StatusUnauthorized, "unauthenticated")
		return "", false
	}
	return types.ID(uid), true
}

// pathID reads and validates a path parameter.
func pathID(c *gin.Context, name string) (types.ID, bool) {
	v := c.Param(name)
	if !types.ValidID(v) {
		writeError(c, http.StatusBadRequest, "invalid "+name)
		return "", false
	}
	return types.ID(v), true
}

func queryLimit(c *gin.Context) (int, bool) {
	v := c.Query("limit")
	if v == "" {
		return 0, true
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		writeError(c, http.StatusBadRequest, "invalid limit")
		return 0, false
	}
	return n, true
}

var (
	badRequestErrs = []error{
		ride.ErrBadRequest, membership.ErrBadRequest, matching.ErrBadRequest,
		chat.ErrBadRequest, profile.ErrBadRequest, referral.ErrBadRequest,
		fare.ErrBadRequest, membership.ErrOwnRide, referral.ErrSelfReferral,
	}
	forbiddenErrs = []error{
		ride.ErrNotAuthorized, membership.ErrNotAuthorized, chat.ErrNotAuthorized,
		referral.ErrNotAuthorized,
	}
	notFoundErrs = []error{
		ride.ErrNotFound, membership.ErrNotFound, profile.ErrNotFound, referral.ErrNotFound,
	}
	conflictErrs = []error{
		ride.ErrInvalidState, ride.ErrConflict, ride.ErrNotMember, ride.ErrNoShowTwice,
		membership.ErrInvalidState, membership.ErrConflict, membership.ErrDuplicateRequest,
		membership.ErrOverbooked, membership.ErrRideClosed,
		referral.ErrAlreadyReferred, referral.ErrNotEligible, trust.ErrConflict,
	}
)

func isAny(err error, targets []error) bool {
	for _, t := range targets {
		if errors.Is(err, t) {
			return true
		}
	}
	return false
}

// writeServiceError maps module sentinel errors to HTTP statuses.
func writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ride.ErrPartialAward):
		slog.Error("trust award incomplete", "path", c.Request.URL.Path, "err", err)
		writeError(c, http.StatusInternalServerError, ride.ErrPartialAward.Error())
	case isAny(err, badRequestErrs):
		writeError(c, http.StatusBadRequest, err.Error())
	case isAny(err, forbiddenErrs):
		writeError(c, http.StatusForbidden, err.Error())
	case isAny(err, notFoundErrs):
		writeError(c, http.StatusNotFound, err.Error())
	case isAny(err, conflictErrs):
		writeError(c, http.StatusConflict, err.Error())
	default:
		slog.Error("request failed", "path", c.Request.URL.Path, "err", err)
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}
