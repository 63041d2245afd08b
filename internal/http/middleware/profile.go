// README: Creates a profile row for first-time callers.
package middleware

import (
	"context"
	"log/slog"

	"github.com/gin-gonic/gin"

	"hopper/internal/types"
)

type ProfileProvisioner interface {
	Ensure(ctx context.Context, id types.ID) error
}

// Provision must run after Auth. A failure is logged and the request continues.
func Provision(profiles ProfileProvisioner, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := CallerUID(c)
		if uid != "" {
			if err := profiles.Ensure(c.Request.Context(), types.ID(uid)); err != nil {
				logger.Warn("profile provisioning failed", "uid", uid, "err", err)
			}
		}
		c.Next()
	}
}
