// README: HTTP router registration.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"hopper/internal/http/handlers"
	"hopper/internal/http/middleware"
	"hopper/internal/infra"
	"hopper/internal/modules/badge"
	"hopper/internal/modules/chat"
	"hopper/internal/modules/feed"
	"hopper/internal/modules/matching"
	"hopper/internal/modules/membership"
	"hopper/internal/modules/profile"
	"hopper/internal/modules/referral"
	"hopper/internal/modules/ride"
)

type Deps struct {
	Rides      *ride.Service
	Matching   *matching.Service
	Members    *membership.Service
	Chat       *chat.Service
	Profiles   *profile.Service
	Badges     *badge.Service
	Referrals  *referral.Service
	Subscriber feed.Subscriber
	Verifier   infra.TokenVerifier
	Logger     *slog.Logger
}

func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Recovery(d.Logger), middleware.Logging(d.Logger))

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api", middleware.Auth(d.Verifier))
	if d.Profiles != nil {
		api.Use(middleware.Provision(d.Profiles, d.Logger))
	}

	rideHandler := handlers.NewRideHandler(d.Rides, d.Matching)
	api.POST("/rides/matches", rideHandler.Match)
	api.POST("/rides", rideHandler.Create)
	api.GET("/rides", rideHandler.List)
	api.GET("/rides/:id", rideHandler.Get)
	api.POST("/rides/:id/lock", rideHandler.Lock)
	api.POST("/rides/:id/complete", rideHandler.Complete)
	api.POST("/rides/:id/cancel", rideHandler.Cancel)
	api.GET("/rides/:id/fare", rideHandler.Fare)
	api.POST("/rides/:id/members/:user_id/no-show", rideHandler.NoShow)

	memberHandler := handlers.NewMembershipHandler(d.Members)
	api.POST("/rides/:id/requests", memberHandler.Request)
	api.GET("/rides/:id/requests", memberHandler.ListByRide)
	api.POST("/requests/:id/accept", memberHandler.Accept)
	api.POST("/requests/:id/reject", memberHandler.Reject)
	api.POST("/requests/:id/cancel", memberHandler.Cancel)
	api.POST("/requests/:id/paid", memberHandler.MarkPaid)

	chatHandler := handlers.NewChatHandler(d.Chat, d.Subscriber)
	api.GET("/rides/:id/messages", chatHandler.List)
	api.POST("/rides/:id/messages", chatHandler.Send)
	api.GET("/rides/:id/messages/ws", chatHandler.Stream)

	feedHandler := handlers.NewFeedHandler(d.Subscriber)
	api.GET("/feed/ws", feedHandler.Rides)

	profileHandler := handlers.NewProfileHandler(d.Profiles, d.Badges)
	api.GET("/profiles/:id", profileHandler.Get)
	api.PUT("/profiles/me", profileHandler.UpdateMe)
	api.GET("/profiles/:id/badges", profileHandler.Badges)
	api.POST("/profiles/:id/phone-verified", profileHandler.PhoneVerified)

	referralHandler := handlers.NewReferralHandler(d.Referrals)
	api.GET("/referrals/me", referralHandler.Me)
	api.POST("/referrals/signup", referralHandler.Signup)
	api.POST("/referrals/:id/complete", referralHandler.Complete)
	api.GET("/referrals/top", referralHandler.Top)

	leaderboardHandler := handlers.NewLeaderboardHandler(d.Profiles, d.Members, d.Referrals)
	api.GET("/leaderboards/reliability", leaderboardHandler.Reliability)
	api.GET("/leaderboards/riders", leaderboardHandler.Riders)
	api.GET("/leaderboards/referrers", leaderboardHandler.Referrers)

	return r
}
