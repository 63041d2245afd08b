// README: Entry point; loads config, wires services and serves the HTTP API until interrupted.
package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"hopper/internal/config"
	httptransport "hopper/internal/http"
	"hopper/internal/infra"
	"hopper/internal/logging"
	"hopper/internal/modules/badge"
	"hopper/internal/modules/chat"
	"hopper/internal/modules/feed"
	"hopper/internal/modules/matching"
	"hopper/internal/modules/membership"
	"hopper/internal/modules/profile"
	"hopper/internal/modules/referral"
	"hopper/internal/modules/ride"
	"hopper/internal/modules/trust"
	"hopper/internal/notify"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Error("load .env", "err", err)
		os.Exit(1)
	}
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "err", err)
		os.Exit(1)
	}
	logger := logging.NewLogger(cfg.Log.Level)
	slog.SetDefault(logger)
	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("hopper-api stopped", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	if cfg.Firebase.ProjectID == "" {
		return errors.New("HOPPER_FIREBASE_PROJECT_ID is required")
	}
	app, err := infra.NewFirebaseApp(ctx, cfg.Firebase.ProjectID, cfg.Firebase.CredentialsFile)
	if err != nil {
		return err
	}
	verifier, err := infra.NewFirebaseVerifier(ctx, app)
	if err != nil {
		return err
	}
	var notifier notify.Notifier = notify.Nop{}
	if cfg.Firebase.PushEnabled {
		fcm, err := notify.NewFCM(ctx, app)
		if err != nil {
			return err
		}
		notifier = fcm
	}

	dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
	if err != nil {
		return err
	}
	defer dbPool.Close()

	redisClient, err := infra.NewRedis(ctx, cfg.Redis.Addr, cfg.Redis.Password)
	if err != nil {
		return err
	}
	defer redisClient.Close()
	events := feed.NewRedisFeed(redisClient)

	profileStore := profile.NewStore(dbPool)
	profileSvc := profile.NewService(profileStore)
	trustSvc := trust.NewService(profileStore, cfg.Trust)

	memberStore := membership.NewStore(dbPool)
	rideSvc := ride.NewService(ride.NewStore(dbPool), memberStore, trustSvc, events, cfg.Ride)
	memberSvc := membership.NewService(memberStore, rideSvc, notifier)
	matchingSvc := matching.NewService(rideSvc)

	chatSvc := chat.NewService(chat.NewStore(dbPool), memberSvc, events)
	referralSvc := referral.NewService(referral.NewStore(dbPool), memberSvc)
	badgeSvc := badge.NewService(profileSvc, memberSvc, referralSvc)

	go rideSvc.RunStaleSweeper(ctx, cfg.Ride.StaleSweepInterval)

	router := httptransport.NewRouter(httptransport.Deps{
		Rides:      rideSvc,
		Matching:   matchingSvc,
		Members:    memberSvc,
		Chat:       chatSvc,
		Profiles:   profileSvc,
		Badges:     badgeSvc,
		Referrals:  referralSvc,
		Subscriber: events,
		Verifier:   verifier,
		Logger:     logger,
	})
	return httptransport.NewServer(cfg.HTTP.Addr, router, logger).Run(ctx)
}
