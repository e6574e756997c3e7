package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/adskipper/adskipper-go/internal/config"
	"github.com/adskipper/adskipper-go/internal/db"
	"github.com/adskipper/adskipper-go/internal/handler"
	"github.com/adskipper/adskipper-go/internal/middleware"
	"github.com/adskipper/adskipper-go/internal/repository"
	"github.com/adskipper/adskipper-go/internal/router"
	"github.com/adskipper/adskipper-go/internal/service"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	middleware.InitLogger(cfg.LogLevel, "adskipper-api")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()

	if err := db.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	cache := service.NewCacheService(cfg.RedisURL)
	defer cache.Close()

	segmentRepo := repository.NewSegmentRepo(pool)
	voteRepo := repository.NewVoteRepo(pool)
	userRepo := repository.NewUserRepo(pool)

	scorer := service.NewScoreService()
	segmentSvc := service.NewSegmentService(segmentRepo, voteRepo, scorer, cache)
	voteSvc := service.NewVoteService(voteRepo, cache)
	authSvc := service.NewAuthService(userRepo, cfg.JWTSecret)

	handler.InitMetrics(pool)

	h := &router.Handlers{
		Segment: handler.NewSegmentHandler(segmentSvc),
		Vote:    handler.NewVoteHandler(voteSvc),
		Auth:    handler.NewAuthHandler(authSvc),
		Stats:   handler.NewStatsHandler(userRepo),
		Health:  handler.NewHealthHandler(pool, cache.Client()),
	}

	app := fiber.New(fiber.Config{
		AppName:      "AdSkipper API",
		ServerHeader: "AdSkipper",
	})
	router.Setup(app, h, authSvc, cfg.CORSOrigins, cfg.IPHashSalt)

	// Background workers
	cacheWorker := service.NewCacheWorker(pool, cache)
	go cacheWorker.Start(ctx)

	tierWorker := service.NewTierWorker(pool, 10*time.Minute)
	go tierWorker.Start(ctx)
	defer tierWorker.Stop()

	janitor := service.NewJanitor(voteRepo, time.Hour)
	go janitor.Start(ctx)

	go func() {
		<-ctx.Done()
		log.Info().Msg("shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Error().Err(err).Msg("shutdown error")
		}
	}()

	log.Info().
		Str("port", cfg.Port).
		Str("env", cfg.Environment).
		Msg("adskipper backend starting")
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
