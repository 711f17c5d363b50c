// Command server is the entry point for the feedboard API.
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/feedboard/social-api/internal/api"
	"github.com/feedboard/social-api/internal/core/ports"
	"github.com/feedboard/social-api/internal/core/service"
	"github.com/feedboard/social-api/internal/infrastructure/config"
	mongodb "github.com/feedboard/social-api/internal/infrastructure/db/mongo"
	redisdb "github.com/feedboard/social-api/internal/infrastructure/db/redis"
	"github.com/feedboard/social-api/internal/infrastructure/queue"
	"github.com/feedboard/social-api/internal/infrastructure/storage"
	"github.com/feedboard/social-api/pkg/logger"
)

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET is not set")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Document store ---
	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("mongo disconnect failed")
		}
	}()

	userRepo := mongodb.NewUserRepository(db)
	postRepo := mongodb.NewPostRepository(db)

	if err := userRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("user index creation failed")
	}
	if err := postRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("post index creation failed")
	}

	// --- Redis (optional: the login throttle fails open without it) ---
	var limiter ports.LoginLimiter
	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, login throttling disabled")
		rdb = nil
	} else {
		defer rdb.Close()
		limiter = redisdb.NewLoginLimiter(rdb, 0, 0)
	}

	// --- Image storage + cleanup workers ---
	images, err := storage.NewDiskStore(cfg.ImagesDir)
	if err != nil {
		log.Fatal().Err(err).Msg("image store init failed")
	}

	cleaner := queue.NewCleaner(0, images, log)
	cleaner.Start(ctx)

	// --- Services ---
	tokens := service.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	accounts := service.NewAccountService(userRepo, tokens, limiter, log)
	feed := service.NewFeedService(postRepo, userRepo, cleaner, log)

	e := api.NewRouter(api.Deps{
		Accounts:  accounts,
		Feed:      feed,
		Tokens:    tokens,
		Images:    images,
		Cleaner:   cleaner,
		ImagesDir: images.Root(),
		Mongo:     db,
		Redis:     rdb,
		Logger:    log,
	})

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server listening")

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown failed")
	}
}
