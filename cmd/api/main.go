package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/isukupay/waste-platform/docs"
	"github.com/isukupay/waste-platform/internal/api"
	"github.com/isukupay/waste-platform/internal/core/service"
	"github.com/isukupay/waste-platform/internal/infrastructure/config"
	mongodb "github.com/isukupay/waste-platform/internal/infrastructure/db/mongo"
	redisdb "github.com/isukupay/waste-platform/internal/infrastructure/db/redis"
	"github.com/isukupay/waste-platform/internal/infrastructure/queue"
	"github.com/isukupay/waste-platform/pkg/logger"
)

// @title Waste Platform Auth API
// @version 1.0
// @description Account, session token and access-control API for the waste collection platform.
// @BasePath /api/v1
func main() {
	cfg := config.LoadAPI()
	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	docs.SwaggerInfo.Host = "localhost:" + cfg.Port

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("mongodb disconnect failed")
		}
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	userRepo := mongodb.NewUserRepository(db)
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("user index creation failed")
	}

	auditRepo := mongodb.NewAuditRepository(db)
	if err := auditRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("audit index creation failed")
	}
	auditService := service.NewAuditService(auditRepo, log)
	dispatcher := queue.NewDispatcher(0, auditService, log)
	dispatcher.Start(ctx)

	e := api.NewRouter(db, rdb, cfg, dispatcher, log)

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("auth api listening")
		if err := e.Start(":" + cfg.Port); err != nil {
			log.Info().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
