package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/isukupay/waste-platform/internal/infrastructure/config"
	redisdb "github.com/isukupay/waste-platform/internal/infrastructure/db/redis"
	"github.com/isukupay/waste-platform/internal/portal"
	"github.com/isukupay/waste-platform/pkg/logger"
)

func main() {
	cfg := config.LoadPortal()
	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	e := portal.NewRouter(rdb, cfg, log)

	go func() {
		log.Info().Str("port", cfg.Port).Str("api", cfg.APIBaseURL).Msg("portal listening")
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
