package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pozi78/Casino-Management-System-sub000/internal/config"
	"github.com/pozi78/Casino-Management-System-sub000/internal/infra"
	"github.com/pozi78/Casino-Management-System-sub000/internal/repository"
	"github.com/pozi78/Casino-Management-System-sub000/internal/router"
	"github.com/pozi78/Casino-Management-System-sub000/internal/service"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// demoPassword is the password of the users seeded in memory mode.
const demoPassword = "demo1234"

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var rdb *redis.Client
	if cfg.RedisURL != "" {
		rdb, err = infra.NewRedis(cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer rdb.Close()
	} else {
		log.Warn().Msg("REDIS_URL not set, download tickets kept in memory")
	}

	var deps router.Deps
	if cfg.DatabaseURL != "" {
		db, err := infra.NewDatabase(cfg.DatabaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to postgres")
		}
		deps = router.PostgresDeps(cfg, db, rdb)
	} else {
		mem := repository.NewMemoria()
		demo, err := service.SembrarDemo(ctx, service.NewAuthService(mem.Usuarios(), cfg), mem.Catalogo(), demoPassword)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to seed demo data")
		}
		log.Warn().
			Int64("salon_id", demo.SalonID).
			Str("password", demoPassword).
			Msg("DATABASE_URL not set, running on in-memory demo data (users admin, operador)")
		deps = router.MemoryDeps(cfg, mem, rdb)
	}

	deps.LoginLimiter = router.DefaultLoginLimiter()
	go deps.LoginLimiter.Run(ctx, 5*time.Minute)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router.New(deps),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("recaudaciones API listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}
