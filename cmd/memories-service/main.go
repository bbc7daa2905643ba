package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/KIDDASS/memories-instagram-app/internal/api"
	"github.com/KIDDASS/memories-instagram-app/internal/config"
	"github.com/KIDDASS/memories-instagram-app/internal/core/user"
	"github.com/KIDDASS/memories-instagram-app/internal/health"
	"github.com/KIDDASS/memories-instagram-app/internal/platform/factory"
	"github.com/KIDDASS/memories-instagram-app/internal/platform/logger"
	"github.com/KIDDASS/memories-instagram-app/internal/store"
)

func main() {
	// Optional driver flag override (postgres | sqlite)
	dbDriver := flag.String("db-driver", "", "Override MEMORIES_DB_DRIVER (postgres, sqlite)")
	flag.Parse()

	log := logger.New("memories-service")

	cfg, err := config.New()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if *dbDriver != "" {
		cfg.DBDriver = *dbDriver
		if err := cfg.ResolveDefaults(); err != nil {
			log.Fatal().Err(err).Msg("Invalid db-driver override")
		}
	}

	log.Info().
		Str("db_driver", cfg.DBDriver).
		Int("http_port", cfg.HTTPPort).
		Msg("Memories service starting…")

	// -------- Storage layer -----------------
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st, err := factory.NewStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Store unavailable")
	}

	// Seed the default admin so a fresh deployment is usable.
	userService := user.NewService(st, log)
	if err := userService.EnsureDefaultAdmin(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to seed default admin")
	}

	// -------- Health monitor ---------------
	if pinger, ok := st.(health.HealthPinger); ok {
		checker := store.NewHealthChecker(cfg.DBDriver, pinger, log)
		go checker.Start(ctx, 30*time.Second)
		serviceHealth := health.NewServiceHealthChecker(log, checker)
		go serviceHealth.Start(ctx, 30*time.Second)
	}

	// -------- Router & Server --------------
	router := api.NewRouter(st, log)
	server := &http.Server{
		Addr:         cfg.GetHTTPAddr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Int("port", cfg.HTTPPort).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server…")
	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}
