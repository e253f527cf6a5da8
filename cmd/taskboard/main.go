package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/monocle-dev/taskboard/db"
	"github.com/monocle-dev/taskboard/internal/auth"
	"github.com/monocle-dev/taskboard/internal/config"
	"github.com/monocle-dev/taskboard/internal/handlers"
	"github.com/monocle-dev/taskboard/internal/notify"
	"github.com/monocle-dev/taskboard/internal/realtime"
	"github.com/monocle-dev/taskboard/internal/router"
	"github.com/monocle-dev/taskboard/internal/scheduler"
	"github.com/monocle-dev/taskboard/internal/services"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()

	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err = auth.Init(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL); err != nil {
		log.Fatalf("Failed to initialize auth: %v", err)
	}

	if err = db.ConnectDatabase(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err = db.MigrateDatabase(); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	if err = db.SeedAdmin(db.DB, cfg.BootstrapAdmin); err != nil {
		log.Fatalf("Failed to seed admin user: %v", err)
	}

	publishers := notify.Publishers{realtime.Default}

	if cfg.NotificationWebhookURL != "" {
		hook, err := services.NewWebhook(cfg.NotificationWebhookKind, cfg.NotificationWebhookURL)

		if err != nil {
			log.Fatalf("Failed to configure notification webhook: %v", err)
		}

		publishers = append(publishers, hook)
		log.Printf("Mirroring notifications to %s webhook", cfg.NotificationWebhookKind)
	}

	handlers.Notifier = notify.NewDispatcher(publishers)

	s := scheduler.NewScheduler(db.DB, cfg.TokenPruneInterval)
	s.Start()

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router.NewRouter(cfg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Server listening on :%s", cfg.Port)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	s.Stop()

	if sqlDB, err := db.DB.DB(); err == nil {
		sqlDB.Close()
	}

	log.Println("Server exited")
}
