package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/threadlab/threads-backend/internal/broadcast"
	"github.com/threadlab/threads-backend/internal/classify"
	"github.com/threadlab/threads-backend/internal/config"
	"github.com/threadlab/threads-backend/internal/inference"
	"github.com/threadlab/threads-backend/internal/logging"
	"github.com/threadlab/threads-backend/internal/server"
)

func setupConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		// Use log before slog is initialized
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

func runGracefulShutdown(srv *server.Server, registry *broadcast.Registry) <-chan struct{} {
	done := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Shutdown signal received, cleaning up...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}

		registry.Stop()

		close(done)
	}()

	return done
}

func main() {
	clock := clockwork.NewRealClock()

	cfg := setupConfig()

	// Initialize structured logging
	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)
	slog.Info("Application starting", "env", cfg.AppEnv, "port", cfg.Port)

	inferenceClient := inference.NewClient(cfg.InferenceURL, cfg.InferenceTimeout)

	toxicity := classify.NewScorer(inference.NewPipeline(inferenceClient, cfg.ToxicityModel))
	sentiment := classify.NewScorer(inference.NewPipeline(inferenceClient, cfg.SentimentModel))

	registry := broadcast.NewRegistry(clock)
	coordinator := broadcast.NewCoordinator(registry, clock)

	srv := server.NewServer(cfg, toxicity, sentiment, registry, coordinator, inferenceClient)

	done := runGracefulShutdown(srv, registry)

	if err := srv.Start(); err != nil {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}

	<-done
	slog.Info("Shutdown complete")
}
