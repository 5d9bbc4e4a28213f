package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/parley-chat/parley/internal/api"
	"github.com/parley-chat/parley/internal/chat"
	"github.com/parley-chat/parley/internal/config"
	"github.com/parley-chat/parley/internal/store"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	var logger zerolog.Logger
	if cfg.IsDevelopment() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
			With().
			Timestamp().
			Logger()
	} else {
		logger = zerolog.New(os.Stdout).
			With().
			Timestamp().
			Logger()
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Open the history store
	history, err := openHistoryStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Str("backend", cfg.HistoryBackend).Msg("history store connection failed")
	}
	defer history.Close()
	logger.Info().Str("backend", cfg.HistoryBackend).Msg("connected to history store")

	// Persistence worker: durable writes run decoupled from broadcasts
	persister := chat.NewPersister(logger, history, cfg.PersistQueue)
	go persister.Run(ctx)

	// Room registry
	registry := chat.NewRegistry(logger, history, persister, cfg.CacheSize)

	// Create router
	router := api.NewRouter(logger, cfg, registry, history)

	// Create server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info().
			Str("port", cfg.Port).
			Str("env", cfg.Env).
			Msg("starting parley server")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	// Wait for interrupt signal
	<-ctx.Done()

	logger.Info().Msg("shutting down server...")

	// Graceful shutdown with 30 second timeout
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelShutdown()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server forced to shutdown")
	}

	logger.Info().Msg("server stopped")
}

// openHistoryStore builds the configured history backend. A failure here is
// the one fatal store error in the process; after startup all store errors
// degrade to best-effort.
func openHistoryStore(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (store.HistoryStore, error) {
	switch cfg.HistoryBackend {
	case "postgres":
		logger.Info().Msg("running database migrations...")
		if err := store.RunMigrations(ctx, cfg.DatabaseURL); err != nil {
			return nil, err
		}
		logger.Info().Msg("migrations completed")
		return store.NewPostgresStore(ctx, cfg.DatabaseURL)
	case "redis":
		return store.NewRedisStore(ctx, cfg.RedisURL)
	default:
		return store.NewSQLiteStore(ctx, cfg.SQLitePath)
	}
}
