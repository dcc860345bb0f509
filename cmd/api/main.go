package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/roteiro-viagens/itinerary-service/internal/api"
	"github.com/roteiro-viagens/itinerary-service/internal/api/handlers"
	"github.com/roteiro-viagens/itinerary-service/internal/clients"
	"github.com/roteiro-viagens/itinerary-service/internal/config"
	"github.com/roteiro-viagens/itinerary-service/internal/database"
	"github.com/roteiro-viagens/itinerary-service/internal/events"
	"github.com/roteiro-viagens/itinerary-service/internal/schedule"
)

// backendStore is the full persistence contract: itinerary events plus the
// surrounding mission context. Both backends implement it.
type backendStore interface {
	schedule.EventStore
	schedule.ContextStore
}

func main() {
	// Load configuration
	cfg := config.Load()

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Select the persistence backend: remote service when configured,
	// embedded SQLite otherwise.
	var backend backendStore
	if cfg.BackendURL != "" {
		backend = clients.NewBackendClient(cfg.BackendURL, logger)
		logger.Info("using remote persistence backend", zap.String("url", cfg.BackendURL))
	} else {
		db, err := database.NewSQLiteDB(cfg.DatabasePath)
		if err != nil {
			logger.Fatal("failed to initialize database", zap.Error(err))
		}
		defer func() {
			if err := db.Close(); err != nil {
				logger.Warn("error closing database", zap.Error(err))
			}
		}()
		backend = database.NewEventStore(db)
		logger.Info("using embedded SQLite backend", zap.String("path", cfg.DatabasePath))
	}

	// Mutation notifications are best-effort: run without them when Redis
	// is unavailable.
	var notifier schedule.MutationNotifier
	redisClient, err := events.NewRedisClient(cfg.RedisURL)
	if err != nil {
		logger.Warn("redis unavailable, mutation notifications disabled", zap.Error(err))
	} else {
		defer redisClient.Close()
		notifier = events.NewPublisher(redisClient, cfg.RedisChannel)
	}

	// Wire the itinerary core
	store := schedule.NewStore(backend, logger)
	resolver := schedule.NewResolver(backend, logger)
	orchestrator := schedule.NewOrchestrator(backend, store, resolver, notifier, logger)

	// Initialize handlers
	itineraryHandler := handlers.NewItineraryHandler(store, orchestrator, backend, logger)
	contextHandler := handlers.NewContextHandler(backend, logger)

	// Set up router
	router := api.SetupRouter(itineraryHandler, contextHandler)

	// Add CORS middleware
	handler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // In production, replace with your frontend URL
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(router)

	// Create HTTP server
	server := &http.Server{
		Addr:    cfg.ServerAddress,
		Handler: handler,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("server starting", zap.String("address", cfg.ServerAddress))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	// Create a deadline to wait for
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	// Attempt to gracefully shut down the server
	if err := server.Shutdown(ctx); err != nil {
		logger.Warn("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server exiting")
}

func newLogger(level string) (*zap.Logger, error) {
	if level == "debug" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
