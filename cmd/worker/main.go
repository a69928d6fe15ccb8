// Package main provides the entrypoint for the Vacae background worker.
// It consumes preference-learning tasks from Pub/Sub and exposes a health
// endpoint for the runtime platform.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/vacae/vacae-backend/internal/database"
	"github.com/vacae/vacae-backend/internal/destination"
	"github.com/vacae/vacae-backend/internal/feedback"
	"github.com/vacae/vacae-backend/internal/preference"
	"github.com/vacae/vacae-backend/internal/profilesvc"
	"github.com/vacae/vacae-backend/internal/worker"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "vacae-worker"

	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting Vacae worker")

	// Worker also exposes a health endpoint for Cloud Run
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	projectID := os.Getenv("PUBSUB_PROJECT_ID")
	if projectID == "" {
		log.Fatal().Msg("PUBSUB_PROJECT_ID is required")
	}
	subscriptionName := os.Getenv("PUBSUB_LEARN_SUBSCRIPTION")
	if subscriptionName == "" {
		subscriptionName = "preference-learn-worker"
	}

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Connect to database
	dbConfig := database.ConfigFromEnv()
	pool, err := database.Connect(ctx, dbConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	log.Info().
		Str("host", dbConfig.Host).
		Str("database", dbConfig.Database).
		Msg("database connected")

	// Initialize services backing the learning job
	destinationService := destination.NewService(destination.ServiceConfig{
		Repository: destination.NewPostgresRepository(pool),
		Logger:     log,
	})
	feedbackService := feedback.NewService(feedback.ServiceConfig{
		Repository: feedback.NewPostgresRepository(pool),
		Logger:     log,
	})
	profileClient := profilesvc.NewClient(profilesvc.ClientConfig{
		BaseURL: os.Getenv("PROFILE_SERVICE_URL"),
		APIKey:  os.Getenv("PROFILE_SERVICE_API_KEY"),
		Logger:  log,
	})
	preferenceService := preference.NewService(preference.ServiceConfig{
		Learned:  preference.NewPostgresLearnedRepository(pool),
		Profiles: profileClient,
		Logger:   log,
	})

	learnJob := worker.NewLearnJob(worker.LearnJobConfig{
		Config:             worker.DefaultLearnConfig(),
		Logger:             log,
		FeedbackService:    feedbackService,
		DestinationService: destinationService,
		PreferenceService:  preferenceService,
	})

	pubsubHandler, err := worker.NewPubSubHandler(ctx, worker.PubSubConfig{
		ProjectID:        projectID,
		SubscriptionName: subscriptionName,
		LearnJob:         learnJob,
		Logger:           log,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create pubsub handler")
	}
	defer pubsubHandler.Close()

	// Create HTTP server for health checks
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status":"healthy","version":"%s"}`, Version)
	})

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	// Start health check server
	go func() {
		log.Info().Str("addr", server.Addr).Msg("health check server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("health server error")
		}
	}()

	// Start consuming messages
	go func() {
		if err := pubsubHandler.Start(ctx); err != nil && ctx.Err() == nil {
			log.Fatal().Err(err).Msg("pubsub receive failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down worker")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("health server forced to shutdown")
	}

	log.Info().Msg("worker stopped")
}
