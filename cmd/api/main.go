// Package main provides the entrypoint for the Vacae API server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/vacae/vacae-backend/internal/api"
	"github.com/vacae/vacae-backend/internal/api/middleware"
	"github.com/vacae/vacae-backend/internal/auth"
	"github.com/vacae/vacae-backend/internal/database"
	"github.com/vacae/vacae-backend/internal/destination"
	"github.com/vacae/vacae-backend/internal/feedback"
	"github.com/vacae/vacae-backend/internal/itinerary"
	"github.com/vacae/vacae-backend/internal/planner"
	"github.com/vacae/vacae-backend/internal/preference"
	"github.com/vacae/vacae-backend/internal/profilesvc"
	"github.com/vacae/vacae-backend/internal/recommendation"
	"github.com/vacae/vacae-backend/internal/telemetry"
	"github.com/vacae/vacae-backend/internal/worker"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "vacae-api"

	// Setup structured logging
	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting Vacae API")

	// Get configuration from environment
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	otlpEndpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if otlpEndpoint == "" {
		otlpEndpoint = "localhost:4317"
	}

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	// Initialize OpenTelemetry
	ctx := context.Background()
	telemetryEnabled := os.Getenv("OTEL_ENABLED") == "true"

	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    env,
		OTLPEndpoint:   otlpEndpoint,
		Enabled:        telemetryEnabled,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	if telemetryEnabled {
		log.Info().
			Str("otlp_endpoint", otlpEndpoint).
			Msg("OpenTelemetry initialized")
	}

	// Initialize metrics
	metrics, err := middleware.NewMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize metrics")
		os.Exit(1) //nolint:gocritic // intentional exit, telemetry cleanup is best-effort
	}

	providerMetrics, err := middleware.NewProviderMetrics("profile-service")
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize provider metrics")
		os.Exit(1)
	}

	// Connect to database
	dbConfig := database.ConfigFromEnv()
	pool, err := database.Connect(ctx, dbConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	log.Info().
		Str("host", dbConfig.Host).
		Int("port", dbConfig.Port).
		Str("database", dbConfig.Database).
		Msg("database connected")

	// Initialize token verifier (signing key from environment)
	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		jwtSigningKey = "local-dev-signing-key-change-in-production"
		log.Warn().Msg("using default JWT signing key - not secure for production")
	}
	verifier := auth.NewVerifier(auth.VerifierConfig{
		SigningKey: jwtSigningKey,
		Issuer:     os.Getenv("JWT_ISSUER"),
		Audience:   os.Getenv("JWT_AUDIENCE"),
	})
	log.Info().Msg("token verifier initialized")

	// Initialize destination catalog
	destinationService := destination.NewService(destination.ServiceConfig{
		Repository: destination.NewPostgresRepository(pool),
		Logger:     log,
	})
	log.Info().Msg("destination service initialized")

	// Initialize profile service client and preference service
	profileClient := profilesvc.NewClient(profilesvc.ClientConfig{
		BaseURL: os.Getenv("PROFILE_SERVICE_URL"),
		APIKey:  os.Getenv("PROFILE_SERVICE_API_KEY"),
		Metrics: providerMetrics,
		Logger:  log,
	})
	preferenceService := preference.NewService(preference.ServiceConfig{
		Learned:  preference.NewPostgresLearnedRepository(pool),
		Profiles: profileClient,
		Logger:   log,
	})
	log.Info().Msg("preference service initialized")

	// Initialize feedback and itinerary services
	feedbackService := feedback.NewService(feedback.ServiceConfig{
		Repository: feedback.NewPostgresRepository(pool),
		Logger:     log,
	})
	itineraryService := itinerary.NewService(itinerary.ServiceConfig{
		Repository: itinerary.NewPostgresRepository(pool),
		Logger:     log,
	})

	// Initialize learn-task publisher (optional, requires Pub/Sub config)
	var learnTasks planner.TaskPublisher
	if projectID := os.Getenv("PUBSUB_PROJECT_ID"); projectID != "" {
		topicName := os.Getenv("PUBSUB_LEARN_TOPIC")
		if topicName == "" {
			topicName = "preference-learn"
		}
		publisher, pubErr := worker.NewPublisher(ctx, worker.PublisherConfig{
			ProjectID: projectID,
			TopicName: topicName,
			Logger:    log,
		})
		if pubErr != nil {
			log.Fatal().Err(pubErr).Msg("failed to create learn-task publisher")
		}
		defer publisher.Close()
		learnTasks = publisher
		log.Info().Str("topic", topicName).Msg("learn-task publisher initialized")
	} else {
		log.Warn().Msg("Pub/Sub not configured - feedback will not trigger learning")
	}

	// Initialize scoring and the planner
	scorer := recommendation.NewScorer(recommendation.ScorerConfig{
		Learned:  preference.LearnedSource{Service: preferenceService},
		Profiles: preference.StatedSource{Service: preferenceService},
		Matcher:  recommendation.NewPreferenceMatcher(),
		Adjuster: recommendation.NewContextualAdjuster(recommendation.DefaultTables()),
		Logger:   log,
	})
	plannerService := planner.NewService(planner.ServiceConfig{
		Destinations: destinationService,
		Itineraries:  itineraryService,
		Feedback:     feedbackService,
		Scorer:       scorer,
		Builder:      recommendation.NewItineraryBuilder(recommendation.BuilderConfig{Logger: log}),
		LearnTasks:   learnTasks,
		Logger:       log,
	})
	log.Info().Msg("planner service initialized")

	// Create router with configuration
	router := api.NewRouter(api.RouterConfig{
		Version:           Version,
		BuildTime:         BuildTime,
		Logger:            log,
		ServiceName:       serviceName,
		Metrics:           metrics,
		Verifier:          verifier,
		PlannerService:    plannerService,
		PreferenceService: preferenceService,
		ItineraryService:  itineraryService,
		FeedbackService:   feedbackService,
		Readiness:         pool,
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("server stopped")
}
