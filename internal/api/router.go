// Package api provides the HTTP API for Vacae.
package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/vacae/vacae-backend/internal/api/handler"
	"github.com/vacae/vacae-backend/internal/api/middleware"
	"github.com/vacae/vacae-backend/internal/auth"
	"github.com/vacae/vacae-backend/internal/feedback"
	"github.com/vacae/vacae-backend/internal/itinerary"
	"github.com/vacae/vacae-backend/internal/planner"
	"github.com/vacae/vacae-backend/internal/preference"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version           string
	BuildTime         string
	Logger            zerolog.Logger
	ServiceName       string
	Metrics           *middleware.Metrics
	Verifier          *auth.Verifier
	PlannerService    *planner.Service
	PreferenceService *preference.Service
	ItineraryService  *itinerary.Service
	FeedbackService   *feedback.Service
	Readiness         handler.ReadinessChecker
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "vacae-api"
	}

	// Global middleware - order matters
	r.Use(middleware.RequestID)            // Generate/propagate request ID first
	r.Use(middleware.Tracing(serviceName)) // Distributed tracing
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware()) // HTTP metrics
	}
	r.Use(middleware.Logger(cfg.Logger))   // Structured logging
	r.Use(middleware.Recovery(cfg.Logger)) // Panic recovery
	r.Use(chimiddleware.RealIP)            // Real IP extraction
	r.Use(middleware.SecurityHeaders)      // Security headers (HSTS, CSP, etc.)
	r.Use(middleware.RequireTLS)           // TLS enforcement (enabled via REQUIRE_TLS=true)
	r.Use(middleware.ContentTypeJSON)      // JSON content type
	r.Use(middleware.RequireJSON)          // Reject non-JSON request bodies

	opsHandler := handler.NewOpsHandler(cfg.Version, cfg.BuildTime, cfg.Readiness)
	recommendationHandler := handler.NewRecommendationHandler(cfg.PlannerService)
	itineraryHandler := handler.NewItineraryHandler(cfg.PlannerService, cfg.ItineraryService)
	preferenceHandler := handler.NewPreferenceHandler(cfg.PreferenceService)
	feedbackHandler := handler.NewFeedbackHandler(cfg.PlannerService, cfg.FeedbackService)

	authMiddleware := middleware.Auth(cfg.Verifier)

	expensiveRateLimit := middleware.RateLimitByUser(middleware.ExpensiveRateLimit) // 30 req/min
	standardRateLimit := middleware.RateLimitByUser(middleware.StandardRateLimit)   // 100 req/min

	// API v1 routes
	r.Route("/v1", func(r chi.Router) {
		// Ops endpoints (public, IP rate limited)
		r.Route("/ops", func(r chi.Router) {
			r.Use(middleware.RateLimitByIP(middleware.StandardRateLimit))
			r.Get("/health", opsHandler.HealthCheck)
			r.Get("/ready", opsHandler.ReadinessCheck)
		})

		// Recommendation endpoints - scoring is the expensive path
		r.Route("/recommendations", func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(expensiveRateLimit)
			r.Post("/generate", recommendationHandler.Generate)
			r.Post("/score", recommendationHandler.Score)
		})

		// Itineraries
		r.Route("/itineraries", func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(standardRateLimit)
			r.Get("/", itineraryHandler.ListItineraries)
			r.Route("/{itineraryId}", func(r chi.Router) {
				r.Get("/", itineraryHandler.GetItinerary)
				r.With(expensiveRateLimit).Post("/refine", itineraryHandler.RefineItinerary)
			})
		})

		// Preferences
		r.Route("/preferences", func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(standardRateLimit)
			r.Get("/", preferenceHandler.GetPreferences)
			r.Put("/", preferenceHandler.UpdatePreferences)
		})

		// Feedback
		r.Route("/feedback", func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(standardRateLimit)
			r.Get("/", feedbackHandler.ListFeedback)
			r.Post("/", feedbackHandler.CreateFeedback)
		})
	})

	return r
}
