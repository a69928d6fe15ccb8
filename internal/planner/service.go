// Package planner orchestrates recommendation generation: it resolves
// candidates from the catalog, scores them against the user's preferences
// and context, builds itineraries, and persists the result.
package planner

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/vacae/vacae-backend/internal/api/models"
	"github.com/vacae/vacae-backend/internal/destination"
	"github.com/vacae/vacae-backend/internal/feedback"
	"github.com/vacae/vacae-backend/internal/itinerary"
	"github.com/vacae/vacae-backend/internal/recommendation"
	"github.com/vacae/vacae-backend/pkg/geo"
)

// DefaultSearchLimit caps radius-search candidate pools.
const DefaultSearchLimit = 50

// TaskPublisher enqueues background preference-learning work.
type TaskPublisher interface {
	PublishLearnTask(ctx context.Context, userID string) error
}

// ServiceConfig holds configuration for the planner service.
type ServiceConfig struct {
	// Destinations is the catalog service. Required.
	Destinations *destination.Service

	// Itineraries persists generated itineraries. Required.
	Itineraries *itinerary.Service

	// Feedback records user feedback. Required.
	Feedback *feedback.Service

	// Scorer ranks candidates. Required.
	Scorer *recommendation.Scorer

	// Builder assembles itineraries from scored candidates. Required.
	Builder *recommendation.ItineraryBuilder

	// LearnTasks enqueues learning work after feedback writes. Optional;
	// when nil, feedback is stored without triggering a learn task.
	LearnTasks TaskPublisher

	// Logger for service operations.
	Logger zerolog.Logger
}

// Service coordinates the scoring and itinerary pipeline.
type Service struct {
	destinations *destination.Service
	itineraries  *itinerary.Service
	feedback     *feedback.Service
	scorer       *recommendation.Scorer
	builder      *recommendation.ItineraryBuilder
	learnTasks   TaskPublisher
	logger       zerolog.Logger
}

// NewService creates a new planner service.
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		destinations: cfg.Destinations,
		itineraries:  cfg.Itineraries,
		feedback:     cfg.Feedback,
		scorer:       cfg.Scorer,
		builder:      cfg.Builder,
		learnTasks:   cfg.LearnTasks,
		logger:       cfg.Logger,
	}
}

// CandidateSelector names the candidate pool for a scoring call: an explicit
// id list, or a radius search around a location.
type CandidateSelector struct {
	DestinationIDs []string
	Location       *geo.Point
	RadiusKm       float64
	Limit          int
}

// GenerateInput is the input for a full generate call.
type GenerateInput struct {
	Candidates CandidateSelector
	Window     recommendation.Window
	Start      geo.Point
	Mode       geo.TransportMode
	Context    recommendation.Context
}

// GenerateResult is the outcome of a generate call.
type GenerateResult struct {
	Scored []recommendation.ScoredDestination
	Record *itinerary.Record
}

// Generate resolves candidates, scores them and builds a persisted itinerary.
func (s *Service) Generate(ctx context.Context, userID string, input GenerateInput) (*GenerateResult, error) {
	if fieldErrors := validateSelector(input.Candidates); len(fieldErrors) > 0 {
		return nil, &ValidationError{Errors: fieldErrors}
	}

	candidates, err := s.resolveCandidates(ctx, input.Candidates)
	if err != nil {
		return nil, err
	}

	rctx := enrichContext(input.Context, input.Window)
	scored := s.scorer.Score(ctx, userID, candidates, rctx)

	items, err := s.builder.Build(scored, input.Window, input.Start, input.Mode)
	if err != nil {
		return nil, err
	}

	record, err := s.itineraries.Save(ctx, &itinerary.Record{
		Itinerary: recommendation.Itinerary{
			UserID:  userID,
			Items:   items,
			Context: rctx,
		},
		Candidates: scored,
		Window:     input.Window,
		Start:      input.Start,
		Mode:       input.Mode,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("user_id", userID).
		Str("itinerary_id", record.Itinerary.ID).
		Int("candidates", len(scored)).
		Int("items", len(items)).
		Msg("Itinerary generated")

	return &GenerateResult{Scored: scored, Record: record}, nil
}

// Score resolves candidates and returns the ranked list without building an
// itinerary.
func (s *Service) Score(ctx context.Context, userID string, selector CandidateSelector, rctx recommendation.Context) ([]recommendation.ScoredDestination, error) {
	if fieldErrors := validateSelector(selector); len(fieldErrors) > 0 {
		return nil, &ValidationError{Errors: fieldErrors}
	}

	candidates, err := s.resolveCandidates(ctx, selector)
	if err != nil {
		return nil, err
	}

	return s.scorer.Score(ctx, userID, candidates, enrichContext(rctx, recommendation.Window{})), nil
}

// RefineInput is the input for refining a stored itinerary.
type RefineInput struct {
	// RemoveDestinationIDs drops destinations from the candidate pool.
	RemoveDestinationIDs []string

	// Window, when set, replaces the original build window.
	Window *recommendation.Window
}

// Refine rebuilds a stored itinerary without the removed destinations and
// persists the result as a new itinerary. The original row is untouched.
func (s *Service) Refine(ctx context.Context, userID, itineraryID string, input RefineInput) (*itinerary.Record, error) {
	record, err := s.itineraries.Get(ctx, userID, itineraryID)
	if err != nil {
		return nil, err
	}

	window := record.Window
	if input.Window != nil {
		window = *input.Window
	}

	items, err := s.builder.Refine(record.Candidates, input.RemoveDestinationIDs, window, record.Start, record.Mode)
	if err != nil {
		return nil, err
	}

	removed := make(map[string]bool, len(input.RemoveDestinationIDs))
	for _, id := range input.RemoveDestinationIDs {
		removed[id] = true
	}
	remaining := make([]recommendation.ScoredDestination, 0, len(record.Candidates))
	for _, c := range record.Candidates {
		if !removed[c.Destination.ID] {
			remaining = append(remaining, c)
		}
	}

	refined, err := s.itineraries.Save(ctx, &itinerary.Record{
		Itinerary: recommendation.Itinerary{
			UserID:  userID,
			Items:   items,
			Context: record.Itinerary.Context,
		},
		Candidates: remaining,
		Window:     window,
		Start:      record.Start,
		Mode:       record.Mode,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("user_id", userID).
		Str("itinerary_id", refined.Itinerary.ID).
		Str("refined_from", itineraryID).
		Int("removed", len(input.RemoveDestinationIDs)).
		Msg("Itinerary refined")

	return refined, nil
}

// RecordFeedback stores a feedback event and enqueues a learn task for the
// user. Publish failures are logged, not surfaced; learning is best effort.
func (s *Service) RecordFeedback(ctx context.Context, userID string, input feedback.RecordInput) (*feedback.Record, error) {
	record, err := s.feedback.Record(ctx, userID, input)
	if err != nil {
		return nil, err
	}

	if s.learnTasks != nil {
		if err := s.learnTasks.PublishLearnTask(ctx, userID); err != nil {
			s.logger.Error().Err(err).
				Str("user_id", userID).
				Msg("Failed to publish learn task")
		}
	}

	return record, nil
}

func (s *Service) resolveCandidates(ctx context.Context, selector CandidateSelector) ([]recommendation.Destination, error) {
	if len(selector.DestinationIDs) > 0 {
		return s.destinations.GetByIDs(ctx, selector.DestinationIDs)
	}

	limit := selector.Limit
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	return s.destinations.SearchNearby(ctx, *selector.Location, selector.RadiusKm, limit)
}

func validateSelector(selector CandidateSelector) []models.FieldError {
	var fieldErrors []models.FieldError

	if len(selector.DestinationIDs) == 0 {
		if selector.Location == nil {
			fieldErrors = append(fieldErrors, models.FieldError{
				Field:   "destinationIds",
				Message: "either destinationIds or location must be provided",
			})
			return fieldErrors
		}
		if !selector.Location.Valid() {
			fieldErrors = append(fieldErrors, models.FieldError{
				Field:   "location",
				Message: "location coordinates are out of range",
			})
		}
		if selector.RadiusKm <= 0 {
			fieldErrors = append(fieldErrors, models.FieldError{
				Field:   "radiusKm",
				Message: "radiusKm must be positive",
			})
		}
	}

	return fieldErrors
}

// enrichContext fills derivable context fields the caller left unset and
// keeps DayOfWeek coherent with the resolved date.
func enrichContext(rctx recommendation.Context, window recommendation.Window) recommendation.Context {
	if rctx.Date.IsZero() {
		if !window.Start.IsZero() {
			rctx.Date = window.Start
		} else {
			rctx.Date = time.Now().UTC()
		}
	}
	if rctx.Season == "" {
		rctx.Season = seasonOf(rctx.Date)
	}
	if rctx.TimeOfDay == "" {
		rctx.TimeOfDay = timeOfDayOf(rctx.Date)
	}
	rctx.DayOfWeek = int(rctx.Date.Weekday())
	if rctx.AvailableTimeMinutes == 0 && window.Valid() {
		rctx.AvailableTimeMinutes = int(window.End.Sub(window.Start).Minutes())
	}
	return rctx
}

// seasonOf maps a date to a northern-hemisphere calendar season.
func seasonOf(date time.Time) recommendation.Season {
	switch date.Month() {
	case time.December, time.January, time.February:
		return recommendation.SeasonWinter
	case time.March, time.April, time.May:
		return recommendation.SeasonSpring
	case time.June, time.July, time.August:
		return recommendation.SeasonSummer
	default:
		return recommendation.SeasonFall
	}
}

func timeOfDayOf(date time.Time) recommendation.TimeOfDay {
	switch hour := date.Hour(); {
	case hour < 12:
		return recommendation.TimeMorning
	case hour < 17:
		return recommendation.TimeAfternoon
	default:
		return recommendation.TimeEvening
	}
}

// ValidationError represents validation errors on a planner request.
type ValidationError struct {
	Errors []models.FieldError
}

func (e *ValidationError) Error() string {
	return "validation failed"
}
