package feedback

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/vacae/vacae-backend/internal/api/models"
	"github.com/vacae/vacae-backend/internal/recommendation"
)

// ServiceConfig holds configuration for the feedback service.
type ServiceConfig struct {
	// Repository for feedback persistence. Required.
	Repository Repository

	// WindowDays bounds learner queries. Default: 90.
	WindowDays int

	// Logger for service operations.
	Logger zerolog.Logger
}

// Service provides feedback recording and learner-facing queries.
type Service struct {
	repo       Repository
	windowDays int
	logger     zerolog.Logger
}

// NewService creates a new feedback service.
func NewService(cfg ServiceConfig) *Service {
	windowDays := cfg.WindowDays
	if windowDays <= 0 {
		windowDays = recommendation.DefaultFeedbackWindowDays
	}

	return &Service{
		repo:       cfg.Repository,
		windowDays: windowDays,
		logger:     cfg.Logger,
	}
}

// RecordInput is the input for recording a feedback event.
type RecordInput struct {
	DestinationID string
	ItineraryID   string
	Outcome       recommendation.Outcome
	Rating        *int
}

// Record validates and stores a feedback event for a user.
func (s *Service) Record(ctx context.Context, userID string, input RecordInput) (*Record, error) {
	if fieldErrors := s.validateInput(input); len(fieldErrors) > 0 {
		return nil, &ValidationError{Errors: fieldErrors}
	}

	record := &Record{
		ID:            "fbk_" + uuid.New().String()[:22],
		UserID:        userID,
		DestinationID: input.DestinationID,
		ItineraryID:   input.ItineraryID,
		Outcome:       input.Outcome,
		Rating:        input.Rating,
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, record); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("feedback_id", record.ID).
		Str("user_id", userID).
		Str("outcome", string(record.Outcome)).
		Msg("Feedback recorded")

	return record, nil
}

// List retrieves a user's feedback, newest first.
func (s *Service) List(ctx context.Context, userID string, opts ListOptions) ([]*Record, error) {
	return s.repo.ListByUser(ctx, userID, opts)
}

// LearningWindow returns the user's recent feedback in the learner's input
// shape, bounded to the configured window.
func (s *Service) LearningWindow(ctx context.Context, userID string) ([]recommendation.Feedback, error) {
	since := time.Now().UTC().AddDate(0, 0, -s.windowDays)

	records, err := s.repo.ListByUser(ctx, userID, ListOptions{Since: since})
	if err != nil {
		return nil, err
	}

	result := make([]recommendation.Feedback, 0, len(records))
	for _, r := range records {
		result = append(result, r.Feedback())
	}
	return result, nil
}

// ActiveUsers returns ids of users with feedback inside the configured
// window. Used by the batch learner.
func (s *Service) ActiveUsers(ctx context.Context) ([]string, error) {
	since := time.Now().UTC().AddDate(0, 0, -s.windowDays)
	return s.repo.ActiveUserIDs(ctx, since)
}

func (s *Service) validateInput(input RecordInput) []models.FieldError {
	var fieldErrors []models.FieldError

	if input.DestinationID == "" {
		fieldErrors = append(fieldErrors, models.FieldError{
			Field:   "destinationId",
			Message: "destinationId is required",
		})
	}

	switch input.Outcome {
	case recommendation.OutcomeAccepted, recommendation.OutcomeRejected, recommendation.OutcomeCompleted:
	default:
		fieldErrors = append(fieldErrors, models.FieldError{
			Field:   "outcome",
			Message: "outcome must be one of: accepted, rejected, completed",
		})
	}

	if input.Rating != nil {
		if input.Outcome != recommendation.OutcomeCompleted {
			fieldErrors = append(fieldErrors, models.FieldError{
				Field:   "rating",
				Message: "rating is only allowed on completed outcomes",
			})
		} else if *input.Rating < 1 || *input.Rating > 5 {
			fieldErrors = append(fieldErrors, models.FieldError{
				Field:   "rating",
				Message: "rating must be between 1 and 5",
			})
		}
	}

	return fieldErrors
}

// ValidationError represents validation errors on a feedback submission.
type ValidationError struct {
	Errors []models.FieldError
}

func (e *ValidationError) Error() string {
	return "validation failed"
}
