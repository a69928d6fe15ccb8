package itinerary

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ServiceConfig holds configuration for the itinerary service.
type ServiceConfig struct {
	// Repository for itinerary persistence. Required.
	Repository Repository

	// Logger for service operations.
	Logger zerolog.Logger
}

// Service provides itinerary persistence operations.
type Service struct {
	repo   Repository
	logger zerolog.Logger
}

// NewService creates a new itinerary service.
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		repo:   cfg.Repository,
		logger: cfg.Logger,
	}
}

// Save assigns the record an id and creation time and stores it.
func (s *Service) Save(ctx context.Context, record *Record) (*Record, error) {
	record.Itinerary.ID = "itn_" + uuid.New().String()[:22]
	record.Itinerary.CreatedAt = time.Now().UTC()

	if err := s.repo.Create(ctx, record); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("itinerary_id", record.Itinerary.ID).
		Str("user_id", record.Itinerary.UserID).
		Int("items", len(record.Itinerary.Items)).
		Msg("Itinerary saved")

	return record, nil
}

// Get retrieves an itinerary by id for a user.
func (s *Service) Get(ctx context.Context, userID, itineraryID string) (*Record, error) {
	return s.repo.GetByUserAndID(ctx, userID, itineraryID)
}

// List retrieves a user's itineraries, newest first.
func (s *Service) List(ctx context.Context, userID string, limit int) ([]*Record, error) {
	return s.repo.ListByUser(ctx, userID, ListOptions{Limit: limit})
}
