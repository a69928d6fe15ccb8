// Package itinerary persists generated itineraries together with the inputs
// needed to refine them later.
package itinerary

import (
	"context"
	"errors"

	"github.com/vacae/vacae-backend/internal/recommendation"
	"github.com/vacae/vacae-backend/pkg/geo"
)

// Repository errors.
var (
	ErrItineraryNotFound = errors.New("itinerary not found")
)

// Record is a stored itinerary. Alongside the itinerary itself it keeps the
// scored candidate pool and build inputs so a refinement can re-run the
// builder without re-scoring.
type Record struct {
	Itinerary  recommendation.Itinerary
	Candidates []recommendation.ScoredDestination
	Window     recommendation.Window
	Start      geo.Point
	Mode       geo.TransportMode
}

// ListOptions narrows an itinerary query.
type ListOptions struct {
	// Limit caps the result size; 0 means the repository default.
	Limit int
}

// Repository defines the interface for itinerary persistence.
type Repository interface {
	// Create stores a new itinerary record.
	Create(ctx context.Context, record *Record) error

	// GetByUserAndID retrieves an itinerary by id, scoped to the user.
	// Returns ErrItineraryNotFound if absent.
	GetByUserAndID(ctx context.Context, userID, itineraryID string) (*Record, error)

	// ListByUser retrieves a user's itineraries, newest first.
	ListByUser(ctx context.Context, userID string, opts ListOptions) ([]*Record, error)
}
