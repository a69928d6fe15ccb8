// Package destination provides access to the destination catalog: batch
// lookups by id and geo-radius search over immutable catalog snapshots.
package destination

import (
	"context"
	"errors"

	"github.com/vacae/vacae-backend/internal/recommendation"
	"github.com/vacae/vacae-backend/pkg/geo"
)

// Repository errors.
var (
	ErrDestinationNotFound = errors.New("destination not found")
)

// Repository defines the interface for catalog access.
type Repository interface {
	// Get retrieves a single destination by id.
	// Returns ErrDestinationNotFound if it does not exist.
	Get(ctx context.Context, id string) (recommendation.Destination, error)

	// GetByIDs retrieves destinations in batch. Unknown ids are omitted from
	// the result, preserving the order of the input for the rest.
	GetByIDs(ctx context.Context, ids []string) ([]recommendation.Destination, error)

	// SearchNearby returns destinations within radiusKm of center, nearest
	// first, up to limit.
	SearchNearby(ctx context.Context, center geo.Point, radiusKm float64, limit int) ([]recommendation.Destination, error)
}
