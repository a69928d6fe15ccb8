package feedback

import (
	"context"
	"time"

	"github.com/vacae/vacae-backend/internal/recommendation"
)

// ListOptions narrows a feedback query.
type ListOptions struct {
	// Since bounds the query to records created at or after this time.
	Since time.Time

	// Outcome, when non-empty, filters by outcome.
	Outcome recommendation.Outcome

	// Limit caps the result size; 0 means the repository default.
	Limit int
}

// Repository defines the interface for feedback persistence.
type Repository interface {
	// Create stores a new feedback record.
	Create(ctx context.Context, record *Record) error

	// ListByUser retrieves a user's feedback matching the options, newest
	// first.
	ListByUser(ctx context.Context, userID string, opts ListOptions) ([]*Record, error)

	// ActiveUserIDs returns ids of users with any feedback since the given
	// time. Used by the batch learner.
	ActiveUserIDs(ctx context.Context, since time.Time) ([]string, error)
}
