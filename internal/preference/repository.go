package preference

import (
	"context"

	"github.com/vacae/vacae-backend/internal/recommendation"
)

// LearnedRepository persists learner-produced profiles. Writers for the same
// user are serialized by the caller; last write wins.
type LearnedRepository interface {
	// Get retrieves the learned profile for a user.
	// Returns ErrProfileNotFound if none has been produced yet.
	Get(ctx context.Context, userID string) (recommendation.PreferenceProfile, error)

	// Upsert stores a learned profile, replacing any previous one.
	Upsert(ctx context.Context, profile recommendation.PreferenceProfile) error
}

// ProfileClient is the boundary to the external profile service holding the
// user's explicitly stated preferences.
type ProfileClient interface {
	// Get retrieves the stated profile for a user.
	// Returns ErrProfileNotFound if the user has not stated preferences.
	Get(ctx context.Context, userID string) (recommendation.PreferenceProfile, error)

	// Set replaces the stated profile for a user.
	Set(ctx context.Context, profile recommendation.PreferenceProfile) error
}
