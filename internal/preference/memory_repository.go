package preference

import (
	"context"
	"sync"

	"github.com/vacae/vacae-backend/internal/recommendation"
)

// InMemoryLearnedRepository is an in-memory implementation of
// LearnedRepository. Intended for testing; production uses
// PostgresLearnedRepository.
type InMemoryLearnedRepository struct {
	mu       sync.RWMutex
	profiles map[string]recommendation.PreferenceProfile
}

// NewInMemoryLearnedRepository creates a new in-memory learned-profile repository.
func NewInMemoryLearnedRepository() *InMemoryLearnedRepository {
	return &InMemoryLearnedRepository{
		profiles: make(map[string]recommendation.PreferenceProfile),
	}
}

// Get retrieves the learned profile for a user.
func (r *InMemoryLearnedRepository) Get(_ context.Context, userID string) (recommendation.PreferenceProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.profiles[userID]
	if !ok {
		return recommendation.PreferenceProfile{}, ErrProfileNotFound
	}
	return p, nil
}

// Upsert stores a learned profile, replacing any previous one.
func (r *InMemoryLearnedRepository) Upsert(_ context.Context, profile recommendation.PreferenceProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.profiles[profile.UserID] = profile
	return nil
}

// InMemoryProfileClient is an in-memory ProfileClient double.
type InMemoryProfileClient struct {
	mu       sync.RWMutex
	profiles map[string]recommendation.PreferenceProfile

	// Err, when set, is returned by every call to simulate an unavailable
	// profile service.
	Err error
}

// NewInMemoryProfileClient creates a new in-memory profile client.
func NewInMemoryProfileClient() *InMemoryProfileClient {
	return &InMemoryProfileClient{
		profiles: make(map[string]recommendation.PreferenceProfile),
	}
}

// Get retrieves the stated profile for a user.
func (c *InMemoryProfileClient) Get(_ context.Context, userID string) (recommendation.PreferenceProfile, error) {
	if c.Err != nil {
		return recommendation.PreferenceProfile{}, c.Err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	p, ok := c.profiles[userID]
	if !ok {
		return recommendation.PreferenceProfile{}, ErrProfileNotFound
	}
	return p, nil
}

// Set replaces the stated profile for a user.
func (c *InMemoryProfileClient) Set(_ context.Context, profile recommendation.PreferenceProfile) error {
	if c.Err != nil {
		return c.Err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.profiles[profile.UserID] = profile
	return nil
}
