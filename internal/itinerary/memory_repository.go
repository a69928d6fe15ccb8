package itinerary

import (
	"context"
	"sort"
	"sync"
)

// InMemoryRepository is an in-memory implementation of Repository.
// Intended for testing; production uses PostgresRepository.
type InMemoryRepository struct {
	mu      sync.RWMutex
	records map[string]*Record
}

// NewInMemoryRepository creates a new in-memory itinerary repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{records: make(map[string]*Record)}
}

// Create stores a new itinerary record.
func (r *InMemoryRepository) Create(_ context.Context, record *Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cpy := *record
	r.records[record.Itinerary.ID] = &cpy
	return nil
}

// GetByUserAndID retrieves an itinerary by id, scoped to the user.
func (r *InMemoryRepository) GetByUserAndID(_ context.Context, userID, itineraryID string) (*Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.records[itineraryID]
	if !ok || record.Itinerary.UserID != userID {
		return nil, ErrItineraryNotFound
	}
	cpy := *record
	return &cpy, nil
}

// ListByUser retrieves a user's itineraries, newest first.
func (r *InMemoryRepository) ListByUser(_ context.Context, userID string, opts ListOptions) ([]*Record, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*Record
	for _, record := range r.records {
		if record.Itinerary.UserID != userID {
			continue
		}
		cpy := *record
		result = append(result, &cpy)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Itinerary.CreatedAt.After(result[j].Itinerary.CreatedAt)
	})
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}
