package feedback

import (
	"context"
	"sort"
	"sync"
	"time"
)

// InMemoryRepository is an in-memory implementation of Repository.
// Intended for testing; production uses PostgresRepository.
type InMemoryRepository struct {
	mu      sync.RWMutex
	records []*Record
}

// NewInMemoryRepository creates a new in-memory feedback repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{}
}

// Create stores a new feedback record.
func (r *InMemoryRepository) Create(_ context.Context, record *Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cpy := *record
	r.records = append(r.records, &cpy)
	return nil
}

// ListByUser retrieves a user's feedback matching the options, newest first.
func (r *InMemoryRepository) ListByUser(_ context.Context, userID string, opts ListOptions) ([]*Record, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 500
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*Record
	for _, record := range r.records {
		if record.UserID != userID {
			continue
		}
		if !opts.Since.IsZero() && record.CreatedAt.Before(opts.Since) {
			continue
		}
		if opts.Outcome != "" && record.Outcome != opts.Outcome {
			continue
		}
		cpy := *record
		result = append(result, &cpy)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// ActiveUserIDs returns ids of users with any feedback since the given time.
func (r *InMemoryRepository) ActiveUserIDs(_ context.Context, since time.Time) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]struct{})
	var ids []string
	for _, record := range r.records {
		if record.CreatedAt.Before(since) {
			continue
		}
		if _, ok := seen[record.UserID]; !ok {
			seen[record.UserID] = struct{}{}
			ids = append(ids, record.UserID)
		}
	}
	return ids, nil
}
