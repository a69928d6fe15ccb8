package destination

import (
	"context"
	"sort"
	"sync"

	"github.com/vacae/vacae-backend/internal/recommendation"
	"github.com/vacae/vacae-backend/pkg/geo"
)

// InMemoryRepository is an in-memory implementation of Repository.
// Intended for testing; production uses PostgresRepository.
type InMemoryRepository struct {
	mu           sync.RWMutex
	destinations map[string]recommendation.Destination
}

// NewInMemoryRepository creates a new in-memory catalog repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		destinations: make(map[string]recommendation.Destination),
	}
}

// Add seeds the repository with destinations.
func (r *InMemoryRepository) Add(destinations ...recommendation.Destination) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, d := range destinations {
		r.destinations[d.ID] = d
	}
}

// Get retrieves a single destination by id.
func (r *InMemoryRepository) Get(_ context.Context, id string) (recommendation.Destination, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.destinations[id]
	if !ok {
		return recommendation.Destination{}, ErrDestinationNotFound
	}
	return d, nil
}

// GetByIDs retrieves destinations in batch, preserving input order and
// omitting unknown ids.
func (r *InMemoryRepository) GetByIDs(_ context.Context, ids []string) ([]recommendation.Destination, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]recommendation.Destination, 0, len(ids))
	for _, id := range ids {
		if d, ok := r.destinations[id]; ok {
			result = append(result, d)
		}
	}
	return result, nil
}

// SearchNearby returns destinations within radiusKm of center, nearest first.
func (r *InMemoryRepository) SearchNearby(_ context.Context, center geo.Point, radiusKm float64, limit int) ([]recommendation.Destination, error) {
	if limit <= 0 {
		limit = 50
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	type withDistance struct {
		dest     recommendation.Destination
		distance float64
	}
	var candidates []withDistance

	for _, d := range r.destinations {
		if dist := geo.Haversine(center, d.Location); dist <= radiusKm {
			candidates = append(candidates, withDistance{dest: d, distance: dist})
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].distance < candidates[j].distance
	})
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	result := make([]recommendation.Destination, 0, len(candidates))
	for _, c := range candidates {
		result = append(result, c.dest)
	}
	return result, nil
}
