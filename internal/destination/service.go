package destination

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/vacae/vacae-backend/internal/cache"
	"github.com/vacae/vacae-backend/internal/recommendation"
	"github.com/vacae/vacae-backend/pkg/geo"
)

// ServiceConfig holds configuration for the catalog service.
type ServiceConfig struct {
	// Repository is the catalog backend. Required.
	Repository Repository

	// CacheTTL is how long destination batches are memoized.
	// Default: 15 minutes.
	CacheTTL time.Duration

	// Logger for service operations.
	Logger zerolog.Logger
}

// Service provides catalog reads with batch memoization.
type Service struct {
	repo   Repository
	logger zerolog.Logger
	cache  *cache.Cache[[]recommendation.Destination]
}

// NewService creates a new catalog service.
func NewService(cfg ServiceConfig) *Service {
	ttl := cfg.CacheTTL
	if ttl == 0 {
		ttl = cache.DefaultDestinationTTL
	}

	return &Service{
		repo:   cfg.Repository,
		logger: cfg.Logger,
		cache:  cache.New[[]recommendation.Destination]("destination_batches", ttl),
	}
}

// GetByIDs retrieves a batch of destinations, consulting the cache first.
// Unknown ids are skipped with a warning rather than failing the batch.
func (s *Service) GetByIDs(ctx context.Context, ids []string) ([]recommendation.Destination, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	key := batchKey(ids)
	if cached, ok := s.cache.Get(key); ok {
		return cached, nil
	}

	destinations, err := s.repo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	if len(destinations) < len(ids) {
		s.logger.Warn().
			Int("requested", len(ids)).
			Int("found", len(destinations)).
			Msg("some destination ids were not found")
	}

	s.cache.Set(key, destinations)
	return destinations, nil
}

// SearchNearby returns destinations within radiusKm of center, nearest first.
func (s *Service) SearchNearby(ctx context.Context, center geo.Point, radiusKm float64, limit int) ([]recommendation.Destination, error) {
	return s.repo.SearchNearby(ctx, center, radiusKm, limit)
}

// batchKey builds the cache key for an id batch. Order is part of the key:
// results preserve input order, so differently ordered batches are distinct
// entries.
func batchKey(ids []string) string {
	return strings.Join(ids, ",")
}
