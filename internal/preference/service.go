package preference

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/rs/zerolog"

	"github.com/vacae/vacae-backend/internal/api/models"
	"github.com/vacae/vacae-backend/internal/cache"
	"github.com/vacae/vacae-backend/internal/recommendation"
	"github.com/vacae/vacae-backend/pkg/geo"
)

// timeHHMMRegex validates HH:mm schedule fields.
var timeHHMMRegex = regexp.MustCompile(`^([01]?\d|2[0-3]):[0-5]\d$`)

// ServiceConfig holds configuration for the preference service.
type ServiceConfig struct {
	// Learned is the local store of learner-produced profiles. Required.
	Learned LearnedRepository

	// Profiles is the external profile-service client. Required.
	Profiles ProfileClient

	// CacheTTL is how long lookups are memoized. Default: 5 minutes.
	CacheTTL time.Duration

	// Logger for service operations.
	Logger zerolog.Logger
}

// Service provides preference profile operations with lookup memoization.
type Service struct {
	learned LearnedRepository
	client  ProfileClient
	logger  zerolog.Logger

	statedCache  *cache.Cache[recommendation.PreferenceProfile]
	learnedCache *cache.Cache[recommendation.PreferenceProfile]
}

// NewService creates a new preference service.
func NewService(cfg ServiceConfig) *Service {
	ttl := cfg.CacheTTL
	if ttl == 0 {
		ttl = cache.DefaultPreferenceTTL
	}

	return &Service{
		learned:      cfg.Learned,
		client:       cfg.Profiles,
		logger:       cfg.Logger,
		statedCache:  cache.New[recommendation.PreferenceProfile]("stated_preferences", ttl),
		learnedCache: cache.New[recommendation.PreferenceProfile]("learned_preferences", ttl),
	}
}

// Get retrieves the stated profile for a user from the external profile
// service, consulting the cache first.
func (s *Service) Get(ctx context.Context, userID string) (recommendation.PreferenceProfile, error) {
	if p, ok := s.statedCache.Get(userID); ok {
		return p, nil
	}

	p, err := s.client.Get(ctx, userID)
	if err != nil {
		return recommendation.PreferenceProfile{}, err
	}

	s.statedCache.Set(userID, p)
	return p, nil
}

// GetLearned retrieves the learner-produced profile for a user.
func (s *Service) GetLearned(ctx context.Context, userID string) (recommendation.PreferenceProfile, error) {
	if p, ok := s.learnedCache.Get(userID); ok {
		return p, nil
	}

	p, err := s.learned.Get(ctx, userID)
	if err != nil {
		return recommendation.PreferenceProfile{}, err
	}

	s.learnedCache.Set(userID, p)
	return p, nil
}

// SaveLearned persists a learner-produced profile and invalidates the cache.
// Concurrent saves for the same user are last-write-wins.
func (s *Service) SaveLearned(ctx context.Context, profile recommendation.PreferenceProfile) error {
	if err := s.learned.Upsert(ctx, profile); err != nil {
		return err
	}
	s.learnedCache.Delete(profile.UserID)
	return nil
}

// Update applies an allow-listed partial update to a user's stated profile
// and writes it through to the profile service. Fields not present in the
// request are left untouched.
func (s *Service) Update(ctx context.Context, userID string, input *UpdateRequest) (recommendation.PreferenceProfile, error) {
	if fieldErrors := validateUpdate(input); len(fieldErrors) > 0 {
		return recommendation.PreferenceProfile{}, &ValidationError{Errors: fieldErrors}
	}

	current, err := s.client.Get(ctx, userID)
	if err != nil {
		if !errors.Is(err, ErrProfileNotFound) {
			return recommendation.PreferenceProfile{}, err
		}
		current = recommendation.PreferenceProfile{UserID: userID}
	}

	if input.Categories != nil {
		current.Categories = *input.Categories
	}
	if input.CostLevel != nil {
		current.CostLevel = *input.CostLevel
	}
	if input.ActivityLevel != nil {
		current.ActivityLevel = *input.ActivityLevel
	}
	if input.ExcludedActivities != nil {
		current.ExcludedActivities = *input.ExcludedActivities
	}
	if input.PreferredTransportation != nil {
		current.PreferredTransportation = *input.PreferredTransportation
	}
	if input.Schedule != nil {
		current.Schedule = *input.Schedule
	}
	current.UserID = userID
	current.UpdatedAt = time.Now()

	if err := s.client.Set(ctx, current); err != nil {
		return recommendation.PreferenceProfile{}, err
	}

	s.statedCache.Delete(userID)
	return current, nil
}

// validateUpdate checks the allow-listed update fields.
func validateUpdate(input *UpdateRequest) []models.FieldError {
	var errs []models.FieldError

	if input.CostLevel != nil && (*input.CostLevel < 1 || *input.CostLevel > 5) {
		errs = append(errs, models.FieldError{Field: "costLevel", Message: "must be between 1 and 5"})
	}

	if input.ActivityLevel != nil {
		switch *input.ActivityLevel {
		case recommendation.ActivityRelaxed, recommendation.ActivityModerate, recommendation.ActivityActive:
		default:
			errs = append(errs, models.FieldError{Field: "activityLevel", Message: "must be relaxed, moderate or active"})
		}
	}

	if input.Categories != nil {
		for _, c := range *input.Categories {
			if c == "" {
				errs = append(errs, models.FieldError{Field: "categories", Message: "must not contain empty entries"})
				break
			}
		}
	}

	if input.ExcludedActivities != nil {
		for _, c := range *input.ExcludedActivities {
			if c == "" {
				errs = append(errs, models.FieldError{Field: "excludedActivities", Message: "must not contain empty entries"})
				break
			}
		}
	}

	if input.PreferredTransportation != nil {
		for _, m := range *input.PreferredTransportation {
			switch m {
			case geo.ModeWalking, geo.ModeTransit, geo.ModeDriving:
			default:
				errs = append(errs, models.FieldError{Field: "preferredTransportation", Message: "must contain walking, transit or driving"})
			}
		}
	}

	if input.Schedule != nil {
		if input.Schedule.MorningStart != "" && !timeHHMMRegex.MatchString(input.Schedule.MorningStart) {
			errs = append(errs, models.FieldError{Field: "schedule.morningStart", Message: "must be in HH:mm format"})
		}
		if input.Schedule.EveningEnd != "" && !timeHHMMRegex.MatchString(input.Schedule.EveningEnd) {
			errs = append(errs, models.FieldError{Field: "schedule.eveningEnd", Message: "must be in HH:mm format"})
		}
	}

	return errs
}

// ValidationError represents validation errors on a preference update.
type ValidationError struct {
	Errors []models.FieldError
}

func (e *ValidationError) Error() string {
	return "validation failed"
}

// LearnedSource adapts the service's learned-profile lookup to the scorer's
// PreferenceSource interface.
type LearnedSource struct {
	Service *Service
}

// Get implements recommendation.PreferenceSource.
func (s LearnedSource) Get(ctx context.Context, userID string) (recommendation.PreferenceProfile, bool, error) {
	p, err := s.Service.GetLearned(ctx, userID)
	if errors.Is(err, ErrProfileNotFound) {
		return recommendation.PreferenceProfile{}, false, nil
	}
	if err != nil {
		return recommendation.PreferenceProfile{}, false, err
	}
	return p, true, nil
}

// StatedSource adapts the stated-profile lookup to the scorer's
// PreferenceSource interface.
type StatedSource struct {
	Service *Service
}

// Get implements recommendation.PreferenceSource.
func (s StatedSource) Get(ctx context.Context, userID string) (recommendation.PreferenceProfile, bool, error) {
	p, err := s.Service.Get(ctx, userID)
	if errors.Is(err, ErrProfileNotFound) {
		return recommendation.PreferenceProfile{}, false, nil
	}
	if err != nil {
		return recommendation.PreferenceProfile{}, false, err
	}
	return p, true, nil
}
