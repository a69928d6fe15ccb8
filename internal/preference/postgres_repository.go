package preference

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vacae/vacae-backend/internal/recommendation"
	"github.com/vacae/vacae-backend/pkg/geo"
)

// PostgresLearnedRepository is a PostgreSQL implementation of LearnedRepository.
type PostgresLearnedRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresLearnedRepository creates a new PostgreSQL learned-profile repository.
func NewPostgresLearnedRepository(pool *pgxpool.Pool) *PostgresLearnedRepository {
	return &PostgresLearnedRepository{pool: pool}
}

// Get retrieves the learned profile for a user.
func (r *PostgresLearnedRepository) Get(ctx context.Context, userID string) (recommendation.PreferenceProfile, error) {
	query := `
		SELECT
			user_id, categories, cost_level, activity_level,
			excluded_activities, preferred_transportation,
			morning_start, evening_end, updated_at
		FROM learned_preferences
		WHERE user_id = $1
	`

	var (
		profile        recommendation.PreferenceProfile
		categories     []string
		excluded       []string
		transportation []string
		activityLevel  string
	)

	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&profile.UserID,
		&categories,
		&profile.CostLevel,
		&activityLevel,
		&excluded,
		&transportation,
		&profile.Schedule.MorningStart,
		&profile.Schedule.EveningEnd,
		&profile.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return recommendation.PreferenceProfile{}, ErrProfileNotFound
		}
		return recommendation.PreferenceProfile{}, err
	}

	profile.ActivityLevel = recommendation.ActivityLevel(activityLevel)
	profile.Categories = toCategories(categories)
	profile.ExcludedActivities = toCategories(excluded)
	profile.PreferredTransportation = toModes(transportation)
	return profile, nil
}

// Upsert stores a learned profile, replacing any previous one.
func (r *PostgresLearnedRepository) Upsert(ctx context.Context, profile recommendation.PreferenceProfile) error {
	query := `
		INSERT INTO learned_preferences (
			user_id, categories, cost_level, activity_level,
			excluded_activities, preferred_transportation,
			morning_start, evening_end, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (user_id) DO UPDATE SET
			categories = EXCLUDED.categories,
			cost_level = EXCLUDED.cost_level,
			activity_level = EXCLUDED.activity_level,
			excluded_activities = EXCLUDED.excluded_activities,
			preferred_transportation = EXCLUDED.preferred_transportation,
			morning_start = EXCLUDED.morning_start,
			evening_end = EXCLUDED.evening_end,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.pool.Exec(ctx, query,
		profile.UserID,
		fromCategories(profile.Categories),
		profile.CostLevel,
		string(profile.ActivityLevel),
		fromCategories(profile.ExcludedActivities),
		fromModes(profile.PreferredTransportation),
		profile.Schedule.MorningStart,
		profile.Schedule.EveningEnd,
		profile.UpdatedAt,
	)
	return err
}

func toCategories(values []string) []recommendation.CategoryID {
	if len(values) == 0 {
		return nil
	}
	out := make([]recommendation.CategoryID, len(values))
	for i, v := range values {
		out[i] = recommendation.CategoryID(v)
	}
	return out
}

func fromCategories(values []recommendation.CategoryID) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}

func toModes(values []string) []geo.TransportMode {
	if len(values) == 0 {
		return nil
	}
	out := make([]geo.TransportMode, len(values))
	for i, v := range values {
		out[i] = geo.TransportMode(v)
	}
	return out
}

func fromModes(values []geo.TransportMode) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}
