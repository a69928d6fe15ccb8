package feedback

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vacae/vacae-backend/internal/recommendation"
)

// PostgresRepository is a PostgreSQL implementation of Repository.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL feedback repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Create stores a new feedback record.
func (r *PostgresRepository) Create(ctx context.Context, record *Record) error {
	query := `
		INSERT INTO feedback (
			id, user_id, destination_id, itinerary_id, outcome, rating, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.pool.Exec(ctx, query,
		record.ID,
		record.UserID,
		record.DestinationID,
		nullable(record.ItineraryID),
		string(record.Outcome),
		record.Rating,
		record.CreatedAt,
	)
	return err
}

// ListByUser retrieves a user's feedback matching the options, newest first.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID string, opts ListOptions) ([]*Record, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 500
	}

	query := `
		SELECT id, user_id, destination_id, COALESCE(itinerary_id, ''), outcome, rating, created_at
		FROM feedback
		WHERE user_id = $1
		  AND created_at >= $2
		  AND ($3 = '' OR outcome = $3)
		ORDER BY created_at DESC
		LIMIT $4
	`

	rows, err := r.pool.Query(ctx, query, userID, opts.Since, string(opts.Outcome), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		var (
			record  Record
			outcome string
		)
		if err := rows.Scan(
			&record.ID,
			&record.UserID,
			&record.DestinationID,
			&record.ItineraryID,
			&outcome,
			&record.Rating,
			&record.CreatedAt,
		); err != nil {
			return nil, err
		}
		record.Outcome = recommendation.Outcome(outcome)
		records = append(records, &record)
	}
	return records, rows.Err()
}

// ActiveUserIDs returns ids of users with any feedback since the given time.
func (r *PostgresRepository) ActiveUserIDs(ctx context.Context, since time.Time) ([]string, error) {
	query := `
		SELECT DISTINCT user_id
		FROM feedback
		WHERE created_at >= $1
	`

	rows, err := r.pool.Query(ctx, query, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// nullable maps an empty string to NULL.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
