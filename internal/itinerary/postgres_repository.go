package itinerary

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vacae/vacae-backend/internal/recommendation"
	"github.com/vacae/vacae-backend/pkg/geo"
)

// PostgresRepository is a PostgreSQL implementation of Repository.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL itinerary repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const itineraryColumns = `
	id, user_id, items, context, candidates,
	window_start, window_end, start_lat, start_lng, transport_mode, created_at
`

// Create stores a new itinerary record.
func (r *PostgresRepository) Create(ctx context.Context, record *Record) error {
	query := `
		INSERT INTO itineraries (
			id, user_id, items, context, candidates,
			window_start, window_end, start_lat, start_lng, transport_mode, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.pool.Exec(ctx, query,
		record.Itinerary.ID,
		record.Itinerary.UserID,
		record.Itinerary.Items,
		record.Itinerary.Context,
		record.Candidates,
		record.Window.Start,
		record.Window.End,
		record.Start.Lat,
		record.Start.Lng,
		string(record.Mode),
		record.Itinerary.CreatedAt,
	)
	return err
}

// GetByUserAndID retrieves an itinerary by id, scoped to the user.
func (r *PostgresRepository) GetByUserAndID(ctx context.Context, userID, itineraryID string) (*Record, error) {
	query := `SELECT ` + itineraryColumns + ` FROM itineraries WHERE user_id = $1 AND id = $2`

	record, err := scanRecord(r.pool.QueryRow(ctx, query, userID, itineraryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrItineraryNotFound
		}
		return nil, err
	}
	return record, nil
}

// ListByUser retrieves a user's itineraries, newest first.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID string, opts ListOptions) ([]*Record, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}

	query := `SELECT ` + itineraryColumns + `
		FROM itineraries
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// scanRecord scans one itinerary row. Items, context and candidates are
// stored as JSONB.
func scanRecord(row pgx.Row) (*Record, error) {
	var (
		record Record
		items  []recommendation.ItineraryItem
		mode   string
	)

	err := row.Scan(
		&record.Itinerary.ID,
		&record.Itinerary.UserID,
		&items,
		&record.Itinerary.Context,
		&record.Candidates,
		&record.Window.Start,
		&record.Window.End,
		&record.Start.Lat,
		&record.Start.Lng,
		&mode,
		&record.Itinerary.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	record.Itinerary.Items = items
	record.Mode = geo.TransportMode(mode)
	return &record, nil
}
