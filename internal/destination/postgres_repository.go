package destination

import (
	"context"
	"errors"
	"math"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vacae/vacae-backend/internal/recommendation"
	"github.com/vacae/vacae-backend/pkg/geo"
)

// PostgresRepository is a PostgreSQL implementation of Repository.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL catalog repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const destinationColumns = `
	id, name, lat, lng, categories, cost_level,
	visit_duration_minutes, popularity, attributes, seasonality
`

// Get retrieves a single destination by id.
func (r *PostgresRepository) Get(ctx context.Context, id string) (recommendation.Destination, error) {
	query := `SELECT ` + destinationColumns + ` FROM destinations WHERE id = $1`

	row := r.pool.QueryRow(ctx, query, id)
	dest, err := scanDestination(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return recommendation.Destination{}, ErrDestinationNotFound
		}
		return recommendation.Destination{}, err
	}
	return dest, nil
}

// GetByIDs retrieves destinations in batch, preserving input order and
// omitting unknown ids.
func (r *PostgresRepository) GetByIDs(ctx context.Context, ids []string) ([]recommendation.Destination, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `SELECT ` + destinationColumns + ` FROM destinations WHERE id = ANY($1)`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byID := make(map[string]recommendation.Destination, len(ids))
	for rows.Next() {
		dest, err := scanDestination(rows)
		if err != nil {
			return nil, err
		}
		byID[dest.ID] = dest
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	result := make([]recommendation.Destination, 0, len(byID))
	for _, id := range ids {
		if dest, ok := byID[id]; ok {
			result = append(result, dest)
		}
	}
	return result, nil
}

// SearchNearby returns destinations within radiusKm of center, nearest first.
// Candidates are pre-filtered with a bounding box in SQL, then exact-filtered
// with the Haversine distance.
func (r *PostgresRepository) SearchNearby(ctx context.Context, center geo.Point, radiusKm float64, limit int) ([]recommendation.Destination, error) {
	if limit <= 0 {
		limit = 50
	}

	// Bounding box is slightly generous; the exact filter below trims it.
	latDelta := radiusKm / 111.0
	lngDelta := radiusKm / (111.0 * math.Cos(center.Lat*math.Pi/180))

	query := `SELECT ` + destinationColumns + `
		FROM destinations
		WHERE lat BETWEEN $1 AND $2
		  AND lng BETWEEN $3 AND $4
	`

	rows, err := r.pool.Query(ctx, query,
		center.Lat-latDelta, center.Lat+latDelta,
		center.Lng-lngDelta, center.Lng+lngDelta,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	type withDistance struct {
		dest     recommendation.Destination
		distance float64
	}
	var candidates []withDistance

	for rows.Next() {
		dest, err := scanDestination(rows)
		if err != nil {
			return nil, err
		}
		d := geo.Haversine(center, dest.Location)
		if d <= radiusKm {
			candidates = append(candidates, withDistance{dest: dest, distance: d})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
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

// scanDestination scans one catalog row.
func scanDestination(row pgx.Row) (recommendation.Destination, error) {
	var (
		dest       recommendation.Destination
		categories []string
	)

	err := row.Scan(
		&dest.ID,
		&dest.Name,
		&dest.Location.Lat,
		&dest.Location.Lng,
		&categories,
		&dest.CostLevel,
		&dest.VisitDuration,
		&dest.Popularity,
		&dest.Attributes,
		&dest.Seasonality,
	)
	if err != nil {
		return recommendation.Destination{}, err
	}

	dest.Categories = make([]recommendation.CategoryID, len(categories))
	for i, c := range categories {
		dest.Categories[i] = recommendation.CategoryID(c)
	}
	return dest, nil
}
