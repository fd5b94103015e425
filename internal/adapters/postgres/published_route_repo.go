package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/samirrijal/litterbugs/internal/core/domain"
)

// PublishedRouteRepo implements ports.PublishedRouteRepository with pgx.
type PublishedRouteRepo struct {
	db *DB
}

// NewPublishedRouteRepo creates a new PublishedRouteRepo.
func NewPublishedRouteRepo(db *DB) *PublishedRouteRepo {
	return &PublishedRouteRepo{db: db}
}

const publishedRouteColumns = `id::text, user_id, username, ts, route, pins,
		       distance_meters, start_lng, start_lat, start_geohash`

// Create inserts a published route.
func (r *PublishedRouteRepo) Create(ctx context.Context, p *domain.PublishedRoute) error {
	_, err := r.db.Pool.Exec(ctx, `
		INSERT INTO published_routes
		    (id, user_id, username, ts, route, pins, distance_meters, start_lng, start_lat, start_geohash)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, p.ID, p.UserID, p.Username, p.Timestamp, nonNilRoute(p.Route), nonNilPins(p.Pins),
		p.DistanceMeters, p.Start.Lng, p.Start.Lat, p.StartGeohash)
	return mapErr(err)
}

// GetByID returns a published route by id.
func (r *PublishedRouteRepo) GetByID(ctx context.Context, id string) (*domain.PublishedRoute, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT `+publishedRouteColumns+`
		FROM published_routes WHERE id = $1
	`, id)
	if err != nil {
		return nil, mapErr(err)
	}
	p, err := pgx.CollectExactlyOneRow(rows, scanPublishedRoute)
	if err != nil {
		return nil, mapErr(err)
	}
	return &p, nil
}

// ListRecent returns published routes newest first.
func (r *PublishedRouteRepo) ListRecent(ctx context.Context, offset, limit int) ([]domain.PublishedRoute, error) {
	return r.query(ctx, `
		SELECT `+publishedRouteColumns+`
		FROM published_routes
		ORDER BY ts DESC
		OFFSET $1 LIMIT $2
	`, offset, limit)
}

// ListByUser returns a user's published routes, newest first.
func (r *PublishedRouteRepo) ListByUser(ctx context.Context, userID string) ([]domain.PublishedRoute, error) {
	return r.query(ctx, `
		SELECT `+publishedRouteColumns+`
		FROM published_routes
		WHERE user_id = $1
		ORDER BY ts DESC
	`, userID)
}

// ListStartingWithin returns up to limit routes whose start point is inside
// box, closest to near first. The order uses an equirectangular distance,
// which matches great-circle order at neighbourhood scale.
func (r *PublishedRouteRepo) ListStartingWithin(ctx context.Context, box domain.Bounds, near domain.LngLat, limit int) ([]domain.PublishedRoute, error) {
	return r.query(ctx, `
		SELECT `+publishedRouteColumns+`
		FROM published_routes
		WHERE start_lat BETWEEN $1 AND $2
		  AND start_lng BETWEEN $3 AND $4
		ORDER BY power(start_lat - $5::float8, 2)
		       + power((start_lng - $6::float8) * cos(radians($5::float8)), 2),
		         ts DESC
		LIMIT $7
	`, box.MinLat, box.MaxLat, box.MinLng, box.MaxLng, near.Lat, near.Lng, limit)
}

// Delete removes a published route.
func (r *PublishedRouteRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM published_routes WHERE id = $1`, id)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteByUser removes all of a user's published routes.
func (r *PublishedRouteRepo) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM published_routes WHERE user_id = $1`, userID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *PublishedRouteRepo) query(ctx context.Context, sql string, args ...any) ([]domain.PublishedRoute, error) {
	rows, err := r.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	routes, err := pgx.CollectRows(rows, scanPublishedRoute)
	if err != nil {
		return nil, fmt.Errorf("scan published routes: %w", err)
	}
	return routes, nil
}

func scanPublishedRoute(row pgx.CollectableRow) (domain.PublishedRoute, error) {
	var p domain.PublishedRoute
	err := row.Scan(
		&p.ID, &p.UserID, &p.Username, &p.Timestamp, &p.Route, &p.Pins,
		&p.DistanceMeters, &p.Start.Lng, &p.Start.Lat, &p.StartGeohash,
	)
	return p, err
}
