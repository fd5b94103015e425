package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/samirrijal/litterbugs/internal/core/domain"
)

// ProfileRepo implements ports.ProfileRepository with pgx.
type ProfileRepo struct {
	db *DB
}

// NewProfileRepo creates a new ProfileRepo.
func NewProfileRepo(db *DB) *ProfileRepo {
	return &ProfileRepo{db: db}
}

const profileColumns = `user_id, username, bio, location, buy_me_a_coffee_link, badges,
		       total_pins, total_distance, total_routes, created_at`

// Create inserts a profile. A taken user id or username is a conflict.
func (r *ProfileRepo) Create(ctx context.Context, p *domain.Profile) error {
	badges := p.Badges
	if badges == nil {
		badges = map[string]bool{}
	}
	_, err := r.db.Pool.Exec(ctx, `
		INSERT INTO profiles (user_id, username, bio, location, buy_me_a_coffee_link, badges, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, p.UserID, p.Username, p.Bio, p.Location, p.BuyMeACoffeeLink, badges, p.CreatedAt)
	return mapErr(err)
}

// GetByUserID returns a profile.
func (r *ProfileRepo) GetByUserID(ctx context.Context, userID string) (*domain.Profile, error) {
	rows, err := r.db.Pool.Query(ctx, `SELECT `+profileColumns+` FROM profiles WHERE user_id = $1`, userID)
	if err != nil {
		return nil, err
	}
	p, err := pgx.CollectExactlyOneRow(rows, scanProfile)
	if err != nil {
		return nil, mapErr(err)
	}
	return &p, nil
}

// UpdateDetails writes the editable fields.
func (r *ProfileRepo) UpdateDetails(ctx context.Context, p *domain.Profile) error {
	tag, err := r.db.Pool.Exec(ctx, `
		UPDATE profiles SET bio = $2, location = $3, buy_me_a_coffee_link = $4
		WHERE user_id = $1
	`, p.UserID, p.Bio, p.Location, p.BuyMeACoffeeLink)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// AddRouteTotals adds delta to the counters once per routeID. The route id
// is recorded in the same transaction; when it is already there the totals
// are left alone and the current profile comes back with applied false.
func (r *ProfileRepo) AddRouteTotals(ctx context.Context, userID, routeID string, delta domain.Totals) (*domain.Profile, bool, error) {
	var (
		p       domain.Profile
		applied bool
	)
	err := pgx.BeginFunc(ctx, r.db.Pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			INSERT INTO applied_publications (route_id, user_id) VALUES ($1, $2)
			ON CONFLICT (route_id) DO NOTHING
		`, routeID, userID)
		if err != nil {
			return err
		}
		applied = tag.RowsAffected() == 1

		var rows pgx.Rows
		if applied {
			rows, err = tx.Query(ctx, `
				UPDATE profiles
				SET total_pins = total_pins + $2,
				    total_distance = total_distance + $3,
				    total_routes = total_routes + $4
				WHERE user_id = $1
				RETURNING `+profileColumns,
				userID, delta.Pins, delta.DistanceMeters, delta.Routes)
		} else {
			rows, err = tx.Query(ctx, `SELECT `+profileColumns+` FROM profiles WHERE user_id = $1`, userID)
		}
		if err != nil {
			return err
		}
		p, err = pgx.CollectExactlyOneRow(rows, scanProfile)
		return err
	})
	if err != nil {
		return nil, false, mapErr(err)
	}
	return &p, applied, nil
}

// AwardBadges merges keys into the profile's badge set.
func (r *ProfileRepo) AwardBadges(ctx context.Context, userID string, keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	add := make(map[string]bool, len(keys))
	for _, k := range keys {
		add[k] = true
	}
	tag, err := r.db.Pool.Exec(ctx, `
		UPDATE profiles SET badges = badges || $2::jsonb WHERE user_id = $1
	`, userID, add)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Top returns the highest ranked profiles for metric.
func (r *ProfileRepo) Top(ctx context.Context, metric domain.LeaderboardMetric, limit int) ([]domain.Profile, error) {
	var orderBy string
	switch metric {
	case domain.MetricTotalDistance:
		orderBy = "total_distance DESC"
	case domain.MetricTotalPins:
		orderBy = "total_pins DESC"
	default:
		return nil, fmt.Errorf("metric %q: %w", metric, domain.ErrInvalidInput)
	}

	rows, err := r.db.Pool.Query(ctx, `
		SELECT `+profileColumns+`
		FROM profiles
		ORDER BY `+orderBy+`, created_at
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	profiles, err := pgx.CollectRows(rows, scanProfile)
	if err != nil {
		return nil, fmt.Errorf("scan profiles: %w", err)
	}
	return profiles, nil
}

// Delete removes a profile. Deleting a missing profile is not an error.
func (r *ProfileRepo) Delete(ctx context.Context, userID string) error {
	_, err := r.db.Pool.Exec(ctx, `DELETE FROM profiles WHERE user_id = $1`, userID)
	return err
}

func scanProfile(row pgx.CollectableRow) (domain.Profile, error) {
	var p domain.Profile
	err := row.Scan(
		&p.UserID, &p.Username, &p.Bio, &p.Location, &p.BuyMeACoffeeLink, &p.Badges,
		&p.TotalPins, &p.TotalDistance, &p.TotalRoutes, &p.CreatedAt,
	)
	return p, err
}
