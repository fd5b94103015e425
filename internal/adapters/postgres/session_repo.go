package postgres

import (
	"context"
	"fmt"

	"github.com/samirrijal/litterbugs/internal/core/domain"
)

// SessionRepo implements ports.SessionRepository with pgx.
type SessionRepo struct {
	db *DB
}

// NewSessionRepo creates a new SessionRepo.
func NewSessionRepo(db *DB) *SessionRepo {
	return &SessionRepo{db: db}
}

// Create inserts a session. Route and pins are stored as JSONB.
func (r *SessionRepo) Create(ctx context.Context, s *domain.Session) error {
	_, err := r.db.Pool.Exec(ctx, `
		INSERT INTO private_sessions (id, user_id, session_name, ts, route, pins)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, s.ID, s.UserID, s.Name, s.Timestamp, nonNilRoute(s.Route), nonNilPins(s.Pins))
	return mapErr(err)
}

// GetByID returns a session by id.
func (r *SessionRepo) GetByID(ctx context.Context, id string) (*domain.Session, error) {
	var s domain.Session
	err := r.db.Pool.QueryRow(ctx, `
		SELECT id::text, user_id, session_name, ts, route, pins
		FROM private_sessions WHERE id = $1
	`, id).Scan(&s.ID, &s.UserID, &s.Name, &s.Timestamp, &s.Route, &s.Pins)
	if err != nil {
		return nil, mapErr(err)
	}
	return &s, nil
}

// ListByUser returns a user's sessions, newest first.
func (r *SessionRepo) ListByUser(ctx context.Context, userID string) ([]domain.Session, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id::text, user_id, session_name, ts, route, pins
		FROM private_sessions
		WHERE user_id = $1
		ORDER BY ts DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []domain.Session
	for rows.Next() {
		var s domain.Session
		if err := rows.Scan(&s.ID, &s.UserID, &s.Name, &s.Timestamp, &s.Route, &s.Pins); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

// Delete removes a session.
func (r *SessionRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM private_sessions WHERE id = $1`, id)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteByUser removes all of a user's sessions.
func (r *SessionRepo) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM private_sessions WHERE user_id = $1`, userID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// JSONB columns are NOT NULL; a nil slice would encode as null.
func nonNilRoute(r domain.StoredRoute) domain.StoredRoute {
	if r == nil {
		return domain.StoredRoute{}
	}
	return r
}

func nonNilPins(p []domain.Pin) []domain.Pin {
	if p == nil {
		return []domain.Pin{}
	}
	return p
}
