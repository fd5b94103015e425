package postgres

import (
	"context"

	"github.com/samirrijal/litterbugs/internal/core/domain"
)

// MeetupRepo implements ports.MeetupRepository with pgx.
type MeetupRepo struct {
	db *DB
}

func NewMeetupRepo(db *DB) *MeetupRepo {
	return &MeetupRepo{db: db}
}

// Create inserts a meetup.
func (r *MeetupRepo) Create(ctx context.Context, m *domain.Meetup) error {
	_, err := r.db.Pool.Exec(ctx, `
		INSERT INTO meetups (id, organizer_id, organizer_name, poi_name, title, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, m.ID, m.OrganizerID, m.OrganizerName, m.PoiName, m.Title, m.Description, m.CreatedAt)
	return mapErr(err)
}

// ListByPOI returns the meetups at a point of interest, newest first.
func (r *MeetupRepo) ListByPOI(ctx context.Context, poiName string) ([]domain.Meetup, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id::text, organizer_id, organizer_name, poi_name, title, description, created_at
		FROM meetups
		WHERE poi_name = $1
		ORDER BY created_at DESC
	`, poiName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	meetups := []domain.Meetup{}
	for rows.Next() {
		var m domain.Meetup
		if err := rows.Scan(&m.ID, &m.OrganizerID, &m.OrganizerName, &m.PoiName, &m.Title, &m.Description, &m.CreatedAt); err != nil {
			return nil, err
		}
		meetups = append(meetups, m)
	}
	return meetups, rows.Err()
}

// DeleteByOrganizer removes the meetups a user organized.
func (r *MeetupRepo) DeleteByOrganizer(ctx context.Context, userID string) (int64, error) {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM meetups WHERE organizer_id = $1`, userID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
