package ports

import (
	"context"

	"github.com/samirrijal/litterbugs/internal/core/domain"
)

// SessionRepository persists private cleanup sessions.
type SessionRepository interface {
	Create(ctx context.Context, s *domain.Session) error
	GetByID(ctx context.Context, id string) (*domain.Session, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Session, error)
	Delete(ctx context.Context, id string) error
	DeleteByUser(ctx context.Context, userID string) (int64, error)
}

// PublishedRouteRepository persists routes shared on the community map.
type PublishedRouteRepository interface {
	Create(ctx context.Context, r *domain.PublishedRoute) error
	GetByID(ctx context.Context, id string) (*domain.PublishedRoute, error)
	ListRecent(ctx context.Context, offset, limit int) ([]domain.PublishedRoute, error)
	ListByUser(ctx context.Context, userID string) ([]domain.PublishedRoute, error)
	// ListStartingWithin returns up to limit routes whose start point lies
	// inside the box, closest to near first.
	ListStartingWithin(ctx context.Context, box domain.Bounds, near domain.LngLat, limit int) ([]domain.PublishedRoute, error)
	Delete(ctx context.Context, id string) error
	DeleteByUser(ctx context.Context, userID string) (int64, error)
}

// ProfileRepository persists public profiles.
type ProfileRepository interface {
	Create(ctx context.Context, p *domain.Profile) error
	GetByUserID(ctx context.Context, userID string) (*domain.Profile, error)
	UpdateDetails(ctx context.Context, p *domain.Profile) error
	// AddRouteTotals increments the cumulative counters at most once per
	// routeID and returns the profile. applied is false when routeID was
	// already counted.
	AddRouteTotals(ctx context.Context, userID, routeID string, delta domain.Totals) (p *domain.Profile, applied bool, err error)
	AwardBadges(ctx context.Context, userID string, keys []string) error
	Top(ctx context.Context, metric domain.LeaderboardMetric, limit int) ([]domain.Profile, error)
	Delete(ctx context.Context, userID string) error
}

// MeetupRepository persists scheduled meetups.
type MeetupRepository interface {
	Create(ctx context.Context, m *domain.Meetup) error
	ListByPOI(ctx context.Context, poiName string) ([]domain.Meetup, error)
	DeleteByOrganizer(ctx context.Context, userID string) (int64, error)
}
