package usecases

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/samirrijal/litterbugs/internal/core/domain"
	"github.com/samirrijal/litterbugs/internal/core/ports"
	"github.com/samirrijal/litterbugs/internal/pkg/telemetry"
)

// AchievementService keeps profile totals and badges in step with
// published routes.
type AchievementService struct {
	profiles  ports.ProfileRepository
	publisher ports.EventPublisher
	cache     ports.CacheService
}

// NewAchievementService creates a new AchievementService. publisher and
// cache may be nil.
func NewAchievementService(profiles ports.ProfileRepository, publisher ports.EventPublisher, cache ports.CacheService) *AchievementService {
	return &AchievementService{profiles: profiles, publisher: publisher, cache: cache}
}

// ApplyPublication adds a published route to the author's totals and awards
// any badges the new totals unlock. It returns the newly awarded badges.
// A route is counted once however often its event is delivered; a repeat
// delivery still awards badges an earlier attempt failed to store.
func (s *AchievementService) ApplyPublication(ctx context.Context, event *domain.RoutePublished) ([]domain.Badge, error) {
	ctx, span := telemetry.StartSpan(ctx, "AchievementService.ApplyPublication",
		telemetry.AttrUserID.String(event.UserID),
		telemetry.AttrRouteID.String(event.RouteID),
	)
	defer span.End()

	profile, applied, err := s.profiles.AddRouteTotals(ctx, event.UserID, event.RouteID, domain.Totals{
		Pins:           event.PinCount,
		DistanceMeters: event.DistanceMeters,
		Routes:         1,
	})
	if err != nil {
		return nil, fmt.Errorf("add totals for %s: %w", event.UserID, err)
	}

	if applied {
		cacheInvalidate(ctx, s.cache, leaderboardCachePrefix)
	} else {
		slog.InfoContext(ctx, "route already counted", "route_id", event.RouteID, "user_id", event.UserID)
		span.AddEvent("redelivery")
	}

	keys := domain.NewBadges(profile.Totals(), profile.Badges)
	if len(keys) == 0 {
		return nil, nil
	}
	if err := s.profiles.AwardBadges(ctx, event.UserID, keys); err != nil {
		return nil, fmt.Errorf("award badges to %s: %w", event.UserID, err)
	}

	now := time.Now().UTC()
	awarded := make([]domain.Badge, 0, len(keys))
	for _, key := range keys {
		badge, _ := domain.LookupBadge(key)
		awarded = append(awarded, badge)
		span.AddEvent("badge awarded", trace.WithAttributes(telemetry.AttrBadge.String(key)))

		if s.publisher == nil {
			continue
		}
		if err := s.publisher.PublishBadgeAwarded(ctx, &domain.BadgeAwarded{
			UserID:    event.UserID,
			Badge:     key,
			AwardedAt: now,
		}); err != nil {
			slog.WarnContext(ctx, "publish badge event failed", "user_id", event.UserID, "badge", key, "error", err)
		}
	}

	return awarded, nil
}
