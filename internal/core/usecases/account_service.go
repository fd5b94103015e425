package usecases

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/samirrijal/litterbugs/internal/core/ports"
)

// AccountService removes everything a user has stored.
type AccountService struct {
	sessions ports.SessionRepository
	routes   ports.PublishedRouteRepository
	meetups  ports.MeetupRepository
	profiles ports.ProfileRepository
	photos   ports.ObjectStore
	cache    ports.CacheService
	starter  ports.DeletionStarter
}

// NewAccountService creates a new AccountService. photos, cache and
// starter may be nil.
func NewAccountService(
	sessions ports.SessionRepository,
	routes ports.PublishedRouteRepository,
	meetups ports.MeetupRepository,
	profiles ports.ProfileRepository,
	photos ports.ObjectStore,
	cache ports.CacheService,
) *AccountService {
	return &AccountService{
		sessions: sessions,
		routes:   routes,
		meetups:  meetups,
		profiles: profiles,
		photos:   photos,
		cache:    cache,
	}
}

// WithStarter hands deletion requests to a durable workflow instead of
// running them inline.
func (s *AccountService) WithStarter(starter ports.DeletionStarter) *AccountService {
	s.starter = starter
	return s
}

// RequestDeletion deletes the user's account. It returns the workflow id
// when the deletion was handed off, or "" when it ran inline.
func (s *AccountService) RequestDeletion(ctx context.Context, userID string) (string, error) {
	if s.starter != nil {
		id, err := s.starter.StartAccountDeletion(ctx, userID)
		if err != nil {
			return "", fmt.Errorf("start account deletion: %w", err)
		}
		return id, nil
	}

	steps := []func(context.Context, string) error{
		s.DeleteSessions,
		s.DeleteRoutes,
		s.DeleteMeetups,
		s.DeletePhotos,
		s.DeleteProfile,
	}
	for _, step := range steps {
		if err := step(ctx, userID); err != nil {
			return "", err
		}
	}
	return "", nil
}

// DeleteSessions removes the user's private sessions.
func (s *AccountService) DeleteSessions(ctx context.Context, userID string) error {
	n, err := s.sessions.DeleteByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("delete sessions: %w", err)
	}
	slog.InfoContext(ctx, "sessions deleted", "user_id", userID, "count", n)
	return nil
}

// DeleteRoutes removes the user's published routes.
func (s *AccountService) DeleteRoutes(ctx context.Context, userID string) error {
	n, err := s.routes.DeleteByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("delete routes: %w", err)
	}
	cacheInvalidate(ctx, s.cache, routesCachePrefix)
	slog.InfoContext(ctx, "published routes deleted", "user_id", userID, "count", n)
	return nil
}

// DeleteMeetups removes the meetups the user organized.
func (s *AccountService) DeleteMeetups(ctx context.Context, userID string) error {
	n, err := s.meetups.DeleteByOrganizer(ctx, userID)
	if err != nil {
		return fmt.Errorf("delete meetups: %w", err)
	}
	slog.InfoContext(ctx, "meetups deleted", "user_id", userID, "count", n)
	return nil
}

// DeletePhotos removes the user's uploaded photos.
func (s *AccountService) DeletePhotos(ctx context.Context, userID string) error {
	if s.photos == nil {
		return nil
	}
	n, err := s.photos.DeletePrefix(ctx, PhotoPrefix(userID))
	if err != nil {
		return fmt.Errorf("delete photos: %w", err)
	}
	slog.InfoContext(ctx, "photos deleted", "user_id", userID, "count", n)
	return nil
}

// DeleteProfile removes the user's public profile. A missing profile is
// not an error.
func (s *AccountService) DeleteProfile(ctx context.Context, userID string) error {
	if err := s.profiles.Delete(ctx, userID); err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	cacheInvalidate(ctx, s.cache, leaderboardCachePrefix)
	return nil
}
