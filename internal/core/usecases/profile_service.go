package usecases

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/samirrijal/litterbugs/internal/core/domain"
	"github.com/samirrijal/litterbugs/internal/core/ports"
	"github.com/samirrijal/litterbugs/internal/pkg/geospatial"
)

const (
	DefaultBio = "This user is new to Litter Bugs!"

	minUsernameLen = 3
	maxUsernameLen = 20
	maxBioLen      = 280
	maxLocationLen = 100

	defaultLeaderboardLimit = 10
	maxLeaderboardLimit     = 50
)

// ProfileService handles public profiles and the leaderboard.
type ProfileService struct {
	profiles ports.ProfileRepository
	cache    ports.CacheService
}

// NewProfileService creates a new ProfileService. cache may be nil.
func NewProfileService(profiles ports.ProfileRepository, cache ports.CacheService) *ProfileService {
	return &ProfileService{profiles: profiles, cache: cache}
}

// CreateProfile registers the public profile for a new account.
func (s *ProfileService) CreateProfile(ctx context.Context, userID, username string) (*domain.Profile, error) {
	username = strings.TrimSpace(username)
	if n := utf8.RuneCountInString(username); n < minUsernameLen || n > maxUsernameLen {
		return nil, fmt.Errorf("username must be %d-%d characters: %w", minUsernameLen, maxUsernameLen, domain.ErrInvalidInput)
	}
	if domain.ContainsProfanity(username) {
		return nil, fmt.Errorf("username contains blocked words: %w", domain.ErrInvalidInput)
	}

	profile := &domain.Profile{
		UserID:    userID,
		Username:  username,
		Bio:       DefaultBio,
		Badges:    map[string]bool{},
		CreatedAt: time.Now().UTC(),
	}
	if err := s.profiles.Create(ctx, profile); err != nil {
		return nil, fmt.Errorf("create profile: %w", err)
	}
	return profile, nil
}

// GetProfile returns a profile prepared for display.
func (s *ProfileService) GetProfile(ctx context.Context, userID string) (*domain.ProfileView, error) {
	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get profile %s: %w", userID, err)
	}
	return NewProfileView(profile), nil
}

// UpdateProfile replaces the editable profile fields.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID, bio, location, coffeeLink string) (*domain.ProfileView, error) {
	bio = strings.TrimSpace(bio)
	location = strings.TrimSpace(location)
	coffeeLink = strings.TrimSpace(coffeeLink)

	if utf8.RuneCountInString(bio) > maxBioLen {
		return nil, fmt.Errorf("bio exceeds %d characters: %w", maxBioLen, domain.ErrInvalidInput)
	}
	if utf8.RuneCountInString(location) > maxLocationLen {
		return nil, fmt.Errorf("location exceeds %d characters: %w", maxLocationLen, domain.ErrInvalidInput)
	}
	if coffeeLink != "" && !isHTTPURL(coffeeLink) {
		return nil, fmt.Errorf("buy me a coffee link must be an http(s) URL: %w", domain.ErrInvalidInput)
	}

	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get profile %s: %w", userID, err)
	}
	profile.Bio = bio
	profile.Location = location
	profile.BuyMeACoffeeLink = coffeeLink

	if err := s.profiles.UpdateDetails(ctx, profile); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return NewProfileView(profile), nil
}

// Leaderboard ranks profiles by metric, highest first.
func (s *ProfileService) Leaderboard(ctx context.Context, metric domain.LeaderboardMetric, limit int) ([]domain.LeaderboardEntry, error) {
	if !metric.Valid() {
		return nil, fmt.Errorf("unknown leaderboard metric %q: %w", metric, domain.ErrInvalidInput)
	}
	if limit <= 0 {
		limit = defaultLeaderboardLimit
	}
	if limit > maxLeaderboardLimit {
		limit = maxLeaderboardLimit
	}

	cacheKey := fmt.Sprintf("leaderboard:%s:%d", metric, limit)
	var cached []domain.LeaderboardEntry
	if cacheGet(ctx, s.cache, cacheKey, &cached) {
		return cached, nil
	}

	top, err := s.profiles.Top(ctx, metric, limit)
	if err != nil {
		return nil, fmt.Errorf("leaderboard: %w", err)
	}

	entries := make([]domain.LeaderboardEntry, len(top))
	for i, p := range top {
		entries[i] = domain.LeaderboardEntry{
			Rank:     i + 1,
			UserID:   p.UserID,
			Username: p.Username,
		}
		switch metric {
		case domain.MetricTotalDistance:
			entries[i].Score = p.TotalDistance
			entries[i].Display = fmt.Sprintf("%.2f mi", geospatial.MetersToMiles(p.TotalDistance))
		case domain.MetricTotalPins:
			entries[i].Score = float64(p.TotalPins)
			entries[i].Display = strconv.Itoa(p.TotalPins)
		}
	}

	cacheSet(ctx, s.cache, cacheKey, entries, 60)
	return entries, nil
}

// NewProfileView adds display fields to a profile.
func NewProfileView(p *domain.Profile) *domain.ProfileView {
	return &domain.ProfileView{
		Profile:            *p,
		TotalDistanceMiles: geospatial.MetersToMiles(p.TotalDistance),
		EarnedBadges:       domain.EarnedBadges(p.Badges),
	}
}

func isHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
