package usecases

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/mmcloughlin/geohash"

	"github.com/samirrijal/litterbugs/internal/core/domain"
	"github.com/samirrijal/litterbugs/internal/core/ports"
	"github.com/samirrijal/litterbugs/internal/pkg/geospatial"
	"github.com/samirrijal/litterbugs/internal/pkg/telemetry"
)

const (
	startGeohashPrecision = 7
	// nearby candidates are cached per geohash cell, coarser than the
	// stored hash, so requests from roughly the same spot share an entry
	nearbyGeohashPrecision = 6
	// most candidates fetched for one cell; a full cell falls back to an
	// uncached query around the exact point
	nearbyCandidateCap = 500

	anonymousUsername = "Anonymous"
)

// RouteService handles routes shared on the community map.
type RouteService struct {
	routes    ports.PublishedRouteRepository
	profiles  ports.ProfileRepository
	publisher ports.EventPublisher
	cache     ports.CacheService
}

// NewRouteService creates a new RouteService. publisher and cache may be nil.
func NewRouteService(routes ports.PublishedRouteRepository, profiles ports.ProfileRepository, publisher ports.EventPublisher, cache ports.CacheService) *RouteService {
	return &RouteService{routes: routes, profiles: profiles, publisher: publisher, cache: cache}
}

// Publish shares a cleanup on the community map. The route needs at least
// two points and one pin.
func (s *RouteService) Publish(ctx context.Context, userID string, route []domain.Coordinate, pins []domain.Pin) (*domain.PublishedRoute, error) {
	if len(route) < 2 {
		return nil, fmt.Errorf("route needs at least 2 points, got %d: %w", len(route), domain.ErrInvalidInput)
	}
	if len(pins) == 0 {
		return nil, fmt.Errorf("route needs at least 1 pin: %w", domain.ErrInvalidInput)
	}
	if err := domain.ValidateTrack(route, pins); err != nil {
		return nil, err
	}

	ctx, span := telemetry.StartSpan(ctx, "RouteService.Publish",
		telemetry.AttrUserID.String(userID),
		telemetry.AttrPinCount.Int(len(pins)),
	)
	defer span.End()

	username := anonymousUsername
	profile, err := s.profiles.GetByUserID(ctx, userID)
	switch {
	case err == nil && profile.Username != "":
		username = profile.Username
	case err != nil && !errors.Is(err, domain.ErrNotFound):
		return nil, fmt.Errorf("load profile: %w", err)
	}

	start := route[0]
	published := &domain.PublishedRoute{
		ID:             uuid.NewString(),
		UserID:         userID,
		Username:       username,
		Timestamp:      time.Now().UTC(),
		Route:          domain.EncodeRoute(route),
		Pins:           domain.EncodePins(pins),
		DistanceMeters: geospatial.RouteDistanceMeters(route),
		Start:          domain.LngLat{Lng: start.Lng(), Lat: start.Lat()},
		StartGeohash:   geohash.EncodeWithPrecision(start.Lat(), start.Lng(), startGeohashPrecision),
	}
	span.SetAttributes(
		telemetry.AttrRouteID.String(published.ID),
		telemetry.AttrDistanceM.Float64(published.DistanceMeters),
	)

	if err := s.routes.Create(ctx, published); err != nil {
		return nil, fmt.Errorf("publish route: %w", err)
	}

	cacheInvalidate(ctx, s.cache, routesCachePrefix)

	if s.publisher != nil {
		event := &domain.RoutePublished{
			RouteID:        published.ID,
			UserID:         userID,
			Username:       username,
			DistanceMeters: published.DistanceMeters,
			PinCount:       len(pins),
			PublishedAt:    published.Timestamp,
		}
		if err := s.publisher.PublishRoutePublished(ctx, event); err != nil {
			slog.WarnContext(ctx, "publish route event failed", "route_id", published.ID, "error", err)
		}
	}

	return published, nil
}

// ListCommunity returns published routes newest first, decoded for the map.
func (s *RouteService) ListCommunity(ctx context.Context, offset, limit int) ([]domain.CommunityRoute, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	cacheKey := fmt.Sprintf("routes:community:%d:%d", offset, limit)
	var cached []domain.CommunityRoute
	if cacheGet(ctx, s.cache, cacheKey, &cached) {
		return cached, nil
	}

	routes, err := s.routes.ListRecent(ctx, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("list community routes: %w", err)
	}
	out := toCommunity(routes)

	cacheSet(ctx, s.cache, cacheKey, out, 60)
	return out, nil
}

// ListNearby returns routes starting within radiusMeters of the point,
// closest first, each annotated with its distance.
func (s *RouteService) ListNearby(ctx context.Context, lat, lng, radiusMeters float64, limit int) ([]domain.CommunityRoute, error) {
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 || math.IsNaN(lat) || math.IsNaN(lng) {
		return nil, fmt.Errorf("point (%g, %g) out of range: %w", lat, lng, domain.ErrInvalidInput)
	}
	if radiusMeters <= 0 || radiusMeters > 50000 {
		radiusMeters = 5000
	}
	if limit <= 0 || limit > 50 {
		limit = 20
	}

	candidates, err := s.nearbyCandidates(ctx, lat, lng, radiusMeters)
	if err != nil {
		return nil, err
	}
	if len(candidates) >= nearbyCandidateCap {
		minLat, minLng, maxLat, maxLng := geospatial.BoundingBox(lat, lng, radiusMeters)
		candidates, err = s.routes.ListStartingWithin(ctx, domain.Bounds{
			MinLat: minLat, MinLng: minLng, MaxLat: maxLat, MaxLng: maxLng,
		}, domain.LngLat{Lng: lng, Lat: lat}, limit*2)
		if err != nil {
			return nil, fmt.Errorf("list nearby routes: %w", err)
		}
	}

	// the box is a superset of the circle
	type hit struct {
		route domain.PublishedRoute
		dist  float64
	}
	hits := make([]hit, 0, len(candidates))
	for _, r := range candidates {
		d := geospatial.Haversine(lat, lng, r.Start.Lat, r.Start.Lng)
		if d <= radiusMeters {
			hits = append(hits, hit{route: r, dist: d})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].dist < hits[j].dist })
	if len(hits) > limit {
		hits = hits[:limit]
	}

	out := make([]domain.CommunityRoute, len(hits))
	for i, h := range hits {
		out[i] = toCommunityRoute(h.route)
		d := h.dist
		out[i].Distance = &d
	}
	return out, nil
}

// nearbyCandidates returns the routes starting within radiusMeters of any
// point in the geohash cell holding (lat, lng). The list does not depend on
// where in the cell the request came from, so it is cached per cell.
func (s *RouteService) nearbyCandidates(ctx context.Context, lat, lng, radiusMeters float64) ([]domain.PublishedRoute, error) {
	cell := geohash.EncodeWithPrecision(lat, lng, nearbyGeohashPrecision)
	cacheKey := fmt.Sprintf("routes:nearby:%s:%.0f", cell, radiusMeters)
	var cached []domain.PublishedRoute
	if cacheGet(ctx, s.cache, cacheKey, &cached) {
		return cached, nil
	}

	cb := geohash.BoundingBox(cell)
	centerLat, centerLng := cb.Center()
	box := geospatial.GrowBounds(domain.Bounds{
		MinLat: cb.MinLat, MinLng: cb.MinLng, MaxLat: cb.MaxLat, MaxLng: cb.MaxLng,
	}, radiusMeters)

	candidates, err := s.routes.ListStartingWithin(ctx, box, domain.LngLat{Lng: centerLng, Lat: centerLat}, nearbyCandidateCap)
	if err != nil {
		return nil, fmt.Errorf("list nearby routes: %w", err)
	}

	cacheSet(ctx, s.cache, cacheKey, candidates, 120)
	return candidates, nil
}

// ListMine returns the user's own published routes.
func (s *RouteService) ListMine(ctx context.Context, userID string) ([]domain.CommunityRoute, error) {
	routes, err := s.routes.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list user routes: %w", err)
	}
	return toCommunity(routes), nil
}

// Delete removes a published route. Only its owner may delete it.
func (s *RouteService) Delete(ctx context.Context, userID, id string) error {
	route, err := s.routes.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get route %s: %w", id, err)
	}
	if route.UserID != userID {
		return fmt.Errorf("route %s belongs to another user: %w", id, domain.ErrForbidden)
	}
	if err := s.routes.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete route: %w", err)
	}
	cacheInvalidate(ctx, s.cache, routesCachePrefix)
	return nil
}

func toCommunity(routes []domain.PublishedRoute) []domain.CommunityRoute {
	out := make([]domain.CommunityRoute, len(routes))
	for i, r := range routes {
		out[i] = toCommunityRoute(r)
	}
	return out
}

func toCommunityRoute(r domain.PublishedRoute) domain.CommunityRoute {
	return domain.CommunityRoute{
		ID:             r.ID,
		UserID:         r.UserID,
		Username:       r.Username,
		Timestamp:      r.Timestamp,
		Route:          domain.DecodeRoute(r.Route),
		Pins:           domain.DecodePins(r.Pins),
		DistanceMeters: r.DistanceMeters,
	}
}
