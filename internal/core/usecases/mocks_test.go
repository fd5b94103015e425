package usecases_test

import (
	"context"
	"io"
	"strings"
	"sync"

	"github.com/samirrijal/litterbugs/internal/core/domain"
)

// --- Mock SessionRepository ---

type mockSessionRepo struct {
	createFn       func(ctx context.Context, s *domain.Session) error
	getByIDFn      func(ctx context.Context, id string) (*domain.Session, error)
	listByUserFn   func(ctx context.Context, userID string) ([]domain.Session, error)
	deleteFn       func(ctx context.Context, id string) error
	deleteByUserFn func(ctx context.Context, userID string) (int64, error)
}

func (m *mockSessionRepo) Create(ctx context.Context, s *domain.Session) error {
	if m.createFn != nil {
		return m.createFn(ctx, s)
	}
	return nil
}

func (m *mockSessionRepo) GetByID(ctx context.Context, id string) (*domain.Session, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *mockSessionRepo) ListByUser(ctx context.Context, userID string) ([]domain.Session, error) {
	if m.listByUserFn != nil {
		return m.listByUserFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockSessionRepo) Delete(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func (m *mockSessionRepo) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	if m.deleteByUserFn != nil {
		return m.deleteByUserFn(ctx, userID)
	}
	return 0, nil
}

// --- Mock PublishedRouteRepository ---

type mockRouteRepo struct {
	createFn             func(ctx context.Context, r *domain.PublishedRoute) error
	getByIDFn            func(ctx context.Context, id string) (*domain.PublishedRoute, error)
	listRecentFn         func(ctx context.Context, offset, limit int) ([]domain.PublishedRoute, error)
	listByUserFn         func(ctx context.Context, userID string) ([]domain.PublishedRoute, error)
	listStartingWithinFn func(ctx context.Context, box domain.Bounds, near domain.LngLat, limit int) ([]domain.PublishedRoute, error)
	deleteFn             func(ctx context.Context, id string) error
	deleteByUserFn       func(ctx context.Context, userID string) (int64, error)
}

func (m *mockRouteRepo) Create(ctx context.Context, r *domain.PublishedRoute) error {
	if m.createFn != nil {
		return m.createFn(ctx, r)
	}
	return nil
}

func (m *mockRouteRepo) GetByID(ctx context.Context, id string) (*domain.PublishedRoute, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *mockRouteRepo) ListRecent(ctx context.Context, offset, limit int) ([]domain.PublishedRoute, error) {
	if m.listRecentFn != nil {
		return m.listRecentFn(ctx, offset, limit)
	}
	return nil, nil
}

func (m *mockRouteRepo) ListByUser(ctx context.Context, userID string) ([]domain.PublishedRoute, error) {
	if m.listByUserFn != nil {
		return m.listByUserFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockRouteRepo) ListStartingWithin(ctx context.Context, box domain.Bounds, near domain.LngLat, limit int) ([]domain.PublishedRoute, error) {
	if m.listStartingWithinFn != nil {
		return m.listStartingWithinFn(ctx, box, near, limit)
	}
	return nil, nil
}

func (m *mockRouteRepo) Delete(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func (m *mockRouteRepo) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	if m.deleteByUserFn != nil {
		return m.deleteByUserFn(ctx, userID)
	}
	return 0, nil
}

// --- Mock ProfileRepository ---

type mockProfileRepo struct {
	createFn        func(ctx context.Context, p *domain.Profile) error
	getByUserIDFn   func(ctx context.Context, userID string) (*domain.Profile, error)
	updateDetailsFn func(ctx context.Context, p *domain.Profile) error
	addTotalsFn     func(ctx context.Context, userID, routeID string, delta domain.Totals) (*domain.Profile, bool, error)
	awardBadgesFn   func(ctx context.Context, userID string, keys []string) error
	topFn           func(ctx context.Context, metric domain.LeaderboardMetric, limit int) ([]domain.Profile, error)
	deleteFn        func(ctx context.Context, userID string) error
}

func (m *mockProfileRepo) Create(ctx context.Context, p *domain.Profile) error {
	if m.createFn != nil {
		return m.createFn(ctx, p)
	}
	return nil
}

func (m *mockProfileRepo) GetByUserID(ctx context.Context, userID string) (*domain.Profile, error) {
	if m.getByUserIDFn != nil {
		return m.getByUserIDFn(ctx, userID)
	}
	return nil, domain.ErrNotFound
}

func (m *mockProfileRepo) UpdateDetails(ctx context.Context, p *domain.Profile) error {
	if m.updateDetailsFn != nil {
		return m.updateDetailsFn(ctx, p)
	}
	return nil
}

func (m *mockProfileRepo) AddRouteTotals(ctx context.Context, userID, routeID string, delta domain.Totals) (*domain.Profile, bool, error) {
	if m.addTotalsFn != nil {
		return m.addTotalsFn(ctx, userID, routeID, delta)
	}
	return nil, false, domain.ErrNotFound
}

func (m *mockProfileRepo) AwardBadges(ctx context.Context, userID string, keys []string) error {
	if m.awardBadgesFn != nil {
		return m.awardBadgesFn(ctx, userID, keys)
	}
	return nil
}

func (m *mockProfileRepo) Top(ctx context.Context, metric domain.LeaderboardMetric, limit int) ([]domain.Profile, error) {
	if m.topFn != nil {
		return m.topFn(ctx, metric, limit)
	}
	return nil, nil
}

func (m *mockProfileRepo) Delete(ctx context.Context, userID string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, userID)
	}
	return nil
}

// --- Mock MeetupRepository ---

type mockMeetupRepo struct {
	createFn            func(ctx context.Context, m *domain.Meetup) error
	listByPOIFn         func(ctx context.Context, poiName string) ([]domain.Meetup, error)
	deleteByOrganizerFn func(ctx context.Context, userID string) (int64, error)
}

func (m *mockMeetupRepo) Create(ctx context.Context, meetup *domain.Meetup) error {
	if m.createFn != nil {
		return m.createFn(ctx, meetup)
	}
	return nil
}

func (m *mockMeetupRepo) ListByPOI(ctx context.Context, poiName string) ([]domain.Meetup, error) {
	if m.listByPOIFn != nil {
		return m.listByPOIFn(ctx, poiName)
	}
	return nil, nil
}

func (m *mockMeetupRepo) DeleteByOrganizer(ctx context.Context, userID string) (int64, error) {
	if m.deleteByOrganizerFn != nil {
		return m.deleteByOrganizerFn(ctx, userID)
	}
	return 0, nil
}

// --- Mock EventPublisher ---

type mockPublisher struct {
	mu     sync.Mutex
	routes []domain.RoutePublished
	badges []domain.BadgeAwarded
	err    error
}

func (m *mockPublisher) PublishRoutePublished(ctx context.Context, event *domain.RoutePublished) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.routes = append(m.routes, *event)
	return m.err
}

func (m *mockPublisher) PublishBadgeAwarded(ctx context.Context, event *domain.BadgeAwarded) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.badges = append(m.badges, *event)
	return m.err
}

// --- In-memory CacheService ---

type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	ttls map[string]int
}

func newMemCache() *memCache {
	return &memCache{data: map[string][]byte{}, ttls: map[string]int{}}
}

func (c *memCache) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return v, nil
}

func (c *memCache) Set(ctx context.Context, key string, value []byte, ttlSeconds int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	c.ttls[key] = ttlSeconds
	return nil
}

func (c *memCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *memCache) DeletePrefix(ctx context.Context, prefix string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.data {
		if strings.HasPrefix(k, prefix) {
			delete(c.data, k)
		}
	}
	return nil
}

func (c *memCache) keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.data))
	for k := range c.data {
		out = append(out, k)
	}
	return out
}

// --- Mock ObjectStore ---

type mockObjectStore struct {
	putFn          func(ctx context.Context, key string, body []byte, contentType string) (string, error)
	deletePrefixFn func(ctx context.Context, prefix string) (int, error)
}

func (m *mockObjectStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	if m.putFn != nil {
		return m.putFn(ctx, key, body, contentType)
	}
	return "https://cdn.example/" + key, nil
}

func (m *mockObjectStore) DeletePrefix(ctx context.Context, prefix string) (int, error) {
	if m.deletePrefixFn != nil {
		return m.deletePrefixFn(ctx, prefix)
	}
	return 0, nil
}
