//go:build integration
// +build integration

package postgres_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/samirrijal/litterbugs/internal/adapters/postgres"
	"github.com/samirrijal/litterbugs/internal/core/domain"
	"github.com/samirrijal/litterbugs/internal/pkg/config"
)

// setupTestDB connects to the database configured through LITTERBUGS_DATABASE_*.
// The schema from migrations/ must already be applied.
func setupTestDB(t *testing.T) *postgres.DB {
	t.Helper()
	cfg, err := config.Load("litterbugs-test")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(db.Close)
	return db
}

func testUser(t *testing.T) string {
	return "it-" + uuid.NewString()[:8]
}

func TestSessionRepo_LegacyRowsDecode(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	user := testUser(t)
	id := uuid.NewString()

	// a row written before coordinates were stored as objects
	if _, err := db.Pool.Exec(ctx, `
		INSERT INTO private_sessions (id, user_id, session_name, route, pins)
		VALUES ($1, $2, 'legacy', '[[-2.94,43.26],[-2.93,43.27]]'::jsonb,
		        '[{"id":"pin-1","coords":[-2.94,43.26],"title":"Can"}]'::jsonb)
	`, id, user); err != nil {
		t.Fatalf("seed: %v", err)
	}

	repo := postgres.NewSessionRepo(db)
	t.Cleanup(func() { _, _ = repo.DeleteByUser(ctx, user) })

	s, err := repo.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !domain.IsLegacyRoute(s.Route) {
		t.Fatalf("expected legacy route, got %+v", s.Route)
	}
	route := domain.DecodeRoute(s.Route)
	if route[1] != (domain.Coordinate{-2.93, 43.27}) {
		t.Errorf("unexpected decoded route %v", route)
	}
	if s.Pins[0].Coords.Form != domain.FormPair {
		t.Errorf("expected pair pin coords, got %v", s.Pins[0].Coords.Form)
	}
}

func TestSessionRepo_CreateListDelete(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	user := testUser(t)
	repo := postgres.NewSessionRepo(db)
	t.Cleanup(func() { _, _ = repo.DeleteByUser(ctx, user) })

	now := time.Now().UTC().Truncate(time.Millisecond)
	for i, name := range []string{"older", "newer"} {
		s := &domain.Session{
			ID:        uuid.NewString(),
			UserID:    user,
			Name:      name,
			Timestamp: now.Add(time.Duration(i) * time.Minute),
			Route:     domain.EncodeRoute([]domain.Coordinate{{1, 2}, {3, 4}}),
			Pins:      nil,
		}
		if err := repo.Create(ctx, s); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	list, err := repo.ListByUser(ctx, user)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].Name != "newer" {
		t.Fatalf("expected newest first, got %+v", list)
	}
	if list[0].Route[0].Form != domain.FormLabeled {
		t.Errorf("expected labeled route, got %v", list[0].Route[0].Form)
	}

	if err := repo.Delete(ctx, list[0].ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.GetByID(ctx, list[0].ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := repo.GetByID(ctx, "not-a-uuid"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound for malformed id, got %v", err)
	}
}

func TestProfileRepo_TotalsBadgesAndConflict(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	user := testUser(t)
	repo := postgres.NewProfileRepo(db)
	t.Cleanup(func() { _ = repo.Delete(ctx, user) })

	p := &domain.Profile{UserID: user, Username: user, Bio: "hi", CreatedAt: time.Now()}
	if err := repo.Create(ctx, p); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.Create(ctx, p); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}

	routeID := uuid.NewString()
	got, applied, err := repo.AddRouteTotals(ctx, user, routeID, domain.Totals{Pins: 3, DistanceMeters: 1200.5, Routes: 1})
	if err != nil {
		t.Fatalf("add totals: %v", err)
	}
	if !applied || got.TotalPins != 3 || got.TotalRoutes != 1 || got.TotalDistance != 1200.5 {
		t.Errorf("unexpected totals %+v (applied=%v)", got, applied)
	}

	// the same route again is a redelivery
	got, applied, err = repo.AddRouteTotals(ctx, user, routeID, domain.Totals{Pins: 3, DistanceMeters: 1200.5, Routes: 1})
	if err != nil {
		t.Fatalf("add totals again: %v", err)
	}
	if applied || got.TotalPins != 3 || got.TotalRoutes != 1 {
		t.Errorf("route counted twice: %+v (applied=%v)", got, applied)
	}

	if err := repo.AwardBadges(ctx, user, []string{"first_find", "trailblazer"}); err != nil {
		t.Fatalf("award: %v", err)
	}
	got, err = repo.GetByUserID(ctx, user)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.Badges["first_find"] || !got.Badges["trailblazer"] {
		t.Errorf("badges not merged: %v", got.Badges)
	}

	if _, _, err := repo.AddRouteTotals(ctx, "nobody-"+user, uuid.NewString(), domain.Totals{Routes: 1}); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestPublishedRouteRepo_StartingWithin(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	user := testUser(t)
	repo := postgres.NewPublishedRouteRepo(db)
	t.Cleanup(func() { _, _ = repo.DeleteByUser(ctx, user) })

	inside := &domain.PublishedRoute{
		ID: uuid.NewString(), UserID: user, Username: "it", Timestamp: time.Now(),
		Route: domain.EncodeRoute([]domain.Coordinate{{-2.935, 43.263}, {-2.934, 43.264}}),
		Start: domain.LngLat{Lng: -2.935, Lat: 43.263}, StartGeohash: "ezqhs0q",
	}
	outside := &domain.PublishedRoute{
		ID: uuid.NewString(), UserID: user, Username: "it", Timestamp: time.Now(),
		Route: domain.EncodeRoute([]domain.Coordinate{{2.17, 41.38}, {2.18, 41.39}}),
		Start: domain.LngLat{Lng: 2.17, Lat: 41.38}, StartGeohash: "sp3e3qe",
	}
	for _, r := range []*domain.PublishedRoute{inside, outside} {
		if err := repo.Create(ctx, r); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	got, err := repo.ListStartingWithin(ctx, domain.Bounds{MinLat: 43.2, MinLng: -3.0, MaxLat: 43.3, MaxLng: -2.9}, domain.LngLat{Lng: -2.935, Lat: 43.263}, 100)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	found := false
	for _, r := range got {
		if r.ID == outside.ID {
			t.Errorf("route outside the box returned")
		}
		if r.ID == inside.ID {
			found = true
		}
	}
	if !found {
		t.Errorf("route inside the box not returned")
	}
}

func TestPublishedRouteRepo_StartingWithinClosestFirst(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	user := testUser(t)
	repo := postgres.NewPublishedRouteRepo(db)
	t.Cleanup(func() { _, _ = repo.DeleteByUser(ctx, user) })

	// open sea, away from rows other tests write
	near := domain.LngLat{Lng: -12.5, Lat: 45.5}
	base := time.Now().Add(-time.Hour)
	// published oldest closest, so newest-first order would drop the closest
	starts := []domain.LngLat{
		{Lng: -12.5001, Lat: 45.5001},
		{Lng: -12.5050, Lat: 45.5020},
		{Lng: -12.5250, Lat: 45.5170},
	}
	ids := make([]string, len(starts))
	for i, st := range starts {
		ids[i] = uuid.NewString()
		err := repo.Create(ctx, &domain.PublishedRoute{
			ID: ids[i], UserID: user, Username: "it", Timestamp: base.Add(time.Duration(i) * time.Minute),
			Route: domain.EncodeRoute([]domain.Coordinate{{st.Lng, st.Lat}, {st.Lng + 0.001, st.Lat}}),
			Start: st, StartGeohash: "gbsuv7z",
		})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	got, err := repo.ListStartingWithin(ctx, domain.Bounds{MinLat: 45.4, MinLng: -12.6, MaxLat: 45.6, MaxLng: -12.4}, near, 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var mine []string
	for _, r := range got {
		if r.UserID == user {
			mine = append(mine, r.ID)
		}
	}
	if len(mine) != 2 || mine[0] != ids[0] || mine[1] != ids[1] {
		t.Errorf("want the two closest %v, got %v", ids[:2], mine)
	}
}
