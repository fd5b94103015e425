package geospatial

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/samirrijal/litterbugs/internal/core/domain"
)

func TestRouteDistanceMeters(t *testing.T) {
	cases := []struct {
		name  string
		route []domain.Coordinate
		want  float64
		tol   float64
	}{
		{"nil", nil, 0, 0},
		{"empty", []domain.Coordinate{}, 0, 0},
		{"single point", []domain.Coordinate{{0, 0}}, 0, 0},
		{"one degree at the equator", []domain.Coordinate{{0, 0}, {0, 1}}, 111195, 1},
		{"one degree of longitude at the equator", []domain.Coordinate{{0, 0}, {1, 0}}, 111195, 1},
		{"san francisco to new york", []domain.Coordinate{{-122.4194, 37.7749}, {-73.9857, 40.7484}}, 4130000, 41300},
		{"repeated point", []domain.Coordinate{{-2.93, 43.26}, {-2.93, 43.26}}, 0, 1e-9},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := RouteDistanceMeters(tc.route)
			if math.Abs(got-tc.want) > tc.tol {
				t.Fatalf("RouteDistanceMeters() = %f; want %f ± %f", got, tc.want, tc.tol)
			}
		})
	}
}

func TestRouteDistanceMeters_SumsSegments(t *testing.T) {
	a := domain.Coordinate{-2.9350, 43.2630}
	b := domain.Coordinate{-2.9300, 43.2650}
	c := domain.Coordinate{-2.9250, 43.2700}

	whole := RouteDistanceMeters([]domain.Coordinate{a, b, c})
	parts := RouteDistanceMeters([]domain.Coordinate{a, b}) + RouteDistanceMeters([]domain.Coordinate{b, c})

	if math.Abs(whole-parts) > 1e-6 {
		t.Fatalf("whole %f != sum of parts %f", whole, parts)
	}
}

func TestRouteDistanceMeters_NaNPropagates(t *testing.T) {
	got := RouteDistanceMeters([]domain.Coordinate{{0, 0}, {math.NaN(), 1}})
	if !math.IsNaN(got) {
		t.Fatalf("expected NaN, got %f", got)
	}
}

func TestRouteDistanceMeters_MalformedStoredPoint(t *testing.T) {
	for _, input := range []string{
		`[{"lng":-2.93,"lat":43.26},{"lng":-2.94}]`,
		`[{"lng":-2.93,"lat":43.26},null]`,
	} {
		var stored domain.StoredRoute
		if err := json.Unmarshal([]byte(input), &stored); err != nil {
			t.Fatalf("unmarshal %s: %v", input, err)
		}
		if got := RouteDistanceMeters(domain.DecodeRoute(stored)); !math.IsNaN(got) {
			t.Errorf("%s: expected NaN, got %f", input, got)
		}
	}
}

func TestMetersToMiles(t *testing.T) {
	if got := MetersToMiles(1609.344); math.Abs(got-1) > 1e-4 {
		t.Fatalf("MetersToMiles(1609.344) = %f; want 1", got)
	}
	if got := MetersToMiles(0); got != 0 {
		t.Fatalf("MetersToMiles(0) = %f; want 0", got)
	}
}

func TestBoundingBox_ContainsRadius(t *testing.T) {
	lat, lon := 43.263, -2.935
	minLat, minLon, maxLat, maxLon := BoundingBox(lat, lon, 1000)

	if minLat >= lat || maxLat <= lat || minLon >= lon || maxLon <= lon {
		t.Fatalf("box does not surround the point: %f %f %f %f", minLat, minLon, maxLat, maxLon)
	}
	if d := Haversine(lat, lon, maxLat, lon); math.Abs(d-1000) > 10 {
		t.Fatalf("north edge %f m away; want ~1000", d)
	}
}
