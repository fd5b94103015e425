package geospatial

import (
	"math"

	"github.com/samirrijal/litterbugs/internal/core/domain"
)

const (
	earthRadiusMeters = 6371000.0
	metersToMiles     = 0.000621371
)

// Haversine calculates the great-circle distance in meters between two points.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusMeters * c
}

// RouteDistanceMeters sums the Haversine distance over consecutive points.
// Routes with fewer than two points have zero length.
func RouteDistanceMeters(route []domain.Coordinate) float64 {
	if len(route) < 2 {
		return 0
	}

	var total float64
	for i := 0; i < len(route)-1; i++ {
		p1, p2 := route[i], route[i+1]
		total += Haversine(p1.Lat(), p1.Lng(), p2.Lat(), p2.Lng())
	}
	return total
}

// MetersToMiles converts meters to statute miles for display.
func MetersToMiles(m float64) float64 {
	return m * metersToMiles
}

// BoundingBox returns a bounding box around a point with the given radius in meters.
func BoundingBox(lat, lon, radiusMeters float64) (minLat, minLon, maxLat, maxLon float64) {
	latDelta := radiusMeters / 111320.0
	lonDelta := radiusMeters / (111320.0 * math.Cos(toRad(lat)))

	return lat - latDelta, lon - lonDelta, lat + latDelta, lon + lonDelta
}

// GrowBounds widens b by radiusMeters on every side, so any circle of that
// radius centred inside b lies inside the result.
func GrowBounds(b domain.Bounds, radiusMeters float64) domain.Bounds {
	out := b
	for _, lat := range []float64{b.MinLat, b.MaxLat} {
		for _, lon := range []float64{b.MinLng, b.MaxLng} {
			minLat, minLon, maxLat, maxLon := BoundingBox(lat, lon, radiusMeters)
			out.MinLat = math.Min(out.MinLat, minLat)
			out.MinLng = math.Min(out.MinLng, minLon)
			out.MaxLat = math.Max(out.MaxLat, maxLat)
			out.MaxLng = math.Max(out.MaxLng, maxLon)
		}
	}
	return out
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
