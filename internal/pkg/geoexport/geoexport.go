// Package geoexport renders cleanups as GeoJSON and computes map bounds.
package geoexport

import (
	"fmt"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/samirrijal/litterbugs/internal/core/domain"
)

// FeatureCollection builds one Point feature per pin followed by a single
// LineString for the route. Malformed points are left out.
func FeatureCollection(route []domain.Coordinate, pins []domain.Pin) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	for _, pin := range pins {
		if !pin.Coords.Coordinate().Valid() {
			continue
		}
		f := geojson.NewFeature(toPoint(pin.Coords.Coordinate()))
		imageURL := pin.ImageURL
		if imageURL == "" {
			imageURL = "local_data"
		}
		f.Properties["title"] = pin.Title
		f.Properties["image_url"] = imageURL
		f.Properties["category"] = pin.Category
		fc.Append(f)
	}

	line := make(orb.LineString, 0, len(route))
	for _, c := range route {
		if c.Valid() {
			line = append(line, toPoint(c))
		}
	}
	fc.Append(geojson.NewFeature(line))

	return fc
}

// Marshal renders the collection for download.
func Marshal(route []domain.Coordinate, pins []domain.Pin) ([]byte, error) {
	data, err := FeatureCollection(route, pins).MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("marshal geojson: %w", err)
	}
	return data, nil
}

// FileName is the download name for an export made at t.
func FileName(t time.Time) string {
	return fmt.Sprintf("litter_bugs_data_%s.geojson", t.Format("2006-01-02_15-04"))
}

// RouteBounds returns the box enclosing the route and pins, or nil when
// there is nothing to frame.
func RouteBounds(route []domain.Coordinate, pins []domain.Pin) *domain.Bounds {
	mp := make(orb.MultiPoint, 0, len(route)+len(pins))
	for _, c := range route {
		if c.Valid() {
			mp = append(mp, toPoint(c))
		}
	}
	for _, p := range pins {
		if c := p.Coords.Coordinate(); c.Valid() {
			mp = append(mp, toPoint(c))
		}
	}
	if len(mp) == 0 {
		return nil
	}

	b := mp.Bound()
	return &domain.Bounds{
		MinLat: b.Min.Lat(),
		MinLng: b.Min.Lon(),
		MaxLat: b.Max.Lat(),
		MaxLng: b.Max.Lon(),
	}
}

func toPoint(c domain.Coordinate) orb.Point {
	return orb.Point{c.Lng(), c.Lat()}
}
