package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
)

// Coordinate is a [lng, lat] pair, the order map renderers and GeoJSON use.
type Coordinate [2]float64

// Lng returns the longitude.
func (c Coordinate) Lng() float64 { return c[0] }

// Lat returns the latitude.
func (c Coordinate) Lat() float64 { return c[1] }

// Valid reports whether both components are finite numbers.
func (c Coordinate) Valid() bool { return finite(c[0]) && finite(c[1]) }

// MarshalJSON writes a missing (NaN) component as null.
func (c Coordinate) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]*float64{finitePtr(c[0]), finitePtr(c[1])})
}

// UnmarshalJSON reads [lng, lat]. A null or absent component becomes NaN.
func (c *Coordinate) UnmarshalJSON(data []byte) error {
	var arr []*float64
	if err := json.Unmarshal(data, &arr); err != nil {
		return fmt.Errorf("coordinate pair: %w", err)
	}
	if arr == nil {
		*c = Coordinate{math.NaN(), math.NaN()}
		return nil
	}
	*c = Coordinate{valueOrNaN(arr, 0), valueOrNaN(arr, 1)}
	return nil
}

// LngLat is the labeled form of a coordinate as it is kept in storage.
type LngLat struct {
	Lng float64 `json:"lng"`
	Lat float64 `json:"lat"`
}

type lngLatJSON struct {
	Lng *float64 `json:"lng,omitempty"`
	Lat *float64 `json:"lat,omitempty"`
}

// MarshalJSON leaves out a missing (NaN) field.
func (l LngLat) MarshalJSON() ([]byte, error) {
	return json.Marshal(lngLatJSON{Lng: finitePtr(l.Lng), Lat: finitePtr(l.Lat)})
}

// UnmarshalJSON reads {lng, lat}. A missing or null field becomes NaN so
// that it poisons any distance computed from it instead of reading as 0.
func (l *LngLat) UnmarshalJSON(data []byte) error {
	var raw lngLatJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	l.Lng, l.Lat = math.NaN(), math.NaN()
	if raw.Lng != nil {
		l.Lng = *raw.Lng
	}
	if raw.Lat != nil {
		l.Lat = *raw.Lat
	}
	return nil
}

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }

func finitePtr(f float64) *float64 {
	if !finite(f) {
		return nil
	}
	return &f
}

func valueOrNaN(arr []*float64, i int) float64 {
	if i >= len(arr) || arr[i] == nil {
		return math.NaN()
	}
	return *arr[i]
}

// CoordForm tags which representation a StoredCoordinate holds.
type CoordForm uint8

const (
	FormUnset CoordForm = iota
	FormPair
	FormLabeled
)

func (f CoordForm) String() string {
	switch f {
	case FormPair:
		return "pair"
	case FormLabeled:
		return "labeled"
	default:
		return "unset"
	}
}

// StoredCoordinate is a coordinate read from or written to storage.
// Older documents hold [lng, lat] arrays, newer ones {lng, lat} objects;
// the form is decided once by UnmarshalJSON and carried as a tag.
type StoredCoordinate struct {
	Form    CoordForm
	Pair    Coordinate
	Labeled LngLat
}

// PairOf wraps an ordered pair.
func PairOf(c Coordinate) StoredCoordinate {
	return StoredCoordinate{Form: FormPair, Pair: c}
}

// LabeledOf wraps a labeled record.
func LabeledOf(l LngLat) StoredCoordinate {
	return StoredCoordinate{Form: FormLabeled, Labeled: l}
}

// IsZero reports whether no coordinate is present.
func (s StoredCoordinate) IsZero() bool { return s.Form == FormUnset }

// Coordinate returns the value as an ordered pair regardless of form. An
// unset coordinate is {NaN, NaN}.
func (s StoredCoordinate) Coordinate() Coordinate {
	switch s.Form {
	case FormPair:
		return s.Pair
	case FormLabeled:
		return Coordinate{s.Labeled.Lng, s.Labeled.Lat}
	default:
		return Coordinate{math.NaN(), math.NaN()}
	}
}

// MarshalJSON writes a pair as an array, a labeled record as an object and
// an unset coordinate as null.
func (s StoredCoordinate) MarshalJSON() ([]byte, error) {
	switch s.Form {
	case FormPair:
		return json.Marshal(s.Pair)
	case FormLabeled:
		return json.Marshal(s.Labeled)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON picks the form from the JSON shape of the value.
func (s *StoredCoordinate) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*s = StoredCoordinate{}
		return nil
	}

	switch data[0] {
	case '[':
		var arr []*float64
		if err := json.Unmarshal(data, &arr); err != nil {
			return fmt.Errorf("coordinate pair: %w", err)
		}
		if len(arr) < 2 {
			return fmt.Errorf("coordinate pair: want 2 values, got %d", len(arr))
		}
		*s = PairOf(Coordinate{valueOrNaN(arr, 0), valueOrNaN(arr, 1)})
		return nil
	case '{':
		var l LngLat
		if err := json.Unmarshal(data, &l); err != nil {
			return fmt.Errorf("coordinate record: %w", err)
		}
		*s = LabeledOf(l)
		return nil
	default:
		return fmt.Errorf("coordinate: unexpected JSON %q", data)
	}
}

// StoredRoute is a route as persisted.
type StoredRoute []StoredCoordinate

// Bounds represents a geographic bounding box.
type Bounds struct {
	MinLat float64 `json:"min_lat"`
	MinLng float64 `json:"min_lng"`
	MaxLat float64 `json:"max_lat"`
	MaxLng float64 `json:"max_lng"`
}

// ValidateTrack rejects a route or pin set containing a point that is not
// a finite coordinate. Pins without coordinates are allowed.
func ValidateTrack(route []Coordinate, pins []Pin) error {
	for i, c := range route {
		if !c.Valid() {
			return fmt.Errorf("route point %d is not a finite coordinate: %w", i, ErrInvalidInput)
		}
	}
	for i, p := range pins {
		if !p.Coords.IsZero() && !p.Coords.Coordinate().Valid() {
			return fmt.Errorf("pin %d has a non-finite coordinate: %w", i, ErrInvalidInput)
		}
	}
	return nil
}

// Meters is a computed distance. It reads as null in JSON when a malformed
// point made it NaN.
type Meters float64

// Valid reports whether the distance is a finite number.
func (m Meters) Valid() bool { return finite(float64(m)) }

func (m Meters) MarshalJSON() ([]byte, error) {
	if !m.Valid() {
		return []byte("null"), nil
	}
	return json.Marshal(float64(m))
}

func (m *Meters) UnmarshalJSON(data []byte) error {
	var f *float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	if f == nil {
		*m = Meters(math.NaN())
		return nil
	}
	*m = Meters(*f)
	return nil
}
