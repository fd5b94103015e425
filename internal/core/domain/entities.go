package domain

import (
	"time"
)

// Pin is a geotagged litter photo dropped during a cleanup.
type Pin struct {
	ID       string           `json:"id"`
	Coords   StoredCoordinate `json:"coords"`
	Title    string           `json:"title"`
	Category string           `json:"category"`
	ImageURL string           `json:"imageURL,omitempty"`
	Image    string           `json:"image,omitempty"` // inline data URL, guest sessions only
	Metadata map[string]any   `json:"metadata,omitempty"`
}

// Session is a privately saved cleanup.
type Session struct {
	ID        string      `json:"id"`
	UserID    string      `json:"user_id"`
	Name      string      `json:"session_name"`
	Timestamp time.Time   `json:"timestamp"`
	Route     StoredRoute `json:"route"`
	Pins      []Pin       `json:"pins"`
}

// SessionSummary is a list entry for a saved session.
type SessionSummary struct {
	ID             string    `json:"id"`
	Name           string    `json:"session_name"`
	Timestamp      time.Time `json:"timestamp"`
	DistanceMeters Meters    `json:"distance_meters"`
	PinCount       int       `json:"pin_count"`
}

// SessionView is a saved session decoded for the map.
type SessionView struct {
	ID             string       `json:"id"`
	Name           string       `json:"session_name"`
	Timestamp      time.Time    `json:"timestamp"`
	Route          []Coordinate `json:"route"`
	Pins           []Pin        `json:"pins"`
	DistanceMeters Meters       `json:"distance_meters"`
	Bounds         *Bounds      `json:"bounds,omitempty"`
}

// PublishedRoute is a cleanup shared on the community map.
type PublishedRoute struct {
	ID             string      `json:"id"`
	UserID         string      `json:"user_id"`
	Username       string      `json:"username"`
	Timestamp      time.Time   `json:"timestamp"`
	Route          StoredRoute `json:"route"`
	Pins           []Pin       `json:"pins"`
	DistanceMeters float64     `json:"distance_meters"`
	Start          LngLat      `json:"start"`
	StartGeohash   string      `json:"start_geohash"`
}

// CommunityRoute is a published route decoded for the map.
type CommunityRoute struct {
	ID             string       `json:"id"`
	UserID         string       `json:"user_id"`
	Username       string       `json:"username"`
	Timestamp      time.Time    `json:"timestamp"`
	Route          []Coordinate `json:"route"`
	Pins           []Pin        `json:"pins"`
	DistanceMeters float64      `json:"distance_meters"`
	Distance       *float64     `json:"distance,omitempty"` // from query point, nearby search only
}

// Profile is a user's public profile with cumulative cleanup totals.
type Profile struct {
	UserID           string          `json:"user_id"`
	Username         string          `json:"username"`
	Bio              string          `json:"bio"`
	Location         string          `json:"location"`
	BuyMeACoffeeLink string          `json:"buy_me_a_coffee_link"`
	Badges           map[string]bool `json:"badges"`
	TotalPins        int             `json:"total_pins"`
	TotalDistance    float64         `json:"total_distance"` // meters
	TotalRoutes      int             `json:"total_routes"`
	CreatedAt        time.Time       `json:"created_at"`
}

// ProfileView is a profile prepared for display.
type ProfileView struct {
	Profile
	TotalDistanceMiles float64 `json:"total_distance_miles"`
	EarnedBadges       []Badge `json:"earned_badges"`
}

// LeaderboardEntry is one ranked row of the leaderboard.
type LeaderboardEntry struct {
	Rank     int     `json:"rank"`
	UserID   string  `json:"user_id"`
	Username string  `json:"username"`
	Score    float64 `json:"score"`
	Display  string  `json:"display"`
}

// Meetup is a community cleanup scheduled at a point of interest.
type Meetup struct {
	ID            string    `json:"id"`
	OrganizerID   string    `json:"organizer_id"`
	OrganizerName string    `json:"organizer_name"`
	PoiName       string    `json:"poi_name"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	CreatedAt     time.Time `json:"created_at"`
}

// Photo is an uploaded litter photo.
type Photo struct {
	PinID       string `json:"pin_id"`
	Key         string `json:"key"`
	URL         string `json:"url"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

// CleanupSummary describes a finished tracking session.
type CleanupSummary struct {
	DistanceMeters float64       `json:"distance_meters"`
	DistanceMiles  float64       `json:"distance_miles"`
	Pins           int           `json:"pins"`
	Duration       time.Duration `json:"duration"`
	DurationText   string        `json:"duration_text"`
	ShareText      string        `json:"share_text"`
}

// RoutePublished is emitted after a route lands on the community map.
type RoutePublished struct {
	RouteID        string    `json:"route_id"`
	UserID         string    `json:"user_id"`
	Username       string    `json:"username"`
	DistanceMeters float64   `json:"distance_meters"`
	PinCount       int       `json:"pin_count"`
	PublishedAt    time.Time `json:"published_at"`
}

// BadgeAwarded is emitted once per newly earned badge.
type BadgeAwarded struct {
	UserID    string    `json:"user_id"`
	Badge     string    `json:"badge"`
	AwardedAt time.Time `json:"awarded_at"`
}

// LeaderboardMetric selects the profile counter the leaderboard ranks by.
type LeaderboardMetric string

const (
	MetricTotalDistance LeaderboardMetric = "totalDistance"
	MetricTotalPins     LeaderboardMetric = "totalPins"
)

// Valid reports whether m is a known metric.
func (m LeaderboardMetric) Valid() bool {
	return m == MetricTotalDistance || m == MetricTotalPins
}

// Totals returns the profile's cumulative counters.
func (p *Profile) Totals() Totals {
	return Totals{Pins: p.TotalPins, DistanceMeters: p.TotalDistance, Routes: p.TotalRoutes}
}

// GuestSession is a cleanup saved in the browser before the user had an
// account, as found in a local storage export.
type GuestSession struct {
	SessionName string      `json:"sessionName"`
	Timestamp   time.Time   `json:"timestamp"`
	Route       StoredRoute `json:"route"`
	Pins        []Pin       `json:"pins"`
}

// ImportReport counts the outcome of a guest session import.
type ImportReport struct {
	Imported int `json:"imported"`
	Legacy   int `json:"legacy"`
	Skipped  int `json:"skipped"`
}
