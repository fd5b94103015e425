package usecases

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/samirrijal/litterbugs/internal/core/domain"
	"github.com/samirrijal/litterbugs/internal/core/ports"
	"github.com/samirrijal/litterbugs/internal/pkg/geoexport"
	"github.com/samirrijal/litterbugs/internal/pkg/geospatial"
)

// SessionService handles privately saved cleanups.
type SessionService struct {
	sessions ports.SessionRepository
}

// NewSessionService creates a new SessionService.
func NewSessionService(sessions ports.SessionRepository) *SessionService {
	return &SessionService{sessions: sessions}
}

// SaveSession encodes and stores a finished cleanup. An empty name becomes
// "Cleanup on <date>".
func (s *SessionService) SaveSession(ctx context.Context, userID, name string, route []domain.Coordinate, pins []domain.Pin) (*domain.Session, error) {
	if err := domain.ValidateTrack(route, pins); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultSessionName(now)
	}

	session := &domain.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		Name:      name,
		Timestamp: now,
		Route:     domain.EncodeRoute(route),
		Pins:      domain.EncodePins(pins),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return session, nil
}

// ListSessions returns the user's sessions, newest first.
func (s *SessionService) ListSessions(ctx context.Context, userID string) ([]domain.SessionSummary, error) {
	sessions, err := s.sessions.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	out := make([]domain.SessionSummary, len(sessions))
	for i, sess := range sessions {
		out[i] = domain.SessionSummary{
			ID:             sess.ID,
			Name:           sess.Name,
			Timestamp:      sess.Timestamp,
			DistanceMeters: sessionDistance(ctx, sess.ID, domain.DecodeRoute(sess.Route)),
			PinCount:       len(sess.Pins),
		}
	}
	return out, nil
}

// LoadSession returns a session decoded for the map.
func (s *SessionService) LoadSession(ctx context.Context, userID, id string) (*domain.SessionView, error) {
	sess, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	route := domain.DecodeRoute(sess.Route)
	pins := domain.DecodePins(sess.Pins)
	return &domain.SessionView{
		ID:             sess.ID,
		Name:           sess.Name,
		Timestamp:      sess.Timestamp,
		Route:          route,
		Pins:           pins,
		DistanceMeters: sessionDistance(ctx, sess.ID, route),
		Bounds:         geoexport.RouteBounds(route, pins),
	}, nil
}

// DeleteSession removes one of the user's sessions.
func (s *SessionService) DeleteSession(ctx context.Context, userID, id string) error {
	if _, err := s.owned(ctx, userID, id); err != nil {
		return err
	}
	if err := s.sessions.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// ExportSessionGeoJSON renders a session as a GeoJSON download and returns
// the suggested file name with it.
func (s *SessionService) ExportSessionGeoJSON(ctx context.Context, userID, id string) ([]byte, string, error) {
	sess, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, "", err
	}

	data, err := geoexport.Marshal(domain.DecodeRoute(sess.Route), domain.DecodePins(sess.Pins))
	if err != nil {
		return nil, "", err
	}
	return data, geoexport.FileName(time.Now()), nil
}

func (s *SessionService) owned(ctx context.Context, userID, id string) (*domain.Session, error) {
	sess, err := s.sessions.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get session %s: %w", id, err)
	}
	// someone else's session is reported as missing
	if sess.UserID != userID {
		return nil, fmt.Errorf("session %s: %w", id, domain.ErrNotFound)
	}
	return sess, nil
}

// sessionDistance measures a stored route. A malformed point yields an
// unknown (null) distance rather than a wrong one.
func sessionDistance(ctx context.Context, id string, route []domain.Coordinate) domain.Meters {
	m := domain.Meters(geospatial.RouteDistanceMeters(route))
	if !m.Valid() {
		slog.WarnContext(ctx, "session route has malformed points", "session_id", id)
	}
	return m
}

// DefaultSessionName is the name given to sessions saved without one.
func DefaultSessionName(t time.Time) string {
	return "Cleanup on " + t.Format("2006-01-02")
}

// Summarize describes a finished tracking session.
func Summarize(route []domain.Coordinate, pinCount int, startedAt, endedAt time.Time) domain.CleanupSummary {
	meters := geospatial.RouteDistanceMeters(route)
	miles := geospatial.MetersToMiles(meters)

	d := endedAt.Sub(startedAt)
	if d < 0 {
		d = 0
	}
	minutes := int64(d / time.Minute)
	seconds := int64(math.Round(float64(d%time.Minute) / float64(time.Second)))

	return domain.CleanupSummary{
		DistanceMeters: meters,
		DistanceMiles:  miles,
		Pins:           pinCount,
		Duration:       d,
		DurationText:   fmt.Sprintf("%dm %ds", minutes, seconds),
		ShareText: fmt.Sprintf(
			"I just cleaned up %.2f mi and pinned %d items with the Litter Bugs app! Join the movement and help clean our planet. #LitterBugs #Cleanup",
			miles, pinCount,
		),
	}
}

// ImportGuestSessions saves browser-stored sessions for userID. Sessions
// from before the labeled storage format are decoded and re-encoded;
// sessions with nothing in them are skipped.
func (s *SessionService) ImportGuestSessions(ctx context.Context, userID string, guests []domain.GuestSession) (domain.ImportReport, error) {
	var report domain.ImportReport
	for i, g := range guests {
		if len(g.Route) == 0 && len(g.Pins) == 0 {
			report.Skipped++
			continue
		}
		if domain.IsLegacyRoute(g.Route) {
			report.Legacy++
			slog.InfoContext(ctx, "importing legacy guest session", "index", i, "name", g.SessionName)
		}

		ts := g.Timestamp.UTC()
		if ts.IsZero() {
			ts = time.Now().UTC()
		}
		name := strings.TrimSpace(g.SessionName)
		if name == "" {
			name = DefaultSessionName(ts)
		}

		session := &domain.Session{
			ID:        uuid.NewString(),
			UserID:    userID,
			Name:      name,
			Timestamp: ts,
			Route:     domain.EncodeRoute(domain.DecodeRoute(g.Route)),
			Pins:      domain.EncodePins(domain.DecodePins(g.Pins)),
		}
		if err := s.sessions.Create(ctx, session); err != nil {
			return report, fmt.Errorf("import guest session %d: %w", i, err)
		}
		report.Imported++
	}
	return report, nil
}
