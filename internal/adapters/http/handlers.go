package http

import (
	"io"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/litterbugs/internal/core/domain"
	"github.com/samirrijal/litterbugs/internal/core/usecases"
	"github.com/samirrijal/litterbugs/internal/pkg/geospatial"
	"github.com/samirrijal/litterbugs/internal/pkg/metrics"
)

// ---- Request bodies ----

type createProfileRequest struct {
	Username string `json:"username" validate:"required,max=40"`
}

type updateProfileRequest struct {
	Bio              string `json:"bio" validate:"max=280"`
	Location         string `json:"location" validate:"max=100"`
	BuyMeACoffeeLink string `json:"buy_me_a_coffee_link" validate:"omitempty,url"`
}

type saveSessionRequest struct {
	SessionName string              `json:"session_name" validate:"max=100"`
	Route       []domain.Coordinate `json:"route"`
	Pins        []domain.Pin        `json:"pins"`
}

type importSessionsRequest struct {
	Sessions []domain.GuestSession `json:"sessions" validate:"required,max=500"`
}

type publishRouteRequest struct {
	Route []domain.Coordinate `json:"route"`
	Pins  []domain.Pin        `json:"pins"`
}

type summaryRequest struct {
	Route     []domain.Coordinate `json:"route"`
	PinCount  int                 `json:"pin_count" validate:"gte=0"`
	StartedAt time.Time           `json:"started_at" validate:"required"`
	EndedAt   time.Time           `json:"ended_at" validate:"required"`
}

type scheduleMeetupRequest struct {
	PoiName            string `json:"poi_name" validate:"required,max=200"`
	Title              string `json:"title" validate:"required"`
	Description        string `json:"description" validate:"required"`
	SafetyAcknowledged bool   `json:"safety_acknowledged"`
}

// LeaderboardResponse is the body of the leaderboard endpoints.
type LeaderboardResponse struct {
	Metric  domain.LeaderboardMetric  `json:"metric"`
	Entries []domain.LeaderboardEntry `json:"entries"`
}

// ---- Profiles ----

// CreateProfileHandler creates the caller's public profile.
func CreateProfileHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req createProfileRequest
		if ok, err := bindJSON(c, &req); !ok {
			return err
		}

		p, err := deps.Profiles.CreateProfile(c.UserContext(), userID(c), req.Username)
		if err != nil {
			return errFromService(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(usecases.NewProfileView(p))
	}
}

// GetProfileHandler returns a public profile by user id.
func GetProfileHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "user id is required")
		}
		view, err := deps.Profiles.GetProfile(c.UserContext(), id)
		if err != nil {
			return errFromService(c, err)
		}
		return c.JSON(view)
	}
}

// GetMyProfileHandler returns the caller's own profile.
func GetMyProfileHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		view, err := deps.Profiles.GetProfile(c.UserContext(), userID(c))
		if err != nil {
			return errFromService(c, err)
		}
		return c.JSON(view)
	}
}

// UpdateMyProfileHandler replaces the caller's bio, location and coffee link.
func UpdateMyProfileHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req updateProfileRequest
		if ok, err := bindJSON(c, &req); !ok {
			return err
		}

		view, err := deps.Profiles.UpdateProfile(c.UserContext(), userID(c), req.Bio, req.Location, req.BuyMeACoffeeLink)
		if err != nil {
			return errFromService(c, err)
		}
		return c.JSON(view)
	}
}

// LeaderboardHandler ranks users by ?metric= (totalDistance by default).
func LeaderboardHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		metric := domain.LeaderboardMetric(c.Query("metric", string(domain.MetricTotalDistance)))
		return leaderboard(c, deps, metric)
	}
}

// LeaderboardByMetricHandler serves the older path-parameter form.
func LeaderboardByMetricHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return leaderboard(c, deps, domain.LeaderboardMetric(c.Params("metric")))
	}
}

func leaderboard(c *fiber.Ctx, deps *Dependencies, metric domain.LeaderboardMetric) error {
	entries, err := deps.Profiles.Leaderboard(c.UserContext(), metric, c.QueryInt("limit", 0))
	if err != nil {
		return errFromService(c, err)
	}
	c.Set("Cache-Control", "public, max-age=60")
	return c.JSON(LeaderboardResponse{Metric: metric, Entries: entries})
}

// BadgesHandler returns the badge catalog.
func BadgesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(domain.AllBadges())
	}
}

// ---- Private sessions ----

// SaveSessionHandler stores a finished cleanup for the caller.
func SaveSessionHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req saveSessionRequest
		if ok, err := bindJSON(c, &req); !ok {
			return err
		}

		sess, err := deps.Sessions.SaveSession(c.UserContext(), userID(c), req.SessionName, req.Route, req.Pins)
		if err != nil {
			return errFromService(c, err)
		}
		metrics.SessionsSaved.Inc()

		return c.Status(fiber.StatusCreated).JSON(domain.SessionSummary{
			ID:             sess.ID,
			Name:           sess.Name,
			Timestamp:      sess.Timestamp,
			DistanceMeters: domain.Meters(geospatial.RouteDistanceMeters(req.Route)),
			PinCount:       len(sess.Pins),
		})
	}
}

// ImportSessionsHandler saves sessions the caller recorded as a guest.
func ImportSessionsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req importSessionsRequest
		if ok, err := bindJSON(c, &req); !ok {
			return err
		}

		report, err := deps.Sessions.ImportGuestSessions(c.UserContext(), userID(c), req.Sessions)
		if err != nil {
			return errFromService(c, err)
		}
		metrics.SessionsSaved.Add(float64(report.Imported))
		return c.JSON(report)
	}
}

// ListSessionsHandler lists the caller's sessions, newest first.
func ListSessionsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sessions, err := deps.Sessions.ListSessions(c.UserContext(), userID(c))
		if err != nil {
			return errFromService(c, err)
		}
		return c.JSON(sessions)
	}
}

// GetSessionHandler returns one decoded session.
func GetSessionHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		view, err := deps.Sessions.LoadSession(c.UserContext(), userID(c), c.Params("id"))
		if err != nil {
			return errFromService(c, err)
		}
		return c.JSON(view)
	}
}

// DeleteSessionHandler removes one of the caller's sessions.
func DeleteSessionHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := deps.Sessions.DeleteSession(c.UserContext(), userID(c), c.Params("id")); err != nil {
			return errFromService(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// ExportSessionHandler downloads a session as GeoJSON.
func ExportSessionHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		data, filename, err := deps.Sessions.ExportSessionGeoJSON(c.UserContext(), userID(c), c.Params("id"))
		if err != nil {
			return errFromService(c, err)
		}
		c.Set("Content-Type", "application/geo+json")
		c.Set("Content-Disposition", `attachment; filename="`+filename+`"`)
		return c.Send(data)
	}
}

// SummaryHandler describes a finished tracking session without storing it.
func SummaryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req summaryRequest
		if ok, err := bindJSON(c, &req); !ok {
			return err
		}
		if req.EndedAt.Before(req.StartedAt) {
			return errBadRequest(c, "ended_at is before started_at")
		}
		if err := domain.ValidateTrack(req.Route, nil); err != nil {
			return errBadRequest(c, err.Error())
		}
		return c.JSON(usecases.Summarize(req.Route, req.PinCount, req.StartedAt, req.EndedAt))
	}
}

// ---- Community routes ----

// PublishRouteHandler shares a cleanup on the community map.
func PublishRouteHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req publishRouteRequest
		if ok, err := bindJSON(c, &req); !ok {
			return err
		}

		route, err := deps.Routes.Publish(c.UserContext(), userID(c), req.Route, req.Pins)
		if err != nil {
			return errFromService(c, err)
		}
		metrics.RoutesPublished.Inc()
		metrics.MetersPublished.Add(route.DistanceMeters)
		metrics.PinsPublished.Add(float64(len(route.Pins)))

		return c.Status(fiber.StatusCreated).JSON(route)
	}
}

// ListCommunityRoutesHandler returns published routes, newest first.
func ListCommunityRoutesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		offset := c.QueryInt("offset", 0)
		limit := c.QueryInt("limit", 50)
		if offset < 0 {
			offset = 0
		}
		if limit <= 0 || limit > 100 {
			limit = 50
		}

		routes, err := deps.Routes.ListCommunity(c.UserContext(), offset, limit)
		if err != nil {
			return errFromService(c, err)
		}

		pg := Pagination{Offset: offset, Limit: limit, Count: len(routes)}
		SetLinkHeaders(c, pg)
		return c.JSON(PaginatedResponse{Data: routes, Pagination: pg})
	}
}

// NearbyRoutesHandler returns routes starting near ?lat=&lng=.
func NearbyRoutesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		lat, err := strconv.ParseFloat(c.Query("lat"), 64)
		if err != nil {
			return errBadRequest(c, "lat and lng are required")
		}
		lng, err := strconv.ParseFloat(c.Query("lng"), 64)
		if err != nil {
			return errBadRequest(c, "lat and lng are required")
		}
		radius := c.QueryFloat("radius", 0)
		if radius < 0 {
			return errBadRequest(c, "radius must be positive")
		}

		routes, err := deps.Routes.ListNearby(c.UserContext(), lat, lng, radius, c.QueryInt("limit", 0))
		if err != nil {
			return errFromService(c, err)
		}
		return c.JSON(routes)
	}
}

// ListMyRoutesHandler returns the caller's published routes.
func ListMyRoutesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		routes, err := deps.Routes.ListMine(c.UserContext(), userID(c))
		if err != nil {
			return errFromService(c, err)
		}
		return c.JSON(routes)
	}
}

// DeleteRouteHandler removes a route the caller published.
func DeleteRouteHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := deps.Routes.Delete(c.UserContext(), userID(c), c.Params("id")); err != nil {
			return errFromService(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// ---- Meetups ----

// ScheduleMeetupHandler schedules a community cleanup.
func ScheduleMeetupHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req scheduleMeetupRequest
		if ok, err := bindJSON(c, &req); !ok {
			return err
		}

		m, err := deps.Meetups.ScheduleMeetup(c.UserContext(), userID(c), req.PoiName, req.Title, req.Description, req.SafetyAcknowledged)
		if err != nil {
			return errFromService(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(m)
	}
}

// ListMeetupsHandler lists meetups at ?poi=.
func ListMeetupsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		meetups, err := deps.Meetups.ListMeetups(c.UserContext(), c.Query("poi"))
		if err != nil {
			return errFromService(c, err)
		}
		return c.JSON(meetups)
	}
}

// ---- Photos ----

// UploadPhotoHandler stores the multipart field "photo".
func UploadPhotoHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if deps.Photos == nil {
			return errUnavailable(c, "photo storage not configured")
		}

		fh, err := c.FormFile("photo")
		if err != nil {
			return errBadRequest(c, "multipart field photo is required")
		}
		if fh.Size > deps.Photos.MaxBytes() {
			return newError(c, fiber.StatusRequestEntityTooLarge, "too_large",
				"photo exceeds "+strconv.FormatInt(deps.Photos.MaxBytes(), 10)+" bytes")
		}

		f, err := fh.Open()
		if err != nil {
			return errBadRequest(c, "unreadable upload")
		}
		defer f.Close()

		data, err := io.ReadAll(io.LimitReader(f, deps.Photos.MaxBytes()+1))
		if err != nil {
			return errBadRequest(c, "unreadable upload")
		}

		photo, err := deps.Photos.UploadPhoto(c.UserContext(), userID(c), fh.Filename, data)
		if err != nil {
			return errFromService(c, err)
		}
		metrics.PhotosUploaded.WithLabelValues(photo.ContentType).Inc()

		return c.Status(fiber.StatusCreated).JSON(photo)
	}
}

// ---- Account ----

// DeleteAccountHandler removes everything stored for the caller. With a
// workflow engine configured the deletion runs in the background.
func DeleteAccountHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		workflowID, err := deps.Accounts.RequestDeletion(c.UserContext(), userID(c))
		if err != nil {
			return errFromService(c, err)
		}
		if workflowID != "" {
			return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
				"status":      "scheduled",
				"workflow_id": workflowID,
			})
		}
		return c.JSON(fiber.Map{"status": "deleted"})
	}
}
