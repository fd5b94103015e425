package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/timeout"
	"github.com/gofiber/websocket/v2"

	"github.com/samirrijal/litterbugs/internal/pkg/metrics"
)

const (
	requestTimeout = 15 * time.Second
	uploadTimeout  = 60 * time.Second
)

func withTimeout(h fiber.Handler) fiber.Handler {
	return timeout.NewWithContext(h, requestTimeout)
}

// SetupRoutes registers all REST, GraphQL, and WebSocket routes.
func SetupRoutes(app *fiber.App, deps *Dependencies) {
	// Prometheus metrics
	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())

	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	app.Use(requestid.New())
	app.Use(IdentityMiddleware())
	app.Use(RequestIDLogMiddleware())
	app.Use(AccessLogMiddleware())

	// 120 requests per minute per caller, by user id when known
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			if uid := userID(c); uid != "" {
				return "user:" + uid
			}
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return newError(c, fiber.StatusTooManyRequests, "rate_limited", "too many requests, please try again later")
		},
	}))

	// Security headers + API version
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Set("X-API-Version", "1.0.0")
		return c.Next()
	})

	app.Use(DeprecationMiddleware(deprecatedRoutes))
	app.Use(ETagMiddleware())
	app.Use(CachingMiddleware())

	// Health & readiness (no timeout, fast internal checks)
	app.Get("/v1/health", HealthHandler())
	app.Get("/v1/ready", ReadyHandler(deps))

	v1 := app.Group("/v1")

	// Public reads
	v1.Get("/profiles/:id", withTimeout(GetProfileHandler(deps)))
	v1.Get("/leaderboard", withTimeout(LeaderboardHandler(deps)))
	v1.Get("/leaderboard/:metric", withTimeout(LeaderboardByMetricHandler(deps)))
	v1.Get("/badges", BadgesHandler())
	v1.Post("/summary", SummaryHandler())
	v1.Get("/routes", withTimeout(ListCommunityRoutesHandler(deps)))
	v1.Get("/routes/nearby", withTimeout(NearbyRoutesHandler(deps)))
	v1.Get("/meetups", withTimeout(ListMeetupsHandler(deps)))

	// Identity required below. Attached per route: a Use on "/v1/me" would
	// also match "/v1/meetups".
	auth := RequireUser()

	v1.Post("/profiles", auth, withTimeout(CreateProfileHandler(deps)))
	v1.Post("/routes", auth, withTimeout(PublishRouteHandler(deps)))
	v1.Delete("/routes/:id", auth, withTimeout(DeleteRouteHandler(deps)))
	v1.Post("/meetups", auth, withTimeout(ScheduleMeetupHandler(deps)))
	v1.Post("/photos", auth, timeout.NewWithContext(UploadPhotoHandler(deps), uploadTimeout))

	// The caller's own data
	me := v1.Group("/me")
	me.Get("/profile", auth, withTimeout(GetMyProfileHandler(deps)))
	me.Put("/profile", auth, withTimeout(UpdateMyProfileHandler(deps)))
	me.Post("/sessions", auth, withTimeout(SaveSessionHandler(deps)))
	me.Post("/sessions/import", auth, withTimeout(ImportSessionsHandler(deps)))
	me.Get("/sessions", auth, withTimeout(ListSessionsHandler(deps)))
	me.Get("/sessions/:id", auth, withTimeout(GetSessionHandler(deps)))
	me.Delete("/sessions/:id", auth, withTimeout(DeleteSessionHandler(deps)))
	me.Get("/sessions/:id/geojson", auth, withTimeout(ExportSessionHandler(deps)))
	me.Get("/routes", auth, withTimeout(ListMyRoutesHandler(deps)))
	v1.Delete("/me", auth, withTimeout(DeleteAccountHandler(deps)))

	app.Post("/graphql", GraphQLHandler(deps))

	SetupDocs(app, DefaultSpecPath)

	// WebSocket
	app.Use("/ws", func(c *fiber.Ctx) error {
		if deps.NATS == nil {
			return errUnavailable(c, "live feed not available")
		}
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", websocket.New(WebSocketHandler(deps.NATS)))
}
