package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// CachingMiddleware sets Cache-Control headers on GET responses the handler
// left alone. Anything scoped to the caller is never cached by shared caches.
func CachingMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()

		if c.Method() != fiber.MethodGet {
			return err
		}
		if c.GetRespHeader(fiber.HeaderCacheControl) != "" {
			return err
		}

		if ttl := cacheControlFor(c.Path()); ttl != "" {
			c.Set(fiber.HeaderCacheControl, ttl)
		}
		return err
	}
}

func cacheControlFor(path string) string {
	switch {
	case path == "/v1/health" || path == "/v1/ready":
		return "public, max-age=10"
	case path == "/metrics":
		return "no-cache"
	case path == "/graphql":
		return "private, max-age=0"
	case path == "/v1/me" || strings.HasPrefix(path, "/v1/me/"):
		return "private, no-store"
	case path == "/v1/badges":
		return "public, max-age=3600"
	case strings.HasPrefix(path, "/v1/leaderboard"):
		return "public, max-age=60"
	case path == "/v1/routes/nearby":
		return "public, max-age=120"
	case path == "/v1/routes":
		return "public, max-age=60"
	case strings.HasPrefix(path, "/v1/profiles/"):
		return "public, max-age=60"
	case strings.HasPrefix(path, "/v1/meetups"):
		return "public, max-age=30"
	case strings.HasPrefix(path, "/v1/"):
		return "public, max-age=60"
	}
	return ""
}
