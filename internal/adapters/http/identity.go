package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// HeaderUserID carries the caller's identity. It is set by the gateway
// after authenticating the request.
const HeaderUserID = "X-User-ID"

const userIDLocal = "user_id"

// maxUserIDLen bounds the header so it is safe to use in keys and subjects.
const maxUserIDLen = 128

// IdentityMiddleware stores the caller's user id, if any, in the request locals.
func IdentityMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		uid := strings.TrimSpace(c.Get(HeaderUserID))
		if uid != "" && len(uid) <= maxUserIDLen {
			c.Locals(userIDLocal, uid)
		}
		return c.Next()
	}
}

// RequireUser rejects requests without an identity.
func RequireUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if userID(c) == "" {
			return errUnauthorized(c, "missing "+HeaderUserID+" header")
		}
		return c.Next()
	}
}

// userID returns the caller's id or "" for anonymous requests.
func userID(c *fiber.Ctx) string {
	uid, _ := c.Locals(userIDLocal).(string)
	return uid
}
