package middleware

import (
	"carmod-backend/internal/application/auth"
	"carmod-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// RequireAuth ensures a session principal is present. Returns 401 if not.
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if GetUser(c) == nil {
			return response.Unauthorized(c, auth.ErrSessionNotFound.Error())
		}
		return c.Next()
	}
}

// GetUser returns the session principal from Locals (nil if not logged in).
func GetUser(c *fiber.Ctx) *auth.Principal {
	p, _ := c.Locals(userLocal).(*auth.Principal)
	return p
}
