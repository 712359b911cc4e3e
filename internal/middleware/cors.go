package middleware

import (
	"strings"

	"carmod-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// CORSConfig lists the browser origins allowed to call the API.
type CORSConfig struct {
	AllowedOrigins []string
}

// CORS allows same-origin and tool requests, localhost origins, and the configured
// origins. Credentials are allowed so the session cookie travels with requests.
func CORS(cfg CORSConfig) fiber.Handler {
	allowed := make(map[string]struct{}, len(cfg.AllowedOrigins))
	for _, o := range cfg.AllowedOrigins {
		allowed[strings.ToLower(strings.TrimRight(o, "/"))] = struct{}{}
	}
	return func(c *fiber.Ctx) error {
		origin := c.Get(fiber.HeaderOrigin)
		// No origin (e.g. same-origin or tools): allow
		if origin == "" {
			return c.Next()
		}
		_, ok := allowed[strings.ToLower(origin)]
		if !ok && !isLocalOrigin(origin) {
			return response.Error(c, "Not allowed by CORS", fiber.StatusForbidden)
		}
		setCORSHeaders(c, origin)
		if c.Method() == fiber.MethodOptions {
			return c.SendStatus(fiber.StatusNoContent)
		}
		return c.Next()
	}
}

func isLocalOrigin(origin string) bool {
	return strings.HasPrefix(origin, "http://localhost:") || strings.HasPrefix(origin, "http://127.0.0.1:") ||
		origin == "http://localhost" || origin == "http://127.0.0.1"
}

func setCORSHeaders(c *fiber.Ctx, origin string) {
	c.Set(fiber.HeaderAccessControlAllowOrigin, origin)
	c.Set(fiber.HeaderAccessControlAllowCredentials, "true")
	c.Set(fiber.HeaderAccessControlAllowHeaders, "Content-Type, X-Trace-Id")
	c.Set(fiber.HeaderAccessControlAllowMethods, "GET, POST, PUT, DELETE, OPTIONS")
	c.Set(fiber.HeaderVary, fiber.HeaderOrigin)
}
