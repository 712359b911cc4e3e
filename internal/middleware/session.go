package middleware

import (
	"context"
	"errors"
	"time"

	"carmod-backend/internal/application/auth"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// SessionCookieName is the cookie carrying the session token.
const SessionCookieName = "auth"

const (
	userLocal    = "user"
	sessionLocal = "session_token"
)

// SessionConfig controls the session cookie flags.
type SessionConfig struct {
	IsProduction bool
	MaxAge       time.Duration
}

// Session resolves the session cookie into a principal stored in Locals.
// An unknown or expired token leaves the request anonymous.
func Session(resolver SessionResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies(SessionCookieName)
		c.Locals(sessionLocal, token)
		if token == "" {
			return c.Next()
		}
		p, err := resolver.Resolve(c.UserContext(), token)
		switch {
		case err == nil:
			c.Locals(userLocal, p)
		case !errors.Is(err, auth.ErrSessionNotFound):
			log.Warn().Err(err).Str("trace_id", GetTraceID(c)).Msg("Session lookup failed")
		}
		return c.Next()
	}
}

// SessionResolver is the part of auth.Service the middleware needs.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (*auth.Principal, error)
}

// GetSessionToken returns the raw session token from the request cookie ("" if none).
func GetSessionToken(c *fiber.Ctx) string {
	t, _ := c.Locals(sessionLocal).(string)
	return t
}

// SessionCookie builds the session cookie. An empty token expires it.
func SessionCookie(cfg SessionConfig, token string) *fiber.Cookie {
	maxAge := cfg.MaxAge
	if maxAge <= 0 {
		maxAge = auth.SessionMaxAge
	}
	cookie := &fiber.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HTTPOnly: true,
		Secure:   cfg.IsProduction,
		SameSite: fiber.CookieSameSiteLaxMode,
	}
	if token == "" {
		cookie.MaxAge = -1
		cookie.Expires = time.Unix(0, 0)
	}
	return cookie
}
