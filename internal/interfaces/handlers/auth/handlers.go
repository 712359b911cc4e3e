package auth

import (
	"errors"

	authsvc "carmod-backend/internal/application/auth"
	"carmod-backend/internal/middleware"
	"carmod-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// Handlers holds dependencies for auth endpoints.
type Handlers struct {
	Service *authsvc.Service
	Config  middleware.SessionConfig
}

// LoginRequest body.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login POST /auth/login: verify the credential, open a session, set the auth cookie.
func (h *Handlers) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, authsvc.ErrCredentialsRequired.Error())
	}
	token, user, err := h.Service.Login(c.UserContext(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, authsvc.ErrCredentialsRequired):
			return response.BadRequest(c, err.Error())
		case errors.Is(err, authsvc.ErrInvalidCredentials):
			log.Info().Str("username", req.Username).Msg("Login rejected")
			return response.Unauthorized(c, err.Error())
		default:
			log.Error().Err(err).Str("trace_id", middleware.GetTraceID(c)).Msg("Login failed")
			return response.Internal(c)
		}
	}

	c.Cookie(middleware.SessionCookie(h.Config, token))
	log.Info().Str("username", user.Username).Msg("Login successful")
	return response.OK(c, fiber.Map{"user": user})
}

// Me GET /auth/me: the current session user.
func (h *Handlers) Me(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	if user == nil {
		return response.Unauthorized(c, authsvc.ErrSessionNotFound.Error())
	}
	return response.OK(c, fiber.Map{"user": user})
}

// Logout DELETE /auth/logout: destroy the session and expire the cookie.
func (h *Handlers) Logout(c *fiber.Ctx) error {
	if err := h.Service.Logout(c.UserContext(), middleware.GetSessionToken(c)); err != nil {
		log.Warn().Err(err).Str("trace_id", middleware.GetTraceID(c)).Msg("Session destroy failed")
	}
	c.Cookie(middleware.SessionCookie(h.Config, ""))
	return response.Message(c, "Logged out successfully")
}
