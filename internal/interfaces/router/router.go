package router

import (
	"context"
	"fmt"
	"net/http"

	auditsvc "carmod-backend/internal/application/audit"
	authsvc "carmod-backend/internal/application/auth"
	listsvc "carmod-backend/internal/application/listings"
	"carmod-backend/internal/config"
	"carmod-backend/internal/infrastructure/database"
	audithandler "carmod-backend/internal/interfaces/handlers/audit"
	authhandler "carmod-backend/internal/interfaces/handlers/auth"
	healthhandler "carmod-backend/internal/interfaces/handlers/health"
	listhandler "carmod-backend/internal/interfaces/handlers/listings"
	"carmod-backend/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Deps are the process-lifetime resources the app is built on.
type Deps struct {
	Store *database.Store
	Rdb   *redis.Client // nil when REDIS_URL is unset
}

// Close releases the store and the Redis client.
func (d *Deps) Close() {
	if d == nil {
		return
	}
	if d.Rdb != nil {
		_ = d.Rdb.Close()
	}
	if d.Store != nil {
		_ = d.Store.Close()
	}
}

// Connect opens the store, makes sure its tables exist, and connects to Redis when configured.
func Connect(cfg *config.Config) (*Deps, error) {
	store, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := store.EnsureSchema(); err != nil {
		_ = store.Close()
		return nil, err
	}
	deps := &Deps{Store: store}
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("parse REDIS_URL: %w", err)
		}
		deps.Rdb = redis.NewClient(opts)
	}
	return deps, nil
}

// CreateApp connects the dependencies and builds the Fiber app on them.
func CreateApp(cfg *config.Config) (*fiber.App, *Deps, error) {
	deps, err := Connect(cfg)
	if err != nil {
		return nil, nil, err
	}
	app, err := NewApp(cfg, deps)
	if err != nil {
		deps.Close()
		return nil, nil, err
	}
	return app, deps, nil
}

// NewApp wires middleware, services and handlers. Every route is served both at the
// root and under /api.
func NewApp(cfg *config.Config, deps *Deps) (*fiber.App, error) {
	authenticator, err := authsvc.NewStaticAuthenticator(cfg.AdminUsername, cfg.AdminPassword)
	if err != nil {
		return nil, err
	}
	var sessions authsvc.SessionStore
	if deps.Rdb != nil {
		sessions = &authsvc.RedisSessionStore{Rdb: deps.Rdb, TTL: authsvc.SessionMaxAge}
	} else {
		log.Warn().Msg("REDIS_URL not set; sessions are kept in process memory")
		sessions = authsvc.NewMemorySessionStore(authsvc.SessionMaxAge)
	}
	auth := &authsvc.Service{Authenticator: authenticator, Sessions: sessions}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          middleware.ErrorHandler,
	})

	app.Use(middleware.CORS(middleware.CORSConfig{AllowedOrigins: cfg.CORSAllowedOrigins}))
	app.Use(middleware.Tracing())
	app.Use(middleware.RouteLogger())
	if deps.Rdb != nil {
		app.Use(middleware.RequestStats(deps.Rdb))
	}
	app.Use(middleware.Session(auth))

	h := &handlers{
		health: &healthhandler.Handlers{Rdb: deps.Rdb, DB: deps.Store},
		auth: &authhandler.Handlers{
			Service: auth,
			Config:  middleware.SessionConfig{IsProduction: cfg.IsProduction(), MaxAge: authsvc.SessionMaxAge},
		},
		listings: &listhandler.Handlers{
			Service:     &listsvc.Service{DB: deps.Store.DB},
			SeedEnabled: cfg.SeedEnabled,
		},
		audit: &audithandler.Handlers{Service: &auditsvc.Service{DB: deps.Store.DB}},
	}

	h.mount(app, cfg.RequireAuth)
	h.mount(app.Group("/api"), cfg.RequireAuth)
	return app, nil
}

type handlers struct {
	health   *healthhandler.Handlers
	auth     *authhandler.Handlers
	listings *listhandler.Handlers
	audit    *audithandler.Handlers
}

func (h *handlers) mount(r fiber.Router, requireAuth bool) {
	r.Get("/health", h.health.JSON)

	ag := r.Group("/auth")
	ag.Post("/login", h.auth.Login)
	ag.Get("/me", h.auth.Me)
	ag.Delete("/logout", h.auth.Logout)

	var guard []fiber.Handler
	if requireAuth {
		guard = append(guard, middleware.RequireAuth())
	}
	with := func(fn fiber.Handler) []fiber.Handler {
		return append(append([]fiber.Handler{}, guard...), fn)
	}

	r.Get("/listings", with(h.listings.ListListings)...)
	r.Post("/listings", with(h.listings.CreateListing)...)
	r.Get("/listings/:id", with(h.listings.GetListing)...)
	r.Put("/listings/:id", with(h.listings.UpdateListing)...)
	r.Delete("/listings/:id", with(h.listings.DeleteListing)...)
	r.Post("/listings/:id/approve", with(h.listings.ApproveListing)...)
	r.Post("/listings/:id/reject", with(h.listings.RejectListing)...)
	r.Get("/audit-logs", with(h.audit.ListAuditLogs)...)
	r.Post("/seed", with(h.listings.Seed)...)
}

// Handler exposes the app as a net/http handler for embedding.
func Handler(app *fiber.App) http.Handler {
	return adaptor.FiberApp(app)
}

// Ping verifies the store and, when configured, Redis before the server starts listening.
func Ping(ctx context.Context, deps *Deps) error {
	if err := deps.Store.Ping(); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if deps.Rdb != nil {
		if err := deps.Rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis: %w", err)
		}
	}
	return nil
}
