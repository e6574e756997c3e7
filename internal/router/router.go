package router

import (
	"github.com/gofiber/fiber/v3"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"

	"github.com/adskipper/adskipper-go/internal/handler"
	"github.com/adskipper/adskipper-go/internal/middleware"
	"github.com/adskipper/adskipper-go/internal/service"
)

// Handlers holds all handler instances needed by the router.
type Handlers struct {
	Segment *handler.SegmentHandler
	Vote    *handler.VoteHandler
	Auth    *handler.AuthHandler
	Stats   *handler.StatsHandler
	Health  *handler.HealthHandler
}

// Setup configures the middleware stack and all API routes on the given Fiber app.
func Setup(app *fiber.App, h *Handlers, auth *service.AuthService, corsOrigins, ipHashSalt string) {
	// Middleware stack (order matters)
	app.Use(recoverer.New())
	app.Use(middleware.NewRequestLogger(ipHashSalt))
	app.Use(middleware.NewCORS(corsOrigins))
	app.Use(handler.MetricsMiddleware())

	// Probes and metrics sit outside the API group
	app.Get("/health/live", h.Health.Live)
	app.Get("/health/ready", h.Health.Ready)
	app.Get("/metrics", handler.MetricsHandler())

	listLimit := middleware.NewListRateLimiter().Handler()
	submitLimit := middleware.NewSubmitRateLimiter().Handler()
	voteLimit := middleware.NewVoteRateLimiter().Handler()
	authLimit := middleware.NewAuthRateLimiter().Handler()

	api := app.Group("/api/v1")

	// Auth routes
	api.Post("/auth/register", h.Auth.Register, authLimit)
	api.Post("/auth/login", h.Auth.Login, authLimit)
	api.Get("/auth/me", h.Auth.Me, middleware.RequireAuth(auth))

	// Segment routes
	api.Get("/segments", h.Segment.List, listLimit, middleware.OptionalAuth(auth))
	api.Post("/segments/batch", h.Segment.Batch, listLimit)
	api.Post("/segments", h.Segment.Submit, middleware.RequireAuth(auth), submitLimit)
	api.Delete("/segments/:id", h.Segment.Delete, middleware.RequireAuth(auth))

	// Vote routes
	api.Post("/segments/:id/vote", h.Vote.Cast, middleware.RequireAuth(auth), voteLimit)
	api.Get("/segments/:id/votes", h.Vote.Stats, middleware.OptionalAuth(auth))

	// Stats routes
	api.Get("/stats/overview", h.Stats.Overview, listLimit)
	api.Get("/stats/top-users", h.Stats.TopUsers, listLimit)
	api.Get("/stats/popular-videos", h.Stats.PopularVideos, listLimit)
	api.Get("/user/contributions", h.Stats.Contributions, middleware.RequireAuth(auth))
}
