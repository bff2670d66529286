package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/feed-service/internal/api/http/handlers"
	"github.com/spec-kit/feed-service/internal/auth"
	apperrors "github.com/spec-kit/feed-service/pkg/util"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Profile        *handlers.ProfileHandler
	Posts          *handlers.PostsHandler
	AuthMiddleware *auth.AuthMiddleware
	PostFetcher    auth.ResourceFetcher
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/metrics", cfg.Health.Metrics)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)

	me := app.Group("/me", cfg.AuthMiddleware.Handle)
	me.Get("/", cfg.Profile.Me)

	posts := app.Group("/posts", cfg.AuthMiddleware.Handle)
	posts.Post("/", cfg.Posts.Create)
	posts.Get("/", cfg.Posts.List)

	owned := posts.Group("/:id", auth.RequireOwnership(cfg.PostFetcher))
	owned.Get("/", cfg.Posts.Get)
	owned.Put("/", cfg.Posts.Update)
	owned.Delete("/", cfg.Posts.Delete)

	// Unknown routes answer with the standard envelope instead of fiber's
	// default plain-text 404.
	app.Use(func(c *fiber.Ctx) error {
		return apperrors.NewNotFound("route", nil)
	})
}
