package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/spec-kit/complaint-portal/internal/api/http/handlers"
	"github.com/spec-kit/complaint-portal/internal/auth"
	"github.com/spec-kit/complaint-portal/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Catalog        *handlers.CatalogHandler
	Complaints     *handlers.ComplaintsHandler
	Accounts       *handlers.AccountsHandler
	AuthMiddleware *auth.AuthMiddleware
	Metrics        *observability.Metrics
	IntakeThrottle fiber.Handler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))
	}

	app.Get("/categories", cfg.Catalog.Categories)
	app.Get("/departments", cfg.Catalog.Departments)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Accounts.Register)
	authGroup.Post("/register-department", cfg.Accounts.RegisterDepartment)
	authGroup.Post("/login", cfg.Accounts.Login)
	authGroup.Get("/me", cfg.AuthMiddleware.Handle, auth.RequireAccount(), cfg.Accounts.Me)

	intake := cfg.IntakeThrottle
	if intake == nil {
		intake = func(c *fiber.Ctx) error { return c.Next() }
	}

	complaints := app.Group("/complaints", cfg.AuthMiddleware.Optional)
	complaints.Get("/", cfg.Complaints.List)
	complaints.Post("/", intake, cfg.Complaints.Create)
	complaints.Get("/statistics", cfg.Complaints.Statistics)
	complaints.Get("/nearby", cfg.Complaints.Nearby)
	complaints.Get("/:reference", cfg.Complaints.Get)
	complaints.Patch("/:reference", auth.RequireAccount(), cfg.Complaints.Update)
	complaints.Get("/:reference/history", cfg.Complaints.History)
	complaints.Post("/:reference/feedback", cfg.Complaints.SubmitFeedback)

	accounts := app.Group("/accounts", cfg.AuthMiddleware.Handle, auth.RequireStaffManager())
	accounts.Get("/", cfg.Accounts.List)
	accounts.Patch("/:handle", cfg.Accounts.Update)
}
