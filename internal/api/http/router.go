package http

import (
	nethttp "net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/spec-kit/commerce-gateway/internal/api/http/handlers"
	"github.com/spec-kit/commerce-gateway/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health        *handlers.HealthHandler
	Customers     *handlers.CustomersHandler
	Vendors       *handlers.VendorsHandler
	Admins        *handlers.AdminsHandler
	Session       *handlers.SessionHandler
	Authenticator *auth.Authenticator
	LoginLimiter  *LoginLimiter
	// Metrics is served at /metrics when set.
	Metrics nethttp.Handler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics))
	}

	authn := cfg.Authenticator
	api := app.Group("/api")

	authGroup := api.Group("/auth")
	throttle := cfg.LoginLimiter.Handler()
	authGroup.Post("/customers/register", throttle, cfg.Customers.Register)
	authGroup.Post("/customers/login", throttle, cfg.Customers.Login)
	authGroup.Post("/vendors/register", throttle, cfg.Vendors.Register)
	authGroup.Post("/vendors/login", throttle, cfg.Vendors.Login)
	authGroup.Post("/admins/login", throttle, cfg.Admins.Login)
	authGroup.Post("/logout", authn.Authenticate(), cfg.Session.Logout)

	api.Get("/me", authn.Authenticate(), cfg.Session.Me)
	api.Get("/customers/me", authn.RequireCustomer(), auth.IsUser(), cfg.Customers.Me)
	api.Get("/vendors/me", authn.RequireVendor(), auth.IsVendor(), cfg.Vendors.Me)
	api.Get("/vendors/:id", authn.Authenticate(), auth.IsAdminOrVendor(), cfg.Vendors.Get)

	api.Get("/admin/me", authn.RequireAdmin(), auth.IsAdmin(), cfg.Admins.Me)
	admin := api.Group("/admin", authn.Authenticate(), auth.IsAdmin())
	admin.Get("/vendors", cfg.Admins.ListVendors)
	admin.Post("/vendors/:id/:action", cfg.Admins.TransitionVendor)
	admin.Patch("/customers/:id/status", cfg.Admins.SetCustomerStatus)
	admin.Patch("/admins/:id/status", cfg.Admins.SetAdminStatus)
}
