// Package portal wires the session-aware gateway: hydration, route guards,
// and the handlers serving each surface.
package portal

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/isukupay/waste-platform/internal/infrastructure/config"
	"github.com/isukupay/waste-platform/internal/portal/authapi"
	"github.com/isukupay/waste-platform/internal/portal/handler"
	"github.com/isukupay/waste-platform/internal/portal/middleware"
	"github.com/isukupay/waste-platform/internal/portal/session"
	"github.com/isukupay/waste-platform/pkg/validation"
)

// NewRouter builds the portal's Echo instance. Hydration runs on every route
// so guards and handlers always see a resolved session.
func NewRouter(rdb *redis.Client, cfg *config.PortalConfig, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = validation.New()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("isukupay_portal"))

	// --- Dependencies ---
	store := session.NewRedisStore(rdb, cfg.SessionTTL)
	client := authapi.NewClient(cfg.APIBaseURL, store, log)
	mgr := session.NewManager(store, client, log)

	authHandler := handler.NewAuthHandler(mgr, log)
	pages := handler.NewPageHandler(mgr, client, log)
	health := handler.NewHealthHandler(rdb)

	hydrate := middleware.Hydrate(mgr)

	// --- Auth surface ---
	e.GET("/login", authHandler.LoginPage, hydrate)
	e.POST("/login", authHandler.Login, hydrate)
	e.POST("/register", authHandler.Register, hydrate)
	e.POST("/logout", authHandler.Logout, hydrate)

	// --- Guarded surfaces ---
	e.GET("/dashboard", pages.Dashboard, hydrate, middleware.Staff())
	e.GET("/portal", pages.Portal, hydrate, middleware.Customer())
	e.GET("/collector", pages.Collector, hydrate, middleware.Collector())
	e.GET("/system-admin", pages.SystemAdmin, hydrate, middleware.SystemAdmin())
	e.GET("/me", pages.Profile, hydrate, middleware.Protected())

	// --- Probes & observability ---
	e.GET("/health", health.Liveness)
	e.GET("/health/ready", health.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
