package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/isukupay/waste-platform/internal/api/handler"
	"github.com/isukupay/waste-platform/internal/api/middleware"
	"github.com/isukupay/waste-platform/internal/core/domain"
	"github.com/isukupay/waste-platform/internal/core/ports"
	"github.com/isukupay/waste-platform/internal/core/service"
	"github.com/isukupay/waste-platform/internal/infrastructure/config"
	mongodb "github.com/isukupay/waste-platform/internal/infrastructure/db/mongo"
	redisdb "github.com/isukupay/waste-platform/internal/infrastructure/db/redis"
	"github.com/isukupay/waste-platform/pkg/validation"
)

// NewRouter builds and returns the Echo instance with all API routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, cfg *config.APIConfig, audit ports.AuditRecorder, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = validation.New()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("isukupay_api"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	auditRepo := mongodb.NewAuditRepository(db)
	denylist := redisdb.NewDenylist(rdb)
	tokens := service.NewTokenService(cfg.JWTSecret, cfg.AccessTTL, cfg.RefreshTTL)
	authService := service.NewAuthService(userRepo, tokens, denylist, log)
	authHandler := handler.NewAuthHandler(authService, audit)
	adminHandler := handler.NewAdminHandler(userRepo, auditRepo)
	authMiddleware := middleware.Auth(tokens)
	adminOnly := middleware.RBAC(domain.RoleAdmin, domain.RoleSystemAdmin)

	// --- Auth routes ---
	v1 := e.Group("/api/v1")
	v1.POST("/auth/register", authHandler.Register)
	v1.POST("/auth/login", authHandler.Login)
	v1.POST("/auth/logout", authHandler.Logout)
	v1.POST("/auth/token/refresh", authHandler.Refresh)
	v1.GET("/users/me", authHandler.CurrentUser, authMiddleware)

	// --- Back-office listings ---
	v1.GET("/users", adminHandler.ListUsers, authMiddleware, adminOnly)
	v1.GET("/audit-logs", adminHandler.ListAuditLogs, authMiddleware, adminOnly)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)          // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?

	// --- Observability & docs ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
