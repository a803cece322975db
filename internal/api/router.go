package api

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/organizae/users-service/internal/api/handler"
	"github.com/organizae/users-service/internal/api/middleware"
	"github.com/organizae/users-service/internal/core/domain"
	"github.com/organizae/users-service/internal/core/ports"
	"github.com/organizae/users-service/internal/infrastructure/http/handlers"
)

// Deps are the collaborators the HTTP surface needs.
type Deps struct {
	Log    zerolog.Logger
	Users  ports.UserService
	Auth   ports.AuthService
	Tokens ports.TokenVerifier
	Checks map[string]handlers.Check
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.Tracing())
	e.Use(middleware.Metrics())
	e.Use(middleware.RequestLogger(d.Log))
	e.Use(echomiddleware.Recover())

	authn := middleware.Auth(d.Tokens)
	adminOrOwner := middleware.Authorize(domain.RequireRoles(domain.RoleAdmin), d.Log)

	// --- Auth routes ---
	authHandler := handler.NewAuthHandler(d.Auth)
	e.POST("/auth/login", authHandler.Login)

	// --- User routes ---
	userHandler := handler.NewUserHandler(d.Users)
	users := e.Group("/users")
	users.POST("", userHandler.Create, middleware.Authorize(domain.Public(), d.Log))
	users.GET("", userHandler.List, authn, adminOrOwner)
	users.GET("/profile", userHandler.Profile, authn)
	users.GET("/:id", userHandler.Get, authn, adminOrOwner)
	users.PATCH("/:id", userHandler.Update, authn, adminOrOwner)
	users.DELETE("/:id", userHandler.Delete, authn, adminOrOwner)

	// --- Health checks and metrics (no auth required) ---
	e.GET("/health", handlers.NewHealthHandler().Liveness)
	e.GET("/health/ready", handlers.NewReadinessHandler(d.Checks).Readiness)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	return e
}
