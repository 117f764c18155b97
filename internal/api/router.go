package api

import (
	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/99minutos/commerce-system/internal/api/handler"
	"github.com/99minutos/commerce-system/internal/api/middleware"
	"github.com/99minutos/commerce-system/internal/core/domain"
	"github.com/99minutos/commerce-system/internal/core/ports"
)

// Dependencies are the already-wired services the router exposes.
type Dependencies struct {
	JWTSecret   string
	Auth        ports.AuthService
	Users       ports.UserService
	Orders      ports.OrderService
	Idempotency ports.IdempotencyStore
	Readiness   map[string]handler.PingFunc
	Logger      zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)
	e.Validator = handler.NewValidator()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("commerce"))

	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Auth routes ---
	authHandler := handler.NewAuthHandler(deps.Auth)
	e.POST("/auth/login", authHandler.Login)

	// --- Authenticated routes ---
	authMiddleware := middleware.Auth(deps.JWTSecret)

	userHandler := handler.NewUserHandler(deps.Users)
	e.GET("/users/me", userHandler.Me, authMiddleware, middleware.RBAC(domain.RoleAdmin, domain.RoleClient))

	orderHandler := handler.NewOrderHandler(deps.Orders, deps.Idempotency, deps.Logger)
	orders := e.Group("/orders", authMiddleware)
	orders.GET("/:id", orderHandler.Get, middleware.RBAC(domain.RoleAdmin, domain.RoleClient))
	orders.POST("", orderHandler.Create, middleware.RBAC(domain.RoleClient))

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Readiness)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)

	return e
}
