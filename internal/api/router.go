package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/taskhive/todo-api/internal/api/handler"
	"github.com/taskhive/todo-api/internal/api/middleware"
	"github.com/taskhive/todo-api/internal/core/service"
	mongodb "github.com/taskhive/todo-api/internal/infrastructure/db/mongo"
	redisdb "github.com/taskhive/todo-api/internal/infrastructure/db/redis"
	"github.com/taskhive/todo-api/internal/pkg/config"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("todo"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	todoRepo := mongodb.NewTodoRepository(db)

	tokenService := service.NewTokenService(cfg.JWT.Secret, cfg.JWT.RefreshSecret, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)

	var throttle service.LoginThrottle
	if rdb != nil {
		throttle = redisdb.NewLoginThrottle(rdb, cfg.Security.LoginMaxAttempts, cfg.Security.LoginWindow)
	}

	authService := service.NewAuthService(userRepo, tokenService, throttle, cfg.Security.BcryptCost, log)
	todoService := service.NewTodoService(todoRepo, log)

	authHandler := handler.NewAuthHandler(authService)
	todoHandler := handler.NewTodoHandler(todoService)
	authGuard := middleware.Auth(tokenService, userRepo)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/refresh", authHandler.Refresh)
	e.POST("/auth/logout", authHandler.Logout, authGuard)
	e.GET("/auth/me", authHandler.Me, authGuard)

	// --- Todo routes (all owner-scoped, all authenticated) ---
	todos := e.Group("/todos", authGuard)
	todos.GET("", todoHandler.List)
	todos.POST("", todoHandler.Create)
	todos.GET("/stats/summary", todoHandler.Stats)
	todos.GET("/:id", todoHandler.Get)
	todos.PUT("/:id", todoHandler.Update)
	todos.DELETE("/:id", todoHandler.Delete)
	todos.PATCH("/:id/toggle", todoHandler.Toggle)

	// --- Probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler(db, rdb)
	e.GET("/health", healthHandler.Liveness)            // liveness  - is the process alive?
	e.GET("/health/ready", healthHandler.Readiness)     // readiness - are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
