package http

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// RouterConfig holds all dependencies for routing
type RouterConfig struct {
	WebHandler *WebHandler
	Service    string
}

// NewServer creates an echo instance with the dashboard routes mounted
func NewServer(config *RouterConfig) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	SetupRoutes(e, config)
	return e
}

// SetupRoutes configures all HTTP routes
func SetupRoutes(e *echo.Echo, config *RouterConfig) {
	// Middleware
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Skipper: func(c echo.Context) bool {
			// polling endpoints would drown the log
			path := c.Request().URL.Path
			return path == "/health" || path == "/api/state"
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.Secure())

	// Health check
	e.GET("/health", func(c echo.Context) error {
		return SuccessResponse(c, map[string]interface{}{
			"status":    "healthy",
			"service":   config.Service,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	RegisterWebRoutes(e, config.WebHandler)
}
