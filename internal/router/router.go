// Package router sets up all HTTP routes for the API.
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Shimizu-Technology/finsight-api/internal/handlers"
	"github.com/Shimizu-Technology/finsight-api/internal/middleware"
)

// Setup creates and configures the Gin router with all routes.
// Everything is public: the service has no authentication.
func Setup(h *handlers.Handler, log zerolog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(log))
	r.Use(middleware.RequestLogger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())

	r.POST("/analyze", h.Analyze)
	r.GET("/health", h.HealthCheck)

	// API Documentation
	r.GET("/docs", h.ServeSwaggerUI)
	r.GET("/docs/openapi.yaml", h.ServeOpenAPISpec)

	return r
}
