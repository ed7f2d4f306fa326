// Package handlers contains HTTP handler functions for the API.
//
// Go Pattern: Handlers in Gin receive a *gin.Context which provides request
// data and response methods. Related handlers hang off one struct (Handler)
// that holds their shared dependencies.
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Shimizu-Technology/finsight-api/internal/models"
)

// Analyzer computes the invoice total for raw PDF bytes.
// *invoice.Summarizer satisfies it; tests substitute a stub.
type Analyzer interface {
	Analyze(ctx context.Context, data []byte) (float64, error)
}

// Handler holds shared dependencies for all HTTP handlers.
// Go Pattern: Dependency injection via struct fields. Instead of global
// variables or service locators, we pass dependencies explicitly.
type Handler struct {
	Analyzer       Analyzer
	MaxUploadBytes int64

	// Reported by the health check.
	Version    string
	Backend    string
	Validation string
}

// NewHandler creates a new handler with all dependencies.
func NewHandler(a Analyzer, maxUploadBytes int64, version, backend, validation string) *Handler {
	return &Handler{
		Analyzer:       a,
		MaxUploadBytes: maxUploadBytes,
		Version:        version,
		Backend:        backend,
		Validation:     validation,
	}
}

// HealthCheck returns the API health status.
// GET /health
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, models.HealthResponse{
		Status:     "ok",
		Version:    h.Version,
		Backend:    h.Backend,
		Validation: h.Validation,
	})
}
