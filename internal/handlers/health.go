// Package handlers contains HTTP handler functions for the API.
//
// Go Pattern: Handlers in Gin receive a *gin.Context which provides request
// data (params, query, body) and response methods (JSON, Data, File).
// Related handlers hang off one Handler struct that holds shared dependencies.
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Shimizu-Technology/study-circle-api/internal/models"
	"github.com/Shimizu-Technology/study-circle-api/internal/services/catalog"
	"github.com/Shimizu-Technology/study-circle-api/internal/services/fetch"
	"github.com/Shimizu-Technology/study-circle-api/internal/services/ncert"
	"github.com/Shimizu-Technology/study-circle-api/internal/services/pdfcache"
	"github.com/Shimizu-Technology/study-circle-api/internal/services/storage"
	"github.com/Shimizu-Technology/study-circle-api/internal/services/summary"
)

// Version is reported by the health endpoint. main overrides it from -ldflags.
var Version = "1.0.0"

// HealthChecker is implemented by *database.DB.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Handler holds shared dependencies for all HTTP handlers.
// Go Pattern: Dependency injection via struct fields. Tests build a Handler
// with temp directories and fake fetchers instead of the real network.
type Handler struct {
	Catalog      *catalog.Resolver
	Titles       *ncert.TitleService
	Cache        *pdfcache.Cache
	FetchPDF     fetch.Func
	Study        *summary.StudyService
	Bucket       *storage.Bucket
	DB           HealthChecker // nil when no live catalog is configured
	AllowedHosts []string
}

// HealthCheck returns the API health status.
// GET /api/v1/health
func (h *Handler) HealthCheck(c *gin.Context) {
	dbStatus := "not configured"
	if h.DB != nil {
		dbStatus = "healthy"
		if err := h.DB.HealthCheck(c.Request.Context()); err != nil {
			dbStatus = "unhealthy: " + err.Error()
		}
	}

	c.JSON(http.StatusOK, models.HealthResponse{
		Status:        "ok",
		Version:       Version,
		Database:      dbStatus,
		CatalogSource: h.Catalog.ActiveSource(),
		CacheDir:      h.Cache.Dir(),
	})
}
