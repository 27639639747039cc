// Package router sets up all HTTP routes for the API.
package router

import (
	"log"

	"github.com/gin-gonic/gin"

	"github.com/Shimizu-Technology/study-circle-api/internal/config"
	"github.com/Shimizu-Technology/study-circle-api/internal/handlers"
	"github.com/Shimizu-Technology/study-circle-api/internal/middleware"
)

// Setup creates and configures the Gin router with all routes.
func Setup(h *handlers.Handler, cfg *config.Config) *gin.Engine {
	r := gin.Default()
	r.Use(middleware.CORS(cfg.AllowedOrigins))

	// --- Public Routes ---
	r.GET("/api/v1/health", h.HealthCheck)

	// API Documentation
	r.GET("/api/docs", h.ServeSwaggerUI)
	r.GET("/api/docs/openapi.yaml", h.ServeOpenAPIDoc)

	// Scraped chapter files; the token query parameter authorises the download.
	r.GET("/files/*path", h.ServeFile)

	api := r.Group("/api/v1")
	{
		api.GET("/ncert/chapters", h.GetChapters)
		api.GET("/ncert/options", h.GetOptions)
		api.GET("/pdf-proxy", h.ProxyPDF)
	}

	// --- AI routes: spend provider credits, so they are rate limited and,
	// when a JWT secret is configured, authenticated ---
	ai := r.Group("/api/v1/ai")
	if cfg.JWTSecret != "" {
		ai.Use(middleware.JWTAuth(cfg.JWTSecret))
	} else {
		log.Println("⚠️  JWT_SECRET not set; /api/v1/ai is unauthenticated")
	}
	ai.Use(middleware.NewRateLimiter(cfg.SummaryRateLimit).RateLimit())
	{
		ai.POST("/summary", h.CreateStudySummary)
	}

	return r
}
