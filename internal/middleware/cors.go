// Package middleware provides HTTP middleware for the API.
//
// Go Pattern: Middleware in Gin is a gin.HandlerFunc that calls c.Next() to
// continue the chain, or c.Abort() to stop processing.
package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORS returns configured CORS middleware. The study-circle web client runs
// on its own origin and embeds proxied PDFs, so GET and POST are enough.
func CORS(allowedOrigins []string) gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour, // Cache preflight responses
	})
}
