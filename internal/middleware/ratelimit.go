// ratelimit.go limits how often one client may call an expensive endpoint
// (study summaries spend LLM credits).
//
// Each client gets a token bucket from golang.org/x/time/rate holding
// `perHour` tokens that refill steadily over the hour. Clients are keyed by
// the authenticated user when there is one, otherwise by client IP.
package middleware

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/Shimizu-Technology/study-circle-api/internal/models"
)

// RateLimiter tracks request rates per client.
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*client
	limit   rate.Limit
	burst   int
	idleTTL time.Duration
	now     func() time.Time
}

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter allows perHour requests per client per hour.
func NewRateLimiter(perHour int) *RateLimiter {
	if perHour < 1 {
		perHour = 1
	}
	rl := &RateLimiter{
		clients: make(map[string]*client),
		limit:   rate.Limit(float64(perHour) / time.Hour.Seconds()),
		burst:   perHour,
		idleTTL: time.Hour,
		now:     time.Now,
	}

	// Start background cleanup goroutine
	go rl.cleanup()

	return rl
}

// RateLimit returns Gin middleware that enforces the per-client limit.
func (rl *RateLimiter) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, remaining := rl.allow(clientKey(c))

		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", rl.burst))
		if !allowed {
			c.Header("X-RateLimit-Remaining", "0")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, models.ErrorResponse{
				Error:   "rate_limit_exceeded",
				Message: "Rate limit exceeded. Try again later.",
				Code:    http.StatusTooManyRequests,
			})
			return
		}
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", remaining))

		c.Next()
	}
}

// allow consumes a token for key and reports the whole tokens left.
func (rl *RateLimiter) allow(key string) (bool, int) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	cl, exists := rl.clients[key]
	if !exists {
		cl = &client{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.clients[key] = cl
	}
	cl.lastSeen = now

	if !cl.limiter.AllowN(now, 1) {
		return false, 0
	}
	remaining := int(cl.limiter.TokensAt(now))
	if remaining < 0 {
		remaining = 0
	}
	return true, remaining
}

// cleanup periodically removes idle clients to prevent memory leaks.
func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		now := rl.now()
		for key, cl := range rl.clients {
			if now.Sub(cl.lastSeen) > rl.idleTTL {
				delete(rl.clients, key)
			}
		}
		rl.mu.Unlock()
	}
}

func clientKey(c *gin.Context) string {
	if claims := GetClaims(c); claims != nil {
		return "user:" + claims.Subject
	}
	return "ip:" + c.ClientIP()
}
