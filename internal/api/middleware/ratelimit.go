package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jroosing/fireportal/internal/api/models"
	"github.com/jroosing/fireportal/internal/cache"
	"golang.org/x/time/rate"
)

// clientIdleTTL is how long an idle client's bucket is kept.
const clientIdleTTL = 5 * time.Minute

// RateLimiter applies a token bucket per client IP.
//
// Buckets live in a bounded LRU cache, so the number of tracked clients
// never exceeds maxClients; idle buckets expire after clientIdleTTL.
type RateLimiter struct {
	limit rate.Limit
	burst int

	mu      sync.Mutex
	clients *cache.TTLCache[string, *rate.Limiter]
}

// NewRateLimiter creates a limiter allowing rps requests per second with the
// given burst for each client.
func NewRateLimiter(rps float64, burst, maxClients int) *RateLimiter {
	return &RateLimiter{
		limit:   rate.Limit(rps),
		burst:   max(burst, 1),
		clients: cache.New[string, *rate.Limiter](maxClients),
	}
}

// Allow reports whether a request from client may proceed.
func (rl *RateLimiter) Allow(client string) bool {
	rl.mu.Lock()
	lim, ok := rl.clients.Get(client)
	if !ok {
		lim = rate.NewLimiter(rl.limit, rl.burst)
	}
	// Refresh the idle deadline.
	rl.clients.Set(client, lim, clientIdleTTL)
	rl.mu.Unlock()

	return lim.Allow()
}

// Clients returns the number of tracked client buckets.
func (rl *RateLimiter) Clients() int {
	return rl.clients.Len()
}

// Run sweeps idle buckets until ctx is canceled.
func (rl *RateLimiter) Run(ctx context.Context) {
	rl.clients.Run(ctx, cache.SweepInterval(clientIdleTTL))
}

// Middleware rejects requests over the client's budget with 429.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.Allow(c.ClientIP()) {
			c.Next()
			return
		}
		c.Header("Retry-After", "1")
		c.AbortWithStatusJSON(http.StatusTooManyRequests, models.ErrorResponse{
			Error:   "rate limit exceeded",
			Message: "Too many requests, slow down",
		})
	}
}
