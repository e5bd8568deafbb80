package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/cozinhecomigo/recipes/backend/internal/metrics"
	"github.com/cozinhecomigo/recipes/backend/internal/types"
)

// RateLimitConfig defines configuration for rate limiting
type RateLimitConfig struct {
	// Window is the time window for rate limiting
	Window time.Duration
	// Limit is the maximum number of requests allowed in the window. Zero disables limiting.
	Limit int
	// Key prefix for Redis keys
	KeyPrefix string
}

// RateLimiter counts requests per client in fixed Redis windows. Without Redis,
// or while Redis is failing, it falls back to an in-process token bucket per client.
type RateLimiter struct {
	redis  *redis.Client
	config RateLimitConfig
	log    *logrus.Logger

	mu    sync.Mutex
	local map[string]*localLimiter
}

type localLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// maxLocalLimiters bounds the fallback map before stale entries are swept
const maxLocalLimiters = 10000

// NewRateLimiter creates a new rate limiter instance. redisClient may be nil.
func NewRateLimiter(redisClient *redis.Client, config RateLimitConfig, log *logrus.Logger) *RateLimiter {
	return &RateLimiter{
		redis:  redisClient,
		config: config,
		log:    log,
		local:  make(map[string]*localLimiter),
	}
}

// NewWriteRateLimiter creates the limiter shared by the endpoints that write data
func NewWriteRateLimiter(redisClient *redis.Client, window time.Duration, limit int, log *logrus.Logger) *RateLimiter {
	return NewRateLimiter(redisClient, RateLimitConfig{
		Window:    window,
		Limit:     limit,
		KeyPrefix: "rate_limit:write",
	}, log)
}

// RateLimitMiddleware returns a Gin middleware that enforces rate limiting per client IP
func (rl *RateLimiter) RateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.config.Limit <= 0 {
			c.Next()
			return
		}

		allowed, remaining, resetTime := rl.Allow(c.Request.Context(), c.ClientIP())

		// Set rate limit headers
		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.config.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(resetTime.Unix(), 10))

		if !allowed {
			metrics.RateLimitRejections.WithLabelValues(rl.config.KeyPrefix).Inc()
			retryAfter := int(time.Until(resetTime).Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, types.Response{
				StatusCode: types.StatusRateLimited,
				Message:    fmt.Sprintf("rate limit of %d requests per %v exceeded", rl.config.Limit, rl.config.Window),
			})
			return
		}

		c.Next()
	}
}

// Allow records a request for key and reports whether it is within the limit
func (rl *RateLimiter) Allow(ctx context.Context, key string) (bool, int, time.Time) {
	if rl.redis != nil {
		allowed, remaining, resetTime, err := rl.IsAllowed(ctx, key)
		if err == nil {
			return allowed, remaining, resetTime
		}
		metrics.RateLimitFallbacks.WithLabelValues(rl.config.KeyPrefix).Inc()
		rl.log.WithError(err).Warn("redis rate limit check failed, using local limiter")
	}
	return rl.allowLocal(key, time.Now())
}

// IsAllowed checks if a request from the given client is allowed
// Returns: allowed, remaining requests, reset time, error
func (rl *RateLimiter) IsAllowed(ctx context.Context, key string) (bool, int, time.Time, error) {
	now := time.Now()
	windowStart := now.Truncate(rl.config.Window)
	redisKey := rl.windowKey(key, windowStart)

	// Use Redis pipeline for atomic operations
	pipe := rl.redis.Pipeline()
	incrCmd := pipe.Incr(ctx, redisKey)
	pipe.Expire(ctx, redisKey, rl.config.Window)

	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, time.Time{}, err
	}

	count := int(incrCmd.Val())
	remaining := rl.config.Limit - count
	if remaining < 0 {
		remaining = 0
	}

	resetTime := windowStart.Add(rl.config.Window)
	allowed := count <= rl.config.Limit

	return allowed, remaining, resetTime, nil
}

func (rl *RateLimiter) windowKey(key string, windowStart time.Time) string {
	return fmt.Sprintf("%s:%s:%d", rl.config.KeyPrefix, key, windowStart.Unix())
}

func (rl *RateLimiter) allowLocal(key string, now time.Time) (bool, int, time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if len(rl.local) >= maxLocalLimiters {
		rl.sweep(now)
	}

	entry, ok := rl.local[key]
	if !ok {
		every := rl.config.Window / time.Duration(rl.config.Limit)
		entry = &localLimiter{limiter: rate.NewLimiter(rate.Every(every), rl.config.Limit)}
		rl.local[key] = entry
	}
	entry.lastAccess = now

	allowed := entry.limiter.AllowN(now, 1)
	tokens := entry.limiter.TokensAt(now)
	remaining := int(tokens)
	if remaining < 0 {
		remaining = 0
	}

	// Time until the bucket refills to a full window
	missing := float64(rl.config.Limit) - tokens
	resetTime := now.Add(time.Duration(missing / float64(entry.limiter.Limit()) * float64(time.Second)))
	return allowed, remaining, resetTime
}

// sweep drops local limiters that have not been used for a full window
func (rl *RateLimiter) sweep(now time.Time) {
	threshold := now.Add(-rl.config.Window)
	for key, entry := range rl.local {
		if entry.lastAccess.Before(threshold) {
			delete(rl.local, key)
		}
	}
}
