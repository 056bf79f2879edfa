package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"taskapp/internal/adapter/http/helper"
	tel "taskapp/internal/core/telemetry"
	"taskapp/pkg/config"
)

const defaultRateLimitKey = "default"

type RateLimiter struct {
	store   RateLimitStore
	config  map[string]config.RateLimitConfig
	logger  *zap.Logger
	metrics *tel.AppMetrics
}

// NewRateLimiter looks limits up by "METHOD /route", then "/route", then
// "default". Routes are gin templates such as /tasks/:id.
func NewRateLimiter(store RateLimitStore, configs map[string]config.RateLimitConfig, logger *zap.Logger, metrics *tel.AppMetrics) *RateLimiter {
	limits := make(map[string]config.RateLimitConfig, len(configs)+1)

	for key, value := range configs {
		limits[key] = value
	}

	if _, ok := limits[defaultRateLimitKey]; !ok {
		limits[defaultRateLimitKey] = config.RateLimitConfig{Requests: 60, Window: time.Minute}
	}

	return &RateLimiter{
		store:   store,
		config:  limits,
		logger:  logger,
		metrics: metrics,
	}
}

func (rl *RateLimiter) RateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.FullPath()

		if path == "" {
			path = c.Request.URL.Path
		}

		methodPath := c.Request.Method + " " + path
		limit := rl.limitFor(methodPath, path)
		key := fmt.Sprintf("rate_limit:%s:%s", methodPath, GetClientIP(c))

		result, err := rl.store.Allow(c.Request.Context(), key, limit.Requests, limit.Window)

		if err != nil {
			rl.logger.Error("Rate limit check failed",
				zap.String("key", key),
				zap.String("path", path),
				zap.Error(err))
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(limit.Requests))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))

		if !result.Allowed {
			if rl.metrics != nil {
				rl.metrics.RecordRateLimitHit(c.Request.Context(), path, "ip")
			}

			retryAfter := int(time.Until(result.ResetAt).Seconds())

			if retryAfter < 1 {
				retryAfter = 1
			}

			rl.logger.Warn("Rate limit exceeded",
				zap.String("key", key),
				zap.String("path", path),
				zap.Int("limit", limit.Requests),
				zap.Duration("window", limit.Window))

			c.Header("Retry-After", strconv.Itoa(retryAfter))
			helper.SendError(c, http.StatusTooManyRequests, "TOO_MANY_REQUESTS",
				fmt.Sprintf("Too many requests. Limit: %d per %v", limit.Requests, limit.Window), nil)
			return
		}

		if rl.metrics != nil {
			rl.metrics.RecordRateLimitAllowed(c.Request.Context(), path, "ip")
		}

		c.Next()
	}
}

func (rl *RateLimiter) limitFor(methodPath, path string) config.RateLimitConfig {
	if limit, ok := rl.config[methodPath]; ok {
		return limit
	}

	if limit, ok := rl.config[path]; ok {
		return limit
	}

	return rl.config[defaultRateLimitKey]
}
