package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// LoginRateLimitMiddleware limits login attempts per email (falling back to
// client IP) using Redis. The limiter fails open: with no Redis client or on
// cache errors, requests pass through.
func LoginRateLimitMiddleware(cache *redis.Client, maxPerMinute int) gin.HandlerFunc {
	if maxPerMinute <= 0 {
		maxPerMinute = 5
	}
	return func(c *gin.Context) {
		if cache == nil {
			c.Next()
			return
		}

		key := "rl:login:" + loginKey(c)
		ctx := c.Request.Context()
		cnt, err := cache.Incr(ctx, key).Result()
		if err != nil {
			c.Next() // fail-open on cache errors
			return
		}
		if cnt == 1 {
			cache.Expire(ctx, key, time.Minute)
		}
		if cnt > int64(maxPerMinute) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"success": false, "message": "Too many login attempts, try again later"})
			return
		}
		c.Next()
	}
}

// loginKey peeks at the request body for the email field without consuming it
func loginKey(c *gin.Context) string {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return c.ClientIP()
	}
	c.Request.Body = io.NopCloser(bytes.NewReader(body))

	var req struct {
		Email string `json:"email"`
	}
	if err := json.Unmarshal(body, &req); err == nil {
		if email := strings.TrimSpace(req.Email); email != "" {
			return email
		}
	}
	return c.ClientIP()
}
