package middleware

import (
	"crypto/subtle"
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/hiringbull/server/utils/cache"
	"github.com/hiringbull/server/utils/response"
)

const (
	ingestRateLimitMax    = 60
	ingestRateLimitWindow = time.Minute
)

// APIKeyMiddleware gates the internal bulk-ingestion routes behind a shared
// API key, with a redis-backed request counter per caller IP.
type APIKeyMiddleware struct {
	key   string
	cache *cache.RedisCache
}

// NewAPIKeyMiddleware creates the middleware. cache may be nil; rate limiting
// is then skipped.
func NewAPIKeyMiddleware(key string, cache *cache.RedisCache) *APIKeyMiddleware {
	return &APIKeyMiddleware{key: key, cache: cache}
}

// Require validates the X-API-Key header.
func (m *APIKeyMiddleware) Require() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if m.key == "" {
			log.Println("Warning: INTERNAL_API_KEY not configured - bypassing API key check")
			return c.Next()
		}

		apiKey := c.Get("X-API-Key")
		if apiKey == "" || subtle.ConstantTimeCompare([]byte(apiKey), []byte(m.key)) != 1 {
			return response.Unauthorized(c, "Invalid or missing API key")
		}

		if err := m.checkRateLimit(c); err != nil {
			return response.TooManyRequests(c, err.Error())
		}

		return c.Next()
	}
}

func (m *APIKeyMiddleware) checkRateLimit(c *fiber.Ctx) error {
	if m.cache == nil {
		return nil
	}

	key := "ingest:ratelimit:" + c.IP()
	count, err := m.cache.Increment(c.Context(), key)
	if err != nil {
		// Redis being down must not block ingestion.
		return nil
	}
	if count == 1 {
		_ = m.cache.Expire(c.Context(), key, ingestRateLimitWindow)
	}
	if count > ingestRateLimitMax {
		return errRateLimited
	}
	return nil
}

var errRateLimited = errors.New("Rate limit exceeded, please slow down.")
