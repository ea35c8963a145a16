package server

import (
	"crypto/subtle"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/google/uuid"
	"github.com/voiceguard/voiceguard/utils"
	"go.uber.org/zap"
)

const apiKeyHeader = "x-api-key"

// requestContext tags every request with an id carried through the zap log
// context.
func (s *Server) requestContext(c *fiber.Ctx) error {
	requestID := uuid.NewString()
	c.Set("X-Request-Id", requestID)
	c.SetUserContext(utils.LogContext(c.UserContext(), zap.String("request_id", requestID)))
	return c.Next()
}

// requireAPIKey rejects the request before the body is touched when the key
// header doesn't match.
func (s *Server) requireAPIKey(c *fiber.Ctx) error {
	key := c.Get(apiKeyHeader)
	if subtle.ConstantTimeCompare([]byte(key), []byte(s.apiKey)) != 1 {
		return errorResponse(c, fiber.StatusUnauthorized, "Invalid API key or malformed request")
	}
	return c.Next()
}

func (s *Server) rateLimiter() fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        s.rateLimitPerMinute,
		Expiration: time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			return errorResponse(c, fiber.StatusTooManyRequests, "Rate limit exceeded")
		},
	})
}
