package middleware

import (
	"context"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/peerlaunch/launchpad_api/dto"
	"github.com/peerlaunch/launchpad_api/shared"
	"github.com/rs/zerolog/log"
)

type RateLimiter interface {
	IsAllowed(ctx context.Context, identifier, endpointType string) (bool, *dto.RateLimitInfo, error)
	Message(endpointType string) string
}

// RateLimit limits by client IP, or by user id once the request is authenticated.
// Limiter failures let the request through.
func RateLimit(limiter RateLimiter, endpointType string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identifier := ClientIP(c)
		if userID, ok := c.Locals(shared.UserID).(string); ok && userID != "" {
			identifier = userID
		}

		allowed, info, err := limiter.IsAllowed(c.UserContext(), identifier, endpointType)
		if err != nil {
			log.Warn().Err(err).Str("endpoint", endpointType).Str("identifier", identifier).Msg("Rate limit check failed")
			return c.Next()
		}

		SetRateLimitHeaders(c, info)

		if !allowed {
			message := limiter.Message(endpointType)
			body := fiber.Map{
				"error":   "Rate limit exceeded",
				"message": message,
			}
			if info != nil && info.BlockedUntil != nil {
				body["blocked_until"] = info.BlockedUntil.Unix()
				body["retry_after"] = int(time.Until(*info.BlockedUntil).Seconds())
			}
			return shared.ResponseJSON(c, fiber.StatusTooManyRequests, message, body)
		}

		return c.Next()
	}
}

func SetRateLimitHeaders(c *fiber.Ctx, info *dto.RateLimitInfo) {
	if info == nil {
		return
	}

	if info.Remaining >= 0 {
		c.Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
	}
	if info.ResetTime != nil {
		c.Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.Unix(), 10))
	}
	if info.BlockedUntil != nil {
		if retryAfter := int(time.Until(*info.BlockedUntil).Seconds()); retryAfter > 0 {
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(retryAfter))
		}
	}
}

// ClientIP prefers proxy headers over the socket address.
func ClientIP(c *fiber.Ctx) string {
	if forwarded := c.Get(fiber.HeaderXForwardedFor); forwarded != "" {
		ips := strings.Split(forwarded, ",")
		if ip := strings.TrimSpace(ips[0]); ip != "" {
			return ip
		}
	}

	if realIP := c.Get("X-Real-IP"); realIP != "" {
		return realIP
	}

	ip := c.IP()
	if host, _, err := net.SplitHostPort(ip); err == nil {
		return host
	}
	return ip
}
