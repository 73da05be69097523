package middleware

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/peerlaunch/launchpad_api/services/timeout"
	"github.com/peerlaunch/launchpad_api/shared"
)

// Reply is what a detached transport operation hands back for rendering.
type Reply struct {
	Status  int
	Message string
	Data    interface{}
}

// Operation must not touch the fiber context: it may still be running after
// the handler has answered with a timeout.
type Operation func(ctx context.Context) (*Reply, error)

// Builder reads everything it needs out of the request and returns the work
// to race. Errors returned here are rendered before any timer is started.
type Builder func(c *fiber.Ctx) (Operation, error)

type TimeoutBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type TimeoutMiddleware struct {
	enforcer  *timeout.Enforcer
	onTimeout func(route string)
}

func NewTimeoutMiddleware(enforcer *timeout.Enforcer, onTimeout func(route string)) *TimeoutMiddleware {
	return &TimeoutMiddleware{enforcer: enforcer, onTimeout: onTimeout}
}

// Transport races the built operation against a fixed d and answers 504 on expiry.
func (m *TimeoutMiddleware) Transport(d time.Duration, build Builder) fiber.Handler {
	return func(c *fiber.Ctx) error {
		op, err := build(c)
		if err != nil {
			return shared.ResponseError(c, err)
		}

		reply, err := timeout.Do(c.UserContext(), m.enforcer, d, op)
		if err != nil {
			var te *timeout.Error
			if errors.As(err, &te) {
				if m.onTimeout != nil {
					m.onTimeout(c.Route().Path)
				}
				return shared.WriteJSON(c, fiber.StatusGatewayTimeout, TimeoutBody{
					Error:   "TIMEOUT",
					Message: te.Error(),
				})
			}
			return shared.ResponseError(c, err)
		}

		if reply == nil {
			return shared.ResponseOK(c, nil)
		}
		if reply.Message == "" {
			reply.Message = "Success"
		}
		return shared.ResponseJSON(c, reply.Status, reply.Message, reply.Data)
	}
}
