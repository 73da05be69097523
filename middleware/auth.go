package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/peerlaunch/launchpad_api/shared"
)

type TokenVerifier interface {
	ExtractTokenFromHeader(authHeader string) (string, error)
	VerifyJWTToken(token string) (string, error)
}

type AuthMiddleware struct {
	verifier TokenVerifier
}

func NewAuthMiddleware(verifier TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier}
}

func (m *AuthMiddleware) RequiredAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := m.authenticate(c)
		if err != nil {
			return shared.ResponseJSON(c, fiber.StatusUnauthorized, "Unauthorized", err.Error())
		}

		c.Locals(shared.UserID, userID)
		return c.Next()
	}
}

// OptionalAuth sets the viewer when a valid token is present and otherwise
// lets the request through anonymously.
func (m *AuthMiddleware) OptionalAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Get(fiber.HeaderAuthorization) == "" {
			return c.Next()
		}

		if userID, err := m.authenticate(c); err == nil {
			c.Locals(shared.UserID, userID)
		}
		return c.Next()
	}
}

func (m *AuthMiddleware) authenticate(c *fiber.Ctx) (string, error) {
	token, err := m.verifier.ExtractTokenFromHeader(c.Get(fiber.HeaderAuthorization))
	if err != nil {
		return "", err
	}

	userID, err := m.verifier.VerifyJWTToken(strings.TrimSpace(token))
	if err != nil {
		return "", shared.NewUnauthorizedError(err, "Invalid JWT token")
	}
	if userID == "" {
		return "", shared.NewUnauthorizedError(nil, "Invalid user ID in token")
	}

	return userID, nil
}
