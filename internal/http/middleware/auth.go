package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"leadengine/internal/service"
)

// UserLocalKey is the key used to store the authenticated user in Fiber's
// context locals.
const UserLocalKey = "current_user"

// RequireAuth validates the bearer token on each request and stores the
// resolved user in context locals. Requests without a valid token for an
// active account are rejected with 401.
func RequireAuth(auth service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			return unauthorized(c, "TOKEN_REQUIRED", "missing bearer token")
		}

		user, err := auth.Authenticate(c.UserContext(), token)
		if err != nil {
			if errors.Is(err, service.ErrAccountDisabled) {
				return unauthorized(c, "ACCOUNT_DISABLED", "account is deactivated")
			}
			if errors.Is(err, service.ErrInvalidToken) {
				return unauthorized(c, "INVALID_TOKEN", "invalid or expired token")
			}
			return fiber.ErrInternalServerError
		}

		c.Locals(UserLocalKey, user)
		return c.Next()
	}
}

func unauthorized(c *fiber.Ctx, code, message string) error {
	rid, _ := c.Locals(RequestIDLocalKey).(string)
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"request_id": rid,
		"error":      fiber.Map{"code": code, "message": message},
	})
}
