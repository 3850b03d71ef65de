package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"socialhub/dto"
	"socialhub/internal/token"
)

// RequireAuth verifies the Bearer token and stores the user id in Locals.
// Requests without a valid token never reach the handler.
func RequireAuth(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		auth := c.Get("Authorization")
		if auth == "" || !strings.HasPrefix(strings.ToLower(auth), "bearer ") {
			return c.Status(fiber.StatusUnauthorized).
				JSON(dto.ErrorResponse{Message: "No token provided. Please login."})
		}

		uid, err := token.Parse(secret, strings.TrimSpace(auth[7:]))
		if err != nil {
			msg := "Invalid token. Please login again."
			if errors.Is(err, token.ErrExpired) {
				msg = "Token expired. Please login again."
			}
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Message: msg})
		}

		c.Locals("user_id", uid)
		return c.Next()
	}
}
