// Package middleware provides HTTP middleware shared across handlers
package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// BearerAuth validates a static Bearer token against apiKey (Authorization
// header parsed as "Bearer <token>") against a single configured shared
// secret.
func BearerAuth(apiKey string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing Authorization header",
			})
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid Authorization header format",
			})
		}

		if parts[1] != apiKey {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid token",
			})
		}

		return c.Next()
	}
}
