package middleware

import (
	"strings"

	"trailerstore/internal/apperror"

	"github.com/gofiber/fiber/v2"
)

// TokenValidator validates a bearer token and returns its subject.
type TokenValidator interface {
	Validate(tokenString string) (string, error)
}

// AuthRequired is a Fiber middleware to check for a valid JWT token.
func AuthRequired(validator TokenValidator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Expected format: "Bearer <token>"
		parts := strings.SplitN(c.Get(fiber.HeaderAuthorization), " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
			return apperror.New(apperror.KindTokenInvalid, "Invalid token")
		}

		subject, err := validator.Validate(parts[1])
		if err != nil {
			return err
		}

		c.Locals("subject", subject)
		return c.Next()
	}
}

// WritesOnly applies guard to every method except GET, HEAD and OPTIONS.
func WritesOnly(guard fiber.Handler) fiber.Handler {
	return func(c *fiber.Ctx) error {
		switch c.Method() {
		case fiber.MethodGet, fiber.MethodHead, fiber.MethodOptions:
			return c.Next()
		}
		return guard(c)
	}
}
