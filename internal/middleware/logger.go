package middleware

import (
	"time"

	"trailerstore/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// RequestLogger logs HTTP requests with timing and status.
func RequestLogger(log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()
		// Let the app error handler write the response so the logged status is final.
		if err != nil {
			if handlerErr := c.App().ErrorHandler(c, err); handlerErr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		log.Infow("http request",
			"method", c.Method(),
			"path", c.Path(),
			"query", string(c.Request().URI().QueryString()),
			"status", c.Response().StatusCode(),
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.IP(),
			"request_id", requestID(c),
		)
		return nil
	}
}
