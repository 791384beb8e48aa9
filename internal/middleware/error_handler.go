package middleware

import (
	"errors"

	"trailerstore/internal/apperror"
	"trailerstore/internal/response"
	"trailerstore/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

// ErrorHandler turns errors returned by handlers into envelope responses.
// Internal causes are logged and never rendered.
func ErrorHandler(log *logger.Logger, production bool) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status, message, fields := classify(err)

		if status >= fiber.StatusInternalServerError {
			log.Errorw("request failed",
				"method", c.Method(),
				"path", c.Path(),
				"status", status,
				"request_id", requestID(c),
				"error", err,
			)
		}
		return response.Error(c, status, message, fields, production)
	}
}

func classify(err error) (int, string, []apperror.FieldError) {
	if appErr, ok := apperror.As(err); ok {
		return appErr.Kind.HTTPStatus(), appErr.Message, appErr.Fields
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		switch fiberErr.Code {
		case fiber.StatusNotFound:
			return fiberErr.Code, "Route not found", nil
		case fiber.StatusRequestEntityTooLarge:
			return fiberErr.Code, "Request payload too large", nil
		case fiber.StatusUnprocessableEntity, fiber.StatusBadRequest:
			return fiber.StatusBadRequest, "Invalid JSON format", nil
		}
		return fiberErr.Code, fiberErr.Message, nil
	}

	return fiber.StatusInternalServerError, err.Error(), nil
}

func requestID(c *fiber.Ctx) string {
	id, _ := c.Locals(requestid.ConfigDefault.ContextKey).(string)
	return id
}
