// Package response renders the JSON envelope every endpoint answers with.
package response

import (
	"time"

	"trailerstore/internal/apperror"

	"github.com/gofiber/fiber/v2"
)

// TimestampFormat is ISO-8601 in UTC with millisecond precision.
const TimestampFormat = "2006-01-02T15:04:05.000Z07:00"

// InternalErrorMessage replaces 500 messages in production.
const InternalErrorMessage = "Internal server error"

// Envelope is the uniform response body.
type Envelope struct {
	Success   bool                  `json:"success"`
	Message   string                `json:"message"`
	Data      interface{}           `json:"data,omitempty"`
	Errors    []apperror.FieldError `json:"errors,omitempty"`
	Timestamp string                `json:"timestamp"`
}

// Now returns the current time in envelope format.
func Now() string {
	return time.Now().UTC().Format(TimestampFormat)
}

// Success sends a 200 envelope. A nil data is omitted from the body.
func Success(c *fiber.Ctx, data interface{}, message string) error {
	return c.Status(fiber.StatusOK).JSON(Envelope{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: Now(),
	})
}

// Created sends a 201 envelope.
func Created(c *fiber.Ctx, data interface{}, message string) error {
	return c.Status(fiber.StatusCreated).JSON(Envelope{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: Now(),
	})
}

// Error sends a failure envelope. In production a 500 message is replaced by a generic one.
func Error(c *fiber.Ctx, status int, message string, fields []apperror.FieldError, production bool) error {
	if production && status == fiber.StatusInternalServerError {
		message = InternalErrorMessage
	}
	return c.Status(status).JSON(Envelope{
		Success:   false,
		Message:   message,
		Errors:    fields,
		Timestamp: Now(),
	})
}
