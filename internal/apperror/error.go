// Package apperror provides the tagged error kinds shared by the store, the service and
// the HTTP layer. Callers switch on Kind instead of inspecting error text.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for translation into an HTTP response.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindDuplicate
	KindInvalidID
	KindNotFound
	KindPayloadTooLarge
	KindMalformedBody
	KindTokenInvalid
	KindTokenExpired
	KindUnavailable
)

var kindNames = map[Kind]string{
	KindInternal:        "internal",
	KindValidation:      "validation",
	KindDuplicate:       "duplicate",
	KindInvalidID:       "invalid_id",
	KindNotFound:        "not_found",
	KindPayloadTooLarge: "payload_too_large",
	KindMalformedBody:   "malformed_body",
	KindTokenInvalid:    "token_invalid",
	KindTokenExpired:    "token_expired",
	KindUnavailable:     "unavailable",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// HTTPStatus returns the status code a kind is answered with.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindValidation, KindInvalidID, KindMalformedBody:
		return http.StatusBadRequest
	case KindDuplicate:
		return http.StatusConflict
	case KindNotFound:
		return http.StatusNotFound
	case KindPayloadTooLarge:
		return http.StatusRequestEntityTooLarge
	case KindTokenInvalid, KindTokenExpired:
		return http.StatusUnauthorized
	case KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// FieldError describes one rejected input field.
type FieldError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

// Error is the standard error type of the service.
type Error struct {
	Kind    Kind
	Message string
	Fields  []FieldError
	// Err is the underlying cause; never rendered to clients.
	Err error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// WithCause sets the underlying error.
func (e *Error) WithCause(err error) *Error {
	e.Err = err
	return e
}

// --- Factory functions ---

// New creates an error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Validation creates a validation failure carrying field-level detail.
func Validation(fields ...FieldError) *Error {
	return &Error{Kind: KindValidation, Message: "Validation failed", Fields: fields}
}

// NotFound creates a not found error for the named resource.
func NotFound(resource string) *Error {
	return &Error{Kind: KindNotFound, Message: resource + " not found"}
}

// Duplicate creates a unique-key conflict.
func Duplicate(field, value string) *Error {
	return &Error{Kind: KindDuplicate, Message: fmt.Sprintf("%s '%s' already exists", field, value)}
}

// InvalidID creates an error for identifiers that can never match a record.
func InvalidID() *Error {
	return &Error{Kind: KindInvalidID, Message: "Invalid ID format"}
}

// MalformedBody creates an error for request bodies that cannot be decoded.
func MalformedBody(err error) *Error {
	return &Error{Kind: KindMalformedBody, Message: "Invalid JSON format", Err: err}
}

// Unavailable creates an error for a store that cannot be reached.
func Unavailable(message string, err error) *Error {
	return &Error{Kind: KindUnavailable, Message: message, Err: err}
}

// Internal creates an unhandled failure with a client-facing message.
func Internal(message string, err error) *Error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}

// --- Helpers ---

// As extracts an *Error from the chain.
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// KindOf returns the kind of err, KindInternal for foreign errors.
func KindOf(err error) Kind {
	if appErr, ok := As(err); ok {
		return appErr.Kind
	}
	return KindInternal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Wrap keeps known kinds and turns everything else into an internal error with message.
func Wrap(err error, message string) *Error {
	if appErr, ok := As(err); ok && appErr.Kind != KindInternal {
		return appErr
	}
	return Internal(message, err)
}
