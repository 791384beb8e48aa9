package apperror_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"trailerstore/internal/apperror"

	"github.com/stretchr/testify/assert"
)

func TestKind_HTTPStatus(t *testing.T) {
	tests := map[apperror.Kind]int{
		apperror.KindValidation:      http.StatusBadRequest,
		apperror.KindDuplicate:       http.StatusConflict,
		apperror.KindInvalidID:       http.StatusBadRequest,
		apperror.KindNotFound:        http.StatusNotFound,
		apperror.KindPayloadTooLarge: http.StatusRequestEntityTooLarge,
		apperror.KindMalformedBody:   http.StatusBadRequest,
		apperror.KindTokenInvalid:    http.StatusUnauthorized,
		apperror.KindTokenExpired:    http.StatusUnauthorized,
		apperror.KindUnavailable:     http.StatusServiceUnavailable,
		apperror.KindInternal:        http.StatusInternalServerError,
	}
	for kind, status := range tests {
		assert.Equal(t, status, kind.HTTPStatus(), kind.String())
	}
}

func TestKindOf_ThroughWrapping(t *testing.T) {
	err := fmt.Errorf("repo: %w", apperror.NotFound("Trailer"))

	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
	assert.Equal(t, apperror.KindInternal, apperror.KindOf(errors.New("plain")))
	assert.False(t, apperror.Is(nil, apperror.KindInternal))
}

func TestWrap(t *testing.T) {
	notFound := apperror.NotFound("Trailer")
	assert.Same(t, notFound, apperror.Wrap(notFound, "Failed to retrieve trailer"))

	cause := errors.New("disk on fire")
	wrapped := apperror.Wrap(cause, "Failed to retrieve trailer")
	assert.Equal(t, apperror.KindInternal, wrapped.Kind)
	assert.Equal(t, "Failed to retrieve trailer", wrapped.Message)
	assert.ErrorIs(t, wrapped, cause)
}

func TestDuplicateMessage(t *testing.T) {
	err := apperror.Duplicate("slug", "boat")
	assert.Equal(t, "slug 'boat' already exists", err.Message)
	assert.Equal(t, "duplicate: slug 'boat' already exists", err.Error())
}
