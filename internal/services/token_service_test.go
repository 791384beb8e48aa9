package services_test

import (
	"testing"
	"time"

	"trailerstore/internal/apperror"
	"trailerstore/internal/services"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenService_IssueAndValidate(t *testing.T) {
	service := services.NewTokenService("testsecret", time.Hour)

	token, err := service.Issue("admin")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	subject, err := service.Validate(token)
	assert.NoError(t, err)
	assert.Equal(t, "admin", subject)
}

func TestTokenService_Validate(t *testing.T) {
	service := services.NewTokenService("testsecret", time.Hour)

	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.StandardClaims{
		Subject:   "admin",
		ExpiresAt: time.Now().Add(-time.Minute).Unix(),
	}).SignedString([]byte("testsecret"))
	require.NoError(t, err)

	foreign, err := services.NewTokenService("othersecret", time.Hour).Issue("admin")
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
		kind  apperror.Kind
	}{
		{name: "expired", token: expired, kind: apperror.KindTokenExpired},
		{name: "wrong secret", token: foreign, kind: apperror.KindTokenInvalid},
		{name: "garbage", token: "not.a.token", kind: apperror.KindTokenInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Validate(tt.token)
			assert.True(t, apperror.Is(err, tt.kind), "got %v", err)
		})
	}
}
