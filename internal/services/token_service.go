package services

import (
	"fmt"
	"time"

	"trailerstore/internal/apperror"

	"github.com/dgrijalva/jwt-go"
)

// TokenService issues and validates the bearer tokens that guard write routes.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService creates a new TokenService.
func NewTokenService(secret string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = 24 * time.Hour // Token valid for 24 hours
	}
	return &TokenService{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue signs an HS256 token for subject.
func (s *TokenService) Issue(subject string) (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.StandardClaims{
		Subject:   subject,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(s.ttl).Unix(),
	})

	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}

// Validate parses tokenString and returns its subject.
func (s *TokenService) Validate(tokenString string) (string, error) {
	claims := &jwt.StandardClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		if ve, ok := err.(*jwt.ValidationError); ok && ve.Errors&jwt.ValidationErrorExpired != 0 {
			return "", apperror.New(apperror.KindTokenExpired, "Token expired").WithCause(err)
		}
		return "", apperror.New(apperror.KindTokenInvalid, "Invalid token").WithCause(err)
	}
	if !token.Valid {
		return "", apperror.New(apperror.KindTokenInvalid, "Invalid token")
	}
	return claims.Subject, nil
}
