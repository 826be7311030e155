package services

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestAuthLogin(t *testing.T) {
	secret := []byte("test-secret")
	now := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
	svc, err := NewAuthService(AuthServiceConfig{
		OrganizerPassword: "boules",
		JWTSecret:         secret,
		BcryptCost:        bcrypt.MinCost,
		Now:               func() time.Time { return now },
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), LoginInput{Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	result, err := svc.Login(context.Background(), LoginInput{Password: "boules"})
	require.NoError(t, err)
	assert.Equal(t, now.Add(12*time.Hour), result.ExpiresAt)

	claims := jwt.MapClaims{}
	parser := jwt.Parser{SkipClaimsValidation: true}
	_, err = parser.ParseWithClaims(result.Token, claims, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	})
	require.NoError(t, err)
	assert.Equal(t, RoleOrganizer, claims["role"])
	assert.EqualValues(t, now.Add(12*time.Hour).Unix(), claims["exp"])
}

func TestNewAuthServiceRequiresSecrets(t *testing.T) {
	_, err := NewAuthService(AuthServiceConfig{JWTSecret: []byte("x")})
	assert.Error(t, err)
	_, err = NewAuthService(AuthServiceConfig{OrganizerPassword: "x"})
	assert.Error(t, err)
}
