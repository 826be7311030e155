package middleware

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v4"
)

// Определяем константы для имен JWT claims
const (
	jwtClaimSubject = "sub"
	jwtClaimRole    = "role"
)

func claimsFromContext(ctx context.Context) (jwt.MapClaims, error) {
	claims, ok := ctx.Value(userContextKey).(jwt.MapClaims)
	if !ok {
		return nil, errors.New("user claims not found in context or invalid type")
	}
	return claims, nil
}

func GetUserRoleFromContext(ctx context.Context) (string, error) {
	claims, err := claimsFromContext(ctx)
	if err != nil {
		return "", err
	}
	roleClaim, ok := claims[jwtClaimRole]
	if !ok {
		return "", fmt.Errorf("missing '%s' claim in token", jwtClaimRole)
	}
	role, ok := roleClaim.(string)
	if !ok {
		return "", fmt.Errorf("invalid type for '%s' claim: expected string, got %T", jwtClaimRole, roleClaim)
	}
	return role, nil
}

// GetSubjectFromContext returns who signed in, for logging.
func GetSubjectFromContext(ctx context.Context) string {
	claims, err := claimsFromContext(ctx)
	if err != nil {
		return ""
	}
	sub, _ := claims[jwtClaimSubject].(string)
	return sub
}
