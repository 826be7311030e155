package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

const (
	RoleOrganizer = "organizer"

	defaultTokenTTL = 12 * time.Hour
)

type AuthService interface {
	Login(ctx context.Context, input LoginInput) (*LoginResult, error)
}

type LoginInput struct {
	Password string `json:"password"`
}

type LoginResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type AuthServiceConfig struct {
	OrganizerPassword string
	JWTSecret         []byte
	TokenTTL          time.Duration
	// BcryptCost defaults to bcrypt.DefaultCost.
	BcryptCost int
	Now        func() time.Time
}

type authService struct {
	passwordHash []byte
	jwtSecret    []byte
	tokenTTL     time.Duration
	now          func() time.Time
}

// NewAuthService hashes the organizer password once; only the hash is kept.
func NewAuthService(cfg AuthServiceConfig) (AuthService, error) {
	if cfg.OrganizerPassword == "" {
		return nil, errors.New("organizer password is required")
	}
	if len(cfg.JWTSecret) == 0 {
		return nil, errors.New("jwt secret is required")
	}
	cost := cfg.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.OrganizerPassword), cost)
	if err != nil {
		return nil, fmt.Errorf("ошибка хеширования пароля: %w", err)
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = defaultTokenTTL
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &authService{
		passwordHash: hash,
		jwtSecret:    cfg.JWTSecret,
		tokenTTL:     cfg.TokenTTL,
		now:          cfg.Now,
	}, nil
}

func (s *authService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	err := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(input.Password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to compare password hash: %w", err)
	}

	now := s.now()
	expiresAt := now.Add(s.tokenTTL)
	claims := jwt.MapClaims{
		"sub":  RoleOrganizer,
		"role": RoleOrganizer,
		"exp":  expiresAt.Unix(),
		"iat":  now.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return &LoginResult{Token: tokenString, ExpiresAt: expiresAt}, nil
}
