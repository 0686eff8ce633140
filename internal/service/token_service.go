package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"supplyplan/internal/config"
	"supplyplan/internal/domain"
)

const tokenAudience = "api"

// Claims holds the JWT claims of an API access token.
type Claims struct {
	jwt.RegisteredClaims
	Role domain.Role `json:"role"`
}

// TokenService issues and validates API access tokens.
type TokenService interface {
	Issue(subject string, role domain.Role, ttl time.Duration) (token string, expiresAt time.Time, err error)
	Validate(token string) (*Claims, error)
}

type tokenService struct {
	cfg config.AuthConfig
	now func() time.Time
}

// NewTokenService creates a new HMAC-signed TokenService.
func NewTokenService(cfg config.AuthConfig) TokenService {
	return &tokenService{cfg: cfg, now: time.Now}
}

func (s *tokenService) Issue(subject string, role domain.Role, ttl time.Duration) (string, time.Time, error) {
	if !domain.ValidRoles[role] {
		return "", time.Time{}, fmt.Errorf("issuing token: unknown role %q", role)
	}
	now := s.now()
	expiresAt := now.Add(ttl)

	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    s.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.New().String(),
			Audience:  jwt.ClaimStrings{tokenAudience},
		},
		Role: role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("signing token: %w", err)
	}
	return signed, expiresAt, nil
}

func (s *tokenService) Validate(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.Secret), nil
	},
		jwt.WithAudience(tokenAudience),
		jwt.WithIssuer(s.cfg.Issuer),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	if !token.Valid || !domain.ValidRoles[claims.Role] {
		return nil, domain.ErrUnauthorized
	}
	return claims, nil
}
