package jwt

//go:generate go run go.uber.org/mock/mockgen -source=./jwt.go -destination=./mocks/jwt_mock.go -package=mocks

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"unires/config"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
	ErrInvalidClaim = errors.New("invalid token claim")
	ErrMissingToken = errors.New("authorization header is required")
	ErrBadScheme    = errors.New("authorization header must start with 'Bearer '")
)

// TokenType represents the type of JWT token
type TokenType string

const (
	AccessToken TokenType = "access"
)

const bearerPrefix = "Bearer "

// Claims identifies the actor behind a request. Tokens are issued by the
// campus identity service; this service only verifies them.
type Claims struct {
	UserID  string    `json:"user_id"`
	Email   string    `json:"email"`
	Role    string    `json:"role,omitempty"`
	TokenID string    `json:"token_id"`
	Type    TokenType `json:"type"`
	jwt.RegisteredClaims
}

type JWT interface {
	ValidateToken(tokenString string) (*Claims, error)
}

type Service struct {
	secret []byte
}

func New(cfg *config.Config) JWT {
	return &Service{secret: []byte(cfg.JWT.AccessSecret)}
}

// ValidateToken parses an HMAC-signed access token.
func (s *Service) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}

		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}

		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	if claims.Type != AccessToken || claims.UserID == "" {
		return nil, ErrInvalidClaim
	}

	return claims, nil
}

// Sign issues an access token with the given secret. Used by local tooling
// and tests; production tokens come from the identity service.
func Sign(secret, userID, email, role string, issuedAt time.Time, ttl time.Duration) (string, error) {
	tokenID := uuid.NewString()

	claims := Claims{
		UserID:  userID,
		Email:   email,
		Role:    role,
		TokenID: tokenID,
		Type:    AccessToken,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
			Subject:   userID,
			ID:        tokenID,
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// ExtractTokenFromHeader extracts JWT token from Authorization header
func ExtractTokenFromHeader(authHeader string) (string, error) {
	if authHeader == "" {
		return "", ErrMissingToken
	}

	if !strings.HasPrefix(authHeader, bearerPrefix) {
		return "", ErrBadScheme
	}

	return strings.TrimPrefix(authHeader, bearerPrefix), nil
}
