package jwtutil

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"storefront-service/pkg/config"
)

var cfg *config.JWTConfig

// ErrNotInitialized is returned when tokens are generated before Initialize.
var ErrNotInitialized = errors.New("jwt configuration not provided")

// UserClaims represents the JWT claims for an authenticated session. The
// token carries subject identity and role only; everything else is resolved
// from the database per request.
type UserClaims struct {
	UserID uint   `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Initialize sets the signing configuration used by GenerateToken and
// ValidateToken. Call once at startup.
func Initialize(c *config.JWTConfig) {
	cfg = c
}

// GenerateToken creates a signed HS256 token for the given subject
func GenerateToken(userID uint, role string) (string, error) {
	if cfg == nil {
		return "", ErrNotInitialized
	}

	now := time.Now()
	claims := UserClaims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(cfg.Expiration())),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.SigningKey))
}

// ValidateToken validates and parses the JWT token
func ValidateToken(tokenString string) (*UserClaims, error) {
	if cfg == nil {
		return nil, ErrNotInitialized
	}

	token, err := jwt.ParseWithClaims(tokenString, &UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(cfg.SigningKey), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*UserClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, jwt.ErrSignatureInvalid
}
