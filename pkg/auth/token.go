package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "innkeeper/pkg/errors"
)

// Principal is the authenticated caller as the core sees it: an opaque user
// id plus the single capability bit the booking rules need. Identity itself
// (registration, passwords, sessions) lives in an external service that
// issues the tokens.
type Principal struct {
	UserID  string
	Name    string
	IsAdmin bool
}

// IssueToken signs an HS256 access token for a principal. Used by tests and
// by operators minting service tokens; the identity service is the normal
// issuer in production.
func IssueToken(secret string, p Principal, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub":   p.UserID,
		"name":  p.Name,
		"admin": p.IsAdmin,
		"iat":   now.Unix(),
		"exp":   now.Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ParseToken validates a bearer token and extracts the principal. Any parse
// or signature failure comes back as Unauthorized.
func ParseToken(secret, raw string) (Principal, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return Principal{}, apperrors.Unauthorized("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Principal{}, apperrors.Unauthorized("invalid token claims")
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return Principal{}, apperrors.Unauthorized("token missing subject")
	}

	name, _ := claims["name"].(string)
	isAdmin, _ := claims["admin"].(bool)

	return Principal{
		UserID:  sub,
		Name:    name,
		IsAdmin: isAdmin,
	}, nil
}
