package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var sessionSecret []byte

// SetSessionSecret sets the HMAC secret used to verify session tokens issued
// by the identity provider's session infrastructure.
func SetSessionSecret(secret string) {
	sessionSecret = []byte(secret)
}

// SessionClaims are the claims of a provider session token. Subject carries
// the provider-issued user id.
type SessionClaims struct {
	jwt.RegisteredClaims
}

// GenerateSessionToken mints a session token for the given user id. Used by
// development tooling and tests; production tokens come from the provider.
func GenerateSessionToken(userID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(sessionSecret)
}

// ParseSessionToken verifies a session token and returns its claims.
func ParseSessionToken(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return sessionSecret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.Subject == "" {
		return nil, errors.New("token has no subject")
	}
	return claims, nil
}
