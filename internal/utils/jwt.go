// Package utils provides helpers for password hashing, session token
// issuance and password reset token generation.
package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims is the authenticated identity carried by a session token.
// The role claim is informational only; authorization decisions re-read the
// user record so role changes take effect immediately.
type SessionClaims struct {
	UserID string
	Email  string
	Role   string
}

var errInvalidToken = errors.New("invalid token")

// NewSessionToken builds and signs an HS256 JWT for a user. Claims follow
// the usual shape: sub (user id), email, role, exp and iat.
func NewSessionToken(secret, userID, email, role string, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub":   userID,
		"email": email,
		"role":  role,
		"exp":   now.Add(ttl).Unix(),
		"iat":   now.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(secret))
}

// ParseSessionToken verifies the signature and expiry of a session token and
// returns its claims. Tokens signed with any method other than HMAC are
// rejected.
func ParseSessionToken(secret, raw string) (SessionClaims, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return SessionClaims{}, errInvalidToken
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return SessionClaims{}, errInvalidToken
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return SessionClaims{}, errInvalidToken
	}
	email, _ := claims["email"].(string)
	role, _ := claims["role"].(string)
	return SessionClaims{UserID: sub, Email: email, Role: role}, nil
}
