// internal/identity/identity.go
//
// Player identity from the hub. The embedding hub hands the game a
// signed token identifying the player; an absent or invalid token
// only disables statistics submission, never gameplay.

package identity

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("identity: invalid token")

// FromToken verifies an HS256 hub token and returns the player id
// claim. Returns ErrInvalidToken for missing, malformed, expired, or
// mis-signed tokens.
func FromToken(token, secret string) (string, error) {
	if token == "" {
		return "", ErrInvalidToken
	}
	claims := jwt.MapClaims{}
	t, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil || !t.Valid {
		return "", ErrInvalidToken
	}
	id, _ := claims["id"].(string)
	if id == "" {
		return "", ErrInvalidToken
	}
	return id, nil
}
