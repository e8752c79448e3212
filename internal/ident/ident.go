// Package ident verifies bearer credentials. The identity provider itself is
// external; this package only checks that a presented token was signed with
// the deployment secret and extracts the user UID it names.
package ident

import (
	"fmt"
	"time"

	"github.com/goalraiders/goalraiders/internal/apperr"
	"github.com/golang-jwt/jwt/v4"
)

// Claims is the token payload: the opaque user identifier plus standard
// registered claims.
type Claims struct {
	UID string `json:"uid"`
	jwt.RegisteredClaims
}

// Mint signs a token for the given UID, valid for ttl. Used by the dev CLI
// and tests; in production the identity provider issues tokens.
func Mint(secret []byte, uid string, ttl time.Duration) (string, error) {
	if uid == "" {
		return "", fmt.Errorf("ident: uid is required")
	}
	claims := &Claims{
		UID: uid,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("ident: sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token, returning the UID it names.
func Verify(secret []byte, tokenString string) (string, error) {
	if tokenString == "" {
		return "", apperr.New(apperr.Unauthenticated, "no credential presented")
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return "", apperr.Wrap(apperr.Unauthenticated, err, "invalid credential")
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UID == "" {
		return "", apperr.New(apperr.Unauthenticated, "invalid credential")
	}
	return claims.UID, nil
}
