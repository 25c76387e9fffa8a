// Package auth handles session tokens on the client side.
//
// The client never verifies token signatures (it has no secret; the
// backend is the verifier). What the client does need is the expiry claim,
// so that a session restored from storage with a token that expired while
// the app was closed is discarded instead of presented as authenticated.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenExpiry extracts the "exp" claim from a JWT without verifying its
// signature. Returns the zero time (and nil error) when the token carries
// no expiry claim.
func TokenExpiry(tokenStr string) (time.Time, error) {
	parser := jwt.NewParser()
	token, _, err := parser.ParseUnverified(tokenStr, jwt.MapClaims{})
	if err != nil {
		return time.Time{}, fmt.Errorf("auth: parsing token: %w", err)
	}

	exp, err := token.Claims.GetExpirationTime()
	if err != nil {
		return time.Time{}, fmt.Errorf("auth: reading expiry claim: %w", err)
	}
	if exp == nil {
		return time.Time{}, nil
	}
	return exp.Time, nil
}

// TokenExpired reports whether the token's expiry claim is in the past.
// Tokens that fail to parse count as expired; tokens without an expiry
// claim never expire (the backend decides their lifetime).
func TokenExpired(tokenStr string, now time.Time) bool {
	exp, err := TokenExpiry(tokenStr)
	if err != nil {
		return true
	}
	if exp.IsZero() {
		return false
	}
	return exp.Before(now)
}
