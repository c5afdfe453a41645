package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenExpiry reads the exp claim of a JWT without verifying the signature;
// the client never holds the signing key. ok is false for tokens without exp.
func TokenExpiry(token string) (exp time.Time, ok bool, err error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false, err
	}

	nd, err := claims.GetExpirationTime()
	if err != nil {
		return time.Time{}, false, err
	}
	if nd == nil {
		return time.Time{}, false, nil
	}
	return nd.Time, true, nil
}

// TokenExpired reports whether token carries an exp claim at or before now.
// Opaque or malformed tokens are never reported as expired; the server
// decides with a 401.
func TokenExpired(token string, now time.Time) bool {
	exp, ok, err := TokenExpiry(token)
	if err != nil || !ok {
		return false
	}
	return !now.Before(exp)
}
