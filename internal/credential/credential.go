// Package credential inspects bearer tokens issued by the quiz API without
// verifying their signature. The client never holds the signing key; it only
// needs the expiry to decide whether a stored token is worth presenting.
package credential

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrMalformed is returned when a token is not a decodable three-segment JWT.
var ErrMalformed = errors.New("malformed credential token")

// ErrNoExpiry is returned when a token carries no exp claim.
var ErrNoExpiry = errors.New("credential token has no expiry")

var parser = jwt.NewParser()

// Claims is the subset of token claims the client cares about.
type Claims struct {
	Subject   string
	ExpiresAt time.Time
}

// Decode extracts the claims of a token. The signature is not checked.
func Decode(token string) (*Claims, error) {
	if strings.Count(token, ".") != 2 {
		return nil, ErrMalformed
	}

	mc := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, mc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	exp, err := mc.GetExpirationTime()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if exp == nil {
		return nil, ErrNoExpiry
	}

	sub, _ := mc.GetSubject()

	return &Claims{Subject: sub, ExpiresAt: exp.Time}, nil
}

// Expired reports whether token should be treated as unusable at now. Absent,
// malformed and expiry-less tokens all count as expired, as does a token whose
// exp is at or before now (second resolution).
func Expired(token string, now time.Time) bool {
	if token == "" {
		return true
	}
	c, err := Decode(token)
	if err != nil {
		return true
	}
	return c.ExpiresAt.Unix() <= now.Unix()
}
