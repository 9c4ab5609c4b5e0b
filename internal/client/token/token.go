// Package token decodes bearer tokens into credentials and keeps the current
// one in the persistent "authToken" slot.
//
// The client never verifies signatures: it only needs the expiry claim to
// decide whether a renewal is due before a privileged call.
package token

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// Credential is a decoded token. ExpiresAt is always the exp claim of Raw;
// build credentials with Decode only.
type Credential struct {
	Raw       string
	ExpiresAt int64
}

// DecodeError reports a token that is not a well-formed JWT with an exp claim.
type DecodeError struct {
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("decode token: %s: %v", e.Reason, e.Err)
	}
	return "decode token: " + e.Reason
}

func (e *DecodeError) Unwrap() error { return e.Err }

var ErrMissingExpiry = errors.New("exp claim missing")

var parser = jwt.NewParser()

// Decode extracts the expiry from raw without verifying its signature.
func Decode(raw string) (Credential, error) {
	if strings.Count(raw, ".") != 2 {
		return Credential{}, &DecodeError{Reason: "expected three dot-separated segments"}
	}

	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(raw, claims); err != nil {
		return Credential{}, &DecodeError{Reason: "malformed payload", Err: err}
	}

	exp, err := claims.GetExpirationTime()
	if err != nil {
		return Credential{}, &DecodeError{Reason: "malformed exp claim", Err: err}
	}
	if exp == nil {
		return Credential{}, &DecodeError{Reason: "no expiry", Err: ErrMissingExpiry}
	}

	return Credential{Raw: raw, ExpiresAt: exp.Unix()}, nil
}

// IsExpired reports whether c is no longer usable at now (epoch seconds).
// The boundary is inclusive and there is no skew grace.
func IsExpired(c Credential, now int64) bool {
	return now >= c.ExpiresAt
}
