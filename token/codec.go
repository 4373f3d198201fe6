// Package token decodes bearer token payloads without verifying them. The
// client treats the payload purely as a hint about expiry and identity; the
// backend remains the authority on whether a token is actually valid.
package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// Payload holds the decoded claims of a bearer token. A zero Payload means
// the token could not be decoded.
type Payload struct {
	Subject           string
	ExpiresAt         int64 // unix seconds; 0 when the claim is absent
	Role              string
	PreferredUsername string
	Email             string
	GivenName         string
	FamilyName        string
}

// Empty reports whether nothing could be decoded from the token.
func (p Payload) Empty() bool {
	return p == Payload{}
}

// Decode extracts the payload segment of a bearer token. It never fails: any
// malformed input (wrong segment count, bad base64, bad JSON) yields a zero
// Payload.
func Decode(raw string) Payload {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return Payload{}
	}

	var p Payload
	if sub, err := claims.GetSubject(); err == nil {
		p.Subject = sub
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		p.ExpiresAt = exp.Unix()
	}
	p.Role = stringClaim(claims, "role")
	p.PreferredUsername = stringClaim(claims, "preferred_username")
	p.Email = stringClaim(claims, "email")
	p.GivenName = stringClaim(claims, "given_name")
	p.FamilyName = stringClaim(claims, "family_name")
	return p
}

// Expired reports whether the payload's expiry has already passed. A missing
// expiry claim counts as not expired; the server arbitrates such tokens.
func (p Payload) Expired() bool {
	return p.ExpiresAt != 0 && p.ExpiresAt < NowTimeFunc().Unix()
}

// ExpiredWithin is the conservative pre-flight check: it treats a token as
// expired when it will expire within buffer. A token without an expiry claim
// is considered expired; a token that cannot be decoded at all is not, so the
// request is still attempted and rejected authoritatively by the server.
func ExpiredWithin(raw string, buffer time.Duration) bool {
	p := Decode(raw)
	if p.Empty() {
		return false
	}
	if p.ExpiresAt == 0 {
		return true
	}
	return p.ExpiresAt < NowTimeFunc().Add(buffer).Unix()
}

// ValidWithGrace reports whether the token still looks usable, tolerating
// grace of clock skew between renewal and use. Undecodable tokens pass (the
// next API call settles it); tokens without an expiry claim do not.
func ValidWithGrace(raw string, grace time.Duration) bool {
	p := Decode(raw)
	if p.Empty() {
		return true
	}
	if p.ExpiresAt == 0 {
		return false
	}
	return p.ExpiresAt > NowTimeFunc().Add(-grace).Unix()
}

func stringClaim(claims jwt.MapClaims, name string) string {
	if v, ok := claims[name].(string); ok {
		return v
	}
	return ""
}
