package jwtx

import (
	"crypto/rand"
	"encoding/base64"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Session lifetimes used when the service is not configured otherwise.
const (
	DefaultVoterSessionTTL = 2 * time.Hour
	DefaultAdminSessionTTL = time.Hour
)

// Claims carried by every session token. A voter token is bound to the
// project the voter was registered in; admin tokens leave ProjectID empty.
type Claims struct {
	jwt.RegisteredClaims

	// ProjectID scopes a voter session to one project.
	ProjectID string `json:"pid,omitempty"`

	// Scopes e.g. "ballot:write", "admin:read".
	Scopes []string `json:"scopes,omitempty"`

	// Authentication Methods Reference: "otp" for voters, "pwd" for admins.
	AMR []string `json:"amr,omitempty"`
}

// NewSessionClaims builds claims valid from now for ttl.
func NewSessionClaims(
	subject, projectID string,
	scopes, amr []string,
	ttl time.Duration,
	issuer string,
	now time.Time,
) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        NewJTI(),
		},
		ProjectID: projectID,
		Scopes:    scopes,
		AMR:       amr,
	}
}

// NewJTI returns a URL-safe random identifier for the "jti" claim.
func NewJTI() string {
	var b [20]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}

// HasScope reports whether the claims grant scope.
func (c *Claims) HasScope(scope string) bool {
	return slices.Contains(c.Scopes, scope)
}

// ValidateIssuer checks the issuer when expected is non-empty.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected == "" || c.Issuer == expected {
		return nil
	}
	return ErrIssuer
}

// ValidateAudience checks that at least one expected audience is present.
func (c *Claims) ValidateAudience(expected []string) error {
	if len(expected) == 0 {
		return nil
	}
	for _, want := range expected {
		if slices.Contains(c.Audience, want) {
			return nil
		}
	}
	return ErrAudience
}

// ValidateExpiry ensures now is inside [nbf, exp].
func (c *Claims) ValidateExpiry(now time.Time) error {
	if c.ExpiresAt != nil && now.After(c.ExpiresAt.Time) {
		return ErrExpired
	}
	if c.NotBefore != nil && now.Before(c.NotBefore.Time) {
		return ErrNotYetValid
	}
	return nil
}
