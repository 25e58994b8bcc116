package jwtx

import (
	"fmt"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the access-token claims we rely on. Permissions is nil when the
// token has no "permissions" claim at all, and empty when the claim is present
// but grants nothing; the two cases are reported differently.
type Claims struct {
	jwt.RegisteredClaims

	// Permission strings, e.g. "get:drinks-detail". Exact-match only.
	Permissions []string `json:"permissions"`

	// Scope is the space delimited OAuth2 scope, informational only.
	Scope string `json:"scope,omitempty"`

	// AuthorizedParty is the client the token was issued to.
	AuthorizedParty string `json:"azp,omitempty"`
}

// NewAccessClaims builds minimally-correct claims. Used by test issuers and
// tooling; production tokens come from the identity provider.
func NewAccessClaims(
	subject, issuer string,
	audience, permissions []string,
	ttl time.Duration,
	now time.Time,
) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			Audience:  jwt.ClaimStrings(audience),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Permissions: permissions,
	}
}

// HasPermissionsClaim reports whether the token carried a permissions claim.
func (c *Claims) HasPermissionsClaim() bool {
	return c.Permissions != nil
}

// HasPermission is exact, case-sensitive set membership.
func (c *Claims) HasPermission(permission string) bool {
	return slices.Contains(c.Permissions, permission)
}

// ValidateIssuer checks if the issuer matches expected value.
func (c *Claims) ValidateIssuer(expected string) error {
	if c.Issuer != expected {
		return fmt.Errorf("%w: got %q", ErrIssuer, c.Issuer)
	}
	return nil
}

// ValidateAudience checks the expected audience is one of the token's.
func (c *Claims) ValidateAudience(expected string) error {
	if slices.Contains(c.Audience, expected) {
		return nil
	}
	return fmt.Errorf("%w: %q not in %v", ErrAudience, expected, []string(c.Audience))
}

// ValidateExpiryAt requires now to be strictly before exp+leeway.
func (c *Claims) ValidateExpiryAt(now time.Time, leeway time.Duration) error {
	if c.ExpiresAt == nil {
		return fmt.Errorf("%w: missing exp", ErrInvalidClaims)
	}
	if !now.Before(c.ExpiresAt.Add(leeway)) {
		return fmt.Errorf("%w: expired at %s", ErrExpired, c.ExpiresAt.UTC().Format(time.RFC3339))
	}
	return nil
}

// validateRequired checks presence of the claims every token must carry,
// plus nbf when it is set.
func (c *Claims) validateRequired(now time.Time, leeway time.Duration) error {
	switch {
	case c.Issuer == "":
		return fmt.Errorf("%w: missing iss", ErrInvalidClaims)
	case c.Subject == "":
		return fmt.Errorf("%w: missing sub", ErrInvalidClaims)
	case len(c.Audience) == 0:
		return fmt.Errorf("%w: missing aud", ErrInvalidClaims)
	case c.ExpiresAt == nil:
		return fmt.Errorf("%w: missing exp", ErrInvalidClaims)
	}

	if c.NotBefore != nil && now.Add(leeway).Before(c.NotBefore.Time) {
		return fmt.Errorf("%w: not valid before %s", ErrInvalidClaims, c.NotBefore.UTC().Format(time.RFC3339))
	}
	return nil
}
