// Package authz turns a raw Authorization header into an authorization
// decision: extract the bearer token, verify it, then require a permission.
// Every failure is an *Error carrying the HTTP status and the machine
// readable code to send back.
package authz

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/aussiebroadwan/coffeeshop/pkg/jwtx"
)

// Kind identifies why a request was refused.
type Kind int

const (
	KindMissingHeader Kind = iota + 1
	KindMalformedHeader
	KindInvalidHeader
	KindUnsupportedAlgorithm
	KindKeyNotFound
	KindInvalidSignature
	KindInvalidClaims
	KindInvalidIssuer
	KindInvalidAudience
	KindTokenExpired
	KindKeySourceUnavailable
	KindPermissionsClaimMissing
	KindPermissionNotGranted
)

type kindInfo struct {
	status int
	code   string
	desc   string
}

var kinds = map[Kind]kindInfo{
	KindMissingHeader:           {http.StatusUnauthorized, "authorization_header_missing", "Authorization header is expected."},
	KindMalformedHeader:         {http.StatusUnauthorized, "invalid_authorization_header", "Authorization header must be of the form 'Bearer <token>'."},
	KindInvalidHeader:           {http.StatusUnauthorized, "invalid_header", "Unable to parse the token header."},
	KindUnsupportedAlgorithm:    {http.StatusUnauthorized, "unsupported_algorithm", "Token is signed with an unsupported algorithm."},
	KindKeyNotFound:             {http.StatusUnauthorized, "key_not_found", "Unable to find the appropriate key."},
	KindInvalidSignature:        {http.StatusUnauthorized, "invalid_signature", "Token signature is invalid."},
	KindInvalidClaims:           {http.StatusUnauthorized, "invalid_claims", "Incorrect claims. Please check the issuer, audience and expiry."},
	KindInvalidIssuer:           {http.StatusUnauthorized, "invalid_issuer", "Token was issued by an untrusted issuer."},
	KindInvalidAudience:         {http.StatusUnauthorized, "invalid_audience", "Token is not intended for this audience."},
	KindTokenExpired:            {http.StatusUnauthorized, "token_expired", "Token expired."},
	KindKeySourceUnavailable:    {http.StatusInternalServerError, "key_source_unavailable", "Unable to fetch the signing keys."},
	KindPermissionsClaimMissing: {http.StatusForbidden, "permissions_missing", "Permissions not included in token."},
	KindPermissionNotGranted:    {http.StatusForbidden, "permission_not_granted", "Permission not found."},
}

// Status is the HTTP status the kind maps to.
func (k Kind) Status() int { return kinds[k].status }

// Code is the stable machine readable identifier.
func (k Kind) Code() string { return kinds[k].code }

func (k Kind) String() string {
	if info, ok := kinds[k]; ok {
		return info.code
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Error is the only error type the guard returns. Description is safe to
// show to callers; Err keeps the underlying cause for logs.
type Error struct {
	Kind        Kind
	Status      int
	Code        string
	Description string
	Err         error
}

// NewError builds an Error of kind with the standard description.
func NewError(kind Kind, cause error) *Error {
	info := kinds[kind]
	return &Error{
		Kind:        kind,
		Status:      info.status,
		Code:        info.code,
		Description: info.desc,
		Err:         cause,
	}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("authz: %s: %v", e.Code, e.Err)
	}
	return "authz: " + e.Code
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error of the same kind, so callers can write
// errors.Is(err, authz.NewError(authz.KindTokenExpired, nil)).
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// Unauthenticated reports whether the request lacked valid credentials, as
// opposed to valid credentials without the needed permission.
func (e *Error) Unauthenticated() bool { return e.Status == http.StatusUnauthorized }

// Classify maps a verifier error onto its Kind. Errors already classified
// pass through untouched; anything unrecognised is a key source failure,
// since it cannot be blamed on the token.
func Classify(err error) *Error {
	if err == nil {
		return nil
	}

	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}

	switch {
	case errors.Is(err, jwtx.ErrInvalidHeader):
		return NewError(KindInvalidHeader, err)
	case errors.Is(err, jwtx.ErrUnsupportedAlgorithm):
		return NewError(KindUnsupportedAlgorithm, err)
	case errors.Is(err, jwtx.ErrKeyNotFound):
		return NewError(KindKeyNotFound, err)
	case errors.Is(err, jwtx.ErrKeySourceUnavailable):
		return NewError(KindKeySourceUnavailable, err)
	case errors.Is(err, jwtx.ErrInvalidSignature):
		return NewError(KindInvalidSignature, err)
	case errors.Is(err, jwtx.ErrInvalidClaims):
		return NewError(KindInvalidClaims, err)
	case errors.Is(err, jwtx.ErrIssuer):
		return NewError(KindInvalidIssuer, err)
	case errors.Is(err, jwtx.ErrAudience):
		return NewError(KindInvalidAudience, err)
	case errors.Is(err, jwtx.ErrExpired):
		return NewError(KindTokenExpired, err)
	default:
		return NewError(KindKeySourceUnavailable, err)
	}
}
