package authz

import (
	"errors"
	"net/http"
	"strings"
)

// ExtractBearer pulls the token out of an Authorization header value. The
// header must be exactly "Bearer <token>": one space, case-sensitive scheme,
// non-empty token.
func ExtractBearer(header string) (string, error) {
	if header == "" {
		return "", NewError(KindMissingHeader, nil)
	}

	parts := strings.Split(header, " ")
	switch {
	case parts[0] != "Bearer":
		return "", NewError(KindMalformedHeader, errors.New("scheme is not Bearer"))
	case len(parts) == 1:
		return "", NewError(KindMalformedHeader, errors.New("token not found"))
	case len(parts) > 2:
		return "", NewError(KindMalformedHeader, errors.New("header must be bearer token"))
	case parts[1] == "":
		return "", NewError(KindMalformedHeader, errors.New("token is empty"))
	}
	return parts[1], nil
}

// BearerFromRequest reads the single Authorization header of r. Repeating the
// header is malformed rather than first-wins.
func BearerFromRequest(r *http.Request) (string, error) {
	values := r.Header.Values("Authorization")
	if len(values) > 1 {
		return "", NewError(KindMalformedHeader, errors.New("multiple authorization headers"))
	}
	return ExtractBearer(r.Header.Get("Authorization"))
}
