package coffeesdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Codes returned in the "error" field of authorization failures.
const (
	ErrorCodeHeaderMissing        = "authorization_header_missing"
	ErrorCodeInvalidHeader        = "invalid_authorization_header"
	ErrorCodeInvalidTokenHeader   = "invalid_header"
	ErrorCodeUnsupportedAlgorithm = "unsupported_algorithm"
	ErrorCodeKeyNotFound          = "key_not_found"
	ErrorCodeInvalidSignature     = "invalid_signature"
	ErrorCodeInvalidClaims        = "invalid_claims"
	ErrorCodeInvalidIssuer        = "invalid_issuer"
	ErrorCodeInvalidAudience      = "invalid_audience"
	ErrorCodeTokenExpired         = "token_expired"
	ErrorCodeKeySourceUnavailable = "key_source_unavailable"
	ErrorCodePermissionsMissing   = "permissions_missing"
	ErrorCodePermissionNotGranted = "permission_not_granted"
)

// ErrMissingPermission matches every MissingPermissionError.
var ErrMissingPermission = errors.New("coffeesdk: token lacks permission")

// APIError is a non-2xx response from the drinks API.
type APIError struct {
	StatusCode int

	// Code is the authorization failure code, empty for application errors.
	Code string

	Message string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("coffeesdk: %d %s: %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("coffeesdk: %d: %s", e.StatusCode, e.Message)
}

// MissingPermissionError is returned before a request is sent when the
// session's token does not claim the permission the endpoint needs.
type MissingPermissionError struct {
	Permission string
}

func (e *MissingPermissionError) Error() string {
	return fmt.Sprintf("coffeesdk: token lacks permission %q", e.Permission)
}

func (e *MissingPermissionError) Is(target error) bool {
	return target == ErrMissingPermission
}

// parseErrorResponse builds an APIError from the error envelope. The "error"
// field is a string code for authorization failures and the numeric status
// for everything else.
func parseErrorResponse(resp *http.Response, body []byte) error {
	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		Message:    strings.ToLower(http.StatusText(resp.StatusCode)),
	}

	var env ErrorResponse
	if err := json.Unmarshal(body, &env); err != nil {
		return apiErr
	}
	if env.Message != "" {
		apiErr.Message = env.Message
	}

	var code string
	if err := json.Unmarshal(env.Error, &code); err == nil {
		apiErr.Code = code
	}
	return apiErr
}
