package httpx

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/coffeeshop/pkg/authz"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   any    `json:"error"` // HTTP status for app errors, string code for auth errors
	Message string `json:"message"`
}

// Default messages for app errors.
var statusMessages = map[int]string{
	http.StatusBadRequest:          "bad request",
	http.StatusNotFound:            "resource not found",
	http.StatusMethodNotAllowed:    "method not allowed",
	http.StatusUnprocessableEntity: "unprocessable",
	http.StatusTooManyRequests:     "too many requests",
	http.StatusInternalServerError: "internal server error",
	http.StatusServiceUnavailable:  "service unavailable",
}

// WriteJSON writes a JSON response with the given status code.
// It automatically sets the Content-Type header and Cache-Control headers.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// NoCache sets the Cache-Control and Pragma headers to prevent caching.
func NoCache(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
}

// WriteError writes the app error envelope. An empty message uses the
// standard one for code.
func WriteError(w http.ResponseWriter, code int, message string) {
	if message == "" {
		message = StatusMessage(code)
	}
	WriteJSON(w, code, ErrorResponse{Success: false, Error: code, Message: message})
}

// StatusMessage is the default message for an app error status.
func StatusMessage(code int) string {
	if m, ok := statusMessages[code]; ok {
		return m
	}
	return strings.ToLower(http.StatusText(code))
}

// WriteAuthError renders a guard failure with its RFC 6750 challenge.
func WriteAuthError(w http.ResponseWriter, e *authz.Error, permission string) {
	switch e.Status {
	case http.StatusUnauthorized:
		w.Header().Set("WWW-Authenticate",
			`Bearer error="invalid_token", error_description="`+e.Description+`"`)
	case http.StatusForbidden:
		w.Header().Set("WWW-Authenticate",
			`Bearer error="insufficient_scope", scope="`+permission+`"`)
	}
	WriteJSON(w, e.Status, ErrorResponse{Success: false, Error: e.Code, Message: e.Description})
}
