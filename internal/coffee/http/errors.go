package http

import (
	"net/http"
	"strings"

	"github.com/aussiebroadwan/coffeeshop/pkg/httpx"
)

// NotFoundHandler answers every request no route matched.
func NotFoundHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteError(w, http.StatusNotFound, "")
	}
}

// MethodNotAllowedHandler is registered on a bare path so a request with an
// unrouted method gets the JSON envelope instead of the mux's plain text.
func MethodNotAllowedHandler(allowed ...string) http.HandlerFunc {
	allow := strings.Join(allowed, ", ")
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Allow", allow)
		httpx.WriteError(w, http.StatusMethodNotAllowed, "")
	}
}
