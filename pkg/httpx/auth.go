package httpx

import (
	"net/http"

	"github.com/aussiebroadwan/coffeeshop/pkg/authz"
	"github.com/aussiebroadwan/coffeeshop/pkg/slogx"
)

// RequirePermission only lets requests through whose bearer token grants
// permission. Verified claims are placed in the request context.
func RequirePermission(g *authz.Guard, permission string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			d := g.CheckRequest(r, permission)
			if !d.Allowed() {
				WriteAuthError(w, d.Err, permission)
				return
			}

			ctx := WithClaims(r.Context(), d.Claims)
			ctx = slogx.WithSubject(ctx, d.Claims.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
