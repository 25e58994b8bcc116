package http

import (
	"context"
	"net/http"
	"time"

	"github.com/aussiebroadwan/coffeeshop/pkg/coffeesdk"
	"github.com/aussiebroadwan/coffeeshop/pkg/httpx"
)

// Pinger is satisfied by the store.
type Pinger interface {
	Ping(ctx context.Context) error
}

// KeyReadiness is satisfied by the key cache.
type KeyReadiness interface {
	Ready() bool
}

// ReadyzHandler godoc
//
//	@Summary		Readiness Check Endpoint
//	@Description	Readiness probe reporting the database connection and whether the issuer's signing keys have been loaded
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	coffeesdk.HealthResponse	"status, uptime, version, checks"
//	@Failure		503	{object}	coffeesdk.HealthResponse	"status, uptime, version, checks - service not ready"
//	@Router			/readyz [get].
func ReadyzHandler(startTime time.Time, version string, db Pinger, keys KeyReadiness) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := &coffeesdk.HealthChecks{
			Database: "ok",
			Keys:     "ok",
		}
		status := "ok"
		code := http.StatusOK

		if err := db.Ping(r.Context()); err != nil {
			checks.Database = "error: " + err.Error()
			status = "degraded"
			code = http.StatusServiceUnavailable
		}

		if !keys.Ready() {
			checks.Keys = "error: no keys loaded"
			status = "degraded"
			code = http.StatusServiceUnavailable
		}

		httpx.WriteJSON(w, code, coffeesdk.HealthResponse{
			Status:  status,
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  checks,
		})
	}
}
