package app

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/coffeeshop/pkg/authz"
	"github.com/aussiebroadwan/coffeeshop/pkg/jwtx"
	"github.com/prometheus/client_golang/prometheus"
)

// InitGuard wires the key source, the shared key cache and the verifier into
// a Guard. Nothing is fetched here; the first refresh happens on the key
// refresh worker or the first request, whichever comes first.
//
// Key sources:
//   - AUTH_JWKS_FILE: a JWKS document on disk, re-read on every refresh.
//   - AUTH_JWKS_URL: the issuer's JWKS endpoint (default <issuer>/.well-known/jwks.json).
func InitGuard(cfg Config, reg prometheus.Registerer, logger *slog.Logger) (*jwtx.KeyCache, *authz.Guard, error) {
	var source jwtx.KeySource
	if cfg.JWKSFile != "" {
		source = jwtx.NewFileKeySource(cfg.JWKSFile, logger)
		logger.Info("using file key source", "path", cfg.JWKSFile)
	} else {
		source = jwtx.NewHTTPKeySource(cfg.JWKSURL, cfg.JWKSFetchTimeout, logger)
		logger.Info("using remote key source", "url", cfg.JWKSURL)
	}

	metrics := authz.NewMetrics(reg)

	// Zero in the config switches the throttle and the stale refresh off;
	// the cache reads zero as "default".
	cache := jwtx.NewKeyCache(source, jwtx.KeyCacheOptions{
		FetchTimeout:       cfg.JWKSFetchTimeout,
		MinRefreshInterval: disableIfZero(cfg.JWKSMinRefreshInterval),
		MaxAge:             disableIfZero(cfg.JWKSMaxAge),
		OnRefresh:          metrics.ObserveKeyRefresh,
		Logger:             logger,
	})

	verifier, err := jwtx.NewVerifier(cache, jwtx.VerifyOptions{
		Issuer:    cfg.Issuer,
		Audience:  cfg.Audience,
		Algorithm: cfg.Algorithm,
		Leeway:    disableIfZero(cfg.Leeway),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create token verifier: %w", err)
	}

	logger.Info("token verifier configured",
		"issuer", cfg.Issuer,
		"audience", cfg.Audience,
		"algorithm", verifier.Algorithm(),
	)

	guard := authz.NewGuard(verifier, authz.WithMetrics(metrics), authz.WithLogger(logger))
	return cache, guard, nil
}

// disableIfZero maps a configured 0 to the negative value jwtx uses for
// "off", since jwtx reads 0 as "use the default".
func disableIfZero(d time.Duration) time.Duration {
	if d == 0 {
		return -1
	}
	return d
}
