package app

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aussiebroadwan/coffeeshop/pkg/jwtx"
)

type Config struct {
	Issuer   string // Required: expected "iss" of every token, e.g. https://tenant.auth0.com/
	Audience string // Required: API identifier that must appear in "aud"

	Algorithm string // Optional: the single accepted JWT algorithm (default: RS256)

	// Exactly one key source is used. JWKSFile wins when both are set.
	JWKSURL  string // Optional: JWKS endpoint (default: <issuer>/.well-known/jwks.json)
	JWKSFile string // Optional: JWKS document on disk, re-read on every refresh

	JWKSFetchTimeout       time.Duration // Optional: bound on one JWKS fetch (default: 5s)
	JWKSMinRefreshInterval time.Duration // Optional: throttle for refreshes triggered by unknown kids (default: 10s)
	JWKSMaxAge             time.Duration // Optional: age after which a hit refreshes in the background (default: 1h)
	JWKSRefreshInterval    time.Duration // Optional: scheduled refresh period (default: 15m)
	Leeway                 time.Duration // Optional: clock skew allowed on exp/nbf (default: 5s, max: 60s)

	DatabaseFile        string        // Optional: path to SQLite database file (default: ./coffee.db)
	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

func LoadConfig() Config {
	cfg := Config{
		Issuer:                 os.Getenv("AUTH_ISSUER"),
		Audience:               os.Getenv("AUTH_AUDIENCE"),
		Algorithm:              getEnvOrDefault("AUTH_ALGORITHM", jwtx.AlgorithmRS256),
		JWKSURL:                os.Getenv("AUTH_JWKS_URL"),
		JWKSFile:               os.Getenv("AUTH_JWKS_FILE"),
		JWKSFetchTimeout:       getEnvDurationOrDefault("AUTH_JWKS_FETCH_TIMEOUT", jwtx.DefaultFetchTimeout),
		JWKSMinRefreshInterval: getEnvDurationOrDefault("AUTH_JWKS_MIN_REFRESH_INTERVAL", jwtx.DefaultMinRefreshInterval),
		JWKSMaxAge:             getEnvDurationOrDefault("AUTH_JWKS_MAX_AGE", jwtx.DefaultMaxAge),
		JWKSRefreshInterval:    getEnvDurationOrDefault("AUTH_JWKS_REFRESH_INTERVAL", 15*time.Minute),
		Leeway:                 getEnvDurationOrDefault("AUTH_LEEWAY", jwtx.DefaultLeeway),
		DatabaseFile:           getEnvOrDefault("DATABASE_FILE", "coffee.db"),
		Env:                    getEnvOrDefault("ENV", "dev"),
		LogLevel:               getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:              getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                   getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:    getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}

	if cfg.JWKSURL == "" && cfg.Issuer != "" {
		cfg.JWKSURL = strings.TrimSuffix(cfg.Issuer, "/") + "/.well-known/jwks.json"
	}

	return cfg
}

// Validate rejects configurations the guard cannot run with. It is checked
// once at startup so a bad deployment fails before serving traffic.
func (c Config) Validate() error {
	var errs []error

	if c.Issuer == "" {
		errs = append(errs, errors.New("AUTH_ISSUER is required"))
	}
	if c.Audience == "" {
		errs = append(errs, errors.New("AUTH_AUDIENCE is required"))
	}
	if !jwtx.IsSupportedAlgorithm(c.Algorithm) {
		errs = append(errs, fmt.Errorf("AUTH_ALGORITHM %q is not supported", c.Algorithm))
	}
	if c.JWKSURL == "" && c.JWKSFile == "" {
		errs = append(errs, errors.New("one of AUTH_JWKS_URL or AUTH_JWKS_FILE is required"))
	}
	if c.Leeway < 0 || c.Leeway > jwtx.MaxLeeway {
		errs = append(errs, fmt.Errorf("AUTH_LEEWAY must be between 0 and %s", jwtx.MaxLeeway))
	}
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT %d is out of range", c.Port))
	}

	return errors.Join(errs...)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Bare integers are seconds
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}

	return defaultValue
}
