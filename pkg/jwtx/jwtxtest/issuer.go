// Package jwtxtest runs a throwaway token issuer for tests. It serves a JWKS
// at /.well-known/jwks.json and mints tokens that verify against it, so the
// guard can be exercised end to end without a real identity provider.
//
//	iss := jwtxtest.NewIssuer(t, jwtx.AlgorithmRS256)
//	token := iss.Token(t, "user-1", []string{"get:drinks-detail"})
package jwtxtest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aussiebroadwan/coffeeshop/pkg/cryptox"
	"github.com/aussiebroadwan/coffeeshop/pkg/jwtx"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

// DefaultAudience is the audience minted tokens carry.
const DefaultAudience = "coffeeshop"

// JWKSPath is where the issuer publishes its keys.
const JWKSPath = "/.well-known/jwks.json"

// Issuer signs tokens and serves the matching JWKS.
type Issuer struct {
	server   *httptest.Server
	audience string
	alg      string

	mu        sync.Mutex
	signer    *jwtx.Signer
	published []jwtx.JWK
	rotations int

	fetches     atomic.Int64
	unavailable atomic.Bool
}

// NewIssuer starts an issuer signing with a fresh key for alg. The server is
// closed when the test ends.
func NewIssuer(t testing.TB, alg string) *Issuer {
	t.Helper()

	iss := &Issuer{audience: DefaultAudience, alg: alg}
	iss.signer = NewSigner(t, alg, "test-key-1")
	iss.published = []jwtx.JWK{iss.signer.PublicJWK()}

	mux := http.NewServeMux()
	mux.HandleFunc("GET "+JWKSPath, iss.handleJWKS)
	iss.server = httptest.NewServer(mux)
	t.Cleanup(iss.server.Close)

	return iss
}

// NewSigner generates a key for alg and wraps it in a signer.
func NewSigner(t testing.TB, alg, kid string) *jwtx.Signer {
	t.Helper()

	pemKey, err := cryptox.GenerateForAlgorithm(alg)
	require.NoError(t, err)

	s, err := jwtx.NewSigner(kid, alg, pemKey)
	require.NoError(t, err)
	return s
}

func (i *Issuer) URL() string       { return i.server.URL }
func (i *Issuer) JWKSURL() string   { return i.server.URL + JWKSPath }
func (i *Issuer) Audience() string  { return i.audience }
func (i *Issuer) Algorithm() string { return i.alg }

// Fetches counts JWKS requests served, including failed ones.
func (i *Issuer) Fetches() int64 { return i.fetches.Load() }

// SetUnavailable makes the JWKS endpoint answer 503 until reset.
func (i *Issuer) SetUnavailable(v bool) { i.unavailable.Store(v) }

// Signer returns the active signer.
func (i *Issuer) Signer() *jwtx.Signer {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.signer
}

// JWKS returns the currently published key set.
func (i *Issuer) JWKS() jwtx.JWKS {
	i.mu.Lock()
	defer i.mu.Unlock()
	return jwtx.JWKS{Keys: append([]jwtx.JWK(nil), i.published...)}
}

// Rotate switches to a new signing key under a new kid. The old key stays
// published when keepOld is set, as an issuer does during a rollover.
func (i *Issuer) Rotate(t testing.TB, keepOld bool) *jwtx.Signer {
	t.Helper()

	i.mu.Lock()
	defer i.mu.Unlock()

	i.rotations++
	s := NewSigner(t, i.alg, "test-key-"+strconv.Itoa(i.rotations+1))
	if keepOld {
		i.published = append(i.published, s.PublicJWK())
	} else {
		i.published = []jwtx.JWK{s.PublicJWK()}
	}
	i.signer = s
	return s
}

func (i *Issuer) handleJWKS(w http.ResponseWriter, r *http.Request) {
	i.fetches.Add(1)
	if i.unavailable.Load() {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(i.JWKS())
}

// Claims returns valid claims for sub carrying permissions. A nil slice
// leaves the permissions claim out entirely.
func (i *Issuer) Claims(sub string, permissions []string) jwt.MapClaims {
	now := time.Now()
	claims := jwt.MapClaims{
		"iss": i.URL(),
		"sub": sub,
		"aud": i.audience,
		"iat": now.Unix(),
		"exp": now.Add(time.Hour).Unix(),
	}
	if permissions != nil {
		claims["permissions"] = permissions
	}
	return claims
}

// Token mints a valid token for sub.
func (i *Issuer) Token(t testing.TB, sub string, permissions []string) string {
	t.Helper()
	return i.Sign(t, i.Claims(sub, permissions))
}

// ExpiredToken mints a token whose exp is ago in the past.
func (i *Issuer) ExpiredToken(t testing.TB, sub string, permissions []string, ago time.Duration) string {
	t.Helper()
	claims := i.Claims(sub, permissions)
	claims["exp"] = time.Now().Add(-ago).Unix()
	return i.Sign(t, claims)
}

// Sign signs arbitrary claims with the active key.
func (i *Issuer) Sign(t testing.TB, claims jwt.Claims) string {
	t.Helper()
	token, err := i.Signer().Sign(claims)
	require.NoError(t, err)
	return token
}

// SignWithHeader signs with header overrides, e.g. a different kid.
func (i *Issuer) SignWithHeader(t testing.TB, claims jwt.Claims, header map[string]any) string {
	t.Helper()
	token, err := i.Signer().SignWithHeader(claims, header)
	require.NoError(t, err)
	return token
}
