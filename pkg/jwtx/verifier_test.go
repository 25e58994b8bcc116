package jwtx_test

import (
	"context"
	"encoding/base64"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aussiebroadwan/coffeeshop/pkg/jwtx"
	"github.com/aussiebroadwan/coffeeshop/pkg/jwtx/jwtxtest"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

// countingLookup records how often the verifier asks for a key.
type countingLookup struct {
	next  jwtx.KeyLookup
	calls atomic.Int64
}

func (c *countingLookup) Key(ctx context.Context, kid string) (jwtx.SigningKey, error) {
	c.calls.Add(1)
	return c.next.Key(ctx, kid)
}

func newVerifier(t *testing.T, iss *jwtxtest.Issuer) (*jwtx.Verifier, *countingLookup) {
	t.Helper()

	src, err := jwtx.NewStaticKeySource(iss.JWKS())
	require.NoError(t, err)

	lookup := &countingLookup{next: jwtx.NewKeyCache(src, jwtx.KeyCacheOptions{MinRefreshInterval: -1})}
	v, err := jwtx.NewVerifier(lookup, jwtx.VerifyOptions{
		Issuer:    iss.URL(),
		Audience:  iss.Audience(),
		Algorithm: iss.Algorithm(),
	})
	require.NoError(t, err)
	return v, lookup
}

func TestNewVerifierValidation(t *testing.T) {
	src, err := jwtx.NewStaticKeySource(jwtx.JWKS{})
	require.NoError(t, err)
	cache := jwtx.NewKeyCache(src, jwtx.KeyCacheOptions{})

	cases := []struct {
		name string
		opts jwtx.VerifyOptions
	}{
		{"missing issuer", jwtx.VerifyOptions{Audience: "a"}},
		{"missing audience", jwtx.VerifyOptions{Issuer: "i"}},
		{"symmetric algorithm", jwtx.VerifyOptions{Issuer: "i", Audience: "a", Algorithm: "HS256"}},
		{"none algorithm", jwtx.VerifyOptions{Issuer: "i", Audience: "a", Algorithm: "none"}},
		{"leeway too large", jwtx.VerifyOptions{Issuer: "i", Audience: "a", Leeway: 2 * jwtx.MaxLeeway}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := jwtx.NewVerifier(cache, tc.opts)
			require.Error(t, err)
		})
	}

	v, err := jwtx.NewVerifier(cache, jwtx.VerifyOptions{Issuer: "i", Audience: "a"})
	require.NoError(t, err)
	require.Equal(t, jwtx.AlgorithmRS256, v.Algorithm())
}

func TestVerifyAlgorithms(t *testing.T) {
	for _, alg := range []string{jwtx.AlgorithmRS256, jwtx.AlgorithmPS256, jwtx.AlgorithmES256, jwtx.AlgorithmES384, jwtx.AlgorithmEdDSA} {
		t.Run(alg, func(t *testing.T) {
			iss := jwtxtest.NewIssuer(t, alg)
			v, _ := newVerifier(t, iss)

			claims, err := v.Verify(context.Background(), iss.Token(t, "user-1", []string{"get:drinks-detail"}))
			require.NoError(t, err)
			require.Equal(t, "user-1", claims.Subject)
			require.Equal(t, []string{"get:drinks-detail"}, claims.Permissions)
		})
	}
}

func TestVerifyIsIdempotent(t *testing.T) {
	iss := jwtxtest.NewIssuer(t, jwtx.AlgorithmRS256)
	v, _ := newVerifier(t, iss)
	token := iss.Token(t, "user-1", []string{"get:drinks-detail", "post:drinks"})

	first, err := v.Verify(context.Background(), token)
	require.NoError(t, err)
	second, err := v.Verify(context.Background(), token)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestVerifyRejectsWrongAlgorithmWithoutKeyLookup(t *testing.T) {
	iss := jwtxtest.NewIssuer(t, jwtx.AlgorithmRS256)
	v, lookup := newVerifier(t, iss)

	hs := jwt.NewWithClaims(jwt.SigningMethodHS256, iss.Claims("user-1", []string{"post:drinks"}))
	hs.Header["kid"] = iss.Signer().KID()
	hsToken, err := hs.SignedString([]byte("shared-secret"))
	require.NoError(t, err)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, iss.Claims("user-1", []string{"post:drinks"}))
	none.Header["kid"] = iss.Signer().KID()
	noneToken, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	es := jwtxtest.NewSigner(t, jwtx.AlgorithmES256, iss.Signer().KID())
	esToken, err := es.Sign(iss.Claims("user-1", []string{"post:drinks"}))
	require.NoError(t, err)

	for _, token := range []string{hsToken, noneToken, esToken} {
		_, err := v.Verify(context.Background(), token)
		require.ErrorIs(t, err, jwtx.ErrUnsupportedAlgorithm)
	}
	require.Zero(t, lookup.calls.Load())
}

func TestVerifyHeaderErrors(t *testing.T) {
	iss := jwtxtest.NewIssuer(t, jwtx.AlgorithmRS256)
	v, lookup := newVerifier(t, iss)

	enc := base64.RawURLEncoding.EncodeToString
	noKid := iss.SignWithHeader(t, iss.Claims("user-1", nil), map[string]any{"kid": ""})

	cases := map[string]string{
		"empty":          "",
		"two segments":   "a.b",
		"four segments":  "a.b.c.d",
		"bad base64":     "!!!." + enc([]byte(`{}`)) + ".sig",
		"bad json":       enc([]byte(`{"alg":`)) + "." + enc([]byte(`{}`)) + ".sig",
		"missing kid":    noKid,
		"non-JSON thing": "not.a.jwt",
	}
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := v.Verify(context.Background(), token)
			require.ErrorIs(t, err, jwtx.ErrInvalidHeader)
		})
	}
	require.Zero(t, lookup.calls.Load())
}

func TestVerifyUnknownKid(t *testing.T) {
	iss := jwtxtest.NewIssuer(t, jwtx.AlgorithmRS256)
	v, _ := newVerifier(t, iss)

	token := iss.SignWithHeader(t, iss.Claims("user-1", nil), map[string]any{"kid": "rotated-away"})
	_, err := v.Verify(context.Background(), token)
	require.ErrorIs(t, err, jwtx.ErrKeyNotFound)
}

func TestVerifySignatureErrors(t *testing.T) {
	iss := jwtxtest.NewIssuer(t, jwtx.AlgorithmRS256)
	v, _ := newVerifier(t, iss)

	t.Run("foreign key under a known kid", func(t *testing.T) {
		foreign := jwtxtest.NewSigner(t, jwtx.AlgorithmRS256, iss.Signer().KID())
		token, err := foreign.Sign(iss.Claims("user-1", nil))
		require.NoError(t, err)

		_, err = v.Verify(context.Background(), token)
		require.ErrorIs(t, err, jwtx.ErrInvalidSignature)
	})

	t.Run("tampered payload", func(t *testing.T) {
		token := iss.Token(t, "user-1", []string{"get:drinks-detail"})
		parts := strings.Split(token, ".")

		claims := iss.Claims("user-1", []string{"get:drinks-detail", "delete:drinks"})
		forged, err := iss.Signer().Sign(claims)
		require.NoError(t, err)
		parts[1] = strings.Split(forged, ".")[1]

		_, err = v.Verify(context.Background(), strings.Join(parts, "."))
		require.ErrorIs(t, err, jwtx.ErrInvalidSignature)
	})

	t.Run("garbage signature", func(t *testing.T) {
		parts := strings.Split(iss.Token(t, "user-1", nil), ".")
		parts[2] = "%%%"
		_, err := v.Verify(context.Background(), strings.Join(parts, "."))
		require.ErrorIs(t, err, jwtx.ErrInvalidSignature)
	})
}

func TestVerifyKeyFamilyMismatch(t *testing.T) {
	rsaSigner := jwtxtest.NewSigner(t, jwtx.AlgorithmRS256, "k1")
	ecSigner := jwtxtest.NewSigner(t, jwtx.AlgorithmES256, "k1")

	token, err := rsaSigner.Sign(jwt.MapClaims{"iss": "i", "sub": "s", "aud": "a", "exp": time.Now().Add(time.Hour).Unix()})
	require.NoError(t, err)

	cases := map[string]jwtx.SigningKey{
		"declared for another algorithm": {KID: "k1", Algorithm: jwtx.AlgorithmRS384, Key: rsaSigner.PublicKey()},
		"wrong key type":                 {KID: "k1", Key: ecSigner.PublicKey()},
	}
	for name, key := range cases {
		t.Run(name, func(t *testing.T) {
			v, err := jwtx.NewVerifier(staticLookup{key}, jwtx.VerifyOptions{Issuer: "i", Audience: "a"})
			require.NoError(t, err)

			_, err = v.Verify(context.Background(), token)
			require.ErrorIs(t, err, jwtx.ErrInvalidSignature)
		})
	}
}

type staticLookup struct{ key jwtx.SigningKey }

func (s staticLookup) Key(_ context.Context, kid string) (jwtx.SigningKey, error) {
	if kid != s.key.KID {
		return jwtx.SigningKey{}, jwtx.ErrKeyNotFound
	}
	return s.key, nil
}

func TestVerifyClaims(t *testing.T) {
	iss := jwtxtest.NewIssuer(t, jwtx.AlgorithmRS256)
	v, _ := newVerifier(t, iss)
	now := time.Now()

	cases := []struct {
		name   string
		mutate func(c jwt.MapClaims)
		want   error
	}{
		{"missing iss", func(c jwt.MapClaims) { delete(c, "iss") }, jwtx.ErrInvalidClaims},
		{"missing sub", func(c jwt.MapClaims) { delete(c, "sub") }, jwtx.ErrInvalidClaims},
		{"missing aud", func(c jwt.MapClaims) { delete(c, "aud") }, jwtx.ErrInvalidClaims},
		{"missing exp", func(c jwt.MapClaims) { delete(c, "exp") }, jwtx.ErrInvalidClaims},
		{"exp is a string", func(c jwt.MapClaims) { c["exp"] = "tomorrow" }, jwtx.ErrInvalidClaims},
		{"permissions not a list", func(c jwt.MapClaims) { c["permissions"] = "post:drinks" }, jwtx.ErrInvalidClaims},
		{"permissions of numbers", func(c jwt.MapClaims) { c["permissions"] = []int{1, 2} }, jwtx.ErrInvalidClaims},
		{"not yet valid", func(c jwt.MapClaims) { c["nbf"] = now.Add(time.Hour).Unix() }, jwtx.ErrInvalidClaims},
		{"wrong issuer", func(c jwt.MapClaims) { c["iss"] = "https://evil.example" }, jwtx.ErrIssuer},
		{"wrong audience", func(c jwt.MapClaims) { c["aud"] = "another-api" }, jwtx.ErrAudience},
		{"expired", func(c jwt.MapClaims) { c["exp"] = now.Add(-10 * time.Second).Unix() }, jwtx.ErrExpired},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			claims := iss.Claims("user-1", []string{"get:drinks-detail"})
			tc.mutate(claims)

			_, err := v.Verify(context.Background(), iss.Sign(t, claims))
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestVerifyClaimsAccepted(t *testing.T) {
	iss := jwtxtest.NewIssuer(t, jwtx.AlgorithmRS256)
	v, _ := newVerifier(t, iss)
	now := time.Now()

	cases := []struct {
		name   string
		mutate func(c jwt.MapClaims)
	}{
		{"audience array", func(c jwt.MapClaims) { c["aud"] = []string{"other", iss.Audience()} }},
		{"expired within leeway", func(c jwt.MapClaims) { c["exp"] = now.Add(-2 * time.Second).Unix() }},
		{"nbf within leeway", func(c jwt.MapClaims) { c["nbf"] = now.Add(2 * time.Second).Unix() }},
		{"extra claims", func(c jwt.MapClaims) { c["https://coffee/roles"] = []string{"barista"} }},
		{"empty permissions", func(c jwt.MapClaims) { c["permissions"] = []string{} }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			claims := iss.Claims("user-1", nil)
			tc.mutate(claims)

			_, err := v.Verify(context.Background(), iss.Sign(t, claims))
			require.NoError(t, err)
		})
	}
}

func TestVerifyLeewayOverride(t *testing.T) {
	iss := jwtxtest.NewIssuer(t, jwtx.AlgorithmRS256)
	src, err := jwtx.NewStaticKeySource(iss.JWKS())
	require.NoError(t, err)

	now := time.Now()
	v, err := jwtx.NewVerifier(jwtx.NewKeyCache(src, jwtx.KeyCacheOptions{}), jwtx.VerifyOptions{
		Issuer:   iss.URL(),
		Audience: iss.Audience(),
		Leeway:   -1,
		Now:      func() time.Time { return now },
	})
	require.NoError(t, err)

	claims := iss.Claims("user-1", nil)
	claims["exp"] = now.Unix()
	_, err = v.Verify(context.Background(), iss.Sign(t, claims))
	require.ErrorIs(t, err, jwtx.ErrExpired)
}
