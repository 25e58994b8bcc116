package authz_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aussiebroadwan/coffeeshop/pkg/authz"
	"github.com/stretchr/testify/require"
)

func requireKind(t *testing.T, err error, want authz.Kind) {
	t.Helper()
	var ae *authz.Error
	require.True(t, errors.As(err, &ae), "expected *authz.Error, got %T", err)
	require.Equal(t, want, ae.Kind, ae.Error())
}

func TestExtractBearer(t *testing.T) {
	token, err := authz.ExtractBearer("Bearer abc.def.ghi")
	require.NoError(t, err)
	require.Equal(t, "abc.def.ghi", token)

	_, err = authz.ExtractBearer("")
	requireKind(t, err, authz.KindMissingHeader)

	malformed := []string{
		"Bearer",
		"Bearer ",
		"bearer abc",
		"BEARER abc",
		"Basic dXNlcjpwYXNz",
		"Bearer abc def",
		"Bearer  abc",
		" Bearer abc",
		"Token abc",
	}
	for _, h := range malformed {
		t.Run(h, func(t *testing.T) {
			_, err := authz.ExtractBearer(h)
			requireKind(t, err, authz.KindMalformedHeader)
		})
	}
}

func TestBearerFromRequest(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	_, err := authz.BearerFromRequest(r)
	requireKind(t, err, authz.KindMissingHeader)

	r.Header.Set("Authorization", "Bearer tok")
	token, err := authz.BearerFromRequest(r)
	require.NoError(t, err)
	require.Equal(t, "tok", token)

	r.Header.Add("Authorization", "Bearer other")
	_, err = authz.BearerFromRequest(r)
	requireKind(t, err, authz.KindMalformedHeader)
}
