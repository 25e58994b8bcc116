package coffeesdk

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aussiebroadwan/coffeeshop/pkg/jwtx"
	"github.com/aussiebroadwan/coffeeshop/pkg/jwtx/jwtxtest"
	"github.com/stretchr/testify/require"
)

func TestRecipeUnmarshal(t *testing.T) {
	t.Parallel()

	var list Recipe
	require.NoError(t, json.Unmarshal([]byte(`[{"name":"milk","color":"white","parts":2}]`), &list))
	require.Equal(t, Recipe{{Name: "milk", Color: "white", Parts: 2}}, list)

	var one Recipe
	require.NoError(t, json.Unmarshal([]byte(` {"name":"milk","color":"white","parts":2}`), &one))
	require.Equal(t, list, one)

	var bad Recipe
	require.Error(t, json.Unmarshal([]byte(`"milk"`), &bad))
}

func TestParseErrorResponse(t *testing.T) {
	t.Parallel()

	resp := &http.Response{StatusCode: http.StatusUnauthorized}
	err := parseErrorResponse(resp, []byte(`{"success":false,"error":"token_expired","message":"token expired"}`))

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, ErrorCodeTokenExpired, apiErr.Code)
	require.Equal(t, "token expired", apiErr.Message)

	resp = &http.Response{StatusCode: http.StatusNotFound}
	err = parseErrorResponse(resp, []byte(`{"success":false,"error":404,"message":"resource not found"}`))
	require.True(t, errors.As(err, &apiErr))
	require.Empty(t, apiErr.Code)
	require.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	require.Equal(t, "resource not found", apiErr.Message)

	resp = &http.Response{StatusCode: http.StatusBadGateway}
	err = parseErrorResponse(resp, []byte(`<html>`))
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, "bad gateway", apiErr.Message)
}

func newToken(t *testing.T, perms []string) string {
	t.Helper()

	signer := jwtxtest.NewSigner(t, jwtx.AlgorithmRS256, "sdk-test")
	claims := jwtx.NewAccessClaims("barista", "https://issuer.test/", []string{"coffeeshop"}, perms, time.Minute, time.Now())
	token, err := signer.Sign(claims)
	require.NoError(t, err)
	return token
}

func TestSessionChecksPermissions(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		require.Equal(t, http.MethodDelete, r.Method)
		require.Equal(t, "/drinks/7", r.URL.Path)
		require.Contains(t, r.Header.Get("Authorization"), "Bearer ")
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"success":true,"delete":7}`)
	}))
	t.Cleanup(srv.Close)

	client := NewSDKClient(srv.URL + "/")

	session, err := client.NewSession(newToken(t, []string{PermissionGetDrinksDetail}))
	require.NoError(t, err)
	require.Equal(t, []string{PermissionGetDrinksDetail}, session.Permissions())

	_, err = session.DeleteDrink(context.Background(), 7)
	require.ErrorIs(t, err, ErrMissingPermission)
	require.Zero(t, hits.Load())

	session, err = client.NewSession(newToken(t, []string{PermissionDeleteDrinks}))
	require.NoError(t, err)

	id, err := session.DeleteDrink(context.Background(), 7)
	require.NoError(t, err)
	require.EqualValues(t, 7, id)
	require.EqualValues(t, 1, hits.Load())
}

func TestNewSessionRejectsGarbage(t *testing.T) {
	t.Parallel()

	client := NewSDKClient("http://localhost")
	_, err := client.NewSession("not-a-jwt")
	require.Error(t, err)

	client.CheckPermissions = false
	session, err := client.NewSession("not-a-jwt")
	require.NoError(t, err)
	require.Empty(t, session.Permissions())
}

func TestListDrinks(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/drinks", r.URL.Path)
		require.Empty(t, r.Header.Get("Authorization"))
		_, _ = io.WriteString(w, `{"success":true,"drinks":[{"id":1,"title":"water","recipe":[{"color":"blue","parts":1}]}]}`)
	}))
	t.Cleanup(srv.Close)

	drinks, err := NewSDKClient(srv.URL).ListDrinks(context.Background())
	require.NoError(t, err)
	require.Len(t, drinks, 1)
	require.Equal(t, "water", drinks[0].Title)
	require.Equal(t, Recipe{{Color: "blue", Parts: 1}}, drinks[0].Recipe)
}
