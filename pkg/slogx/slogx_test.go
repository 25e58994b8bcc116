package slogx_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aussiebroadwan/coffeeshop/pkg/idx"
	"github.com/aussiebroadwan/coffeeshop/pkg/slogx"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range cases {
		require.Equal(t, want, slogx.ParseLevel(in), in)
	}
}

func TestFromContextOr(t *testing.T) {
	fallback := slogx.Discard()
	require.Same(t, fallback, slogx.FromContextOr(context.Background(), fallback))

	scoped := slogx.Discard()
	ctx := slogx.WithContext(context.Background(), scoped)
	require.Same(t, scoped, slogx.FromContextOr(ctx, fallback))
	require.Same(t, scoped, slogx.FromContext(ctx))
}

func TestHTTPMiddleware(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewJSONHandler(&buf, nil))

	h := slogx.HTTPMiddleware(base)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		slogx.FromContext(r.Context()).Info("inside")
		w.WriteHeader(http.StatusTeapot)
	}))

	t.Run("generates request id", func(t *testing.T) {
		buf.Reset()
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/drinks", nil))

		require.Equal(t, http.StatusTeapot, rec.Code)
		reqID := rec.Header().Get(slogx.RequestIDHeader)
		_, err := idx.Parse(reqID)
		require.NoError(t, err)

		lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
		require.Len(t, lines, 2)

		var entry map[string]any
		require.NoError(t, json.Unmarshal(lines[1], &entry))
		require.Equal(t, "http_request", entry["msg"])
		require.Equal(t, reqID, entry["req_id"])
		require.Equal(t, "/drinks", entry["path"])
		require.EqualValues(t, http.StatusTeapot, entry["status"])
	})

	t.Run("keeps valid caller id", func(t *testing.T) {
		id := idx.New().String()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(slogx.RequestIDHeader, id)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		require.Equal(t, id, rec.Header().Get(slogx.RequestIDHeader))
	})

	t.Run("replaces junk caller id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(slogx.RequestIDHeader, "not a ulid\nforged=1")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		require.NotEqual(t, "not a ulid\nforged=1", rec.Header().Get(slogx.RequestIDHeader))
	})
}
