package jwtx

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwk"
)

// DefaultFetchTimeout bounds a single JWKS fetch.
const DefaultFetchTimeout = 5 * time.Second

// KeySource fetches the issuer's current key set. Implementations return a
// fresh snapshot on every call; caching is the KeyCache's job.
type KeySource interface {
	Fetch(ctx context.Context) (*KeySet, error)
}

// HTTPKeySource GETs a JWKS document from a URL.
type HTTPKeySource struct {
	URL    string
	Client *http.Client
	Logger *slog.Logger
}

// NewHTTPKeySource creates a source with its own bounded http.Client.
func NewHTTPKeySource(url string, timeout time.Duration, logger *slog.Logger) *HTTPKeySource {
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &HTTPKeySource{
		URL:    url,
		Client: &http.Client{Timeout: timeout},
		Logger: logger,
	}
}

// Fetch retrieves and parses the JWKS.
func (s *HTTPKeySource) Fetch(ctx context.Context) (*KeySet, error) {
	set, err := jwk.Fetch(ctx, s.URL, jwk.WithHTTPClient(s.Client))
	if err != nil {
		return nil, fmt.Errorf("jwtx: fetch jwks from %s: %w", s.URL, err)
	}
	return keySetFromJWX(set, time.Now().UTC(), s.Logger), nil
}

// FileKeySource reads a JWKS document from disk on every fetch, so an
// operator can rotate keys by replacing the file.
type FileKeySource struct {
	Path   string
	Logger *slog.Logger
}

// NewFileKeySource creates a file-backed source.
func NewFileKeySource(path string, logger *slog.Logger) *FileKeySource {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileKeySource{Path: path, Logger: logger}
}

func (s *FileKeySource) Fetch(ctx context.Context) (*KeySet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("jwtx: read jwks file: %w", err)
	}
	set, err := jwk.Parse(b)
	if err != nil {
		return nil, fmt.Errorf("jwtx: parse jwks file %s: %w", s.Path, err)
	}
	return keySetFromJWX(set, time.Now().UTC(), s.Logger), nil
}

// StaticKeySource serves a fixed JWKS. Handy for tests and local runs.
type StaticKeySource struct {
	doc    []byte
	logger *slog.Logger
}

// NewStaticKeySource snapshots jwks.
func NewStaticKeySource(jwks JWKS) (*StaticKeySource, error) {
	b, err := json.Marshal(jwks)
	if err != nil {
		return nil, fmt.Errorf("jwtx: marshal jwks: %w", err)
	}
	return &StaticKeySource{doc: b, logger: slog.Default()}, nil
}

func (s *StaticKeySource) Fetch(ctx context.Context) (*KeySet, error) {
	set, err := jwk.Parse(s.doc)
	if err != nil {
		return nil, fmt.Errorf("jwtx: parse static jwks: %w", err)
	}
	return keySetFromJWX(set, time.Now().UTC(), s.logger), nil
}
