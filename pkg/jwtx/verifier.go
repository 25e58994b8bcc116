package jwtx

import (
	"context"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rsa"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Supported signing algorithms. Only asymmetric families are accepted; a
// verifier is pinned to exactly one of them.
const (
	AlgorithmRS256 = "RS256"
	AlgorithmRS384 = "RS384"
	AlgorithmRS512 = "RS512"
	AlgorithmPS256 = "PS256"
	AlgorithmES256 = "ES256"
	AlgorithmES384 = "ES384"
	AlgorithmEdDSA = "EdDSA"
)

// DefaultLeeway is the clock skew tolerated when checking exp and nbf.
// MaxLeeway bounds any configured value.
const (
	DefaultLeeway = 5 * time.Second
	MaxLeeway     = time.Minute
)

var (
	ErrInvalidHeader        = errors.New("jwtx: invalid token header")
	ErrUnsupportedAlgorithm = errors.New("jwtx: unsupported algorithm")
	ErrKeyNotFound          = errors.New("jwtx: signing key not found")
	ErrKeySourceUnavailable = errors.New("jwtx: key source unavailable")
	ErrInvalidSignature     = errors.New("jwtx: invalid signature")
	ErrInvalidClaims        = errors.New("jwtx: invalid claims")
	ErrIssuer               = errors.New("jwtx: issuer mismatch")
	ErrAudience             = errors.New("jwtx: audience mismatch")
	ErrExpired              = errors.New("jwtx: token expired")
)

// KeyLookup resolves a key ID to a verification key. *KeyCache implements it.
type KeyLookup interface {
	Key(ctx context.Context, kid string) (SigningKey, error)
}

// VerifyOptions captures what a token must look like to be accepted.
type VerifyOptions struct {
	// Issuer the token must carry in "iss". Required.
	Issuer string

	// Audience that must appear in "aud". Required.
	Audience string

	// Algorithm is the single accepted "alg" (defaults to RS256).
	Algorithm string

	// Leeway for exp/nbf. Zero means DefaultLeeway, negative means none.
	Leeway time.Duration

	// Now overrides the clock, mostly for tests.
	Now func() time.Time
}

// Header is the subset of the JOSE header we look at before verifying.
type Header struct {
	Alg string `json:"alg"`
	KID string `json:"kid"`
	Typ string `json:"typ,omitempty"`
}

// Verifier validates externally issued JWTs against a key lookup.
type Verifier struct {
	keys   KeyLookup
	opts   VerifyOptions
	method jwt.SigningMethod
	parser *jwt.Parser
}

// NewVerifier creates a verifier pinned to opts.Algorithm.
func NewVerifier(keys KeyLookup, opts VerifyOptions) (*Verifier, error) {
	if keys == nil {
		return nil, errors.New("jwtx: key lookup is required")
	}
	if opts.Issuer == "" {
		return nil, errors.New("jwtx: issuer is required")
	}
	if opts.Audience == "" {
		return nil, errors.New("jwtx: audience is required")
	}
	if opts.Algorithm == "" {
		opts.Algorithm = AlgorithmRS256
	}
	if !IsSupportedAlgorithm(opts.Algorithm) {
		return nil, fmt.Errorf("jwtx: algorithm %q is not supported", opts.Algorithm)
	}
	switch {
	case opts.Leeway == 0:
		opts.Leeway = DefaultLeeway
	case opts.Leeway < 0:
		opts.Leeway = 0
	case opts.Leeway > MaxLeeway:
		return nil, fmt.Errorf("jwtx: leeway %s exceeds %s", opts.Leeway, MaxLeeway)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Verifier{
		keys:   keys,
		opts:   opts,
		method: jwt.GetSigningMethod(opts.Algorithm),
		parser: jwt.NewParser(),
	}, nil
}

// IsSupportedAlgorithm reports whether alg can be used to pin a Verifier.
func IsSupportedAlgorithm(alg string) bool {
	switch alg {
	case AlgorithmRS256, AlgorithmRS384, AlgorithmRS512, AlgorithmPS256,
		AlgorithmES256, AlgorithmES384, AlgorithmEdDSA:
		return true
	}
	return false
}

// Algorithm returns the accepted algorithm.
func (v *Verifier) Algorithm() string { return v.opts.Algorithm }

// Verify checks the token and returns its claims. Checks run cheapest first:
// header, algorithm and key presence before the signature, and the claim
// checks only once the signature is known to be good.
func (v *Verifier) Verify(ctx context.Context, token string) (*Claims, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return nil, fmt.Errorf("%w: expected 3 segments, got %d", ErrInvalidHeader, len(parts))
	}

	hdr, err := v.decodeHeader(parts[0])
	if err != nil {
		return nil, err
	}

	// Pin the algorithm before touching any key material.
	if hdr.Alg != v.opts.Algorithm {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, hdr.Alg)
	}
	if hdr.KID == "" {
		return nil, fmt.Errorf("%w: missing kid", ErrInvalidHeader)
	}

	key, err := v.keys.Key(ctx, hdr.KID)
	if err != nil {
		return nil, err
	}
	if err := v.checkKey(key); err != nil {
		return nil, err
	}

	sig, err := v.parser.DecodeSegment(parts[2])
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSignature, err)
	}
	if err := v.method.Verify(parts[0]+"."+parts[1], sig, key.Key); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSignature, err)
	}

	claims, err := v.decodeClaims(parts[1])
	if err != nil {
		return nil, err
	}

	now := v.opts.Now().UTC()
	if err := claims.validateRequired(now, v.opts.Leeway); err != nil {
		return nil, err
	}
	if err := claims.ValidateIssuer(v.opts.Issuer); err != nil {
		return nil, err
	}
	if err := claims.ValidateAudience(v.opts.Audience); err != nil {
		return nil, err
	}
	if err := claims.ValidateExpiryAt(now, v.opts.Leeway); err != nil {
		return nil, err
	}

	return claims, nil
}

func (v *Verifier) decodeHeader(seg string) (Header, error) {
	raw, err := v.parser.DecodeSegment(seg)
	if err != nil {
		return Header{}, fmt.Errorf("%w: %w", ErrInvalidHeader, err)
	}
	var hdr Header
	if err := json.Unmarshal(raw, &hdr); err != nil {
		return Header{}, fmt.Errorf("%w: %w", ErrInvalidHeader, err)
	}
	return hdr, nil
}

func (v *Verifier) decodeClaims(seg string) (*Claims, error) {
	raw, err := v.parser.DecodeSegment(seg)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidClaims, err)
	}
	var claims Claims
	if err := json.Unmarshal(raw, &claims); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidClaims, err)
	}
	return &claims, nil
}

// checkKey makes sure the located key belongs to the pinned algorithm family,
// so a key published for one family can never verify another.
func (v *Verifier) checkKey(key SigningKey) error {
	if key.Algorithm != "" && key.Algorithm != v.opts.Algorithm {
		return fmt.Errorf("%w: key %q is for %s", ErrInvalidSignature, key.KID, key.Algorithm)
	}

	var ok bool
	switch v.opts.Algorithm {
	case AlgorithmRS256, AlgorithmRS384, AlgorithmRS512, AlgorithmPS256:
		_, ok = key.Key.(*rsa.PublicKey)
	case AlgorithmES256, AlgorithmES384:
		_, ok = key.Key.(*ecdsa.PublicKey)
	case AlgorithmEdDSA:
		_, ok = key.Key.(ed25519.PublicKey)
	}
	if !ok {
		return fmt.Errorf("%w: key %q has type %T", ErrInvalidSignature, key.KID, key.Key)
	}
	return nil
}
