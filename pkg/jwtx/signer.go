package jwtx

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Signer mints JWTs with a private key. This service only verifies tokens;
// the signer exists for test issuers and local tooling.
type Signer struct {
	kid    string
	method jwt.SigningMethod
	key    crypto.Signer
}

// NewSigner loads a private key from PEM (PKCS1, SEC1 or PKCS8) for alg.
func NewSigner(kid, alg string, pemKey []byte) (*Signer, error) {
	block, _ := pem.Decode(pemKey)
	if block == nil {
		return nil, errors.New("jwtx: invalid PEM private key")
	}

	var (
		priv any
		err  error
	)
	switch block.Type {
	case "RSA PRIVATE KEY":
		priv, err = x509.ParsePKCS1PrivateKey(block.Bytes)
	case "EC PRIVATE KEY":
		priv, err = x509.ParseECPrivateKey(block.Bytes)
	case "PRIVATE KEY":
		priv, err = x509.ParsePKCS8PrivateKey(block.Bytes)
	default:
		return nil, fmt.Errorf("jwtx: unsupported PEM type %q", block.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("jwtx: parse private key: %w", err)
	}

	key, ok := priv.(crypto.Signer)
	if !ok {
		return nil, fmt.Errorf("jwtx: %T cannot sign", priv)
	}
	return NewSignerFromKey(kid, alg, key)
}

// NewSignerFromKey wraps an in-memory private key.
func NewSignerFromKey(kid, alg string, key crypto.Signer) (*Signer, error) {
	method := jwt.GetSigningMethod(alg)
	if method == nil || !IsSupportedAlgorithm(alg) {
		return nil, fmt.Errorf("jwtx: algorithm %q is not supported", alg)
	}

	var ok bool
	switch method.(type) {
	case *jwt.SigningMethodRSA, *jwt.SigningMethodRSAPSS:
		_, ok = key.(*rsa.PrivateKey)
	case *jwt.SigningMethodECDSA:
		_, ok = key.(*ecdsa.PrivateKey)
	case *jwt.SigningMethodEd25519:
		_, ok = key.(ed25519.PrivateKey)
	}
	if !ok {
		return nil, fmt.Errorf("jwtx: %T cannot sign %s", key, alg)
	}

	return &Signer{kid: kid, method: method, key: key}, nil
}

func (s *Signer) Alg() string { return s.method.Alg() }
func (s *Signer) KID() string { return s.kid }

// PublicKey returns the verification half of the key pair.
func (s *Signer) PublicKey() crypto.PublicKey { return s.key.Public() }

// Sign turns claims into a compact JWT with the signer's kid.
func (s *Signer) Sign(claims jwt.Claims) (string, error) {
	return s.SignWithHeader(claims, nil)
}

// SignWithHeader signs with extra or overridden header fields.
func (s *Signer) SignWithHeader(claims jwt.Claims, header map[string]any) (string, error) {
	t := jwt.NewWithClaims(s.method, claims)
	t.Header["kid"] = s.kid
	for k, v := range header {
		t.Header[k] = v
	}
	return t.SignedString(s.key)
}

// PublicJWK returns the JWK to publish so others can verify our tokens.
func (s *Signer) PublicJWK() JWK {
	// The constructor already proved the key type, so this cannot fail.
	j, _ := NewJWK(s.kid, s.method.Alg(), s.key.Public())
	return j
}
