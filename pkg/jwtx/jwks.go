package jwtx

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rsa"
	"encoding/base64"
	"fmt"
	"math/big"
)

// JWK is a public key in JSON Web Key format (RFC 7517), covering the RSA,
// EC and OKP fields we publish and consume.
type JWK struct {
	Kty string `json:"kty"`
	Use string `json:"use,omitempty"`
	Alg string `json:"alg,omitempty"`
	Kid string `json:"kid,omitempty"`

	// RSA
	N string `json:"n,omitempty"`
	E string `json:"e,omitempty"`

	// EC / OKP
	Crv string `json:"crv,omitempty"`
	X   string `json:"x,omitempty"`
	Y   string `json:"y,omitempty"`
}

// JWKS is a JSON Web Key Set (RFC 7517).
type JWKS struct {
	Keys []JWK `json:"keys"`
}

// NewJWK builds a signature JWK for a public key.
func NewJWK(kid, alg string, pub crypto.PublicKey) (JWK, error) {
	switch key := pub.(type) {
	case *rsa.PublicKey:
		return JWK{
			Kty: "RSA",
			Use: "sig",
			Alg: alg,
			Kid: kid,
			N:   base64.RawURLEncoding.EncodeToString(key.N.Bytes()),
			E:   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(key.E)).Bytes()),
		}, nil

	case *ecdsa.PublicKey:
		size := (key.Curve.Params().BitSize + 7) / 8
		return JWK{
			Kty: "EC",
			Use: "sig",
			Alg: alg,
			Kid: kid,
			Crv: key.Curve.Params().Name,
			X:   base64.RawURLEncoding.EncodeToString(key.X.FillBytes(make([]byte, size))),
			Y:   base64.RawURLEncoding.EncodeToString(key.Y.FillBytes(make([]byte, size))),
		}, nil

	case ed25519.PublicKey:
		return JWK{
			Kty: "OKP",
			Use: "sig",
			Alg: alg,
			Kid: kid,
			Crv: "Ed25519",
			X:   base64.RawURLEncoding.EncodeToString(key),
		}, nil

	default:
		return JWK{}, errUnsupportedKeyType(pub)
	}
}

func errUnsupportedKeyType(v any) error {
	return fmt.Errorf("jwtx: unsupported key type %T", v)
}
