// Package cryptox generates the asymmetric key pairs used to sign test and
// development tokens. Keys are returned PEM encoded.
package cryptox

import (
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
)

// GenerateRSAKey generates a new RSA private key with the specified bit size.
// Returns the private key in PEM format (PKCS1).
func GenerateRSAKey(bits int) ([]byte, error) {
	if bits < 2048 {
		return nil, fmt.Errorf("cryptox: RSA key size must be at least 2048 bits")
	}

	privateKey, err := rsa.GenerateKey(rand.Reader, bits)
	if err != nil {
		return nil, fmt.Errorf("cryptox: failed to generate RSA key: %w", err)
	}

	return pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(privateKey),
	}), nil
}

// GenerateECKey generates an ECDSA key on curve (P-256 for ES256, P-384 for
// ES384) in PKCS8 PEM.
func GenerateECKey(curve elliptic.Curve) ([]byte, error) {
	privateKey, err := ecdsa.GenerateKey(curve, rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("cryptox: failed to generate ECDSA key: %w", err)
	}
	return encodePKCS8(privateKey)
}

// GenerateEd25519Key generates a new Ed25519 private key in PKCS8 PEM.
func GenerateEd25519Key() ([]byte, error) {
	_, privateKey, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("cryptox: failed to generate Ed25519 key: %w", err)
	}
	return encodePKCS8(privateKey)
}

// GenerateForAlgorithm returns a fresh key suitable for the JWS algorithm alg.
func GenerateForAlgorithm(alg string) ([]byte, error) {
	switch alg {
	case "RS256", "RS384", "RS512", "PS256":
		return GenerateRSAKey(2048)
	case "ES256":
		return GenerateECKey(elliptic.P256())
	case "ES384":
		return GenerateECKey(elliptic.P384())
	case "EdDSA":
		return GenerateEd25519Key()
	default:
		return nil, fmt.Errorf("cryptox: no key type for algorithm %q", alg)
	}
}

func encodePKCS8(key any) ([]byte, error) {
	b, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		return nil, fmt.Errorf("cryptox: failed to marshal PKCS8 key: %w", err)
	}
	return pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: b}), nil
}
