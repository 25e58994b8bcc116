package jwtx

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rsa"
	"log/slog"
	"slices"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwk"
)

// SigningKey is one public verification key from the issuer's key set.
type SigningKey struct {
	KID       string
	Algorithm string // declared "alg", empty when the JWK omits it
	Key       crypto.PublicKey
}

// KeySet is an immutable snapshot of the issuer's keys. A refresh builds a
// new KeySet and swaps it in; nothing mutates a published one.
type KeySet struct {
	keys      map[string]SigningKey
	FetchedAt time.Time
}

// NewKeySet builds a snapshot. Later duplicates of a kid win.
func NewKeySet(keys []SigningKey, fetchedAt time.Time) *KeySet {
	m := make(map[string]SigningKey, len(keys))
	for _, k := range keys {
		m[k.KID] = k
	}
	return &KeySet{keys: m, FetchedAt: fetchedAt}
}

// Get returns the key for kid. Safe on a nil set.
func (s *KeySet) Get(kid string) (SigningKey, bool) {
	if s == nil {
		return SigningKey{}, false
	}
	k, ok := s.keys[kid]
	return k, ok
}

// Len returns the number of keys.
func (s *KeySet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.keys)
}

// KIDs returns the key IDs in sorted order.
func (s *KeySet) KIDs() []string {
	if s == nil {
		return nil
	}
	kids := make([]string, 0, len(s.keys))
	for kid := range s.keys {
		kids = append(kids, kid)
	}
	slices.Sort(kids)
	return kids
}

// keySetFromJWX converts a parsed JWKS into a snapshot. Encryption keys,
// symmetric keys and keys without a kid are skipped: none of them can
// verify a token we accept.
func keySetFromJWX(set jwk.Set, fetchedAt time.Time, logger *slog.Logger) *KeySet {
	keys := make([]SigningKey, 0, set.Len())

	for i := 0; i < set.Len(); i++ {
		k, ok := set.Key(i)
		if !ok {
			continue
		}

		kid := k.KeyID()
		if kid == "" {
			logger.Warn("jwks: skipping key without kid", "kty", k.KeyType())
			continue
		}
		if k.KeyUsage() == "enc" {
			logger.Debug("jwks: skipping encryption key", "kid", kid)
			continue
		}

		pub, err := toPublicKey(k)
		if err != nil {
			logger.Warn("jwks: skipping unusable key", "kid", kid, "error", err)
			continue
		}

		alg := ""
		if a := k.Algorithm(); a != nil {
			alg = a.String()
		}

		keys = append(keys, SigningKey{KID: kid, Algorithm: alg, Key: pub})
	}

	return NewKeySet(keys, fetchedAt)
}

// toPublicKey strips any private material and returns the raw public key.
func toPublicKey(k jwk.Key) (crypto.PublicKey, error) {
	pk, err := k.PublicKey()
	if err != nil {
		return nil, err
	}

	var raw any
	if err := pk.Raw(&raw); err != nil {
		return nil, err
	}

	switch key := raw.(type) {
	case *rsa.PublicKey:
		return key, nil
	case *ecdsa.PublicKey:
		return key, nil
	case ed25519.PublicKey:
		return key, nil
	default:
		return nil, errUnsupportedKeyType(raw)
	}
}
