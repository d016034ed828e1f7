package radix

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/blake2b"
)

// PublicKey is an ed25519 public key.
type PublicKey struct {
	key ed25519.PublicKey
}

// Bytes returns the raw 32-byte public key.
func (p PublicKey) Bytes() []byte {
	out := make([]byte, len(p.key))
	copy(out, p.key)
	return out
}

// Hex returns the public key as lowercase hex.
func (p PublicKey) Hex() string {
	return hex.EncodeToString(p.key)
}

// Verify reports whether sig is a valid signature of message by this key.
func (p PublicKey) Verify(message, sig []byte) bool {
	return ed25519.Verify(p.key, message, sig)
}

// PrivateKey is an ed25519 private key used to sign and notarize
// transaction intents.
type PrivateKey struct {
	key ed25519.PrivateKey
}

// GenerateKey creates a new random private key.
func GenerateKey() (*PrivateKey, error) {
	_, key, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generate key: %w", err)
	}
	return &PrivateKey{key: key}, nil
}

// PrivateKeyFromBytes builds a private key from a 32-byte seed or a full
// 64-byte ed25519 private key.
func PrivateKeyFromBytes(b []byte) (*PrivateKey, error) {
	switch len(b) {
	case ed25519.SeedSize:
		return &PrivateKey{key: ed25519.NewKeyFromSeed(b)}, nil
	case ed25519.PrivateKeySize:
		key := make(ed25519.PrivateKey, ed25519.PrivateKeySize)
		copy(key, b)
		return &PrivateKey{key: key}, nil
	default:
		return nil, fmt.Errorf("private key must be %d or %d bytes, got %d",
			ed25519.SeedSize, ed25519.PrivateKeySize, len(b))
	}
}

// Public returns the corresponding public key.
func (k *PrivateKey) Public() PublicKey {
	return PublicKey{key: k.key.Public().(ed25519.PublicKey)}
}

// Sign signs message and returns the 64-byte signature.
func (k *PrivateKey) Sign(message []byte) []byte {
	return ed25519.Sign(k.key, message)
}

// virtualBadgeIDChars is the length of the local ID inside a virtual badge
// rule: the trailing 29 bytes of the blake2b-256 public key hash, in hex.
const virtualBadgeIDChars = 58

// VirtualBadge derives the non-fungible global ID that the network uses as
// the signature proof for pub: the ed25519 virtual badge resource plus the
// trailing 29 bytes of the blake2b-256 hash of the public key.
func VirtualBadge(badgeResource string, pub PublicKey) string {
	sum := blake2b.Sum256(pub.Bytes())
	h := hex.EncodeToString(sum[:])
	return fmt.Sprintf("%s:[%s]", badgeResource, h[len(h)-virtualBadgeIDChars:])
}
