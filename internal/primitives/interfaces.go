// Package primitives provides a uniform interface over the five named block
// ciphers of the cascade engine (AES, RC6, SM4, Twofish, Serpent), a hash
// façade, a CSPRNG façade, and a Base64 façade.
//
// It has no knowledge of cascades, keys-of-keys, or on-disk formats — its
// sole responsibility is to turn a cipher name and a key into a
// [cipher.Block] and to provide the small set of primitive operations the
// identity and cascade layers build on.
package primitives

import "crypto/cipher"

//go:generate mockgen -source=interfaces.go -destination=mock/primitives_mock.go -package=mock

// BlockFactory constructs a [cipher.Block] for one of the five named
// algorithms. It has no knowledge of cipher modes (CBC, IV derivation) —
// those live in internal/cascade.
type BlockFactory interface {
	// NewBlock returns a cipher.Block for name keyed by key. key must be of
	// the length the named cipher expects (32 bytes for AES-256, SM4's and
	// Twofish's own key-size ranges, RC6's and Serpent's 32-byte profile).
	// Returns ErrInvalidAlgorithm for any name outside
	// {AES, RC6, SM4, Twofish, Serpent}.
	NewBlock(name string, key []byte) (cipher.Block, error)

	// KnownAlgorithms returns the fixed five-cipher menu in canonical name
	// form, in no particular order. Used by validators to check membership.
	KnownAlgorithms() []string
}

// Hasher is a façade over the collision-resistant hash used for per-instance
// key hashing by the instance stores and rotation. The identity layer hashes
// with crypto/sha256 and Argon2id directly, not through this interface.
type Hasher interface {
	// Sum returns the hash digest of data.
	Sum(data []byte) []byte

	// Size returns the digest length in bytes.
	Size() int
}

// RandomSource is a façade over the OS CSPRNG.
type RandomSource interface {
	// Bytes returns n cryptographically random bytes, or an error if the
	// underlying read fails.
	Bytes(n int) ([]byte, error)
}
