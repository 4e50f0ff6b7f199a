// Package identity implements the vault's identity and key-derivation layer
// (spec.md §4.1): turning a (username, passphrase) pair into stable
// identifiers and into the master key that wraps every per-instance key.
//
// # Key hierarchy
//
// The package follows the hierarchy named in spec.md's GLOSSARY:
//
//  1. Token — a session-only concatenation of a user's UUID and passphrase
//     ([MakeTokenString]); it lives only in unlocked-session memory and MUST
//     NOT be logged or persisted.
//  2. Master key — a 256-bit key expanded from the token via HKDF-SHA256
//     ([GenerateMasterBytesKeyFromToken]); wraps every per-instance key.
//  3. Per-instance key K_i — generated by internal/vault/passwordstore and
//     internal/vault/filestore, not by this package.
//
// # Registration flow
//
//  1. [GenerateRandomSalt] twice (username salt, password salt)
//  2. [GenerateUUID](username, saltUsername, registrationTime)
//  3. [PasswordAndHash](passphrase, saltPassword) → stored as UserData.HashedPassword
//
// # Login flow
//
//  1. [VerifyUUID] / [VerifyPassword] against the stored UserKey/UserData
//  2. [MakeTokenString](uuid, passphrase)
//  3. [GenerateMasterBytesKeyFromToken](token)
//  4. [FirstLoginLogic] if UserData.IsFirstLogin
package identity

import "github.com/brainburster/passkeeper-vault/models"

//go:generate mockgen -source=interfaces.go -destination=mock/identity_mock.go -package=mock

// Service is responsible for all identity and key-derivation operations.
// It has no knowledge of the on-disk layout or the instance stores — its
// sole responsibility is turning credentials into identifiers and keys.
type Service interface {
	// GenerateRandomSalt returns a cryptographically random, Base64-encoded
	// salt of at least 16 bytes.
	GenerateRandomSalt() (string, error)

	// GenerateUUID deterministically derives a 32-character lowercase hex
	// identifier from username, saltUsername, and registrationTime. Equal
	// inputs always yield equal output (spec.md §8 property 2).
	GenerateUUID(username, saltUsername string, registrationTime uint64) string

	// HashUUID reduces data to exactly sizeLimit bytes via iterated hashing:
	// hash(data), then hash(digest‖digest) repeatedly until sizeLimit bytes
	// have been produced, truncating the final block. spec.md §4.1 requires
	// sizeLimit=16 for UUIDs and sizeLimit=64 for filename derivation.
	HashUUID(data []byte, sizeLimit int) []byte

	// GenerateStringFileUUIDFromStringUUID derives the hex filename stem
	// used to store a user's instance files, domain-separated from uuid
	// itself so the filename cannot be guessed from uuid alone.
	GenerateStringFileUUIDFromStringUUID(uuid string) string

	// PasswordAndHash derives a Base64-encoded digest of passphrase salted
	// with salt, suitable for storage as UserData.HashedPassword.
	PasswordAndHash(passphrase, salt string) (string, error)

	// VerifyUUID recomputes GenerateUUID(username, saltUsername,
	// registrationTime) and compares it to want in constant time.
	VerifyUUID(username, saltUsername string, registrationTime uint64, want string) bool

	// VerifyPassword recomputes PasswordAndHash(passphrase, salt) and
	// compares it to wantHash in constant time.
	VerifyPassword(passphrase, salt, wantHash string) (bool, error)

	// MakeTokenString concatenates uuid and passphrase into the session
	// token. The result must never be logged or persisted.
	MakeTokenString(uuid, passphrase string) string

	// GenerateMasterBytesKeyFromToken expands token into a 32-byte master
	// key via HKDF-SHA256. Deterministic: depends only on token.
	GenerateMasterBytesKeyFromToken(token string) ([]byte, error)

	// FirstLoginLogic flips userData.IsFirstLogin from true to false and
	// reports whether a transition occurred. Idempotent: calling it again
	// on already-initialized data is a no-op that reports false, so a
	// caller can always re-run it safely (spec.md §7). Creating the empty
	// instance-store files this transition implies is the caller's
	// responsibility (internal/service composes C2 with C4/C5/C7 for that).
	FirstLoginLogic(userData *models.UserData) bool
}
