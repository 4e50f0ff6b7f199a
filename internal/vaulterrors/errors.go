// Package vaulterrors collects the sentinel error kinds shared across the
// vault's cryptographic core (spec.md §7). Components wrap these with
// fmt.Errorf("...: %w", ...) to add context; callers match them with
// errors.Is.
package vaulterrors

import "errors"

var (
	// ErrInvalidAlgorithm is returned for an unknown cipher name, or when a
	// decryption algorithm list is not the exact reverse of its matching
	// encryption algorithm list.
	ErrInvalidAlgorithm = errors.New("invalid algorithm")

	// ErrMasterKeyMismatch is returned when a per-instance key unwraps
	// bytewise but its hash does not match the stored hash, or when a
	// passphrase fails verification.
	ErrMasterKeyMismatch = errors.New("master key mismatch")

	// ErrCipherIntegrity is returned when a decryption step produces
	// malformed padding or a ciphertext whose length is not a multiple of
	// the cipher's block size.
	ErrCipherIntegrity = errors.New("cipher integrity failure")

	// ErrStoreCorrupt is returned when a loaded JSON store violates one of
	// the structural invariants of spec.md §3 (orphaned hashmap_id, mismatched
	// algorithm lists, and so on).
	ErrStoreCorrupt = errors.New("store is corrupt")

	// ErrIoFailure wraps any underlying filesystem error encountered while
	// reading, writing, or renaming a vault file.
	ErrIoFailure = errors.New("io failure")

	// ErrDuplicateIdentifier is returned when an append targets an id or
	// hashmap_id that already exists in the store.
	ErrDuplicateIdentifier = errors.New("duplicate identifier")

	// ErrNotFound is returned when a lookup by id or description matches no
	// instance.
	ErrNotFound = errors.New("instance not found")
)
