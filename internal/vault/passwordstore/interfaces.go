// Package passwordstore implements the password-instance store (spec.md
// §4.3, C4): an in-memory collection of [models.PasswordInstance] records
// plus the wrapped-key map pair that resolves spec.md §9's "cyclic
// dependency through hashmap_id" design note — a single [Store] owns both
// the instance slice and the key maps, and every exported method maintains
// the triple invariant (instance ↔ wrapped key ↔ key hash) atomically
// before returning.
package passwordstore

//go:generate mockgen -source=interfaces.go -destination=mock/passwordstore_mock.go -package=mock

// Unlocked is the return-only view produced by Find/List operations: it
// carries the decrypted plaintext for exactly the duration of the call,
// never persisted (spec.md §9's second design note — decrypted_password is
// a result-carrying value type, not a struct field of the stored record).
type Unlocked struct {
	ID                uint64
	Description       string
	DecryptedPassword string
}
