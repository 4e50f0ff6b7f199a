package models

// PasswordInstance is one stored password entry. It never carries plaintext:
// the decrypted password is a return-only value produced by
// passwordstore.Store's Find/List operations (spec.md §9's second Design
// Note), never a struct field, so there is no "must be blank on serialize"
// coupling to maintain.
type PasswordInstance struct {
	// ID uniquely identifies this instance within its store. A new instance
	// gets one more than the largest ID currently stored, so the ID of a
	// removed highest-numbered instance is assigned again.
	ID uint64 `json:"id"`

	// Description is the plaintext, searchable label for this entry.
	Description string `json:"description"`

	// EncryptedPassword is the Base64-encoded cascade ciphertext of the
	// secret, produced under the per-instance key referenced by HashmapID.
	EncryptedPassword string `json:"encrypted_password"`

	// EncryptionAlgorithms and DecryptionAlgorithms are ordered cipher-name
	// lists drawn from {AES, RC6, SM4, Twofish, Serpent}. DecryptionAlgorithms
	// must always equal the exact reverse of EncryptionAlgorithms.
	EncryptionAlgorithms []string `json:"encryption_algorithms"`
	DecryptionAlgorithms []string `json:"decryption_algorithms"`

	// HashmapID keys into the owning store's wrapped-key maps.
	HashmapID uint64 `json:"hashmap_id"`
}
