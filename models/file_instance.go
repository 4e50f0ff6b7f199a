package models

// FileInstance is the metadata record for one encrypted file reference.
// Unlike PasswordInstance, it carries no inline ciphertext — the encrypted
// payload lives in a sibling file on disk named after ID (spec.md §6:
// data/<file_uuid>.files/<instance_id>.bin).
type FileInstance struct {
	// ID uniquely identifies this instance within its store. A new instance
	// gets one more than the largest ID currently stored, so the ID of a
	// removed highest-numbered instance is assigned again. It also names the
	// instance's ciphertext file on disk.
	ID uint64 `json:"id"`

	// Description is the plaintext, searchable label for this entry
	// (typically the original filename).
	Description string `json:"description"`

	// EncryptionAlgorithms and DecryptionAlgorithms are ordered cipher-name
	// lists drawn from {AES, RC6, SM4, Twofish, Serpent}. DecryptionAlgorithms
	// must always equal the exact reverse of EncryptionAlgorithms.
	EncryptionAlgorithms []string `json:"encryption_algorithms"`
	DecryptionAlgorithms []string `json:"decryption_algorithms"`

	// HashmapID keys into the owning store's wrapped-key maps.
	HashmapID uint64 `json:"hashmap_id"`
}
