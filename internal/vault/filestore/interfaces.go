// Package filestore implements the file-instance store (spec.md §4.4, C5):
// metadata analogous to internal/vault/passwordstore's PasswordInstance, but
// with no inline ciphertext — the encrypted payload lives in a sibling file
// on disk named after the instance id, and [Store.EncryptFile]/
// [Store.DecryptFile] stream it through the cascade in fixed-size chunks
// instead of holding the whole file in memory.
package filestore

//go:generate mockgen -source=interfaces.go -destination=mock/filestore_mock.go -package=mock
