// Package rotation implements master-key rotation (spec.md §4.5, C6):
// re-wrapping every per-instance key in both the password store and the
// file store when the user changes their passphrase, atomically, without
// ever decrypting the secrets themselves — only their per-instance keys are
// unwrapped and re-wrapped.
package rotation

//go:generate mockgen -source=interfaces.go -destination=mock/rotation_mock.go -package=mock
