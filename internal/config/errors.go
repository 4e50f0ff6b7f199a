package config

import "errors"

// Validation errors returned by [StructuredConfig.validate] when a supplied
// configuration value is present but malformed.
var (
	// ErrInvalidCascadeConfig indicates that the configured default cipher
	// list contains a name outside {AES, RC6, SM4, Twofish, Serpent}.
	ErrInvalidCascadeConfig = errors.New("invalid cascade configuration")

	// ErrInvalidKDFConfig indicates that the configured Argon2id parameters
	// are internally inconsistent (e.g. memory cost too low for the
	// configured parallelism).
	ErrInvalidKDFConfig = errors.New("invalid kdf configuration")
)
