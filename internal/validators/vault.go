// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import (
	"context"
	"fmt"
)

// Field name constants used to specify which fields should be validated.
// These constants are passed to Validate or internal validation methods
// to restrict validation to a subset of fields (field-level scoping).
const (
	// FieldUsername targets a registration or login request's username.
	FieldUsername = "username"

	// FieldPassphrase targets a registration or login request's passphrase.
	FieldPassphrase = "passphrase"

	// FieldDescription targets a password or file instance's description.
	FieldDescription = "description"

	// FieldPassword targets a password instance's plaintext password.
	FieldPassword = "password"

	// FieldSourcePath targets the path of a file being encrypted into the store.
	FieldSourcePath = "source_path"

	// FieldDestinationPath targets the path a decrypted file is written to.
	FieldDestinationPath = "destination_path"

	// FieldAlgorithms targets a cascade algorithm list.
	FieldAlgorithms = "algorithms"

	// FieldOldPassphrase targets a rotation request's current passphrase.
	FieldOldPassphrase = "old_passphrase"

	// FieldNewPassphrase targets a rotation request's new passphrase.
	FieldNewPassphrase = "new_passphrase"
)

// RegistrationInput is the input to identity registration: a new username
// and the passphrase it is first set up with.
type RegistrationInput struct {
	Username   string
	Passphrase string
}

// LoginInput is the input to an identity login attempt.
type LoginInput struct {
	Username   string
	Passphrase string
}

// PasswordInstanceInput is the input to creating or changing a password
// instance (spec.md §4.3, C4).
type PasswordInstanceInput struct {
	Description string
	Password    string
	Algorithms  []string
}

// FileInstanceInput is the input to creating a file instance (spec.md §4.4, C5).
type FileInstanceInput struct {
	Description string
	Algorithms  []string
}

// FilePathInput is the input to an EncryptFile/DecryptFile call, validated
// separately from FileInstanceInput since the path is a filesystem
// argument, not stored state.
type FilePathInput struct {
	Path string
}

// RotationInput is the input to a master-key rotation request (spec.md §4.5, C6).
type RotationInput struct {
	OldPassphrase string
	NewPassphrase string
}

// VaultValidator implements Validator for every request type the vault's
// service layer accepts, dispatching on obj's dynamic type. Both value and
// pointer forms of each supported input are accepted.
type VaultValidator struct {
	knownAlgorithms map[string]bool
}

// NewVaultValidator constructs a VaultValidator that accepts only the
// algorithm names in knownAlgorithms (spec.md §6's five-cipher menu in
// practice, via primitives.BlockFactory.KnownAlgorithms — injected rather
// than imported directly so this package stays independent of the cascade
// engine's concrete cipher set).
func NewVaultValidator(knownAlgorithms []string) Validator {
	known := make(map[string]bool, len(knownAlgorithms))
	for _, name := range knownAlgorithms {
		known[name] = true
	}
	return &VaultValidator{knownAlgorithms: known}
}

// Validate dispatches validation to the appropriate type-specific method
// based on the dynamic type of obj.
//
// Supported types: RegistrationInput, LoginInput, PasswordInstanceInput,
// FileInstanceInput, FilePathInput, RotationInput (value or pointer form).
//
// Returns ErrUnsupportedType if obj does not match any known input.
func (v *VaultValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case RegistrationInput:
		return v.validateCredentials(value.Username, value.Passphrase, fields...)
	case *RegistrationInput:
		return v.validateCredentials(value.Username, value.Passphrase, fields...)

	case LoginInput:
		return v.validateCredentials(value.Username, value.Passphrase, fields...)
	case *LoginInput:
		return v.validateCredentials(value.Username, value.Passphrase, fields...)

	case PasswordInstanceInput:
		return v.validatePasswordInstance(value, fields...)
	case *PasswordInstanceInput:
		return v.validatePasswordInstance(*value, fields...)

	case FileInstanceInput:
		return v.validateFileInstance(value, fields...)
	case *FileInstanceInput:
		return v.validateFileInstance(*value, fields...)

	case FilePathInput:
		return v.validateFilePath(value, fields...)
	case *FilePathInput:
		return v.validateFilePath(*value, fields...)

	case RotationInput:
		return v.validateRotation(value, fields...)
	case *RotationInput:
		return v.validateRotation(*value, fields...)

	default:
		return ErrUnsupportedType
	}
}

func (v *VaultValidator) validateCredentials(username, passphrase string, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldUsername, FieldPassphrase}
	}

	for _, f := range fields {
		switch f {
		case FieldUsername:
			if username == "" {
				return ErrEmptyUsername
			}
		case FieldPassphrase:
			if passphrase == "" {
				return ErrEmptyPassphrase
			}
		default:
			return ErrUnknownField
		}
	}
	return nil
}

// validatePasswordInstance validates a PasswordInstanceInput.
//
// Default validated fields (when none specified): Description, Password,
// Algorithms.
func (v *VaultValidator) validatePasswordInstance(input PasswordInstanceInput, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldDescription, FieldPassword, FieldAlgorithms}
	}

	for _, f := range fields {
		switch f {
		case FieldDescription:
			if input.Description == "" {
				return ErrEmptyDescription
			}
		case FieldPassword:
			if input.Password == "" {
				return ErrEmptyPassword
			}
		case FieldAlgorithms:
			if err := v.validateAlgorithms(input.Algorithms); err != nil {
				return err
			}
		default:
			return ErrUnknownField
		}
	}
	return nil
}

// validateFileInstance validates a FileInstanceInput.
//
// Default validated fields (when none specified): Description, Algorithms.
func (v *VaultValidator) validateFileInstance(input FileInstanceInput, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldDescription, FieldAlgorithms}
	}

	for _, f := range fields {
		switch f {
		case FieldDescription:
			if input.Description == "" {
				return ErrEmptyDescription
			}
		case FieldAlgorithms:
			if err := v.validateAlgorithms(input.Algorithms); err != nil {
				return err
			}
		default:
			return ErrUnknownField
		}
	}
	return nil
}

func (v *VaultValidator) validateFilePath(input FilePathInput, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldSourcePath}
	}

	for _, f := range fields {
		switch f {
		case FieldSourcePath, FieldDestinationPath:
			if input.Path == "" {
				return ErrEmptyPath
			}
		default:
			return ErrUnknownField
		}
	}
	return nil
}

// validateRotation validates a RotationInput.
//
// Default validated fields (when none specified): OldPassphrase,
// NewPassphrase. Also enforces that the two differ, since a no-op rotation
// would still pay the cost of re-wrapping every key in both stores.
func (v *VaultValidator) validateRotation(input RotationInput, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldOldPassphrase, FieldNewPassphrase}
	}

	for _, f := range fields {
		switch f {
		case FieldOldPassphrase:
			if input.OldPassphrase == "" {
				return ErrEmptyPassphrase
			}
		case FieldNewPassphrase:
			if input.NewPassphrase == "" {
				return ErrEmptyPassphrase
			}
		default:
			return ErrUnknownField
		}
	}

	if input.OldPassphrase != "" && input.OldPassphrase == input.NewPassphrase {
		return ErrSameToken
	}
	return nil
}

// validateAlgorithms enforces spec.md §6: a non-empty list, every name
// drawn from the cascade engine's known cipher menu, with no repeats.
func (v *VaultValidator) validateAlgorithms(algs []string) error {
	if len(algs) == 0 {
		return ErrEmptyAlgorithmList
	}

	seen := make(map[string]bool, len(algs))
	for _, name := range algs {
		if !v.knownAlgorithms[name] {
			return fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
		}
		if seen[name] {
			return fmt.Errorf("%w: %q", ErrDuplicateAlgorithm, name)
		}
		seen[name] = true
	}
	return nil
}
