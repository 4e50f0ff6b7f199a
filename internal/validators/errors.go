// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import "errors"

var (
	// ErrUnsupportedType is returned when a value of an unsupported type
	// is passed to a validator that cannot handle it.
	ErrUnsupportedType = errors.New("unsupported type for validation")

	// ErrUnknownField is returned when a field name provided for validation
	// does not match any known or expected field.
	ErrUnknownField = errors.New("unknown field for validation")

	// ErrEmptyUsername is returned when a registration or login request
	// carries an empty username.
	ErrEmptyUsername = errors.New("username is required")

	// ErrEmptyPassphrase is returned when a registration, login, or
	// rotation request carries an empty passphrase.
	ErrEmptyPassphrase = errors.New("passphrase is required")

	// ErrEmptyDescription is returned when a password or file instance is
	// created or renamed with an empty description.
	ErrEmptyDescription = errors.New("description is required")

	// ErrEmptyPassword is returned when a password instance is created or
	// re-encrypted with an empty password value.
	ErrEmptyPassword = errors.New("password is required")

	// ErrEmptyPath is returned when a file instance operation is given an
	// empty source or destination path.
	ErrEmptyPath = errors.New("file path is required")

	// ErrEmptyAlgorithmList is returned when an encryption algorithm list
	// is empty.
	ErrEmptyAlgorithmList = errors.New("encryption algorithm list is required")

	// ErrUnknownAlgorithm is returned when an algorithm list names a cipher
	// outside the cascade engine's known five-cipher menu.
	ErrUnknownAlgorithm = errors.New("unknown cascade algorithm")

	// ErrDuplicateAlgorithm is returned when an algorithm list repeats the
	// same cipher name more than once.
	ErrDuplicateAlgorithm = errors.New("duplicate cascade algorithm")

	// ErrSameToken is returned when a rotation request's old and new
	// passphrases are identical, which would make rotation a no-op that
	// still pays its full re-wrap cost.
	ErrSameToken = errors.New("new passphrase must differ from the current one")
)
