// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package service composes internal/identity, internal/cascade,
// internal/vault/passwordstore, internal/vault/filestore,
// internal/vault/rotation, and internal/vault/userrecord (C2-C7) into a
// single VaultService facade for cmd/vault, via a composition-with-
// middleware pattern: an unvalidated core implementation wrapped by a
// validating decorator.
//
// VaultService hides the session token entirely: Login derives it once and
// keeps it, and every other method authenticates off the active session
// instead of taking a token parameter, so cmd/vault never handles raw key
// material directly.
package service

import (
	"context"

	"github.com/brainburster/passkeeper-vault/internal/vault/filestore"
	"github.com/brainburster/passkeeper-vault/internal/vault/passwordstore"
)

//go:generate mockgen -source=interfaces.go -destination=mock/service_mock.go -package=mock

// VaultService is the facade cmd/vault drives: registration and login
// against the on-disk user record, and every password/file instance
// operation once a session is active.
type VaultService interface {
	// Register creates a new vault identity (spec.md §4.1/§4.6) with
	// is_first_login=true. It does not create the password/file stores —
	// those are created idempotently by the first successful Login
	// (spec.md §7: "First-login initialization is idempotent").
	Register(ctx context.Context, username, passphrase string) error

	// Login verifies username/passphrase against the stored user record,
	// derives the session token and master key, and — on the very first
	// successful login — creates the empty password and file stores and
	// flips is_first_login to false. Returns an error without starting a
	// session if credentials are invalid.
	Login(ctx context.Context, username, passphrase string) error

	// Logout discards the active session's token and master key from
	// memory. A no-op if no session is active.
	Logout()

	// IsLoggedIn reports whether a session is currently active.
	IsLoggedIn() bool

	// RotateMasterKey re-derives the master key from newPassphrase and
	// re-wraps every instance key in both stores under it (spec.md §4.5,
	// C6), then updates the stored passphrase hash. Requires an active
	// session; the session's token is refreshed to the new passphrase on
	// success.
	RotateMasterKey(ctx context.Context, newPassphrase string) error

	// CreatePasswordInstance stores a new password under the active
	// session's master key, returning its instance id.
	CreatePasswordInstance(ctx context.Context, description, password string, algorithms []string) (uint64, error)

	// ChangePasswordInstance updates an existing password instance's
	// description, password, and/or cascade algorithms.
	ChangePasswordInstance(ctx context.Context, id uint64, newDescription, newPassword string, newAlgorithms []string, changeEncrypted bool) error

	// FindPasswordInstanceByID unlocks and returns the password instance
	// identified by id.
	FindPasswordInstanceByID(ctx context.Context, id uint64) (passwordstore.Unlocked, error)

	// FindPasswordInstanceByDescription unlocks and returns the password
	// instance whose description matches description.
	FindPasswordInstanceByDescription(ctx context.Context, description string) (passwordstore.Unlocked, error)

	// ListAllPasswordInstance unlocks and returns every password instance.
	ListAllPasswordInstance(ctx context.Context) ([]passwordstore.Unlocked, error)

	// RemovePasswordInstance deletes the password instance identified by id.
	RemovePasswordInstance(ctx context.Context, id uint64) error

	// RemoveAllPasswordInstance deletes every password instance.
	RemoveAllPasswordInstance(ctx context.Context) error

	// CreateFileInstance registers a new file instance under the active
	// session's master key, returning its instance id. The file's contents
	// are written separately via EncryptFile.
	CreateFileInstance(ctx context.Context, description string, algorithms []string) (uint64, error)

	// EncryptFile streams srcPath through the cascade and stores it as the
	// payload of file instance id.
	EncryptFile(ctx context.Context, id uint64, srcPath string) error

	// DecryptFile streams file instance id's stored payload back out to
	// dstPath.
	DecryptFile(ctx context.Context, id uint64, dstPath string) error

	// RemoveFileInstance deletes the file instance identified by id and its
	// on-disk payload.
	RemoveFileInstance(ctx context.Context, id uint64) error

	// RemoveAllFileInstance deletes every file instance and its payloads.
	RemoveAllFileInstance(ctx context.Context) error
}

// VaultServiceWrapper defines the middleware composition contract for
// VaultService implementations.
type VaultServiceWrapper interface {
	// Wrap accepts an inner VaultService and returns a new VaultService
	// that applies additional behavior around each method call.
	Wrap(VaultService) VaultService
}
