// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"

	"github.com/brainburster/passkeeper-vault/internal/validators"
	"github.com/brainburster/passkeeper-vault/internal/vault/passwordstore"
)

// validationService is a middleware implementation of VaultService that
// validates request input before delegating to an inner VaultService.
type validationService struct {
	inner     VaultService
	validator validators.Validator
}

// NewValidationService constructs a VaultServiceWrapper that decorates any
// VaultService with input validation. knownAlgorithms is forwarded to
// validators.NewVaultValidator.
func NewValidationService(knownAlgorithms []string) VaultServiceWrapper {
	return &validationService{
		validator: validators.NewVaultValidator(knownAlgorithms),
	}
}

// Wrap implements VaultServiceWrapper.
func (v *validationService) Wrap(inner VaultService) VaultService {
	v.inner = inner
	return v
}

func (v *validationService) Register(ctx context.Context, username, passphrase string) error {
	if err := v.validator.Validate(ctx, validators.RegistrationInput{Username: username, Passphrase: passphrase}); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}
	return v.inner.Register(ctx, username, passphrase)
}

func (v *validationService) Login(ctx context.Context, username, passphrase string) error {
	if err := v.validator.Validate(ctx, validators.LoginInput{Username: username, Passphrase: passphrase}); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}
	return v.inner.Login(ctx, username, passphrase)
}

func (v *validationService) Logout() {
	v.inner.Logout()
}

func (v *validationService) IsLoggedIn() bool {
	return v.inner.IsLoggedIn()
}

func (v *validationService) RotateMasterKey(ctx context.Context, newPassphrase string) error {
	if err := v.validator.Validate(ctx, validators.RotationInput{NewPassphrase: newPassphrase}, validators.FieldNewPassphrase); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}
	return v.inner.RotateMasterKey(ctx, newPassphrase)
}

func (v *validationService) CreatePasswordInstance(ctx context.Context, description, password string, algorithms []string) (uint64, error) {
	if err := v.validator.Validate(ctx, validators.PasswordInstanceInput{Description: description, Password: password, Algorithms: algorithms}); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}
	return v.inner.CreatePasswordInstance(ctx, description, password, algorithms)
}

func (v *validationService) ChangePasswordInstance(ctx context.Context, id uint64, newDescription, newPassword string, newAlgorithms []string, changeEncrypted bool) error {
	if err := v.validator.Validate(ctx, validators.PasswordInstanceInput{Description: newDescription, Algorithms: newAlgorithms}, validators.FieldDescription, validators.FieldAlgorithms); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}
	if changeEncrypted {
		if err := v.validator.Validate(ctx, validators.PasswordInstanceInput{Password: newPassword}, validators.FieldPassword); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
		}
	}
	return v.inner.ChangePasswordInstance(ctx, id, newDescription, newPassword, newAlgorithms, changeEncrypted)
}

func (v *validationService) FindPasswordInstanceByID(ctx context.Context, id uint64) (passwordstore.Unlocked, error) {
	return v.inner.FindPasswordInstanceByID(ctx, id)
}

func (v *validationService) FindPasswordInstanceByDescription(ctx context.Context, description string) (passwordstore.Unlocked, error) {
	if description == "" {
		return passwordstore.Unlocked{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, validators.ErrEmptyDescription)
	}
	return v.inner.FindPasswordInstanceByDescription(ctx, description)
}

func (v *validationService) ListAllPasswordInstance(ctx context.Context) ([]passwordstore.Unlocked, error) {
	return v.inner.ListAllPasswordInstance(ctx)
}

func (v *validationService) RemovePasswordInstance(ctx context.Context, id uint64) error {
	return v.inner.RemovePasswordInstance(ctx, id)
}

func (v *validationService) RemoveAllPasswordInstance(ctx context.Context) error {
	return v.inner.RemoveAllPasswordInstance(ctx)
}

func (v *validationService) CreateFileInstance(ctx context.Context, description string, algorithms []string) (uint64, error) {
	if err := v.validator.Validate(ctx, validators.FileInstanceInput{Description: description, Algorithms: algorithms}); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}
	return v.inner.CreateFileInstance(ctx, description, algorithms)
}

func (v *validationService) EncryptFile(ctx context.Context, id uint64, srcPath string) error {
	if err := v.validator.Validate(ctx, validators.FilePathInput{Path: srcPath}, validators.FieldSourcePath); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}
	return v.inner.EncryptFile(ctx, id, srcPath)
}

func (v *validationService) DecryptFile(ctx context.Context, id uint64, dstPath string) error {
	if err := v.validator.Validate(ctx, validators.FilePathInput{Path: dstPath}, validators.FieldDestinationPath); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}
	return v.inner.DecryptFile(ctx, id, dstPath)
}

func (v *validationService) RemoveFileInstance(ctx context.Context, id uint64) error {
	return v.inner.RemoveFileInstance(ctx, id)
}

func (v *validationService) RemoveAllFileInstance(ctx context.Context) error {
	return v.inner.RemoveAllFileInstance(ctx)
}

var _ VaultService = (*validationService)(nil)
