// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/brainburster/passkeeper-vault/internal/cascade"
	"github.com/brainburster/passkeeper-vault/internal/identity"
	"github.com/brainburster/passkeeper-vault/internal/logger"
	"github.com/brainburster/passkeeper-vault/internal/primitives"
	"github.com/brainburster/passkeeper-vault/internal/vault/filestore"
	"github.com/brainburster/passkeeper-vault/internal/vault/passwordstore"
	"github.com/brainburster/passkeeper-vault/internal/vault/rotation"
	"github.com/brainburster/passkeeper-vault/internal/vault/userrecord"
	"github.com/brainburster/passkeeper-vault/internal/vaulterrors"
	"github.com/brainburster/passkeeper-vault/models"
)

// session holds everything that exists only between a successful Login and
// the next Logout: the session token (spec.md's GLOSSARY entry — uuid +
// passphrase, never logged or persisted) and the two per-user stores it
// unlocks.
type session struct {
	uuid      string
	token     string
	userKey   models.UserKey
	userData  models.UserData
	pwStore   *passwordstore.Store
	fileStore *filestore.Store
}

// coreService is the unwrapped VaultService implementation: no input
// validation beyond what the stores themselves enforce. internal/service's
// composition root always runs it behind validationService, mirroring the
// teacher's privateDataValidationService decorating its core service.
type coreService struct {
	mu sync.Mutex

	repo     *userrecord.Repository
	identity identity.Service
	engine   *cascade.Engine
	hasher   primitives.Hasher
	random   primitives.RandomSource

	dataDir           string
	chunkSize         int
	defaultAlgorithms []string

	session *session
}

// NewCoreService constructs the unwrapped VaultService. dataDir is the
// vault's "data/" directory (spec.md §6); the "users/" directory backing
// repo is managed separately since it is keyed by username, not session
// state.
func NewCoreService(
	repo *userrecord.Repository,
	idSvc identity.Service,
	engine *cascade.Engine,
	hasher primitives.Hasher,
	random primitives.RandomSource,
	dataDir string,
	chunkSize int,
	defaultAlgorithms []string,
) VaultService {
	return &coreService{
		repo:              repo,
		identity:          idSvc,
		engine:            engine,
		hasher:            hasher,
		random:            random,
		dataDir:           dataDir,
		chunkSize:         chunkSize,
		defaultAlgorithms: defaultAlgorithms,
	}
}

func (s *coreService) algorithmsOrDefault(algs []string) []string {
	if len(algs) > 0 {
		return algs
	}
	return s.defaultAlgorithms
}

// Register implements VaultService.
func (s *coreService) Register(ctx context.Context, username, passphrase string) error {
	log := logger.FromContext(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.repo.LoadPasswordManagerUUID(username); err == nil {
		return fmt.Errorf("%w: username %q already registered", vaulterrors.ErrDuplicateIdentifier, username)
	} else if !errors.Is(err, vaulterrors.ErrNotFound) {
		return err
	}

	saltUsername, err := s.identity.GenerateRandomSalt()
	if err != nil {
		return fmt.Errorf("generate username salt: %w", err)
	}
	saltPassword, err := s.identity.GenerateRandomSalt()
	if err != nil {
		return fmt.Errorf("generate password salt: %w", err)
	}

	registrationTime := uint64(time.Now().Unix())
	uuid := s.identity.GenerateUUID(username, saltUsername, registrationTime)
	hashedPassword, err := s.identity.PasswordAndHash(passphrase, saltPassword)
	if err != nil {
		return fmt.Errorf("hash passphrase: %w", err)
	}
	stem := s.identity.GenerateStringFileUUIDFromStringUUID(uuid)

	userKey := models.UserKey{
		UUID:             uuid,
		SaltUsername:     saltUsername,
		SaltPassword:     saltPassword,
		RegistrationTime: registrationTime,
	}
	userData := models.UserData{
		Username:             username,
		HashedPassword:       hashedPassword,
		PasswordInfoFilename: stem + ".password.json",
		FileInfoFilename:     stem + ".files.json",
		IsFirstLogin:         true,
	}

	if err = s.repo.SavePasswordManagerUser(userKey, userData); err != nil {
		return err
	}

	log.Info().Str("username", username).Str("uuid", uuid).Msg("registered new vault identity")
	return nil
}

// Login implements VaultService.
func (s *coreService) Login(ctx context.Context, username, passphrase string) error {
	log := logger.FromContext(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()

	uuid, err := s.repo.LoadPasswordManagerUUID(username)
	if err != nil {
		return ErrWrongCredentials
	}

	userKey, err := s.repo.LoadUserKey(uuid)
	if err != nil {
		return fmt.Errorf("load user key: %w", err)
	}
	if !s.identity.VerifyUUID(username, userKey.SaltUsername, userKey.RegistrationTime, userKey.UUID) {
		return ErrWrongCredentials
	}

	userData, err := s.repo.LoadPasswordManagerUser(userKey)
	if err != nil {
		return fmt.Errorf("load user data: %w", err)
	}
	ok, err := s.identity.VerifyPassword(passphrase, userKey.SaltPassword, userData.HashedPassword)
	if err != nil {
		return fmt.Errorf("verify passphrase: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: %w", ErrWrongCredentials, vaulterrors.ErrMasterKeyMismatch)
	}

	token := s.identity.MakeTokenString(userKey.UUID, passphrase)

	pwStore := passwordstore.NewStore(filepath.Join(s.dataDir, userData.PasswordInfoFilename), s.engine, s.identity, s.hasher, s.random)
	if err = pwStore.Load(ctx); err != nil {
		return fmt.Errorf("load password store: %w", err)
	}

	stem := s.identity.GenerateStringFileUUIDFromStringUUID(userKey.UUID)
	fileStore := filestore.NewStore(
		filepath.Join(s.dataDir, userData.FileInfoFilename),
		filepath.Join(s.dataDir, stem+".files"),
		s.chunkSize, s.engine, s.identity, s.hasher, s.random,
	)
	if err = fileStore.Load(ctx); err != nil {
		return fmt.Errorf("load file store: %w", err)
	}

	if s.identity.FirstLoginLogic(&userData) {
		// spec.md §7: generates the personal stores (empty but well-formed)
		// at their deterministic paths before flipping is_first_login.
		if err = pwStore.ReplaceKeyMaps(pwStore.KeyMaps()); err != nil {
			return fmt.Errorf("initialize password store: %w", err)
		}
		if err = fileStore.ReplaceKeyMaps(fileStore.KeyMaps()); err != nil {
			return fmt.Errorf("initialize file store: %w", err)
		}
		if err = s.repo.SavePasswordManagerUser(userKey, userData); err != nil {
			return fmt.Errorf("save first-login transition: %w", err)
		}
	}

	s.session = &session{
		uuid:      userKey.UUID,
		token:     token,
		userKey:   userKey,
		userData:  userData,
		pwStore:   pwStore,
		fileStore: fileStore,
	}

	log.Info().Str("username", username).Msg("login succeeded")
	return nil
}

// Logout implements VaultService.
func (s *coreService) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = nil
}

// IsLoggedIn implements VaultService.
func (s *coreService) IsLoggedIn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session != nil
}

// activeSession returns the active session or ErrNotLoggedIn.
func (s *coreService) activeSession() (*session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return nil, ErrNotLoggedIn
	}
	return s.session, nil
}

// RotateMasterKey implements VaultService.
func (s *coreService) RotateMasterKey(ctx context.Context, newPassphrase string) error {
	sess, err := s.activeSession()
	if err != nil {
		return err
	}

	newToken := s.identity.MakeTokenString(sess.uuid, newPassphrase)
	if err = rotation.ChangeInstanceMasterKeyWithSystemPassword(ctx, sess.pwStore, sess.fileStore, s.engine, s.identity, s.hasher, sess.token, newToken); err != nil {
		return fmt.Errorf("rotate master key: %w", err)
	}

	newHashedPassword, err := s.identity.PasswordAndHash(newPassphrase, sess.userKey.SaltPassword)
	if err != nil {
		return fmt.Errorf("hash new passphrase: %w", err)
	}
	sess.userData.HashedPassword = newHashedPassword
	if err = s.repo.SavePasswordManagerUser(sess.userKey, sess.userData); err != nil {
		return fmt.Errorf("save rotated passphrase hash: %w", err)
	}

	s.mu.Lock()
	sess.token = newToken
	s.mu.Unlock()

	logger.FromContext(ctx).Info().Str("uuid", sess.uuid).Msg("master key rotated")
	return nil
}

// CreatePasswordInstance implements VaultService.
func (s *coreService) CreatePasswordInstance(ctx context.Context, description, password string, algorithms []string) (uint64, error) {
	sess, err := s.activeSession()
	if err != nil {
		return 0, err
	}
	return sess.pwStore.CreatePasswordInstance(ctx, sess.token, description, password, s.algorithmsOrDefault(algorithms))
}

// ChangePasswordInstance implements VaultService.
func (s *coreService) ChangePasswordInstance(ctx context.Context, id uint64, newDescription, newPassword string, newAlgorithms []string, changeEncrypted bool) error {
	sess, err := s.activeSession()
	if err != nil {
		return err
	}
	return sess.pwStore.ChangePasswordInstance(ctx, sess.token, id, newDescription, newPassword, newAlgorithms, changeEncrypted)
}

// FindPasswordInstanceByID implements VaultService.
func (s *coreService) FindPasswordInstanceByID(ctx context.Context, id uint64) (passwordstore.Unlocked, error) {
	sess, err := s.activeSession()
	if err != nil {
		return passwordstore.Unlocked{}, err
	}
	return sess.pwStore.FindPasswordInstanceByID(sess.token, id)
}

// FindPasswordInstanceByDescription implements VaultService.
func (s *coreService) FindPasswordInstanceByDescription(ctx context.Context, description string) (passwordstore.Unlocked, error) {
	sess, err := s.activeSession()
	if err != nil {
		return passwordstore.Unlocked{}, err
	}
	return sess.pwStore.FindPasswordInstanceByDescription(sess.token, description)
}

// ListAllPasswordInstance implements VaultService.
func (s *coreService) ListAllPasswordInstance(ctx context.Context) ([]passwordstore.Unlocked, error) {
	sess, err := s.activeSession()
	if err != nil {
		return nil, err
	}
	return sess.pwStore.ListAllPasswordInstance(sess.token)
}

// RemovePasswordInstance implements VaultService.
func (s *coreService) RemovePasswordInstance(ctx context.Context, id uint64) error {
	sess, err := s.activeSession()
	if err != nil {
		return err
	}
	return sess.pwStore.RemovePasswordInstance(id)
}

// RemoveAllPasswordInstance implements VaultService.
func (s *coreService) RemoveAllPasswordInstance(ctx context.Context) error {
	sess, err := s.activeSession()
	if err != nil {
		return err
	}
	return sess.pwStore.RemoveAllPasswordInstance()
}

// CreateFileInstance implements VaultService.
func (s *coreService) CreateFileInstance(ctx context.Context, description string, algorithms []string) (uint64, error) {
	sess, err := s.activeSession()
	if err != nil {
		return 0, err
	}
	return sess.fileStore.CreateFileInstance(ctx, sess.token, description, s.algorithmsOrDefault(algorithms))
}

// EncryptFile implements VaultService.
func (s *coreService) EncryptFile(ctx context.Context, id uint64, srcPath string) error {
	sess, err := s.activeSession()
	if err != nil {
		return err
	}
	return sess.fileStore.EncryptFile(ctx, sess.token, id, srcPath)
}

// DecryptFile implements VaultService.
func (s *coreService) DecryptFile(ctx context.Context, id uint64, dstPath string) error {
	sess, err := s.activeSession()
	if err != nil {
		return err
	}
	return sess.fileStore.DecryptFile(ctx, sess.token, id, dstPath)
}

// RemoveFileInstance implements VaultService.
func (s *coreService) RemoveFileInstance(ctx context.Context, id uint64) error {
	sess, err := s.activeSession()
	if err != nil {
		return err
	}
	return sess.fileStore.RemoveFileInstance(id)
}

// RemoveAllFileInstance implements VaultService.
func (s *coreService) RemoveAllFileInstance(ctx context.Context) error {
	sess, err := s.activeSession()
	if err != nil {
		return err
	}
	return sess.fileStore.RemoveAllFileInstance()
}
