package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brainburster/passkeeper-vault/internal/cascade"
	"github.com/brainburster/passkeeper-vault/internal/identity"
	"github.com/brainburster/passkeeper-vault/internal/primitives"
	"github.com/brainburster/passkeeper-vault/internal/vault/userrecord"
)

func testValidatedService(t *testing.T) VaultService {
	t.Helper()
	dir := t.TempDir()
	usersDir := filepath.Join(dir, "users")
	dataDir := filepath.Join(dir, "data")
	require.NoError(t, os.MkdirAll(usersDir, 0o700))
	require.NoError(t, os.MkdirAll(dataDir, 0o700))

	idSvc := identity.NewService(1, 64*1024, 4, 32)
	blocks := primitives.NewBlockFactory()
	engine := cascade.NewEngine(blocks)
	repo := userrecord.NewRepository(usersDir, idSvc)

	core := NewCoreService(repo, idSvc, engine, primitives.NewHasher(), primitives.NewRandomSource(), dataDir, 1<<16, []string{"AES", "Serpent"})
	return NewValidationService(blocks.KnownAlgorithms()).Wrap(core)
}

func TestValidationService_RejectsEmptyUsername(t *testing.T) {
	s := testValidatedService(t)
	err := s.Register(context.Background(), "", "hunter2pass")
	require.ErrorIs(t, err, ErrInvalidDataProvided)
}

func TestValidationService_RejectsEmptyPassphrase(t *testing.T) {
	s := testValidatedService(t)
	err := s.Login(context.Background(), "alice", "")
	require.ErrorIs(t, err, ErrInvalidDataProvided)
}

func TestValidationService_RejectsUnknownAlgorithm(t *testing.T) {
	s := testValidatedService(t)
	ctx := context.Background()
	require.NoError(t, s.Register(ctx, "alice", "hunter2pass"))
	require.NoError(t, s.Login(ctx, "alice", "hunter2pass"))

	_, err := s.CreatePasswordInstance(ctx, "gmail", "S3cr!", []string{"DES"})
	require.ErrorIs(t, err, ErrInvalidDataProvided)
}

func TestValidationService_RejectsDuplicateAlgorithm(t *testing.T) {
	s := testValidatedService(t)
	ctx := context.Background()
	require.NoError(t, s.Register(ctx, "alice", "hunter2pass"))
	require.NoError(t, s.Login(ctx, "alice", "hunter2pass"))

	_, err := s.CreatePasswordInstance(ctx, "gmail", "S3cr!", []string{"AES", "AES"})
	require.ErrorIs(t, err, ErrInvalidDataProvided)
}

func TestValidationService_RejectsEmptyFilePath(t *testing.T) {
	s := testValidatedService(t)
	ctx := context.Background()
	require.NoError(t, s.Register(ctx, "alice", "hunter2pass"))
	require.NoError(t, s.Login(ctx, "alice", "hunter2pass"))

	id, err := s.CreateFileInstance(ctx, "photo", nil)
	require.NoError(t, err)

	err = s.EncryptFile(ctx, id, "")
	require.ErrorIs(t, err, ErrInvalidDataProvided)
}

func TestValidationService_RejectsEmptyRotationPassphrase(t *testing.T) {
	s := testValidatedService(t)
	ctx := context.Background()
	require.NoError(t, s.Register(ctx, "alice", "hunter2pass"))
	require.NoError(t, s.Login(ctx, "alice", "hunter2pass"))

	// RotateMasterKey passes only NewPassphrase to the validator, so an
	// empty string is rejected but a non-empty new passphrase equal to the
	// old one is allowed through validation (the sameness check only fires
	// when OldPassphrase is set, which this call never does).
	err := s.RotateMasterKey(ctx, "")
	require.ErrorIs(t, err, ErrInvalidDataProvided)
}

func TestValidationService_ValidRequestsPassThrough(t *testing.T) {
	s := testValidatedService(t)
	ctx := context.Background()
	require.NoError(t, s.Register(ctx, "alice", "hunter2pass"))
	require.NoError(t, s.Login(ctx, "alice", "hunter2pass"))

	id, err := s.CreatePasswordInstance(ctx, "gmail", "S3cr!", []string{"AES", "Twofish"})
	require.NoError(t, err)

	found, err := s.FindPasswordInstanceByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "S3cr!", found.DecryptedPassword)
}
