package passwordstore

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
	"github.com/brainburster/passkeeper-vault/internal/vaulterrors"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "alice.password.json")
	engine := cascade.NewEngine(primitives.NewBlockFactory())
	idSvc := identity.NewService(1, 64*1024, 4, 32)
	return NewStore(path, engine, idSvc, primitives.NewHasher(), primitives.NewRandomSource())
}

func TestCreateAndFindByID(t *testing.T) {
	s := testStore(t)
	token := "uuid123secretpassphrase"

	id, err := s.CreatePasswordInstance(context.Background(), token, "gmail", "S3cr!", []string{"AES", "Serpent"})
	require.NoError(t, err)

	found, err := s.FindPasswordInstanceByID(token, id)
	require.NoError(t, err)
	assert.Equal(t, "S3cr!", found.DecryptedPassword)
	assert.Equal(t, "gmail", found.Description)
}

func TestFindByDescription(t *testing.T) {
	s := testStore(t)
	token := "uuid123secretpassphrase"

	_, err := s.CreatePasswordInstance(context.Background(), token, "gmail", "S3cr!", []string{"AES", "Serpent"})
	require.NoError(t, err)

	found, err := s.FindPasswordInstanceByDescription(token, "gmail")
	require.NoError(t, err)
	assert.Equal(t, "S3cr!", found.DecryptedPassword)
}

func TestFind_WrongTokenFailsWithMasterKeyMismatch(t *testing.T) {
	s := testStore(t)
	token := "uuid123pw0"

	id, err := s.CreatePasswordInstance(context.Background(), token, "gmail", "S3cr!", []string{"AES", "Serpent"})
	require.NoError(t, err)

	_, err = s.FindPasswordInstanceByID("uuid123pw1", id)
	require.ErrorIs(t, err, vaulterrors.ErrMasterKeyMismatch)
}

func TestListAllPasswordInstance(t *testing.T) {
	s := testStore(t)
	token := "uuid123secretpassphrase"

	_, err := s.CreatePasswordInstance(context.Background(), token, "gmail", "S3cr!", []string{"AES"})
	require.NoError(t, err)
	_, err = s.CreatePasswordInstance(context.Background(), token, "github", "h4x0r", []string{"Twofish", "SM4"})
	require.NoError(t, err)

	all, err := s.ListAllPasswordInstance(token)
	require.NoError(t, err)
	require.Len(t, all, 2)

	passwords := map[string]string{}
	for _, u := range all {
		passwords[u.Description] = u.DecryptedPassword
	}
	assert.Equal(t, "S3cr!", passwords["gmail"])
	assert.Equal(t, "h4x0r", passwords["github"])
}

func TestChangePasswordInstance_MetadataOnly(t *testing.T) {
	s := testStore(t)
	token := "uuid123secretpassphrase"

	id, err := s.CreatePasswordInstance(context.Background(), token, "gmail", "S3cr!", []string{"AES"})
	require.NoError(t, err)

	err = s.ChangePasswordInstance(context.Background(), token, id, "gmail-renamed", "", []string{"AES"}, false)
	require.NoError(t, err)

	found, err := s.FindPasswordInstanceByID(token, id)
	require.NoError(t, err)
	assert.Equal(t, "gmail-renamed", found.Description)
	assert.Equal(t, "S3cr!", found.DecryptedPassword)
}

func TestChangePasswordInstance_NewPassword(t *testing.T) {
	s := testStore(t)
	token := "uuid123secretpassphrase"

	id, err := s.CreatePasswordInstance(context.Background(), token, "gmail", "S3cr!", []string{"AES"})
	require.NoError(t, err)

	err = s.ChangePasswordInstance(context.Background(), token, id, "gmail", "N3wP4ss", []string{"AES"}, true)
	require.NoError(t, err)

	found, err := s.FindPasswordInstanceByID(token, id)
	require.NoError(t, err)
	assert.Equal(t, "N3wP4ss", found.DecryptedPassword)
}

func TestChangePasswordInstance_AlgorithmChangeRewrapsKey(t *testing.T) {
	s := testStore(t)
	token := "uuid123secretpassphrase"

	id, err := s.CreatePasswordInstance(context.Background(), token, "gmail", "S3cr!", []string{"AES"})
	require.NoError(t, err)

	err = s.ChangePasswordInstance(context.Background(), token, id, "gmail", "", []string{"RC6", "SM4"}, false)
	require.NoError(t, err)

	found, err := s.FindPasswordInstanceByID(token, id)
	require.NoError(t, err)
	assert.Equal(t, "S3cr!", found.DecryptedPassword)
}

func TestRemovePasswordInstance(t *testing.T) {
	s := testStore(t)
	token := "uuid123secretpassphrase"

	id, err := s.CreatePasswordInstance(context.Background(), token, "gmail", "S3cr!", []string{"AES"})
	require.NoError(t, err)

	require.NoError(t, s.RemovePasswordInstance(id))

	_, err = s.FindPasswordInstanceByID(token, id)
	assert.Error(t, err)

	km := s.KeyMaps()
	assert.Empty(t, km.WrappedKeys)
	assert.Empty(t, km.UnwrappedKeyHashes)
}

func TestRemoveAllPasswordInstance(t *testing.T) {
	s := testStore(t)
	token := "uuid123secretpassphrase"

	_, err := s.CreatePasswordInstance(context.Background(), token, "gmail", "S3cr!", []string{"AES"})
	require.NoError(t, err)
	_, err = s.CreatePasswordInstance(context.Background(), token, "github", "h4x0r", []string{"AES"})
	require.NoError(t, err)

	require.NoError(t, s.RemoveAllPasswordInstance())

	all, err := s.ListAllPasswordInstance(token)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestLoad_RoundTripsAcrossStoreInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "alice.password.json")
	engine := cascade.NewEngine(primitives.NewBlockFactory())
	idSvc := identity.NewService(1, 64*1024, 4, 32)
	token := "uuid123secretpassphrase"

	s1 := NewStore(path, engine, idSvc, primitives.NewHasher(), primitives.NewRandomSource())
	id, err := s1.CreatePasswordInstance(context.Background(), token, "gmail", "S3cr!", []string{"AES", "Serpent"})
	require.NoError(t, err)

	s2 := NewStore(path, engine, idSvc, primitives.NewHasher(), primitives.NewRandomSource())
	require.NoError(t, s2.Load(context.Background()))

	found, err := s2.FindPasswordInstanceByID(token, id)
	require.NoError(t, err)
	assert.Equal(t, "S3cr!", found.DecryptedPassword)
}

func TestLoad_CorruptStoreNotRewritten(t *testing.T) {
	path := filepath.Join(t.TempDir(), "alice.password.json")
	engine := cascade.NewEngine(primitives.NewBlockFactory())
	idSvc := identity.NewService(1, 64*1024, 4, 32)
	token := "uuid123secretpassphrase"

	s1 := NewStore(path, engine, idSvc, primitives.NewHasher(), primitives.NewRandomSource())
	_, err := s1.CreatePasswordInstance(context.Background(), token, "gmail", "S3cr!", []string{"AES", "Serpent"})
	require.NoError(t, err)

	original, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NotEmpty(t, original)

	truncated := original[:len(original)-1]
	require.NoError(t, os.WriteFile(path, truncated, 0o600))

	s2 := NewStore(path, engine, idSvc, primitives.NewHasher(), primitives.NewRandomSource())
	err = s2.Load(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, vaulterrors.ErrStoreCorrupt)

	onDisk, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, truncated, onDisk)
}

func TestAppendPasswordInstance_RejectsDuplicateID(t *testing.T) {
	s := testStore(t)
	token := "uuid123secretpassphrase"

	id, err := s.CreatePasswordInstance(context.Background(), token, "gmail", "S3cr!", []string{"AES"})
	require.NoError(t, err)

	km := s.KeyMaps()
	var wrapped []byte
	var hash string
	for h, w := range km.WrappedKeys {
		wrapped = w
		hash = km.UnwrappedKeyHashes[h]
		_ = hash
		break
	}

	dup := s.instances[s.indexByID(id)]
	err = s.AppendPasswordInstance(dup, wrapped, "somehash")
	assert.Error(t, err)
}
