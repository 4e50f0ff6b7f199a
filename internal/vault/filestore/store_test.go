package filestore

import (
	"context"
	"crypto/rand"
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

func testStore(t *testing.T, chunkSize int) *Store {
	t.Helper()
	dir := t.TempDir()
	engine := cascade.NewEngine(primitives.NewBlockFactory())
	idSvc := identity.NewService(1, 64*1024, 4, 32)
	return NewStore(
		filepath.Join(dir, "alice.files.json"),
		filepath.Join(dir, "alice.files"),
		chunkSize,
		engine, idSvc, primitives.NewHasher(), primitives.NewRandomSource(),
	)
}

func writeRandomFile(t *testing.T, path string, size int) []byte {
	t.Helper()
	data := make([]byte, size)
	_, err := rand.Read(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return data
}

func TestEncryptDecryptFile_RoundTrip_SmallFile(t *testing.T) {
	s := testStore(t, 64)
	token := "uuid123secretpassphrase"
	dir := t.TempDir()

	id, err := s.CreateFileInstance(context.Background(), token, "photo.png", []string{"AES"})
	require.NoError(t, err)

	src := filepath.Join(dir, "plain.bin")
	original := writeRandomFile(t, src, 10)

	require.NoError(t, s.EncryptFile(context.Background(), token, id, src))

	dst := filepath.Join(dir, "decrypted.bin")
	require.NoError(t, s.DecryptFile(context.Background(), token, id, dst))

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, original, got)
}

func TestEncryptDecryptFile_RoundTrip_MultiChunk(t *testing.T) {
	s := testStore(t, 64)
	token := "uuid123secretpassphrase"
	dir := t.TempDir()

	id, err := s.CreateFileInstance(context.Background(), token, "archive.zip", []string{"Twofish", "RC6", "SM4"})
	require.NoError(t, err)

	src := filepath.Join(dir, "plain.bin")
	original := writeRandomFile(t, src, 500)

	require.NoError(t, s.EncryptFile(context.Background(), token, id, src))

	dst := filepath.Join(dir, "decrypted.bin")
	require.NoError(t, s.DecryptFile(context.Background(), token, id, dst))

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, original, got)
}

func TestEncryptDecryptFile_RoundTrip_ExactChunkMultiple(t *testing.T) {
	s := testStore(t, 32)
	token := "uuid123secretpassphrase"
	dir := t.TempDir()

	id, err := s.CreateFileInstance(context.Background(), token, "dataset.bin", []string{"Serpent"})
	require.NoError(t, err)

	src := filepath.Join(dir, "plain.bin")
	original := writeRandomFile(t, src, 64) // exactly 2 chunks of 32

	require.NoError(t, s.EncryptFile(context.Background(), token, id, src))

	dst := filepath.Join(dir, "decrypted.bin")
	require.NoError(t, s.DecryptFile(context.Background(), token, id, dst))

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, original, got)
}

func TestEncryptDecryptFile_RoundTrip_EmptyFile(t *testing.T) {
	s := testStore(t, 64)
	token := "uuid123secretpassphrase"
	dir := t.TempDir()

	id, err := s.CreateFileInstance(context.Background(), token, "empty.txt", []string{"AES"})
	require.NoError(t, err)

	src := filepath.Join(dir, "plain.bin")
	require.NoError(t, os.WriteFile(src, nil, 0o600))

	require.NoError(t, s.EncryptFile(context.Background(), token, id, src))

	dst := filepath.Join(dir, "decrypted.bin")
	require.NoError(t, s.DecryptFile(context.Background(), token, id, dst))

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestEncryptFile_CiphertextDiffersFromPlaintext(t *testing.T) {
	s := testStore(t, 64)
	token := "uuid123secretpassphrase"
	dir := t.TempDir()

	id, err := s.CreateFileInstance(context.Background(), token, "photo.png", []string{"AES"})
	require.NoError(t, err)

	src := filepath.Join(dir, "plain.bin")
	original := writeRandomFile(t, src, 256)

	require.NoError(t, s.EncryptFile(context.Background(), token, id, src))

	ciphertext, err := os.ReadFile(s.binPath(id))
	require.NoError(t, err)
	assert.NotEqual(t, original, ciphertext)
}

func TestDecryptFile_WrongTokenFails(t *testing.T) {
	s := testStore(t, 64)
	token := "uuid123pw0"
	dir := t.TempDir()

	id, err := s.CreateFileInstance(context.Background(), token, "photo.png", []string{"AES"})
	require.NoError(t, err)

	src := filepath.Join(dir, "plain.bin")
	writeRandomFile(t, src, 100)
	require.NoError(t, s.EncryptFile(context.Background(), token, id, src))

	dst := filepath.Join(dir, "decrypted.bin")
	err = s.DecryptFile(context.Background(), "uuid123pw1", id, dst)
	assert.Error(t, err)
}

func TestRemoveFileInstance_DeletesPayload(t *testing.T) {
	s := testStore(t, 64)
	token := "uuid123secretpassphrase"
	dir := t.TempDir()

	id, err := s.CreateFileInstance(context.Background(), token, "photo.png", []string{"AES"})
	require.NoError(t, err)

	src := filepath.Join(dir, "plain.bin")
	writeRandomFile(t, src, 100)
	require.NoError(t, s.EncryptFile(context.Background(), token, id, src))

	require.NoError(t, s.RemoveFileInstance(id))

	_, err = os.Stat(s.binPath(id))
	assert.True(t, os.IsNotExist(err))
}

func TestLoad_CorruptStoreNotRewritten(t *testing.T) {
	dir := t.TempDir()
	metaPath := filepath.Join(dir, "alice.files.json")
	binDir := filepath.Join(dir, "alice.files")
	engine := cascade.NewEngine(primitives.NewBlockFactory())
	idSvc := identity.NewService(1, 64*1024, 4, 32)
	token := "uuid123secretpassphrase"

	s1 := NewStore(metaPath, binDir, 64, engine, idSvc, primitives.NewHasher(), primitives.NewRandomSource())
	_, err := s1.CreateFileInstance(context.Background(), token, "photo.png", []string{"AES", "Serpent"})
	require.NoError(t, err)

	original, err := os.ReadFile(metaPath)
	require.NoError(t, err)
	require.NotEmpty(t, original)

	truncated := original[:len(original)-1]
	require.NoError(t, os.WriteFile(metaPath, truncated, 0o600))

	s2 := NewStore(metaPath, binDir, 64, engine, idSvc, primitives.NewHasher(), primitives.NewRandomSource())
	err = s2.Load(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, vaulterrors.ErrStoreCorrupt)

	onDisk, err := os.ReadFile(metaPath)
	require.NoError(t, err)
	assert.Equal(t, truncated, onDisk)
}
