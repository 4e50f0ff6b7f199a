package atomicfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrite_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "out.json")
	require.NoError(t, Write(path, []byte(`{"a":1}`), 0o600))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(data))

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestWrite_OverwritesExistingFileLeavingNoTmp(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, Write(path, []byte("first"), 0o600))
	require.NoError(t, Write(path, []byte("second"), 0o600))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
}

func TestWriter_CommitProducesReadableFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stream.bin")
	w, err := NewWriter(path, 0o600)
	require.NoError(t, err)

	_, err = w.Write([]byte("chunk1"))
	require.NoError(t, err)
	_, err = w.Write([]byte("chunk2"))
	require.NoError(t, err)
	require.NoError(t, w.Commit())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "chunk1chunk2", string(data))
}

func TestWriter_AbortLeavesNoFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stream.bin")
	w, err := NewWriter(path, 0o600)
	require.NoError(t, err)

	_, err = w.Write([]byte("partial"))
	require.NoError(t, err)
	require.NoError(t, w.Abort())

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestWriter_AbortLeavesPreviousFileIntact(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stream.bin")
	require.NoError(t, Write(path, []byte("old"), 0o600))

	w, err := NewWriter(path, 0o600)
	require.NoError(t, err)
	_, err = w.Write([]byte("new-partial"))
	require.NoError(t, err)
	require.NoError(t, w.Abort())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "old", string(data))
}
