package rc6

import (
	"bytes"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCipher_BlockSize(t *testing.T) {
	key := make([]byte, 32)
	block, err := NewCipher(key)
	require.NoError(t, err)
	assert.Equal(t, 16, block.BlockSize())
}

func TestNewCipher_RejectsEmptyKey(t *testing.T) {
	_, err := NewCipher(nil)
	assert.Error(t, err)
}

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	keys := [][]byte{
		bytes.Repeat([]byte{0x01}, 16),
		bytes.Repeat([]byte{0x02}, 24),
		bytes.Repeat([]byte{0x03}, 32),
	}

	for _, key := range keys {
		block, err := NewCipher(key)
		require.NoError(t, err)

		plaintext := make([]byte, 16)
		_, err = rand.Read(plaintext)
		require.NoError(t, err)

		ciphertext := make([]byte, 16)
		block.Encrypt(ciphertext, plaintext)
		assert.NotEqual(t, plaintext, ciphertext)

		recovered := make([]byte, 16)
		block.Decrypt(recovered, ciphertext)
		assert.Equal(t, plaintext, recovered)
	}
}

func TestEncrypt_Deterministic(t *testing.T) {
	key := bytes.Repeat([]byte{0xAB}, 32)
	block, err := NewCipher(key)
	require.NoError(t, err)

	plaintext := bytes.Repeat([]byte{0x11}, 16)
	out1 := make([]byte, 16)
	out2 := make([]byte, 16)
	block.Encrypt(out1, plaintext)
	block.Encrypt(out2, plaintext)

	assert.Equal(t, out1, out2)
}
