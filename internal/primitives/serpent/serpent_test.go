package serpent

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

func TestNewCipher_RejectsWrongKeySize(t *testing.T) {
	_, err := NewCipher(make([]byte, 16))
	assert.Error(t, err)
}

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	key := bytes.Repeat([]byte{0x5A}, 32)
	block, err := NewCipher(key)
	require.NoError(t, err)

	for i := 0; i < 16; i++ {
		plaintext := make([]byte, 16)
		_, err := rand.Read(plaintext)
		require.NoError(t, err)

		ciphertext := make([]byte, 16)
		block.Encrypt(ciphertext, plaintext)
		assert.NotEqual(t, plaintext, ciphertext)

		recovered := make([]byte, 16)
		block.Decrypt(recovered, ciphertext)
		assert.Equal(t, plaintext, recovered)
	}
}

func TestEncrypt_DiffusesSingleBitChange(t *testing.T) {
	key := bytes.Repeat([]byte{0x00}, 32)
	block, err := NewCipher(key)
	require.NoError(t, err)

	a := make([]byte, 16)
	b := make([]byte, 16)
	b[0] = 0x01

	ca := make([]byte, 16)
	cb := make([]byte, 16)
	block.Encrypt(ca, a)
	block.Encrypt(cb, b)

	assert.NotEqual(t, ca, cb)
}

func TestSBoxTables_AreInverses(t *testing.T) {
	for box := range sbox {
		for in := 0; in < 16; in++ {
			out := sbox[box][in]
			assert.Equal(t, byte(in), invSbox[box][out])
		}
	}
}

func TestLinearTransform_RoundTrip(t *testing.T) {
	x := [4]uint32{0xDEADBEEF, 0x12345678, 0x9ABCDEF0, 0x0F0F0F0F}
	y := linearTransform(x)
	z := inverseLinearTransform(y)
	assert.Equal(t, x, z)
}
