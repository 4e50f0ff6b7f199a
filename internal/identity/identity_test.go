package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brainburster/passkeeper-vault/models"
)

func testService() Service {
	return NewService(1, 64*1024, 4, 32)
}

func TestGenerateRandomSalt_NonEmpty(t *testing.T) {
	s := testService()
	salt, err := s.GenerateRandomSalt()
	require.NoError(t, err)
	assert.NotEmpty(t, salt)

	salt2, err := s.GenerateRandomSalt()
	require.NoError(t, err)
	assert.NotEqual(t, salt, salt2)
}

func TestGenerateUUID_Deterministic(t *testing.T) {
	s := testService()
	u1 := s.GenerateUUID("alice", "saltA", 1000)
	u2 := s.GenerateUUID("alice", "saltA", 1000)
	assert.Equal(t, u1, u2)
	assert.Len(t, u1, 32)
}

func TestGenerateUUID_SaltUsernameChangesOutput(t *testing.T) {
	s := testService()
	u1 := s.GenerateUUID("alice", "saltA", 1000)
	u2 := s.GenerateUUID("alice", "saltB", 1000)
	assert.NotEqual(t, u1, u2)
}

func TestGenerateUUID_SaltPasswordDoesNotAffectUUID(t *testing.T) {
	s := testService()
	// GenerateUUID takes only saltUsername; varying a would-be password
	// salt has no input path into UUID generation at all.
	u1 := s.GenerateUUID("alice", "saltA", 1000)
	u2 := s.GenerateUUID("alice", "saltA", 1000)
	assert.Equal(t, u1, u2)
}

func TestHashUUID_ExactLength(t *testing.T) {
	s := testService()
	for _, size := range []int{16, 64} {
		digest := s.HashUUID([]byte("some input data"), size)
		assert.Len(t, digest, size)
	}
}

func TestHashUUID_Deterministic(t *testing.T) {
	s := testService()
	d1 := s.HashUUID([]byte("abc"), 32)
	d2 := s.HashUUID([]byte("abc"), 32)
	assert.Equal(t, d1, d2)
}

func TestGenerateStringFileUUIDFromStringUUID_DiffersFromInput(t *testing.T) {
	s := testService()
	uuid := s.GenerateUUID("alice", "saltA", 1000)
	fileUUID := s.GenerateStringFileUUIDFromStringUUID(uuid)
	assert.NotEqual(t, uuid, fileUUID)
	assert.Len(t, fileUUID, 128)
}

func TestPasswordAndHash_VerifyRoundTrip(t *testing.T) {
	s := testService()
	hash, err := s.PasswordAndHash("correct horse battery staple", "pepper")
	require.NoError(t, err)

	ok, err := s.VerifyPassword("correct horse battery staple", "pepper", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.VerifyPassword("wrong password", "pepper", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyUUID(t *testing.T) {
	s := testService()
	uuid := s.GenerateUUID("alice", "saltA", 1000)
	assert.True(t, s.VerifyUUID("alice", "saltA", 1000, uuid))
	assert.False(t, s.VerifyUUID("alice", "saltA", 1001, uuid))
}

func TestMakeTokenString(t *testing.T) {
	s := testService()
	token := s.MakeTokenString("uuid123", "passphrase")
	assert.Equal(t, "uuid123passphrase", token)
}

func TestGenerateMasterBytesKeyFromToken_DeterministicAndSized(t *testing.T) {
	s := testService()
	k1, err := s.GenerateMasterBytesKeyFromToken("token-value")
	require.NoError(t, err)
	assert.Len(t, k1, 32)

	k2, err := s.GenerateMasterBytesKeyFromToken("token-value")
	require.NoError(t, err)
	assert.Equal(t, k1, k2)

	k3, err := s.GenerateMasterBytesKeyFromToken("other-token")
	require.NoError(t, err)
	assert.NotEqual(t, k1, k3)
}

func TestFirstLoginLogic(t *testing.T) {
	s := testService()
	data := &models.UserData{IsFirstLogin: true}

	assert.True(t, s.FirstLoginLogic(data))
	assert.False(t, data.IsFirstLogin)

	assert.False(t, s.FirstLoginLogic(data))
	assert.False(t, data.IsFirstLogin)
}
