package identity

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/hkdf"

	"github.com/brainburster/passkeeper-vault/models"
)

// masterKeyInfo domain-separates master-key expansion from any other HKDF
// use of the same token (spec.md §4.8).
const masterKeyInfo = "master-key"

// fileUUIDInfo domain-separates the on-disk filename stem from the uuid
// itself, so the filename cannot be reconstructed from a leaked uuid alone.
const fileUUIDInfo = "file-uuid"

const saltSize = 16

// service is the private implementation of [Service].
type service struct {
	// Argon2id tuning parameters, sourced from internal/config.KDF.
	argonTime    uint32
	argonMemory  uint32
	argonThreads uint8
	argonKeyLen  uint32
}

// NewService constructs a [Service] with the given Argon2id tuning
// parameters. Callers typically source these from internal/config.KDF.
func NewService(timeCost, memoryCostKiB uint32, parallelism uint8, keyLength uint32) Service {
	return &service{
		argonTime:    timeCost,
		argonMemory:  memoryCostKiB,
		argonThreads: parallelism,
		argonKeyLen:  keyLength,
	}
}

// GenerateRandomSalt implements [Service]. It reads 16 random bytes from the
// OS CSPRNG and returns them Base64-encoded.
func (s *service) GenerateRandomSalt() (string, error) {
	salt := make([]byte, saltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", fmt.Errorf("%w: %v", ErrRandomSourceFailed, err)
	}
	return base64.StdEncoding.EncodeToString(salt), nil
}

// HashUUID implements [Service]. It reduces data to exactly sizeLimit bytes
// via iterated SHA-256: the first digest is hash(data), each subsequent
// digest is hash(prev‖prev), and the concatenation of digests is truncated
// to sizeLimit bytes once enough have been produced.
func (s *service) HashUUID(data []byte, sizeLimit int) []byte {
	out := make([]byte, 0, sizeLimit+sha256.Size)

	digest := sha256.Sum256(data)
	out = append(out, digest[:]...)

	for len(out) < sizeLimit {
		next := sha256.Sum256(append(digest[:], digest[:]...))
		digest = next
		out = append(out, digest[:]...)
	}

	return out[:sizeLimit]
}

// GenerateUUID implements [Service]. It hex-encodes a 16-byte [HashUUID]
// reduction of "username:saltUsername:registrationTime", yielding a
// 32-character lowercase hex string. Equal inputs always yield equal output.
func (s *service) GenerateUUID(username, saltUsername string, registrationTime uint64) string {
	data := fmt.Sprintf("%s:%s:%d", username, saltUsername, registrationTime)
	digest := s.HashUUID([]byte(data), 16)
	return hex.EncodeToString(digest)
}

// GenerateStringFileUUIDFromStringUUID implements [Service]. It derives the
// hex filename stem from uuid via a 64-byte [HashUUID] reduction of
// fileUUIDInfo + ":" + uuid, hex-encoded.
func (s *service) GenerateStringFileUUIDFromStringUUID(uuid string) string {
	digest := s.HashUUID([]byte(fileUUIDInfo+":"+uuid), 64)
	return hex.EncodeToString(digest)
}

// PasswordAndHash implements [Service]. It derives an Argon2id digest of
// passphrase salted with salt, using the tuning parameters stored in the
// receiver, and returns it Base64-encoded.
func (s *service) PasswordAndHash(passphrase, salt string) (string, error) {
	digest := argon2.IDKey(
		[]byte(passphrase),
		[]byte(salt),
		s.argonTime,
		s.argonMemory,
		s.argonThreads,
		s.argonKeyLen,
	)
	return base64.StdEncoding.EncodeToString(digest), nil
}

// VerifyUUID implements [Service]. It recomputes [GenerateUUID] and compares
// it to want in constant time.
func (s *service) VerifyUUID(username, saltUsername string, registrationTime uint64, want string) bool {
	got := s.GenerateUUID(username, saltUsername, registrationTime)
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}

// VerifyPassword implements [Service]. It recomputes [PasswordAndHash] and
// compares it to wantHash in constant time.
func (s *service) VerifyPassword(passphrase, salt, wantHash string) (bool, error) {
	got, err := s.PasswordAndHash(passphrase, salt)
	if err != nil {
		return false, err
	}
	return subtle.ConstantTimeCompare([]byte(got), []byte(wantHash)) == 1, nil
}

// MakeTokenString implements [Service]. The result must never be logged or
// persisted: it is the sole input to master-key derivation.
func (s *service) MakeTokenString(uuid, passphrase string) string {
	return uuid + passphrase
}

// GenerateMasterBytesKeyFromToken implements [Service]. It expands token
// into a 32-byte master key via HKDF-SHA256, domain-separated by
// masterKeyInfo.
func (s *service) GenerateMasterBytesKeyFromToken(token string) ([]byte, error) {
	kdf := hkdf.New(sha256.New, []byte(token), nil, []byte(masterKeyInfo))
	key := make([]byte, 32)
	if _, err := io.ReadFull(kdf, key); err != nil {
		return nil, fmt.Errorf("identity: expand master key: %w", err)
	}
	return key, nil
}

// FirstLoginLogic implements [Service].
func (s *service) FirstLoginLogic(userData *models.UserData) bool {
	if !userData.IsFirstLogin {
		return false
	}
	userData.IsFirstLogin = false
	return true
}
