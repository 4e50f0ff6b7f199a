package filestore

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/brainburster/passkeeper-vault/internal/cascade"
	"github.com/brainburster/passkeeper-vault/internal/identity"
	"github.com/brainburster/passkeeper-vault/internal/logger"
	"github.com/brainburster/passkeeper-vault/internal/primitives"
	"github.com/brainburster/passkeeper-vault/internal/vault/atomicfile"
	"github.com/brainburster/passkeeper-vault/internal/vaulterrors"
	"github.com/brainburster/passkeeper-vault/models"
)

// persisted is the on-disk JSON shape of a file-instance store, mirroring
// passwordstore's schema minus any inline ciphertext field (spec.md §6).
type persisted struct {
	Instances          []models.FileInstance `json:"instances"`
	WrappedKeys        map[uint64][]byte      `json:"wrapped_keys"`
	UnwrappedKeyHashes map[uint64]string      `json:"unwrapped_key_hashes"`
}

// Store owns a user's file-instance metadata, their wrapped-key maps, and
// the directory holding each instance's encrypted payload
// (data/<file_uuid>.files/<instance_id>.bin, spec.md §6).
type Store struct {
	mu        sync.Mutex
	metaPath  string
	binDir    string
	chunkSize int

	instances []models.FileInstance
	keyMaps   models.KeyMaps

	engine   *cascade.Engine
	identity identity.Service
	hasher   primitives.Hasher
	random   primitives.RandomSource
}

// NewStore constructs an empty Store. metaPath is the JSON metadata file;
// binDir is the directory holding <instance_id>.bin payloads; chunkSize is
// the target streaming chunk size (spec.md §4.4), rounded down to a
// multiple of the cascade's block size at use time.
func NewStore(metaPath, binDir string, chunkSize int, engine *cascade.Engine, idSvc identity.Service, hasher primitives.Hasher, random primitives.RandomSource) *Store {
	return &Store{
		metaPath:  metaPath,
		binDir:    binDir,
		chunkSize: chunkSize,
		keyMaps:   models.NewKeyMaps(),
		engine:    engine,
		identity:  idSvc,
		hasher:    hasher,
		random:    random,
	}
}

// Load reads metaPath and populates the store; a missing file is not an
// error. See [passwordstore.Store.Load]'s equivalent invariant checks.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.metaPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("%w: read file store: %v", vaulterrors.ErrIoFailure, err)
	}

	var p persisted
	if err = json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("%w: decode file store: %v", vaulterrors.ErrStoreCorrupt, err)
	}

	if p.WrappedKeys == nil {
		p.WrappedKeys = make(map[uint64][]byte)
	}
	if p.UnwrappedKeyHashes == nil {
		p.UnwrappedKeyHashes = make(map[uint64]string)
	}

	for _, inst := range p.Instances {
		if !cascade.IsReverse(inst.EncryptionAlgorithms, inst.DecryptionAlgorithms) {
			return fmt.Errorf("%w: instance %d: decryption_algorithms is not the reverse of encryption_algorithms", vaulterrors.ErrStoreCorrupt, inst.ID)
		}
		if _, ok := p.WrappedKeys[inst.HashmapID]; !ok {
			return fmt.Errorf("%w: instance %d: hashmap_id %d missing from wrapped_keys", vaulterrors.ErrStoreCorrupt, inst.ID, inst.HashmapID)
		}
		if _, ok := p.UnwrappedKeyHashes[inst.HashmapID]; !ok {
			return fmt.Errorf("%w: instance %d: hashmap_id %d missing from unwrapped_key_hashes", vaulterrors.ErrStoreCorrupt, inst.ID, inst.HashmapID)
		}
	}

	s.instances = p.Instances
	s.keyMaps = models.KeyMaps{WrappedKeys: p.WrappedKeys, UnwrappedKeyHashes: p.UnwrappedKeyHashes}

	logger.FromContext(ctx).Debug().Str("path", s.metaPath).Int("instances", len(s.instances)).Msg("file store loaded")
	return nil
}

func (s *Store) persistLocked() error {
	p := persisted{
		Instances:          s.instances,
		WrappedKeys:        s.keyMaps.WrappedKeys,
		UnwrappedKeyHashes: s.keyMaps.UnwrappedKeyHashes,
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode file store: %v", vaulterrors.ErrIoFailure, err)
	}
	if err = atomicfile.Write(s.metaPath, data, 0o600); err != nil {
		return fmt.Errorf("%w: %v", vaulterrors.ErrIoFailure, err)
	}
	return nil
}

func (s *Store) nextInstanceID() uint64 {
	var max uint64
	for _, inst := range s.instances {
		if inst.ID > max {
			max = inst.ID
		}
	}
	return max + 1
}

func (s *Store) nextHashmapID() uint64 {
	var max uint64
	for _, h := range s.keyMaps.WrappedKeys {
		if h > max {
			max = h
		}
	}
	return max + 1
}

func (s *Store) indexByID(id uint64) int {
	for i, inst := range s.instances {
		if inst.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) hashKey(k []byte) string {
	return hex.EncodeToString(s.hasher.Sum(k))
}

func (s *Store) binPath(id uint64) string {
	return filepath.Join(s.binDir, fmt.Sprintf("%d.bin", id))
}

// CreateFileInstance mirrors passwordstore's creation sequence (spec.md
// §4.4): a fresh per-instance key, wrapped under the token-derived master
// key, with no inline ciphertext — the payload is written later by
// [Store.EncryptFile].
func (s *Store) CreateFileInstance(ctx context.Context, token, description string, encAlgs []string) (uint64, error) {
	decAlgs := cascade.ReverseAlgorithms(encAlgs)

	s.mu.Lock()
	defer s.mu.Unlock()

	masterKey, err := s.identity.GenerateMasterBytesKeyFromToken(token)
	if err != nil {
		return 0, err
	}

	kI, err := s.random.Bytes(32)
	if err != nil {
		return 0, fmt.Errorf("%w: generate instance key: %v", vaulterrors.ErrIoFailure, err)
	}

	wrapped, err := s.engine.EncryptCascade(kI, masterKey, encAlgs)
	if err != nil {
		return 0, err
	}

	id := s.nextInstanceID()
	hashmapID := s.nextHashmapID()

	s.keyMaps.WrappedKeys[hashmapID] = wrapped
	s.keyMaps.UnwrappedKeyHashes[hashmapID] = s.hashKey(kI)

	s.instances = append(s.instances, models.FileInstance{
		ID:                   id,
		Description:          description,
		EncryptionAlgorithms: encAlgs,
		DecryptionAlgorithms: decAlgs,
		HashmapID:            hashmapID,
	})

	if err = s.persistLocked(); err != nil {
		return 0, err
	}

	logger.FromContext(ctx).Info().Uint64("id", id).Msg("file instance created")
	return id, nil
}

func (s *Store) unwrapAndVerify(wrapped, masterKey []byte, decAlgs []string, hashmapID uint64) ([]byte, error) {
	kI, err := s.engine.DecryptCascade(wrapped, masterKey, decAlgs)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", vaulterrors.ErrMasterKeyMismatch, err)
	}
	if s.hashKey(kI) != s.keyMaps.UnwrappedKeyHashes[hashmapID] {
		return nil, vaulterrors.ErrMasterKeyMismatch
	}
	return kI, nil
}

// streamChunkSize returns the configured chunk size rounded down to a
// multiple of blockSize, never below one block.
func (s *Store) streamChunkSize(blockSize int) int {
	if s.chunkSize < blockSize {
		return blockSize
	}
	return s.chunkSize - s.chunkSize%blockSize
}

// EncryptFile implements spec.md §4.4: unwraps K_i, then streams srcPath
// through the cascade in fixed-size chunks into the instance's on-disk
// payload, committing atomically. On any failure the partial target is
// discarded and srcPath is left untouched.
func (s *Store) EncryptFile(ctx context.Context, token string, id uint64, srcPath string) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexByID(id)
	if idx == -1 {
		return fmt.Errorf("%w: file instance %d", vaulterrors.ErrNotFound, id)
	}
	inst := s.instances[idx]

	masterKey, err := s.identity.GenerateMasterBytesKeyFromToken(token)
	if err != nil {
		return err
	}
	kI, err := s.unwrapAndVerify(s.keyMaps.WrappedKeys[inst.HashmapID], masterKey, inst.DecryptionAlgorithms, inst.HashmapID)
	if err != nil {
		return err
	}

	stream, err := s.engine.NewEncryptStream(kI, inst.EncryptionAlgorithms)
	if err != nil {
		return err
	}

	src, err := os.Open(srcPath)
	if err != nil {
		return fmt.Errorf("%w: open source file: %v", vaulterrors.ErrIoFailure, err)
	}
	defer src.Close()

	dst := s.binPath(id)
	writer, err := atomicfile.NewWriter(dst, 0o600)
	if err != nil {
		return fmt.Errorf("%w: %v", vaulterrors.ErrIoFailure, err)
	}
	defer func() {
		if err != nil {
			writer.Abort()
		}
	}()

	if err = streamThroughCascade(src, writer, s.streamChunkSize(stream.BlockSize()), stream.Update, stream.Final); err != nil {
		return err
	}

	if err = writer.Commit(); err != nil {
		return fmt.Errorf("%w: %v", vaulterrors.ErrIoFailure, err)
	}

	logger.FromContext(ctx).Info().Uint64("id", id).Msg("file encrypted")
	return nil
}

// DecryptFile implements spec.md §4.4's inverse: unwraps K_i, streams the
// instance's on-disk payload through the cascade's inverse into dstPath.
func (s *Store) DecryptFile(ctx context.Context, token string, id uint64, dstPath string) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexByID(id)
	if idx == -1 {
		return fmt.Errorf("%w: file instance %d", vaulterrors.ErrNotFound, id)
	}
	inst := s.instances[idx]

	masterKey, err := s.identity.GenerateMasterBytesKeyFromToken(token)
	if err != nil {
		return err
	}
	kI, err := s.unwrapAndVerify(s.keyMaps.WrappedKeys[inst.HashmapID], masterKey, inst.DecryptionAlgorithms, inst.HashmapID)
	if err != nil {
		return err
	}

	stream, err := s.engine.NewDecryptStream(kI, inst.DecryptionAlgorithms)
	if err != nil {
		return err
	}

	src, err := os.Open(s.binPath(id))
	if err != nil {
		return fmt.Errorf("%w: open encrypted payload: %v", vaulterrors.ErrIoFailure, err)
	}
	defer src.Close()

	writer, err := atomicfile.NewWriter(dstPath, 0o600)
	if err != nil {
		return fmt.Errorf("%w: %v", vaulterrors.ErrIoFailure, err)
	}
	defer func() {
		if err != nil {
			writer.Abort()
		}
	}()

	if err = streamThroughCascade(src, writer, s.streamChunkSize(stream.BlockSize()), stream.Update, stream.Final); err != nil {
		return err
	}

	if err = writer.Commit(); err != nil {
		return fmt.Errorf("%w: %v", vaulterrors.ErrIoFailure, err)
	}

	logger.FromContext(ctx).Info().Uint64("id", id).Msg("file decrypted")
	return nil
}

// streamThroughCascade reads src in chunkSize-sized blocks, cascading every
// full chunk through update and the final, possibly short, chunk through
// final, writing each result to dst as it is produced.
func streamThroughCascade(src io.Reader, dst io.Writer, chunkSize int, update, final func([]byte) ([]byte, error)) error {
	buf := make([]byte, chunkSize)
	pending := make([]byte, 0, chunkSize)
	haveChunk := false

	flushPending := func(fn func([]byte) ([]byte, error)) error {
		out, err := fn(pending)
		if err != nil {
			return err
		}
		if _, err = dst.Write(out); err != nil {
			return fmt.Errorf("%w: write stream chunk: %v", vaulterrors.ErrIoFailure, err)
		}
		return nil
	}

	for {
		n, err := io.ReadFull(src, buf)
		if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
			return fmt.Errorf("%w: read stream chunk: %v", vaulterrors.ErrIoFailure, err)
		}

		if n > 0 {
			if haveChunk {
				if ferr := flushPending(update); ferr != nil {
					return ferr
				}
			}
			pending = append(pending[:0], buf[:n]...)
			haveChunk = true
		}

		if err == io.EOF || err == io.ErrUnexpectedEOF || n < chunkSize {
			break
		}
	}

	if !haveChunk {
		pending = pending[:0]
	}
	return flushPending(final)
}

// RemoveFileInstance deletes the instance, its wrapped-key entries, and its
// on-disk payload.
func (s *Store) RemoveFileInstance(id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexByID(id)
	if idx == -1 {
		return fmt.Errorf("%w: file instance %d", vaulterrors.ErrNotFound, id)
	}

	hashmapID := s.instances[idx].HashmapID
	s.instances = append(s.instances[:idx], s.instances[idx+1:]...)
	delete(s.keyMaps.WrappedKeys, hashmapID)
	delete(s.keyMaps.UnwrappedKeyHashes, hashmapID)

	if err := os.Remove(s.binPath(id)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("%w: remove payload: %v", vaulterrors.ErrIoFailure, err)
	}

	return s.persistLocked()
}

// RemoveAllFileInstance empties the store and its payload directory.
func (s *Store) RemoveAllFileInstance() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, inst := range s.instances {
		if err := os.Remove(s.binPath(inst.ID)); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("%w: remove payload: %v", vaulterrors.ErrIoFailure, err)
		}
	}

	s.instances = nil
	s.keyMaps = models.NewKeyMaps()

	return s.persistLocked()
}

// Instances returns a copy of the stored instance metadata, used by
// internal/vault/rotation.
func (s *Store) Instances() []models.FileInstance {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.FileInstance, len(s.instances))
	copy(out, s.instances)
	return out
}

// KeyMaps returns a copy of the current wrapped-key map pair.
func (s *Store) KeyMaps() models.KeyMaps {
	s.mu.Lock()
	defer s.mu.Unlock()

	wrapped := make(map[uint64][]byte, len(s.keyMaps.WrappedKeys))
	for k, v := range s.keyMaps.WrappedKeys {
		wrapped[k] = append([]byte(nil), v...)
	}
	hashes := make(map[uint64]string, len(s.keyMaps.UnwrappedKeyHashes))
	for k, v := range s.keyMaps.UnwrappedKeyHashes {
		hashes[k] = v
	}
	return models.KeyMaps{WrappedKeys: wrapped, UnwrappedKeyHashes: hashes}
}

// ReplaceKeyMaps overwrites the wrapped-key map pair, used by
// internal/vault/rotation once every per-instance key has been re-wrapped.
func (s *Store) ReplaceKeyMaps(km models.KeyMaps) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.keyMaps = km
	return s.persistLocked()
}
