package passwordstore

import (
	"context"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/brainburster/passkeeper-vault/internal/cascade"
	"github.com/brainburster/passkeeper-vault/internal/identity"
	"github.com/brainburster/passkeeper-vault/internal/logger"
	"github.com/brainburster/passkeeper-vault/internal/primitives"
	"github.com/brainburster/passkeeper-vault/internal/vault/atomicfile"
	"github.com/brainburster/passkeeper-vault/internal/vaulterrors"
	"github.com/brainburster/passkeeper-vault/models"
)

// persisted is the on-disk JSON shape of a password store (spec.md §6).
type persisted struct {
	Instances          []models.PasswordInstance `json:"instances"`
	WrappedKeys        map[uint64][]byte         `json:"wrapped_keys"`
	UnwrappedKeyHashes map[uint64]string         `json:"unwrapped_key_hashes"`
}

// Store is the single owner of a user's password instances and their
// wrapped-key maps. All public methods serialize on mu, matching the
// teacher's localSQLiteStorage (internal/store/client_sqlite.go) which
// guards its in-memory map the same way (spec.md §5: single-threaded
// cooperative contract per store).
type Store struct {
	mu   sync.Mutex
	path string

	instances []models.PasswordInstance
	keyMaps   models.KeyMaps

	engine   *cascade.Engine
	identity identity.Service
	hasher   primitives.Hasher
	random   primitives.RandomSource
}

// NewStore constructs an empty Store rooted at path (the JSON file this
// store persists to and loads from). Call [Store.Load] to populate it from
// an existing file.
func NewStore(path string, engine *cascade.Engine, idSvc identity.Service, hasher primitives.Hasher, random primitives.RandomSource) *Store {
	return &Store{
		path:     path,
		keyMaps:  models.NewKeyMaps(),
		engine:   engine,
		identity: idSvc,
		hasher:   hasher,
		random:   random,
	}
}

// Load reads path and populates the store. A missing file is not an error —
// a freshly registered user has no store file yet. Any invariant violation
// (spec.md §3) is reported as [vaulterrors.ErrStoreCorrupt] and the file is
// left untouched.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("%w: read password store: %v", vaulterrors.ErrIoFailure, err)
	}

	var p persisted
	if err = json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("%w: decode password store: %v", vaulterrors.ErrStoreCorrupt, err)
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

	logger.FromContext(ctx).Debug().Str("path", s.path).Int("instances", len(s.instances)).Msg("password store loaded")
	return nil
}

// persistLocked writes the current state to s.path atomically. Caller must
// hold s.mu.
func (s *Store) persistLocked() error {
	p := persisted{
		Instances:          s.instances,
		WrappedKeys:        s.keyMaps.WrappedKeys,
		UnwrappedKeyHashes: s.keyMaps.UnwrappedKeyHashes,
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode password store: %v", vaulterrors.ErrIoFailure, err)
	}
	if err = atomicfile.Write(s.path, data, 0o600); err != nil {
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

// CreatePasswordInstance implements spec.md §4.3's creation sequence:
// fresh ids, a fresh per-instance key wrapped under the token-derived
// master key, and the ciphertext of password under that per-instance key.
func (s *Store) CreatePasswordInstance(ctx context.Context, token, description, password string, encAlgs []string) (uint64, error) {
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

	encPassword, err := s.engine.EncryptCascade([]byte(password), kI, encAlgs)
	if err != nil {
		return 0, err
	}

	id := s.nextInstanceID()
	hashmapID := s.nextHashmapID()

	s.keyMaps.WrappedKeys[hashmapID] = wrapped
	s.keyMaps.UnwrappedKeyHashes[hashmapID] = s.hashKey(kI)

	s.instances = append(s.instances, models.PasswordInstance{
		ID:                   id,
		Description:          description,
		EncryptedPassword:    base64.StdEncoding.EncodeToString(encPassword),
		EncryptionAlgorithms: encAlgs,
		DecryptionAlgorithms: decAlgs,
		HashmapID:            hashmapID,
	})

	if err = s.persistLocked(); err != nil {
		return 0, err
	}

	logger.FromContext(ctx).Info().Uint64("id", id).Msg("password instance created")
	return id, nil
}

// AppendPasswordInstance adds a pre-built instance, validating uniqueness of
// id and hashmap_id and the reverse-list invariant (spec.md §4.3).
func (s *Store) AppendPasswordInstance(inst models.PasswordInstance, wrappedKey []byte, unwrappedKeyHash string) error {
	if !cascade.IsReverse(inst.EncryptionAlgorithms, inst.DecryptionAlgorithms) {
		return fmt.Errorf("%w: decryption_algorithms is not the reverse of encryption_algorithms", vaulterrors.ErrInvalidAlgorithm)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexByID(inst.ID) != -1 {
		return fmt.Errorf("%w: instance id %d already exists", vaulterrors.ErrDuplicateIdentifier, inst.ID)
	}
	if _, ok := s.keyMaps.WrappedKeys[inst.HashmapID]; ok {
		return fmt.Errorf("%w: hashmap id %d already exists", vaulterrors.ErrDuplicateIdentifier, inst.HashmapID)
	}

	s.keyMaps.WrappedKeys[inst.HashmapID] = wrappedKey
	s.keyMaps.UnwrappedKeyHashes[inst.HashmapID] = unwrappedKeyHash
	s.instances = append(s.instances, inst)

	return s.persistLocked()
}

// ChangePasswordInstance implements spec.md §4.3's update rules: metadata
// changes re-encrypt under the existing K_i when the algorithm list
// changes; changeEncrypted replaces the plaintext. Either kind of
// algorithm-list change also re-wraps K_i under the new cascade.
func (s *Store) ChangePasswordInstance(ctx context.Context, token string, id uint64, newDescription, newPassword string, newEncAlgs []string, changeEncrypted bool) error {
	newDecAlgs := cascade.ReverseAlgorithms(newEncAlgs)

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexByID(id)
	if idx == -1 {
		return fmt.Errorf("%w: password instance %d", vaulterrors.ErrNotFound, id)
	}
	inst := s.instances[idx]

	masterKey, err := s.identity.GenerateMasterBytesKeyFromToken(token)
	if err != nil {
		return err
	}

	wrapped := s.keyMaps.WrappedKeys[inst.HashmapID]
	kI, err := s.unwrapAndVerify(wrapped, masterKey, inst.DecryptionAlgorithms, inst.HashmapID)
	if err != nil {
		return err
	}

	algsChanged := !stringsEqual(inst.EncryptionAlgorithms, newEncAlgs)

	plaintext := newPassword
	if !changeEncrypted {
		decoded, derr := base64.StdEncoding.DecodeString(inst.EncryptedPassword)
		if derr != nil {
			return fmt.Errorf("%w: decode stored ciphertext: %v", vaulterrors.ErrStoreCorrupt, derr)
		}
		existing, derr := s.engine.DecryptCascade(decoded, kI, inst.DecryptionAlgorithms)
		if derr != nil {
			return derr
		}
		plaintext = string(existing)
	}

	if changeEncrypted || algsChanged {
		encPassword, eerr := s.engine.EncryptCascade([]byte(plaintext), kI, newEncAlgs)
		if eerr != nil {
			return eerr
		}
		inst.EncryptedPassword = base64.StdEncoding.EncodeToString(encPassword)
	}

	if algsChanged {
		rewrapped, rerr := s.engine.EncryptCascade(kI, masterKey, newEncAlgs)
		if rerr != nil {
			return rerr
		}
		s.keyMaps.WrappedKeys[inst.HashmapID] = rewrapped
		s.keyMaps.UnwrappedKeyHashes[inst.HashmapID] = s.hashKey(kI)
	}

	inst.Description = newDescription
	inst.EncryptionAlgorithms = newEncAlgs
	inst.DecryptionAlgorithms = newDecAlgs
	s.instances[idx] = inst

	if err = s.persistLocked(); err != nil {
		return err
	}

	logger.FromContext(ctx).Info().Uint64("id", id).Msg("password instance changed")
	return nil
}

// unwrapAndVerify decrypts wrapped under masterKey via decAlgs and checks
// the result's hash against keyMaps.UnwrappedKeyHashes[hashmapID], reporting
// [vaulterrors.ErrMasterKeyMismatch] on any mismatch (spec.md §4.3 step 3).
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

func (s *Store) unlock(token string, inst models.PasswordInstance) (Unlocked, error) {
	masterKey, err := s.identity.GenerateMasterBytesKeyFromToken(token)
	if err != nil {
		return Unlocked{}, err
	}

	wrapped := s.keyMaps.WrappedKeys[inst.HashmapID]
	kI, err := s.unwrapAndVerify(wrapped, masterKey, inst.DecryptionAlgorithms, inst.HashmapID)
	if err != nil {
		return Unlocked{}, err
	}

	ciphertext, err := base64.StdEncoding.DecodeString(inst.EncryptedPassword)
	if err != nil {
		return Unlocked{}, fmt.Errorf("%w: decode stored ciphertext: %v", vaulterrors.ErrStoreCorrupt, err)
	}

	plaintext, err := s.engine.DecryptCascade(ciphertext, kI, inst.DecryptionAlgorithms)
	if err != nil {
		return Unlocked{}, err
	}

	return Unlocked{ID: inst.ID, Description: inst.Description, DecryptedPassword: string(plaintext)}, nil
}

// FindPasswordInstanceByID implements spec.md §4.3's Find sequence.
func (s *Store) FindPasswordInstanceByID(token string, id uint64) (Unlocked, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexByID(id)
	if idx == -1 {
		return Unlocked{}, fmt.Errorf("%w: password instance %d", vaulterrors.ErrNotFound, id)
	}
	return s.unlock(token, s.instances[idx])
}

// FindPasswordInstanceByDescription implements spec.md §4.3's Find sequence,
// matching on the first instance with the given description.
func (s *Store) FindPasswordInstanceByDescription(token, description string) (Unlocked, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, inst := range s.instances {
		if inst.Description == description {
			return s.unlock(token, inst)
		}
	}
	return Unlocked{}, fmt.Errorf("%w: password instance %q", vaulterrors.ErrNotFound, description)
}

// ListAllPasswordInstance returns a live view of every instance's
// decrypted plaintext for the duration of the call; the stored records
// never gain a populated plaintext field (spec.md §9's view-vs-mutate
// Open Question, resolved in favor of "view").
func (s *Store) ListAllPasswordInstance(token string) ([]Unlocked, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Unlocked, 0, len(s.instances))
	for _, inst := range s.instances {
		u, err := s.unlock(token, inst)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, nil
}

// RemovePasswordInstance deletes the instance and its wrapped-key entries.
func (s *Store) RemovePasswordInstance(id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexByID(id)
	if idx == -1 {
		return fmt.Errorf("%w: password instance %d", vaulterrors.ErrNotFound, id)
	}

	hashmapID := s.instances[idx].HashmapID
	s.instances = append(s.instances[:idx], s.instances[idx+1:]...)
	delete(s.keyMaps.WrappedKeys, hashmapID)
	delete(s.keyMaps.UnwrappedKeyHashes, hashmapID)

	return s.persistLocked()
}

// RemoveAllPasswordInstance empties the store.
func (s *Store) RemoveAllPasswordInstance() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.instances = nil
	s.keyMaps = models.NewKeyMaps()

	return s.persistLocked()
}

// Instances returns a copy of the stored instance metadata (no plaintext),
// sorted by id; used by internal/vault/rotation to iterate without holding
// the store's lock across an unwrap/rewrap pass.
func (s *Store) Instances() []models.PasswordInstance {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.PasswordInstance, len(s.instances))
	copy(out, s.instances)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
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

// ReplaceKeyMaps overwrites the wrapped-key map pair in place, used by
// internal/vault/rotation once every per-instance key has been re-wrapped
// under the new master key.
func (s *Store) ReplaceKeyMaps(km models.KeyMaps) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.keyMaps = km
	return s.persistLocked()
}

func stringsEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
