package userrecord

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/brainburster/passkeeper-vault/internal/identity"
	"github.com/brainburster/passkeeper-vault/internal/vault/atomicfile"
	"github.com/brainburster/passkeeper-vault/internal/vaulterrors"
	"github.com/brainburster/passkeeper-vault/models"
)

// record is the flat on-disk JSON shape of a user record: UserKey's fields
// and UserData's fields side by side, exactly as spec.md §6 names them.
type record struct {
	models.UserKey
	models.UserData
}

// Repository loads and saves user records under a flat storage directory
// (spec.md §6: users/<file_uuid>.json), one file per vault.
type Repository struct {
	dir      string
	identity identity.Service
}

// NewRepository constructs a Repository rooted at dir.
func NewRepository(dir string, idSvc identity.Service) *Repository {
	return &Repository{dir: dir, identity: idSvc}
}

func (r *Repository) pathFor(uuid string) string {
	stem := r.identity.GenerateStringFileUUIDFromStringUUID(uuid)
	return filepath.Join(r.dir, stem+".json")
}

// SavePasswordManagerUser writes the UserKey+UserData pair as JSON at the
// path derived from userKey.UUID, atomically.
func (r *Repository) SavePasswordManagerUser(userKey models.UserKey, userData models.UserData) error {
	rec := record{UserKey: userKey, UserData: userData}
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode user record: %v", vaulterrors.ErrIoFailure, err)
	}

	if err = atomicfile.Write(r.pathFor(userKey.UUID), data, 0o600); err != nil {
		return fmt.Errorf("%w: %v", vaulterrors.ErrIoFailure, err)
	}
	return nil
}

// LoadPasswordManagerUUID enumerates the storage directory for the user
// record whose Username matches username (spec.md §4.6: the directory
// layout is flat, so this is a linear scan; disambiguating multiple users
// sharing a username is out of scope for this single-user vault).
func (r *Repository) LoadPasswordManagerUUID(username string) (string, error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: user %q", vaulterrors.ErrNotFound, username)
		}
		return "", fmt.Errorf("%w: list user records: %v", vaulterrors.ErrIoFailure, err)
	}

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}

		data, err := os.ReadFile(filepath.Join(r.dir, entry.Name()))
		if err != nil {
			return "", fmt.Errorf("%w: read user record %q: %v", vaulterrors.ErrIoFailure, entry.Name(), err)
		}

		var rec record
		if err = json.Unmarshal(data, &rec); err != nil {
			return "", fmt.Errorf("%w: decode user record %q: %v", vaulterrors.ErrStoreCorrupt, entry.Name(), err)
		}

		if rec.Username == username {
			return rec.UUID, nil
		}
	}

	return "", fmt.Errorf("%w: user %q", vaulterrors.ErrNotFound, username)
}

// LoadUserKey reads the file at the deterministic path named by uuid and
// returns the stored UserKey. This is the piece spec.md §4.6 does not name
// directly: LoadPasswordManagerUser takes an already-known UserKey (the
// caller's session), but a fresh login only has a uuid (from
// LoadPasswordManagerUUID) and needs the salts inside UserKey before it can
// verify credentials at all — see DESIGN.md's Open Question resolution for
// internal/service's login flow.
func (r *Repository) LoadUserKey(uuid string) (models.UserKey, error) {
	data, err := os.ReadFile(r.pathFor(uuid))
	if err != nil {
		if os.IsNotExist(err) {
			return models.UserKey{}, fmt.Errorf("%w: user %q", vaulterrors.ErrNotFound, uuid)
		}
		return models.UserKey{}, fmt.Errorf("%w: read user record: %v", vaulterrors.ErrIoFailure, err)
	}

	var rec record
	if err = json.Unmarshal(data, &rec); err != nil {
		return models.UserKey{}, fmt.Errorf("%w: decode user record: %v", vaulterrors.ErrStoreCorrupt, err)
	}
	if rec.UUID != uuid {
		return models.UserKey{}, fmt.Errorf("%w: user record uuid mismatch", vaulterrors.ErrStoreCorrupt)
	}

	return rec.UserKey, nil
}

// LoadPasswordManagerUser reads the file at the deterministic path named
// by userKey.UUID and returns the stored UserData, verifying the record's
// own UUID matches userKey.UUID.
func (r *Repository) LoadPasswordManagerUser(userKey models.UserKey) (models.UserData, error) {
	data, err := os.ReadFile(r.pathFor(userKey.UUID))
	if err != nil {
		if os.IsNotExist(err) {
			return models.UserData{}, fmt.Errorf("%w: user %q", vaulterrors.ErrNotFound, userKey.UUID)
		}
		return models.UserData{}, fmt.Errorf("%w: read user record: %v", vaulterrors.ErrIoFailure, err)
	}

	var rec record
	if err = json.Unmarshal(data, &rec); err != nil {
		return models.UserData{}, fmt.Errorf("%w: decode user record: %v", vaulterrors.ErrStoreCorrupt, err)
	}
	if rec.UUID != userKey.UUID {
		return models.UserData{}, fmt.Errorf("%w: user record uuid mismatch", vaulterrors.ErrStoreCorrupt)
	}

	return rec.UserData, nil
}
