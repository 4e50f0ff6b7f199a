package rotation

import (
	"context"
	"encoding/hex"
	"fmt"

	"github.com/brainburster/passkeeper-vault/internal/cascade"
	"github.com/brainburster/passkeeper-vault/internal/identity"
	"github.com/brainburster/passkeeper-vault/internal/logger"
	"github.com/brainburster/passkeeper-vault/internal/primitives"
	"github.com/brainburster/passkeeper-vault/internal/vault/filestore"
	"github.com/brainburster/passkeeper-vault/internal/vault/passwordstore"
	"github.com/brainburster/passkeeper-vault/internal/vaulterrors"
	"github.com/brainburster/passkeeper-vault/models"
)

// item is the subset of a PasswordInstance/FileInstance that rotation needs:
// which wrapped key to touch and which cascades to run it through.
type item struct {
	hashmapID uint64
	encAlgs   []string
	decAlgs   []string
}

// ChangeInstanceMasterKeyWithSystemPassword implements spec.md §4.5: it
// re-wraps every per-instance key in both the password store and the file
// store under a master key derived from newToken, without ever decrypting
// the underlying secrets. All cryptographic work happens in memory first;
// the two stores' key maps are only written once every instance in both
// stores has unwrapped and re-wrapped successfully, so a failure partway
// through leaves every file on disk exactly as it was (spec.md §7:
// "Rotation aborts on first failure with all files untouched").
func ChangeInstanceMasterKeyWithSystemPassword(
	ctx context.Context,
	pwStore *passwordstore.Store,
	fileStore *filestore.Store,
	engine *cascade.Engine,
	idSvc identity.Service,
	hasher primitives.Hasher,
	oldToken, newToken string,
) error {
	oldMaster, err := idSvc.GenerateMasterBytesKeyFromToken(oldToken)
	if err != nil {
		return err
	}
	newMaster, err := idSvc.GenerateMasterBytesKeyFromToken(newToken)
	if err != nil {
		return err
	}

	newPwKeyMaps, err := rotateKeyMaps(passwordItems(pwStore.Instances()), pwStore.KeyMaps(), oldMaster, newMaster, engine, hasher)
	if err != nil {
		return fmt.Errorf("rotation: password store: %w", err)
	}

	newFileKeyMaps, err := rotateKeyMaps(fileItems(fileStore.Instances()), fileStore.KeyMaps(), oldMaster, newMaster, engine, hasher)
	if err != nil {
		return fmt.Errorf("rotation: file store: %w", err)
	}

	// Every key unwrapped and re-wrapped successfully; commit both stores.
	if err = pwStore.ReplaceKeyMaps(newPwKeyMaps); err != nil {
		return err
	}
	if err = fileStore.ReplaceKeyMaps(newFileKeyMaps); err != nil {
		return err
	}

	logger.FromContext(ctx).Info().Msg("master key rotated")
	return nil
}

func passwordItems(instances []models.PasswordInstance) []item {
	out := make([]item, len(instances))
	for i, inst := range instances {
		out[i] = item{hashmapID: inst.HashmapID, encAlgs: inst.EncryptionAlgorithms, decAlgs: inst.DecryptionAlgorithms}
	}
	return out
}

func fileItems(instances []models.FileInstance) []item {
	out := make([]item, len(instances))
	for i, inst := range instances {
		out[i] = item{hashmapID: inst.HashmapID, encAlgs: inst.EncryptionAlgorithms, decAlgs: inst.DecryptionAlgorithms}
	}
	return out
}

// rotateKeyMaps unwraps every item's key under oldMaster, verifies it
// against the stored hash, then re-wraps it under newMaster. The hash
// itself never changes (spec.md §4.5 step 3): re-wrapping does not alter
// the key, only the key it is encrypted under.
func rotateKeyMaps(items []item, km models.KeyMaps, oldMaster, newMaster []byte, engine *cascade.Engine, hasher primitives.Hasher) (models.KeyMaps, error) {
	newWrapped := make(map[uint64][]byte, len(km.WrappedKeys))
	newHashes := make(map[uint64]string, len(km.UnwrappedKeyHashes))
	for h, hash := range km.UnwrappedKeyHashes {
		newHashes[h] = hash
	}

	for _, it := range items {
		wrapped, ok := km.WrappedKeys[it.hashmapID]
		if !ok {
			return models.KeyMaps{}, fmt.Errorf("%w: hashmap id %d missing from wrapped_keys", vaulterrors.ErrStoreCorrupt, it.hashmapID)
		}

		kI, err := engine.DecryptCascade(wrapped, oldMaster, it.decAlgs)
		if err != nil {
			return models.KeyMaps{}, fmt.Errorf("%w: %v", vaulterrors.ErrMasterKeyMismatch, err)
		}
		if hex.EncodeToString(hasher.Sum(kI)) != km.UnwrappedKeyHashes[it.hashmapID] {
			return models.KeyMaps{}, fmt.Errorf("%w: hashmap id %d", vaulterrors.ErrMasterKeyMismatch, it.hashmapID)
		}

		rewrapped, err := engine.EncryptCascade(kI, newMaster, it.encAlgs)
		if err != nil {
			return models.KeyMaps{}, err
		}
		newWrapped[it.hashmapID] = rewrapped
	}

	return models.KeyMaps{WrappedKeys: newWrapped, UnwrappedKeyHashes: newHashes}, nil
}
