package primitives

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"

	"github.com/emmansun/gmsm/sm4"
	"golang.org/x/crypto/twofish"

	"github.com/brainburster/passkeeper-vault/internal/primitives/rc6"
	"github.com/brainburster/passkeeper-vault/internal/primitives/serpent"
	"github.com/brainburster/passkeeper-vault/internal/vaulterrors"
)

// algorithmNames is the fixed five-cipher menu from spec.md §6, in the
// canonical, case-sensitive spelling used throughout the vault.
var algorithmNames = []string{"AES", "RC6", "SM4", "Twofish", "Serpent"}

// blockFactory is the private implementation of [BlockFactory].
type blockFactory struct{}

// NewBlockFactory constructs a [BlockFactory] backed by crypto/aes for AES,
// golang.org/x/crypto/twofish for Twofish, github.com/emmansun/gmsm/sm4 for
// SM4, and the in-repo rc6/serpent packages for the two ciphers with no
// maintained third-party Go implementation.
func NewBlockFactory() BlockFactory {
	return &blockFactory{}
}

// NewBlock implements [BlockFactory].
func (f *blockFactory) NewBlock(name string, key []byte) (cipher.Block, error) {
	switch name {
	case "AES":
		block, err := aes.NewCipher(key)
		if err != nil {
			return nil, fmt.Errorf("new AES block: %w", err)
		}
		return block, nil
	case "RC6":
		return rc6.NewCipher(key)
	case "SM4":
		block, err := sm4.NewCipher(key)
		if err != nil {
			return nil, fmt.Errorf("new SM4 block: %w", err)
		}
		return block, nil
	case "Twofish":
		block, err := twofish.NewCipher(key)
		if err != nil {
			return nil, fmt.Errorf("new Twofish block: %w", err)
		}
		return block, nil
	case "Serpent":
		return serpent.NewCipher(key)
	default:
		return nil, fmt.Errorf("%w: %q", vaulterrors.ErrInvalidAlgorithm, name)
	}
}

// KnownAlgorithms implements [BlockFactory].
func (f *blockFactory) KnownAlgorithms() []string {
	out := make([]string, len(algorithmNames))
	copy(out, algorithmNames)
	return out
}
