// Package cascade implements the vault's cipher cascade engine (spec.md
// §4.2): ordered application of named block ciphers in CBC mode, each
// keyed and IV'd independently from a single cascade key via HKDF-SHA256.
//
// EncryptCascade applies the ciphers left to right; DecryptCascade applies
// their inverses in reverse order. PKCS#7 padding is applied once before the
// first encryption step and removed once after the last decryption step, so
// the plaintext may be of any length and every later step receives input that
// is already a multiple of its block size.
package cascade

import (
	"crypto/cipher"
	"fmt"

	"github.com/brainburster/passkeeper-vault/internal/primitives"
	"github.com/brainburster/passkeeper-vault/internal/vaulterrors"
)

// Engine runs the cascade over a configurable [primitives.BlockFactory],
// allowing tests to substitute a fake factory without touching real ciphers.
type Engine struct {
	blocks primitives.BlockFactory
}

// NewEngine constructs an [Engine] backed by blocks.
func NewEngine(blocks primitives.BlockFactory) *Engine {
	return &Engine{blocks: blocks}
}

// EncryptCascade applies algs left to right to plaintext under key k,
// PKCS#7-padding plaintext once before the first step. Returns
// [vaulterrors.ErrInvalidAlgorithm] for an unrecognized cipher name and
// [ErrEmptyAlgorithmList] for an empty algorithm list.
func (e *Engine) EncryptCascade(plaintext, k []byte, algs []string) ([]byte, error) {
	if len(algs) == 0 {
		return nil, ErrEmptyAlgorithmList
	}

	data := plaintext
	for i, name := range algs {
		block, iv, err := e.stepBlock(k, name)
		if err != nil {
			return nil, err
		}

		if i == 0 {
			data = pkcs7Pad(data, block.BlockSize())
		}

		if len(data)%block.BlockSize() != 0 {
			return nil, fmt.Errorf("%w: cascade step %q produced a non-block-aligned length", vaulterrors.ErrCipherIntegrity, name)
		}

		out := make([]byte, len(data))
		cipher.NewCBCEncrypter(block, iv).CryptBlocks(out, data)
		data = out
	}

	return data, nil
}

// DecryptCascade applies the inverses of algs in reverse order to ciphertext
// under key k, stripping PKCS#7 padding once after the final step. algs must
// be the exact reverse of the list EncryptCascade was called with.
func (e *Engine) DecryptCascade(ciphertext, k []byte, algs []string) ([]byte, error) {
	if len(algs) == 0 {
		return nil, ErrEmptyAlgorithmList
	}

	data := ciphertext
	for i, name := range algs {
		block, iv, err := e.stepBlock(k, name)
		if err != nil {
			return nil, err
		}

		if len(data)%block.BlockSize() != 0 {
			return nil, fmt.Errorf("%w: ciphertext length not a multiple of %q's block size", vaulterrors.ErrCipherIntegrity, name)
		}

		out := make([]byte, len(data))
		cipher.NewCBCDecrypter(block, iv).CryptBlocks(out, data)
		data = out

		if i == len(algs)-1 {
			unpadded, err := pkcs7Unpad(data, block.BlockSize())
			if err != nil {
				return nil, err
			}
			data = unpadded
		}
	}

	return data, nil
}

// stepBlock derives the per-step subkey and IV from k and constructs the
// named cipher's block.
func (e *Engine) stepBlock(k []byte, name string) (cipher.Block, []byte, error) {
	subKey, err := deriveSubkey(k, name)
	if err != nil {
		return nil, nil, err
	}

	block, err := e.blocks.NewBlock(name, subKey)
	if err != nil {
		return nil, nil, err
	}

	iv, err := deriveIV(k, name, block.BlockSize())
	if err != nil {
		return nil, nil, err
	}

	return block, iv, nil
}

// ReverseAlgorithms returns a new slice containing algs in reverse order,
// used to build decryption_algorithms from encryption_algorithms at
// instance-creation time (spec.md §3's reverse-list invariant).
func ReverseAlgorithms(algs []string) []string {
	out := make([]string, len(algs))
	for i, a := range algs {
		out[len(algs)-1-i] = a
	}
	return out
}

// IsReverse reports whether dec is the exact reverse of enc.
func IsReverse(enc, dec []string) bool {
	if len(enc) != len(dec) {
		return false
	}
	for i, a := range enc {
		if dec[len(dec)-1-i] != a {
			return false
		}
	}
	return true
}
