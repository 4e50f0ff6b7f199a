package cascade

import (
	"crypto/cipher"
	"fmt"

	"github.com/brainburster/passkeeper-vault/internal/vaulterrors"
)

// EncryptStream and DecryptStream let internal/vault/filestore run the
// cascade over a file in fixed-size chunks instead of buffering the whole
// payload in memory (spec.md §4.4). They rely on the fact that every
// algorithm in the five-cipher menu uses a 16-byte block (spec.md §6's
// name set, confirmed in internal/primitives): a chunk that is block-aligned
// entering the cascade stays block-aligned through every stage, so each
// stage's [cipher.BlockMode] can be driven chunk by chunk with its CBC state
// (the IV for every call after the first) carried automatically by the
// standard library's cbc implementation.

// EncryptStream cascades chunks of plaintext left to right, stage by stage,
// carrying each stage's CBC state across calls.
type EncryptStream struct {
	stages    []cipher.BlockMode
	blockSize int
}

// NewEncryptStream builds the per-stage CBC encrypters for algs under key k.
func (e *Engine) NewEncryptStream(k []byte, algs []string) (*EncryptStream, error) {
	stages, blockSize, err := e.buildStages(k, algs, true)
	if err != nil {
		return nil, err
	}
	return &EncryptStream{stages: stages, blockSize: blockSize}, nil
}

// BlockSize returns the cascade's uniform block size; callers should pick a
// chunk size that is a multiple of it.
func (s *EncryptStream) BlockSize() int { return s.blockSize }

// Update cascades a full, block-aligned, non-final chunk of plaintext.
func (s *EncryptStream) Update(data []byte) ([]byte, error) {
	if len(data)%s.blockSize != 0 {
		return nil, fmt.Errorf("%w: chunk is not a multiple of the cascade block size", vaulterrors.ErrCipherIntegrity)
	}
	return cryptChunk(s.stages, data), nil
}

// Final pads data (which may be empty, or any length up to blockSize-1 short
// of alignment) with PKCS#7, then cascades it as the stream's last chunk.
func (s *EncryptStream) Final(data []byte) ([]byte, error) {
	return cryptChunk(s.stages, pkcs7Pad(data, s.blockSize)), nil
}

// DecryptStream cascades inverse stages in reverse order over chunks of
// ciphertext, carrying each stage's CBC state across calls.
type DecryptStream struct {
	stages    []cipher.BlockMode
	blockSize int
}

// NewDecryptStream builds the per-stage CBC decrypters for algs (the exact
// reverse of the list EncryptStream was built with) under key k.
func (e *Engine) NewDecryptStream(k []byte, algs []string) (*DecryptStream, error) {
	stages, blockSize, err := e.buildStages(k, algs, false)
	if err != nil {
		return nil, err
	}
	return &DecryptStream{stages: stages, blockSize: blockSize}, nil
}

// BlockSize returns the cascade's uniform block size.
func (s *DecryptStream) BlockSize() int { return s.blockSize }

// Update cascades a full, block-aligned, non-final chunk of ciphertext.
func (s *DecryptStream) Update(data []byte) ([]byte, error) {
	if len(data)%s.blockSize != 0 {
		return nil, fmt.Errorf("%w: chunk is not a multiple of the cascade block size", vaulterrors.ErrCipherIntegrity)
	}
	return cryptChunk(s.stages, data), nil
}

// Final cascades the stream's last, block-aligned chunk of ciphertext, then
// strips the PKCS#7 padding the corresponding EncryptStream.Final applied.
func (s *DecryptStream) Final(data []byte) ([]byte, error) {
	if len(data)%s.blockSize != 0 {
		return nil, fmt.Errorf("%w: final chunk is not a multiple of the cascade block size", vaulterrors.ErrCipherIntegrity)
	}
	return pkcs7Unpad(cryptChunk(s.stages, data), s.blockSize)
}

// buildStages derives every stage's subkey, IV, and cipher.BlockMode, and
// verifies all stages share one block size (required for chunked streaming).
func (e *Engine) buildStages(k []byte, algs []string, encrypt bool) ([]cipher.BlockMode, int, error) {
	if len(algs) == 0 {
		return nil, 0, ErrEmptyAlgorithmList
	}

	stages := make([]cipher.BlockMode, len(algs))
	blockSize := 0
	for i, name := range algs {
		block, iv, err := e.stepBlock(k, name)
		if err != nil {
			return nil, 0, err
		}
		if i == 0 {
			blockSize = block.BlockSize()
		} else if block.BlockSize() != blockSize {
			return nil, 0, fmt.Errorf("%w: cascade stream requires every cipher to share one block size, %q does not", vaulterrors.ErrInvalidAlgorithm, name)
		}
		if encrypt {
			stages[i] = cipher.NewCBCEncrypter(block, iv)
		} else {
			stages[i] = cipher.NewCBCDecrypter(block, iv)
		}
	}

	return stages, blockSize, nil
}

func cryptChunk(stages []cipher.BlockMode, data []byte) []byte {
	out := data
	for _, stage := range stages {
		next := make([]byte, len(out))
		stage.CryptBlocks(next, out)
		out = next
	}
	return out
}
