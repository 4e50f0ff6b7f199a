package cascade

import (
	"bytes"
	"fmt"

	"github.com/brainburster/passkeeper-vault/internal/vaulterrors"
)

// pkcs7Pad appends PKCS#7 padding to data so its length becomes a multiple
// of blockSize. A full block of padding is appended when data is already
// block-aligned, so the padding is always removable unambiguously.
func pkcs7Pad(data []byte, blockSize int) []byte {
	padLen := blockSize - len(data)%blockSize
	padding := bytes.Repeat([]byte{byte(padLen)}, padLen)
	return append(data, padding...)
}

// pkcs7Unpad removes and validates PKCS#7 padding from data. Returns
// [vaulterrors.ErrCipherIntegrity] if the padding length byte is out of
// range or the padding bytes are not all equal to it.
func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	n := len(data)
	if n == 0 || n%blockSize != 0 {
		return nil, fmt.Errorf("%w: padded length is not a multiple of the block size", vaulterrors.ErrCipherIntegrity)
	}

	padLen := int(data[n-1])
	if padLen == 0 || padLen > blockSize || padLen > n {
		return nil, fmt.Errorf("%w: invalid padding length", vaulterrors.ErrCipherIntegrity)
	}

	for _, b := range data[n-padLen:] {
		if int(b) != padLen {
			return nil, fmt.Errorf("%w: malformed padding bytes", vaulterrors.ErrCipherIntegrity)
		}
	}

	return data[:n-padLen], nil
}
