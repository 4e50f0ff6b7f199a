package primitives

import (
	"crypto/rand"
	"fmt"
	"io"
)

// csprng is the private implementation of [RandomSource].
type csprng struct{}

// NewRandomSource constructs a [RandomSource] backed by the OS CSPRNG
// (crypto/rand), used to generate fresh per-instance keys.
func NewRandomSource() RandomSource {
	return &csprng{}
}

// Bytes implements [RandomSource].
func (c *csprng) Bytes(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(rand.Reader, buf); err != nil {
		return nil, fmt.Errorf("read random bytes: %w", err)
	}
	return buf, nil
}
