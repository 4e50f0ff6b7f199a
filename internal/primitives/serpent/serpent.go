// Package serpent implements the Serpent block cipher (Anderson, Biham,
// Knudsen) as a [cipher.Block], restricted to the 256-bit key size the vault
// always supplies.
//
// No maintained third-party Go implementation of Serpent exists in the
// wider ecosystem (see DESIGN.md); like package rc6, this exists for the
// same reason the standard library carries its own AES implementation
// rather than importing one.
//
// The S-boxes and linear transformation follow the published Serpent
// specification; the optional initial/final bit permutations (IP/FP), which
// exist only to ease hardware bit-slicing and do not affect the cipher's
// correctness as long as encryption and decryption agree, are omitted.
package serpent

import (
	"crypto/cipher"
	"encoding/binary"
	"fmt"
)

const (
	blockSize = 16
	keySize   = 32
	numRounds = 32
	phi       = 0x9E3779B9
)

// sbox[i] is the forward S-box used in round i mod 8.
var sbox = [8][16]byte{
	{3, 8, 15, 1, 10, 6, 5, 11, 14, 13, 4, 2, 7, 0, 9, 12},
	{15, 12, 2, 7, 9, 0, 5, 10, 1, 11, 14, 8, 6, 13, 3, 4},
	{8, 6, 7, 9, 3, 12, 10, 15, 13, 1, 14, 4, 0, 11, 5, 2},
	{0, 15, 11, 8, 12, 9, 6, 3, 13, 1, 2, 4, 10, 7, 5, 14},
	{1, 15, 8, 3, 12, 0, 11, 6, 2, 5, 4, 10, 9, 14, 7, 13},
	{15, 5, 2, 11, 4, 10, 9, 12, 0, 3, 14, 8, 13, 6, 7, 1},
	{7, 2, 12, 5, 8, 4, 6, 11, 14, 9, 1, 15, 13, 3, 10, 0},
	{1, 13, 15, 0, 14, 8, 2, 11, 7, 4, 12, 10, 9, 3, 5, 6},
}

// invSbox holds the inverses of sbox, computed once in init.
var invSbox [8][16]byte

func init() {
	for box := range sbox {
		for in, out := range sbox[box] {
			invSbox[box][out] = byte(in)
		}
	}
}

type serpentCipher struct {
	// roundKeys[i] holds the 128-bit round key K_i used at round i for
	// i in [0, 31], and the final whitening key at i == 32.
	roundKeys [numRounds + 1][4]uint32
}

// NewCipher returns a [cipher.Block] implementing Serpent for a 256-bit key.
func NewCipher(key []byte) (cipher.Block, error) {
	if len(key) != keySize {
		return nil, fmt.Errorf("serpent: invalid key size %d, want %d", len(key), keySize)
	}

	c := &serpentCipher{}
	c.expandKey(key)
	return c, nil
}

func (c *serpentCipher) BlockSize() int { return blockSize }

// expandKey implements the Serpent key schedule: the 256-bit key seeds eight
// "prekey" words, the schedule is extended with the golden-ratio recurrence,
// and every four-word group is passed through an S-box to produce a round key.
func (c *serpentCipher) expandKey(key []byte) {
	var w [numRounds*4 + 8]uint32
	for i := 0; i < 8; i++ {
		w[i] = binary.LittleEndian.Uint32(key[i*4 : i*4+4])
	}

	for i := 0; i < numRounds*4; i++ {
		idx := i + 8
		v := w[idx-8] ^ w[idx-5] ^ w[idx-3] ^ w[idx-1] ^ phi ^ uint32(i)
		w[idx] = rotl32(v, 11)
	}

	for i := 0; i <= numRounds; i++ {
		boxIndex := (numRounds + 3 - i) % 8
		words := [4]uint32{w[8+4*i], w[8+4*i+1], w[8+4*i+2], w[8+4*i+3]}
		c.roundKeys[i] = applySBox(&sbox[boxIndex], words)
	}
}

func (c *serpentCipher) Encrypt(dst, src []byte) {
	if len(src) < blockSize || len(dst) < blockSize {
		panic("serpent: input/output not full block")
	}

	block := bytesToWords(src)
	for r := 0; r < numRounds; r++ {
		block = xor128(block, c.roundKeys[r])
		block = applySBox(&sbox[r%8], block)
		if r != numRounds-1 {
			block = linearTransform(block)
		}
	}
	block = xor128(block, c.roundKeys[numRounds])
	wordsToBytes(block, dst)
}

func (c *serpentCipher) Decrypt(dst, src []byte) {
	if len(src) < blockSize || len(dst) < blockSize {
		panic("serpent: input/output not full block")
	}

	block := bytesToWords(src)
	block = xor128(block, c.roundKeys[numRounds])
	for r := numRounds - 1; r >= 0; r-- {
		if r != numRounds-1 {
			block = inverseLinearTransform(block)
		}
		block = applySBox(&invSbox[r%8], block)
		block = xor128(block, c.roundKeys[r])
	}
	wordsToBytes(block, dst)
}

func bytesToWords(b []byte) [4]uint32 {
	var w [4]uint32
	for i := 0; i < 4; i++ {
		w[i] = binary.LittleEndian.Uint32(b[i*4 : i*4+4])
	}
	return w
}

func wordsToBytes(w [4]uint32, dst []byte) {
	for i := 0; i < 4; i++ {
		binary.LittleEndian.PutUint32(dst[i*4:i*4+4], w[i])
	}
}

func xor128(a, b [4]uint32) [4]uint32 {
	return [4]uint32{a[0] ^ b[0], a[1] ^ b[1], a[2] ^ b[2], a[3] ^ b[3]}
}

// applySBox applies a 4-bit-in/4-bit-out S-box across the 128-bit value
// formed by the four words, treating bit i of each word as one nibble of
// the S-box input (the "bitslice" register layout used by Serpent's own
// specification — no word rearrangement is required to use it).
func applySBox(box *[16]byte, words [4]uint32) [4]uint32 {
	var out [4]uint32
	for i := uint(0); i < 32; i++ {
		var n byte
		for b := 0; b < 4; b++ {
			if words[b]&(1<<i) != 0 {
				n |= 1 << uint(b)
			}
		}
		o := box[n]
		for b := 0; b < 4; b++ {
			if o&(1<<uint(b)) != 0 {
				out[b] |= 1 << i
			}
		}
	}
	return out
}

// linearTransform implements Serpent's linear mixing layer LT.
func linearTransform(x [4]uint32) [4]uint32 {
	x0, x1, x2, x3 := x[0], x[1], x[2], x[3]

	x0 = rotl32(x0, 13)
	x2 = rotl32(x2, 3)
	x1 = x1 ^ x0 ^ x2
	x3 = x3 ^ x2 ^ (x0 << 3)
	x1 = rotl32(x1, 1)
	x3 = rotl32(x3, 7)
	x0 = x0 ^ x1 ^ x3
	x2 = x2 ^ x3 ^ (x1 << 7)
	x0 = rotl32(x0, 5)
	x2 = rotl32(x2, 22)

	return [4]uint32{x0, x1, x2, x3}
}

// inverseLinearTransform is the exact inverse of linearTransform.
func inverseLinearTransform(x [4]uint32) [4]uint32 {
	x0, x1, x2, x3 := x[0], x[1], x[2], x[3]

	x2 = rotr32(x2, 22)
	x0 = rotr32(x0, 5)
	x2 = x2 ^ x3 ^ (x1 << 7)
	x0 = x0 ^ x1 ^ x3
	x3 = rotr32(x3, 7)
	x1 = rotr32(x1, 1)
	x3 = x3 ^ x2 ^ (x0 << 3)
	x1 = x1 ^ x0 ^ x2
	x2 = rotr32(x2, 3)
	x0 = rotr32(x0, 13)

	return [4]uint32{x0, x1, x2, x3}
}

func rotl32(x uint32, n uint32) uint32 {
	n %= 32
	return (x << n) | (x >> (32 - n))
}

func rotr32(x uint32, n uint32) uint32 {
	n %= 32
	return (x >> n) | (x << (32 - n))
}
