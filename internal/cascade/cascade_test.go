package cascade

import (
	"bytes"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brainburster/passkeeper-vault/internal/primitives"
)

func engineAndKey(t *testing.T) (*Engine, []byte) {
	t.Helper()
	k := make([]byte, 32)
	_, err := rand.Read(k)
	require.NoError(t, err)
	return NewEngine(primitives.NewBlockFactory()), k
}

func TestEncryptDecryptCascade_RoundTrip_AllAlgorithms(t *testing.T) {
	e, k := engineAndKey(t)

	permutations := [][]string{
		{"AES"},
		{"RC6"},
		{"SM4"},
		{"Twofish"},
		{"Serpent"},
		{"AES", "Serpent"},
		{"Serpent", "AES"},
		{"AES", "RC6", "SM4", "Twofish", "Serpent"},
		{"Serpent", "Twofish", "SM4", "RC6", "AES"},
	}

	plaintexts := [][]byte{
		[]byte(""),
		[]byte("short"),
		[]byte("exactly16bytes!!"),
		bytes.Repeat([]byte("x"), 1000),
	}

	for _, enc := range permutations {
		dec := ReverseAlgorithms(enc)
		for _, pt := range plaintexts {
			ct, err := e.EncryptCascade(pt, k, enc)
			require.NoError(t, err)

			recovered, err := e.DecryptCascade(ct, k, dec)
			require.NoError(t, err)
			assert.Equal(t, pt, recovered)
		}
	}
}

// permutations returns every ordering of n distinct elements, via the
// standard swap-based (Heap's algorithm) generator.
func permutations(set []string, n int) [][]string {
	elems := append([]string(nil), set[:n]...)
	var out [][]string
	var generate func(k int)
	generate = func(k int) {
		if k == 1 {
			out = append(out, append([]string(nil), elems...))
			return
		}
		for i := 0; i < k; i++ {
			generate(k - 1)
			if k%2 == 0 {
				elems[i], elems[k-1] = elems[k-1], elems[i]
			} else {
				elems[0], elems[k-1] = elems[k-1], elems[0]
			}
		}
	}
	generate(n)
	return out
}

// kPermutations returns every ordered selection of k distinct elements out
// of set (the "k-permutations of n", n!/(n-k)!), by choosing each k-subset
// and then permuting it.
func kPermutations(set []string, k int) [][]string {
	var out [][]string
	chosen := make([]int, 0, k)
	var choose func(start int)
	choose = func(start int) {
		if len(chosen) == k {
			subset := make([]string, k)
			for i, idx := range chosen {
				subset[i] = set[idx]
			}
			out = append(out, permutations(subset, len(subset))...)
			return
		}
		for i := start; i < len(set); i++ {
			chosen = append(chosen, i)
			choose(i + 1)
			chosen = chosen[:len(chosen)-1]
		}
	}
	choose(0)
	return out
}

// TestEncryptDecryptCascade_RoundTrip_AllPermutations backs spec.md §8
// property 1 directly: round-trip correctness holds for all 5! = 120
// permutations of the algorithm set and for every cascade length 1-5 (the
// full set of k-permutations for k in 1..5, 325 cascades in total).
func TestEncryptDecryptCascade_RoundTrip_AllPermutations(t *testing.T) {
	e, k := engineAndKey(t)
	algorithms := []string{"AES", "RC6", "SM4", "Twofish", "Serpent"}
	pt := []byte("the quick brown fox jumps over the lazy dog")

	var total int
	for length := 1; length <= len(algorithms); length++ {
		perms := kPermutations(algorithms, length)
		for _, enc := range perms {
			total++
			ct, err := e.EncryptCascade(pt, k, enc)
			require.NoErrorf(t, err, "encrypt with %v", enc)

			recovered, err := e.DecryptCascade(ct, k, ReverseAlgorithms(enc))
			require.NoErrorf(t, err, "decrypt with %v", enc)
			assert.Equalf(t, pt, recovered, "round trip failed for %v", enc)
		}
	}

	// 5 + 20 + 60 + 120 + 120 = 325: every length-1..5 k-permutation of a
	// 5-element set, including all 120 full-length permutations.
	assert.Equal(t, 325, total)
}

func TestEncryptCascade_EmptyAlgorithmList(t *testing.T) {
	e, k := engineAndKey(t)
	_, err := e.EncryptCascade([]byte("data"), k, nil)
	assert.ErrorIs(t, err, ErrEmptyAlgorithmList)
}

func TestEncryptCascade_UnknownAlgorithm(t *testing.T) {
	e, k := engineAndKey(t)
	_, err := e.EncryptCascade([]byte("data"), k, []string{"DES"})
	assert.Error(t, err)
}

func TestDecryptCascade_WrongKeyFailsIntegrity(t *testing.T) {
	e, k1 := engineAndKey(t)
	_, k2 := engineAndKey(t)

	ct, err := e.EncryptCascade([]byte("hello world"), k1, []string{"AES"})
	require.NoError(t, err)

	_, err = e.DecryptCascade(ct, k2, []string{"AES"})
	assert.Error(t, err)
}

func TestIsReverse(t *testing.T) {
	assert.True(t, IsReverse([]string{"AES", "Serpent"}, []string{"Serpent", "AES"}))
	assert.False(t, IsReverse([]string{"AES", "Serpent"}, []string{"AES", "Serpent"}))
	assert.False(t, IsReverse([]string{"AES"}, []string{"AES", "Serpent"}))
}

func TestReverseAlgorithms(t *testing.T) {
	assert.Equal(t, []string{"Serpent", "RC6", "AES"}, ReverseAlgorithms([]string{"AES", "RC6", "Serpent"}))
	assert.Empty(t, ReverseAlgorithms(nil))
}
