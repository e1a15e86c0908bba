package proof

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashWordsDeterministic(t *testing.T) {
	words := []uint32{1, 2, 3, 4}
	h1 := HashWords(127, words)
	h2 := HashWords(127, words)
	require.Equal(t, h1, h2)
}

func TestHashWordsSensitiveToE(t *testing.T) {
	words := []uint32{1, 2, 3, 4}
	require.NotEqual(t, HashWords(127, words), HashWords(128, words))
}

func TestHashWordsSensitiveToWords(t *testing.T) {
	a := HashWords(127, []uint32{1, 2, 3, 4})
	b := HashWords(127, []uint32{1, 2, 3, 5})
	require.NotEqual(t, a, b)
}

func TestHashWordsChainDiffersFromHashWords(t *testing.T) {
	words := []uint32{9, 9, 9}
	base := HashWords(127, words)
	chained := HashWordsChain(127, Hash{}, words)
	require.NotEqual(t, base, chained)
}

func TestHashWordsChainDeterministic(t *testing.T) {
	prev := HashWords(127, []uint32{1})
	words := []uint32{2, 3}
	require.Equal(t, HashWordsChain(127, prev, words), HashWordsChain(127, prev, words))
}

func TestLow64IsFirstLimb(t *testing.T) {
	h := HashWords(127, []uint32{7})
	require.Equal(t, h[0], Low64(h))
}

func TestRes64S3(t *testing.T) {
	words := []uint32{0xFFFFFFFF, 0xFFFFFFFF, 0xFFFFFFFF, 0x7FFFFFFF}
	require.Equal(t, uint64(0xFFFFFFFFFFFFFFFF), Res64(words))
}

func TestRes64Zero(t *testing.T) {
	require.Equal(t, uint64(0), Res64([]uint32{0, 0, 0}))
}
