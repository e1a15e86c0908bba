package mersenne

import "math/big"

// wordBits is the width of a single on-disk/proof-side residue word.
const wordBits = 32

// WordsFor returns the number of 32-bit words needed to hold a residue
// modulo 2^E - 1, i.e. ceil(E/32).
func WordsFor(E uint64) int {
	return int((E + wordBits - 1) / wordBits)
}

// ToInteger interprets words as a little-endian, least-significant-word-
// first unsigned magnitude and returns it as an arbitrary-precision
// integer. Trailing zero words are permitted and contribute nothing.
func ToInteger(words []uint32) *big.Int {
	x := new(big.Int)
	for i := len(words) - 1; i >= 0; i-- {
		x.Lsh(x, wordBits)
		x.Or(x, new(big.Int).SetUint64(uint64(words[i])))
	}
	return x
}

// FromInteger produces exactly WordsFor(E) 32-bit words, zero-padded,
// representing x in the same little-endian word order ToInteger expects.
// x must satisfy 0 <= x < 2^E; FromInteger never truncates.
//
// This is a base-2^32 digit decomposition of x, the same repeated
// divide/mod technique used to decompose a big integer into a fixed
// radix elsewhere in this module's ancestry, generalized from an
// arbitrary base u to the fixed word base 2^32.
func FromInteger(x *big.Int, E uint64) []uint32 {
	n := WordsFor(E)
	words := make([]uint32, n)

	rem := new(big.Int).Set(x)
	base := new(big.Int).Lsh(one, wordBits)
	digit := new(big.Int)

	for i := 0; i < n && rem.Sign() != 0; i++ {
		rem.DivMod(rem, base, digit)
		words[i] = uint32(digit.Uint64())
	}
	return words
}
