// Package mersenne implements modular arithmetic and residue encoding for
// the Mersenne modulus M_E = 2^E - 1.
package mersenne

import "math/big"

// one is the shared big.Int constant 1, never mutated.
var one = big.NewInt(1)

// modulus returns 2^E - 1 as a fresh big.Int.
func modulus(E uint64) *big.Int {
	m := new(big.Int).Lsh(one, uint(E))
	return m.Sub(m, one)
}

// Reduce returns x mod (2^E - 1) using the Mersenne split-and-add identity
//
//	x == (x mod 2^E) + (x div 2^E)   (mod 2^E - 1)
//
// x must satisfy 0 <= x < 2^(2E); every caller in this module maintains
// that invariant (powmod never squares/multiplies two operands whose
// product could exceed it), so a single post-correction subtraction is
// always sufficient. The canonical representative of the class of
// 2^E - 1 itself is NOT normalized to 0: callers comparing residues
// across conversions must treat 0 and M_E as equivalent.
func Reduce(x *big.Int, E uint64) *big.Int {
	if uint64(x.BitLen()) <= E {
		return new(big.Int).Set(x)
	}

	mask := new(big.Int).Lsh(one, uint(E))
	mask.Sub(mask, one)

	xlo := new(big.Int).And(x, mask)
	xhi := new(big.Int).Rsh(x, uint(E))

	r := xlo.Add(xlo, xhi)
	if r.Cmp(mask) >= 0 {
		r.Sub(r, mask)
	}
	return r
}

// mulmod returns reduce(a*b, E). a and b must already be reduced (0 <= a,
// b < 2^E), so their product has bit-length at most 2E and Reduce's
// single-step contract applies.
func mulmod(a, b *big.Int, E uint64) *big.Int {
	p := new(big.Int).Mul(a, b)
	return Reduce(p, E)
}

// Mulmod is the exported form of mulmod, used by the proof builder to
// combine a powmod result with its paired buffer slot.
func Mulmod(a, b *big.Int, E uint64) *big.Int {
	return mulmod(a, b, E)
}

// Powmod computes base^exp mod (2^E - 1) via left-to-right binary
// exponentiation, reducing after every square and every multiply. exp is
// a plain 64-bit unsigned integer since the proof builder's hash chain
// only ever supplies 64-bit exponents.
//
// Powmod(base, 0, E) == 1. Powmod(base, 1, E) == Reduce(base, E).
func Powmod(base *big.Int, exp uint64, E uint64) *big.Int {
	b := Reduce(base, E)
	result := new(big.Int).Set(one)

	for bit := 63; bit >= 0; bit-- {
		result = mulmod(result, result, E)
		if exp&(1<<uint(bit)) != 0 {
			result = mulmod(result, b, E)
		}
	}
	return result
}
