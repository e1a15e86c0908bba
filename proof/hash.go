// Package proof implements the Fiat-Shamir-style binary-tree reduction
// proof builder and its SHA3-256 hash chain.
package proof

import (
	"encoding/binary"

	"golang.org/x/crypto/sha3"

	"github.com/avhd-labs/prpll/mersenne"
)

// Hash is a SHA3-256 digest reinterpreted as four little-endian 64-bit
// limbs (spec component F).
type Hash [4]uint64

func hashFromDigest(digest [32]byte) Hash {
	var h Hash
	for i := range h {
		h[i] = binary.LittleEndian.Uint64(digest[8*i:])
	}
	return h
}

func wordBytes(words []uint32) []byte {
	buf := make([]byte, 4*len(words))
	for i, w := range words {
		binary.LittleEndian.PutUint32(buf[4*i:], w)
	}
	return buf
}

func hashLimbBytes(h Hash) []byte {
	buf := make([]byte, 8*len(h))
	for i, limb := range h {
		binary.LittleEndian.PutUint64(buf[8*i:], limb)
	}
	return buf
}

// HashWords computes H = SHA3-256(LE64(E) ‖ bytes(W)).
func HashWords(E uint64, words []uint32) Hash {
	d := sha3.New256()
	var eBuf [8]byte
	binary.LittleEndian.PutUint64(eBuf[:], E)
	d.Write(eBuf[:])
	d.Write(wordBytes(words))

	var digest [32]byte
	d.Sum(digest[:0])
	return hashFromDigest(digest)
}

// HashWordsChain computes H = SHA3-256(LE64(E) ‖ bytes(prev) ‖ bytes(W)),
// chaining a prior hash into the digest.
func HashWordsChain(E uint64, prev Hash, words []uint32) Hash {
	d := sha3.New256()
	var eBuf [8]byte
	binary.LittleEndian.PutUint64(eBuf[:], E)
	d.Write(eBuf[:])
	d.Write(hashLimbBytes(prev))
	d.Write(wordBytes(words))

	var digest [32]byte
	d.Sum(digest[:0])
	return hashFromDigest(digest)
}

// Low64 returns H[0], the chain value consumed as a powmod exponent.
func Low64(h Hash) uint64 { return h[0] }

// Res64 returns the low 64 bits of toInteger(words), a display-only
// fingerprint independent of the hash chain.
func Res64(words []uint32) uint64 {
	x := mersenne.ToInteger(words)
	bs := x.Bytes() // big-endian
	var v uint64
	for i := 0; i < len(bs) && i < 8; i++ {
		v |= uint64(bs[len(bs)-1-i]) << (8 * i)
	}
	return v
}
