package proof

import (
	"fmt"
	"math/big"

	"github.com/rs/zerolog/log"

	"github.com/avhd-labs/prpll/checkpoint"
	"github.com/avhd-labs/prpll/mersenne"
)

// Proof is the artifact a Builder produces: the final residue B and one
// middle residue per reduction level (spec component E's output).
type Proof struct {
	E       uint64
	B       []uint32
	Middles [][]uint32
	Hashes  []uint64 // low64 of the hash chain recorded after each level
}

// loader is the subset of *checkpoint.Store the Builder needs, so tests
// can substitute a stub without a real on-disk snapshot directory.
type loader interface {
	Load(k uint64) ([]uint32, error)
}

var _ loader = (*checkpoint.Store)(nil)

// Build realizes the binary-tree reduction (spec §4.5): it walks the
// schedule's points from coarsest to finest, collapsing pairs of loaded
// residues with a hash-chain-selected exponent at each binary-counter
// carry, and emits one middle residue per level.
func Build(store loader, sched *checkpoint.Schedule, E uint64, power int) (*Proof, error) {
	if sched.Len() != 1<<uint(power) {
		return nil, fmt.Errorf("%w: schedule has %d points, want %d", checkpoint.ErrScheduleInconsistency, sched.Len(), 1<<uint(power))
	}

	bWords, err := store.Load(E)
	if err != nil {
		return nil, fmt.Errorf("proof: load final residue: %w", err)
	}
	H := HashWords(E, bWords)

	hashes := make([]uint64, power)
	middles := make([][]uint32, 0, power)

	maxL := 1 << uint(power-1)
	buf := make([]*big.Int, maxL)

	for p := 0; p < power; p++ {
		s := 1 << uint(power-p-1)
		L := 1 << uint(p)
		bufIndex := 0

		for i := 0; i < L; i++ {
			ci := s*(2*i+1) - 1
			k, ok := sched.At(ci)
			if !ok || k > E || !sched.IsCheckpoint(k) {
				return nil, fmt.Errorf("%w: level %d leaf %d resolves to non-checkpoint index %d", checkpoint.ErrScheduleInconsistency, p, i, k)
			}

			var words []uint32
			if k == E {
				words = bWords
			} else {
				words, err = store.Load(k)
				if err != nil {
					return nil, fmt.Errorf("proof: load level %d leaf %d (k=%d): %w", p, i, k, err)
				}
			}
			buf[bufIndex] = mersenne.ToInteger(words)
			bufIndex++

			for kk := 0; i&(1<<uint(kk)) != 0; kk++ {
				h := hashes[p-1-kk]
				a, c := buf[bufIndex-2], buf[bufIndex-1]
				buf[bufIndex-2] = mersenne.Mulmod(mersenne.Powmod(a, h, E), c, E)
				bufIndex--
			}
		}

		if bufIndex != 1 {
			return nil, fmt.Errorf("%w: level %d ended with bufIndex %d, want 1", checkpoint.ErrScheduleInconsistency, p, bufIndex)
		}

		Mp := mersenne.FromInteger(buf[0], E)
		if allZero(Mp) {
			return nil, fmt.Errorf("%w: level %d", ErrZeroMiddle, p)
		}
		middles = append(middles, Mp)

		H = HashWordsChain(E, H, Mp)
		hashes[p] = Low64(H)

		log.Debug().Uint64("E", E).Int("level", p).Uint64("hash", hashes[p]).Msg("proof: level complete")
	}

	return &Proof{E: E, B: bWords, Middles: middles, Hashes: hashes}, nil
}

// Verify recomputes the hash chain from (E, B, middles) and returns the
// resulting low64 sequence, for comparison against a Builder run's
// internal hashes (spec §8 scenario S6).
func Verify(E uint64, B []uint32, middles [][]uint32) []uint64 {
	H := HashWords(E, B)
	hashes := make([]uint64, len(middles))
	for p, Mp := range middles {
		H = HashWordsChain(E, H, Mp)
		hashes[p] = Low64(H)
	}
	return hashes
}

func allZero(words []uint32) bool {
	for _, w := range words {
		if w != 0 {
			return false
		}
	}
	return true
}
