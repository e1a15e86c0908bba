// Package squarer defines the device-side iteration interface the demo
// driver consumes, plus a software reference implementation for testing
// without an accelerator.
package squarer

import "github.com/avhd-labs/prpll/mersenne"

// Squarer advances a PRP/Lucas-Lehmer residue one iteration per Square
// call. The real implementation drives an OpenCL NTT/IBDWT kernel; that
// kernel is out of scope here (spec §1). ReadWords and WriteWords are
// blocking host/device transfers; the checkpoint store itself takes
// plain words, and the driver reads them out with ReadWords to save them.
type Squarer interface {
	// Square advances the residue by one iteration.
	Square()

	// ReadWords blocks until the device queue drains and copies the
	// current residue out in device word form.
	ReadWords() []uint32

	// WriteWords blocks until the copy completes, replacing the device
	// residue with words. Used only on resume.
	WriteWords(words []uint32)
}

// Software is a reference Squarer that performs the PRP iteration
// (x := x^2 mod (2^E - 1)) directly on the host via math/big, with no
// device involved. It exists so the checkpoint store and proof builder
// are testable without an OpenCL kernel.
type Software struct {
	E     uint64
	words []uint32
}

// NewSoftware creates a software Squarer seeded with the given residue.
func NewSoftware(E uint64, seed []uint32) *Software {
	words := make([]uint32, mersenne.WordsFor(E))
	copy(words, seed)
	return &Software{E: E, words: words}
}

// Square implements Squarer.
func (s *Software) Square() {
	x := mersenne.ToInteger(s.words)
	x = mersenne.Mulmod(x, x, s.E)
	s.words = mersenne.FromInteger(x, s.E)
}

// ReadWords implements Squarer.
func (s *Software) ReadWords() []uint32 {
	out := make([]uint32, len(s.words))
	copy(out, s.words)
	return out
}

// WriteWords implements Squarer.
func (s *Software) WriteWords(words []uint32) {
	s.words = make([]uint32, len(s.words))
	copy(s.words, words)
}

var _ Squarer = (*Software)(nil)
