// Package checkpoint implements the exponent-parameterized checkpoint
// schedule and the durable residue store built on top of it.
package checkpoint

import (
	"fmt"
	"math"
	"sort"
)

// MinPower and MaxPower bound the recommended and accepted checkpoint
// level.
const (
	MinPower = 2
	MaxPower = 12
)

// BestPower recommends a checkpoint level for an exponent E: one
// additional level per fourfold increase of E, clamped to
// [MinPower, MaxPower].
func BestPower(E uint64) int {
	const base = 10
	const baseExp = 6e7

	p := base + int(math.Floor(math.Log2(float64(E)/baseExp)/2))
	if p < MinPower {
		return MinPower
	}
	if p > MaxPower {
		return MaxPower
	}
	return p
}

// Schedule is the sorted, exponent-parameterized set of iteration indices
// at which a residue snapshot must exist on disk (spec component C).
type Schedule struct {
	E      uint64
	Power  int
	points []uint64 // sorted ascending, length 2^Power, last element == E
}

// NewSchedule builds the checkpoint point set for exponent E at the given
// level. power must be in [MinPower, MaxPower].
func NewSchedule(E uint64, power int) (*Schedule, error) {
	if power < MinPower || power > MaxPower {
		return nil, fmt.Errorf("checkpoint: power %d out of range [%d, %d]", power, MinPower, MaxPower)
	}

	pts := buildPoints(E, power)
	if len(pts) != 1<<uint(power) {
		return nil, fmt.Errorf("%w: built %d points, want %d", ErrScheduleInconsistency, len(pts), 1<<uint(power))
	}

	return &Schedule{E: E, Power: power, points: pts}, nil
}

// Points returns the sorted checkpoint indices, including E.
func (s *Schedule) Points() []uint64 {
	out := make([]uint64, len(s.points))
	copy(out, s.points)
	return out
}

// At returns the checkpoint index stored at the given position in the
// global points array used by the proof builder's level-by-level walk
// (spec §4.5 step 3's `points[ci]`).
func (s *Schedule) At(i int) (uint64, bool) {
	if i < 0 || i >= len(s.points) {
		return 0, false
	}
	return s.points[i], true
}

// Len returns 2^Power, the number of checkpoints in the schedule.
func (s *Schedule) Len() int { return len(s.points) }

// IsCheckpoint reports whether k is a scheduled checkpoint index.
//
// This walks the same recursive bisection used to build the point set
// (see buildPoints), so construction and membership agree by
// construction: at each of Power levels, a range [start, start+remaining)
// splits at start+span, where span is ceil(remaining/2) for the root and
// for every right child and floor(remaining/2) for every left child; k is
// a checkpoint if it lands exactly on a split boundary at any level.
func (s *Schedule) IsCheckpoint(k uint64) bool {
	return isCheckpoint(k, s.E, s.Power)
}

func isCheckpoint(k, E uint64, power int) bool {
	if k == E {
		return true
	}

	start := uint64(0)
	remaining := E
	useCeil := true // the root split is the explicit s_0 = ceil(E/2) formula

	for i := 0; i < power; i++ {
		span := splitSpan(remaining, useCeil)
		threshold := start + span

		switch {
		case k == threshold:
			return true
		case k > threshold:
			start = threshold
			remaining -= span
			useCeil = true // right child
		default:
			remaining = span
			useCeil = false // left child
		}
	}
	return false
}

// buildPoints constructs the full sorted checkpoint set for (E, power) by
// the same recursive bisection isCheckpoint walks. See DESIGN.md for how
// this was reverse-engineered from spec.md's worked example: the prose
// pseudocode (a flat list of halved spans added to every existing point)
// does not reproduce it, but this left-floor/right-ceil recursive split
// does, exactly.
func buildPoints(E uint64, power int) []uint64 {
	pts := make([]uint64, 0, 1<<uint(power))
	var expand func(start, remaining uint64, levelsLeft int, useCeil bool)
	expand = func(start, remaining uint64, levelsLeft int, useCeil bool) {
		if levelsLeft == 0 {
			return
		}
		span := splitSpan(remaining, useCeil)
		threshold := start + span
		pts = append(pts, threshold)

		expand(start, span, levelsLeft-1, false)             // left child: floor
		expand(threshold, remaining-span, levelsLeft-1, true) // right child: ceil
	}
	expand(0, E, power, true)
	pts = append(pts, E)

	sort.Slice(pts, func(i, j int) bool { return pts[i] < pts[j] })
	return pts
}

// splitSpan returns floor(remaining/2) or ceil(remaining/2).
func splitSpan(remaining uint64, useCeil bool) uint64 {
	if useCeil {
		return (remaining + 1) / 2
	}
	return remaining / 2
}

// DiskUsageGB predicts the proof directory's disk footprint in gigabytes
// for an exponent E at the given checkpoint level (spec §4.3, an operator
// warning heuristic only).
func DiskUsageGB(E uint64, power int) float64 {
	return math.Ldexp(float64(E), power-33) * 1.05
}

