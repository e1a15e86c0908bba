package proof

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/avhd-labs/prpll/checkpoint"
	"github.com/avhd-labs/prpll/mersenne"
)

// fillStubResidues populates every scheduled checkpoint with a
// deterministic, distinct residue so the binary-tree reduction has real
// (if synthetic) data to chew on, standing in for a seeded Squarer run.
func fillStubResidues(t *testing.T, store *checkpoint.Store, sched *checkpoint.Schedule, E uint64) {
	t.Helper()
	n := mersenne.WordsFor(E)
	for i, k := range sched.Points() {
		words := make([]uint32, n)
		words[0] = uint32(i + 1)
		require.NoError(t, store.Save(k, words))
	}
}

func TestBuildProofShapeS6(t *testing.T) {
	const E = 127
	const power = 2

	sched, err := checkpoint.NewSchedule(E, power)
	require.NoError(t, err)

	cfg := checkpoint.Config{SavePath: t.TempDir(), E: E, Mode: checkpoint.ModePRP}
	store := checkpoint.NewStore(cfg, sched)
	fillStubResidues(t, store, sched, E)

	p, err := Build(store, sched, E, power)
	require.NoError(t, err)

	require.Len(t, p.Middles, power)
	for _, m := range p.Middles {
		require.Len(t, m, mersenne.WordsFor(E))
	}

	recomputed := Verify(E, p.B, p.Middles)
	require.Equal(t, p.Hashes, recomputed)
}

func TestBuildRejectsZeroMiddle(t *testing.T) {
	const E = 127
	const power = 2

	sched, err := checkpoint.NewSchedule(E, power)
	require.NoError(t, err)

	cfg := checkpoint.Config{SavePath: t.TempDir(), E: E, Mode: checkpoint.ModePRP}
	store := checkpoint.NewStore(cfg, sched)

	n := mersenne.WordsFor(E)
	for _, k := range sched.Points() {
		require.NoError(t, store.Save(k, make([]uint32, n)))
	}

	_, err = Build(store, sched, E, power)
	require.ErrorIs(t, err, ErrZeroMiddle)
}

func TestBuildFailsOnMissingSnapshot(t *testing.T) {
	const E = 127
	const power = 2

	sched, err := checkpoint.NewSchedule(E, power)
	require.NoError(t, err)

	cfg := checkpoint.Config{SavePath: t.TempDir(), E: E, Mode: checkpoint.ModePRP}
	store := checkpoint.NewStore(cfg, sched)

	_, err = Build(store, sched, E, power)
	require.Error(t, err)
}
