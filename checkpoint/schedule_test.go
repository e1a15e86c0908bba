package checkpoint

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScheduleS1(t *testing.T) {
	sched, err := NewSchedule(521, 3)
	require.NoError(t, err)

	want := []uint64{65, 130, 196, 261, 326, 391, 456, 521}
	require.Equal(t, want, sched.Points())

	for _, k := range want {
		require.True(t, sched.IsCheckpoint(k), "k=%d should be a checkpoint", k)
	}
}

func TestScheduleInvariants(t *testing.T) {
	cases := []struct {
		E     uint64
		power int
	}{
		{521, 3}, {1009, 2}, {2203, 4}, {9689, 5}, {99991, 6},
	}

	for _, c := range cases {
		sched, err := NewSchedule(c.E, c.power)
		require.NoError(t, err)

		require.Equal(t, 1<<uint(c.power), sched.Len())
		require.True(t, sched.IsCheckpoint(c.E))

		pts := sched.Points()
		require.Len(t, pts, 1<<uint(c.power))
		for i := 1; i < len(pts); i++ {
			require.Less(t, pts[i-1], pts[i], "points must be strictly increasing")
		}
		require.Equal(t, c.E, pts[len(pts)-1])

		set := make(map[uint64]bool, len(pts))
		for _, p := range pts {
			set[p] = true
		}
		for k := uint64(0); k <= c.E; k++ {
			require.Equal(t, set[k], sched.IsCheckpoint(k), "mismatch at k=%d for E=%d power=%d", k, c.E, c.power)
		}
	}
}

func TestBestPowerS2(t *testing.T) {
	require.Equal(t, 10, BestPower(60_000_000))
	require.Equal(t, 11, BestPower(240_000_000))
	require.Equal(t, 11, BestPower(900_000_000))
	require.Equal(t, 2, BestPower(10))
	require.Equal(t, 12, BestPower(4_000_000_000))
}

func TestNewScheduleRejectsOutOfRangePower(t *testing.T) {
	_, err := NewSchedule(521, 1)
	require.Error(t, err)

	_, err = NewSchedule(521, 13)
	require.Error(t, err)
}
