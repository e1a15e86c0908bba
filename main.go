package main

import (
	"flag"
	"fmt"
	"math/big"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/avhd-labs/prpll/checkpoint"
	"github.com/avhd-labs/prpll/mersenne"
	"github.com/avhd-labs/prpll/proof"
	"github.com/avhd-labs/prpll/squarer"
)

// run drives E squaring iterations of M_E = 2^E - 1 on the software
// Squarer, checkpointing at the schedule's points and producing a
// compact proof at the end. It exists so main and the end-to-end test
// share one path. Deciding probable primality from the final residue is
// a separate concern from proof generation and is left to the caller.
func run(savePath string, E uint64, power int, diskWarnGB float64) (*proof.Proof, error) {
	sched, err := checkpoint.NewSchedule(E, power)
	if err != nil {
		return nil, fmt.Errorf("build schedule: %w", err)
	}

	cfg := checkpoint.Config{SavePath: savePath, E: E, Mode: checkpoint.ModePRP, DiskWarnGB: diskWarnGB}
	store := checkpoint.NewStore(cfg, sched)

	seed := mersenne.FromInteger(big.NewInt(int64(checkpoint.ModePRP.Seed())), E)
	words, next, err := store.LoadState(seed)
	if err != nil {
		return nil, fmt.Errorf("resume: %w", err)
	}

	sq := squarer.NewSoftware(E, words)

	start := time.Now()
	for k := next; k < E; k++ {
		sq.Square()
		if err := store.Save(k+1, sq.ReadWords()); err != nil {
			return nil, fmt.Errorf("checkpoint at %d: %w", k+1, err)
		}
		if err := store.SaveState(sq.ReadWords(), k+1); err != nil {
			return nil, fmt.Errorf("save live state at %d: %w", k+1, err)
		}
	}
	log.Info().Uint64("E", E).Dur("elapsed", time.Since(start)).Msg("squaring loop complete")

	p, err := proof.Build(store, sched, E, power)
	if err != nil {
		return nil, fmt.Errorf("build proof: %w", err)
	}
	return p, nil
}

func main() {
	savePath := flag.String("path", ".", "checkpoint and proof directory")
	exponent := flag.Uint64("exponent", 521, "Mersenne exponent to test")
	power := flag.Int("power", 0, "checkpoint level (0 selects checkpoint.BestPower(exponent))")
	diskWarnGB := flag.Float64("disk-warn-gb", 10, "log a warning if the predicted proof directory size exceeds this many gigabytes")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	lvl := *power
	if lvl == 0 {
		lvl = checkpoint.BestPower(*exponent)
	}

	fmt.Printf("Testing M%d (checkpoint power %d)\n", *exponent, lvl)

	p, err := run(*savePath, *exponent, lvl, *diskWarnGB)
	if err != nil {
		log.Error().Err(err).Msg("run failed")
		os.Exit(1)
	}

	fmt.Println()
	fmt.Println("res64:", proof.Res64(p.B))
	fmt.Println("middles:", len(p.Middles))

	recomputed := proof.Verify(p.E, p.B, p.Middles)
	fmt.Println("proof hash chain verifies:", equalUint64(p.Hashes, recomputed))
}

func equalUint64(a, b []uint64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
