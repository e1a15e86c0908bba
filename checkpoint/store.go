package checkpoint

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/avhd-labs/prpll/mersenne"
)

// Mode selects the residue family a Store's file names are built for.
type Mode int

const (
	ModePRP         Mode = iota // probable-prime test, seed 3
	ModeLucasLehmer             // Lucas-Lehmer test, seed 4
	ModePMinus1                 // P-1 factoring, stage-2 buffers share this layout
)

func (m Mode) String() string {
	switch m {
	case ModePRP:
		return "prp"
	case ModeLucasLehmer:
		return "ll"
	case ModePMinus1:
		return "pm1"
	default:
		return "unknown"
	}
}

// Seed returns the iteration-0 residue for the mode (3 for PRP, 4 for
// Lucas-Lehmer). P-1 has no single fixed seed; callers of that mode
// supply their own.
func (m Mode) Seed() uint64 {
	if m == ModeLucasLehmer {
		return 4
	}
	return 3
}

// Config names a Store's on-disk location and file-naming parameters
// (spec §4.4's `base = E ‖ mode [‖ B1 [‖ "_" ‖ B2]]`).
type Config struct {
	SavePath string
	E        uint64
	Mode     Mode
	B1       uint64 // P-1 stage-1 bound; 0 if unused
	B2       uint64 // P-1 stage-2 bound; 0 if unused

	// DiskWarnGB is the operator-configurable threshold (spec §4.3) above
	// which NewStore logs a Warn with the schedule's predicted proof
	// directory footprint. Zero disables the check.
	DiskWarnGB float64
}

func (c Config) base() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d%s", c.E, c.Mode)
	if c.B1 != 0 {
		fmt.Fprintf(&b, "%d", c.B1)
		if c.B2 != 0 {
			fmt.Fprintf(&b, "_%d", c.B2)
		}
	}
	return b.String()
}

// Store is the durable checkpoint manager (spec component D): it owns the
// proof-snapshot directory, the live-residue (.mers/.loop) files, and the
// P-1 stage-2 buffer paths that share this layout without this module
// implementing the stage-2 algorithm itself.
type Store struct {
	cfg   Config
	sched *Schedule
}

// NewStore binds a Store to a directory and a checkpoint schedule. The
// proof directory is created (if missing) on first use, not eagerly. If
// cfg.DiskWarnGB is set, the schedule's predicted disk footprint is
// checked against it immediately and logged as a Warn when it's exceeded.
func NewStore(cfg Config, sched *Schedule) *Store {
	s := &Store{cfg: cfg, sched: sched}
	if cfg.DiskWarnGB > 0 {
		if predicted := DiskUsageGB(cfg.E, sched.Power); predicted > cfg.DiskWarnGB {
			log.Warn().
				Uint64("E", cfg.E).
				Int("power", sched.Power).
				Float64("predictedGB", predicted).
				Float64("thresholdGB", cfg.DiskWarnGB).
				Msg("checkpoint: predicted proof directory size exceeds threshold")
		}
	}
	return s
}

func (s *Store) proofDir() string {
	return filepath.Join(s.cfg.SavePath, strconv.FormatUint(s.cfg.E, 10), "proof")
}

func (s *Store) snapshotPath(k uint64) string {
	return filepath.Join(s.proofDir(), strconv.FormatUint(k, 10))
}

func (s *Store) mersPath() string { return filepath.Join(s.cfg.SavePath, s.cfg.base()+".mers") }
func (s *Store) loopPath() string { return filepath.Join(s.cfg.SavePath, s.cfg.base()+".loop") }

// ExponentPath, HQPath, QPath, and Loop2Path name the P-1 stage-2 buffer
// files that share this Store's directory layout and naming scheme
// (spec §4.4). The stage-2 buffer shuffle itself is an out-of-scope
// external collaborator (spec §1); these exist so that collaborator can
// agree with this Store on where its files live.
func (s *Store) ExponentPath() string { return filepath.Join(s.cfg.SavePath, s.cfg.base()+".exponent") }
func (s *Store) HQPath() string       { return filepath.Join(s.cfg.SavePath, s.cfg.base()+".hq") }
func (s *Store) QPath() string        { return filepath.Join(s.cfg.SavePath, s.cfg.base()+".q") }
func (s *Store) Loop2Path() string    { return filepath.Join(s.cfg.SavePath, s.cfg.base()+".loop2") }

// encodeWords serializes words little-endian-per-word, in word order.
func encodeWords(words []uint32) []byte {
	buf := make([]byte, 4*len(words))
	for i, w := range words {
		binary.LittleEndian.PutUint32(buf[4*i:], w)
	}
	return buf
}

func decodeWords(buf []byte) []uint32 {
	words := make([]uint32, len(buf)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(buf[4*i:])
	}
	return words
}

// writeFileAtomic writes data to path via a temp sibling and rename, so a
// crash mid-write cannot leave a partially-written file that later fails
// CRC and blocks resume (spec §4.4 Atomicity note, §7 IoError policy).
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("checkpoint: create directory %s: %w", dir, err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("checkpoint: write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("checkpoint: rename %s to %s: %w", tmp, path, err)
	}
	return nil
}

// Save persists the residue at iteration k. It is a no-op unless k is a
// scheduled checkpoint.
func (s *Store) Save(k uint64, words []uint32) error {
	if !s.sched.IsCheckpoint(k) {
		return nil
	}

	payload := encodeWords(words)
	sum := crc32.ChecksumIEEE(payload)

	out := make([]byte, 4+len(payload))
	binary.LittleEndian.PutUint32(out, sum)
	copy(out[4:], payload)

	path := s.snapshotPath(k)
	if err := writeFileAtomic(path, out); err != nil {
		return err
	}
	log.Debug().Uint64("E", s.cfg.E).Uint64("k", k).Msg("checkpoint: wrote snapshot")
	return nil
}

// Load reads back a previously saved snapshot, verifying its CRC. k must
// be a scheduled checkpoint.
func (s *Store) Load(k uint64) ([]uint32, error) {
	if !s.sched.IsCheckpoint(k) {
		return nil, fmt.Errorf("%w: iteration %d is not a scheduled checkpoint", ErrScheduleInconsistency, k)
	}

	path := s.snapshotPath(k)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrMissingSnapshot, path)
		}
		return nil, fmt.Errorf("checkpoint: read %s: %w", path, err)
	}

	wantLen := 4 + 4*mersenne.WordsFor(s.cfg.E)
	if len(data) < wantLen {
		return nil, fmt.Errorf("%w: %s is %d bytes, want at least %d", ErrCorruptSnapshot, path, len(data), wantLen)
	}

	sum := binary.LittleEndian.Uint32(data)
	payload := data[4:wantLen]

	if crc32.ChecksumIEEE(payload) != sum {
		return nil, fmt.Errorf("%w: %s", ErrCorruptSnapshot, path)
	}

	log.Debug().Uint64("E", s.cfg.E).Uint64("k", k).Msg("checkpoint: read snapshot")
	return decodeWords(payload), nil
}

// IsValidTo reports whether every scheduled checkpoint strictly below
// min(limit, E) has a corresponding, CRC-valid file on disk. A missing
// file means resume is only possible up to the last unbroken prefix.
func (s *Store) IsValidTo(limit uint64) bool {
	ceiling := limit
	if s.cfg.E < ceiling {
		ceiling = s.cfg.E
	}

	for _, p := range s.sched.Points() {
		if p >= ceiling {
			continue
		}
		if _, err := s.Load(p); err != nil {
			return false
		}
	}
	return true
}

// LoadState resumes the live residue. If the loop file is absent, empty,
// or zero, it returns seedWords as the iteration-0 state and a next index
// of 0. Otherwise it returns the residue read from the .mers file and the
// index stored in the loop file.
//
// An unreadable or too-short .mers file alongside a valid, non-zero loop
// index is logged and treated as fresh state rather than fatal (spec
// §4.4's explicit policy choice, recorded in DESIGN.md): a long-running
// batch job favors restartability over halting on a torn write that a
// rerun will simply overwrite. The .mers file carries no checksum, so a
// file of full length with damaged contents is not detected.
func (s *Store) LoadState(seedWords []uint32) (words []uint32, next uint64, err error) {
	loopData, err := os.ReadFile(s.loopPath())
	if err != nil {
		if os.IsNotExist(err) {
			return seedWords, 0, nil
		}
		return nil, 0, fmt.Errorf("checkpoint: read %s: %w", s.loopPath(), err)
	}

	// Accept one optional trailing whitespace character (spec §6); no more.
	text := string(loopData)
	if n := len(text); n > 0 && isSpaceByte(text[n-1]) {
		text = text[:n-1]
	}
	if text == "" {
		return seedWords, 0, nil
	}

	idx, perr := strconv.ParseUint(text, 10, 64)
	if perr != nil {
		return nil, 0, fmt.Errorf("checkpoint: parse %s: %w", s.loopPath(), perr)
	}
	if idx == 0 {
		return seedWords, 0, nil
	}

	mersData, err := os.ReadFile(s.mersPath())
	if err != nil {
		log.Warn().Err(err).Str("path", s.mersPath()).Msg("checkpoint: residue file unreadable, resuming from seed")
		return seedWords, 0, nil
	}

	wantLen := 4 * mersenne.WordsFor(s.cfg.E)
	if len(mersData) < wantLen {
		log.Warn().Str("path", s.mersPath()).Msg("checkpoint: residue file short, resuming from seed")
		return seedWords, 0, nil
	}

	return decodeWords(mersData[:wantLen]), idx, nil
}

func isSpaceByte(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r' || b == '\n'
}

// SaveState persists the live residue and the next-iteration-to-execute
// index. The snapshot is written before the loop file, the ordering that
// guarantees a crash between the two only ever produces a benign orphan
// snapshot rather than a loop file pointing past missing data (spec §5).
func (s *Store) SaveState(words []uint32, next uint64) error {
	if err := writeFileAtomic(s.mersPath(), encodeWords(words)); err != nil {
		return err
	}
	loopText := strconv.FormatUint(next, 10)
	if err := writeFileAtomic(s.loopPath(), []byte(loopText)); err != nil {
		return err
	}
	return nil
}
