package checkpoint

import "errors"

// Error taxonomy (spec.md §7). CorruptSnapshot and ScheduleInconsistency
// are fatal to proof generation; MissingSnapshot before E is fatal to
// both resume and proof generation. IoError failures are returned
// wrapped with path context rather than as a single sentinel, since the
// OS already supplies that detail via *os.PathError.
var (
	// ErrCorruptSnapshot means a proof snapshot's CRC did not match its
	// payload, or the file was shorter than the expected word count.
	ErrCorruptSnapshot = errors.New("checkpoint: corrupt snapshot")

	// ErrMissingSnapshot means a checkpoint index that must be on disk
	// has no corresponding file.
	ErrMissingSnapshot = errors.New("checkpoint: missing snapshot")

	// ErrScheduleInconsistency means the checkpoint schedule's membership
	// test disagreed with its own constructed point set, or the proof
	// builder's buffer bookkeeping did not collapse as expected. Either
	// indicates a programming error, not a runtime/data condition.
	ErrScheduleInconsistency = errors.New("checkpoint: schedule inconsistency")
)
