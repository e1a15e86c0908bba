package proof

import "errors"

// ErrZeroMiddle means a computed level-p middle residue collapsed to all
// zero words, which indicates upstream snapshot corruption rather than a
// legitimate residue (spec §7).
var ErrZeroMiddle = errors.New("proof: zero middle residue")
