package timelinez

import "errors"

var (
	// ErrMisnestedExit reports an exit of a span that is not the innermost
	// entered span of its thread.
	ErrMisnestedExit = errors.New("misnested span exit")

	// ErrWrongThread reports a span exited on another thread than the one
	// that entered it.
	ErrWrongThread = errors.New("span exited on wrong thread")

	// ErrInconsistentCounts reports enter/exit bookkeeping that does not
	// add up after replay, e.g. a span entered twice or never entered.
	ErrInconsistentCounts = errors.New("inconsistent span counts")
)
