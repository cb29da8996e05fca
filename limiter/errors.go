package limiter

import "errors"

// Cycle errors. Both are recoverable: the loop logs them and keeps
// running.
var (
	// ErrSessionQuery marks a failure to read the active session list.
	// The previous streaming state is retained and no limits change.
	ErrSessionQuery = errors.New("session query failed")

	// ErrLimiterApply marks a failure to write the transfer limits.
	// The write is retried on the next cycle.
	ErrLimiterApply = errors.New("applying transfer limits failed")
)
