// Package limiter implements the poll-decide-apply cycle that ties a
// session source to qBittorrent's global transfer limits.
//
// The decision itself is a pure function: while at least one session is
// streaming, the configured caps should be in effect; otherwise both
// directions should be unlimited. The Loop runs that decision on a
// timer, remembers what it last applied so unchanged cycles cost no
// API call, and treats source and limiter failures as recoverable:
// a failed poll keeps the previous limits in place, a failed apply is
// retried on the next cycle.
//
// All state lives in the State value passed into and out of Step, so a
// single cycle can be driven directly in tests without running the
// timer.
package limiter
