package limiter

import (
	"github.com/mkopnsrc/plex-qbt-speed-limiter/qbittorrent"
)

// Decide returns the limits that should be in effect for the given
// streaming state: the configured caps while anyone is streaming,
// unlimited otherwise.
func Decide(streaming bool, caps qbittorrent.TransferLimits) qbittorrent.TransferLimits {
	if streaming {
		return caps
	}
	return qbittorrent.TransferLimits{}
}

// State is the loop's memory between cycles. The zero value is the
// state before the first cycle: nothing observed, nothing applied.
type State struct {
	// Streaming is the state observed by the last successful poll.
	Streaming bool

	// Known is false until a poll has succeeded. It stays true across
	// later poll failures, which retain the previous observation.
	Known bool

	// Applied is the last limit set successfully written to the
	// limiter, or nil if no write has succeeded yet. A cycle whose
	// target equals *Applied skips the write.
	Applied *qbittorrent.TransferLimits
}
