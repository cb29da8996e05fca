package limiter

import (
	"context"

	"github.com/mkopnsrc/plex-qbt-speed-limiter/plex"
	"github.com/mkopnsrc/plex-qbt-speed-limiter/qbittorrent"
)

// SessionSource provides the list of active playback sessions.
type SessionSource interface {
	// Name identifies the source in logs.
	Name() string

	// ActiveSessions returns the sessions currently being played.
	ActiveSessions(ctx context.Context) ([]plex.Session, error)
}

// LimitClient reads and writes the global transfer limits.
type LimitClient interface {
	TransferLimits(ctx context.Context) (qbittorrent.TransferLimits, error)
	SetTransferLimits(ctx context.Context, limits qbittorrent.TransferLimits) error
}
