package limiter

import (
	"context"

	"github.com/mkopnsrc/plex-qbt-speed-limiter/plex"
	"github.com/mkopnsrc/plex-qbt-speed-limiter/tautulli"
)

// PlexSource reads sessions straight from a Plex server.
type PlexSource struct {
	Client *plex.Client
}

func (s PlexSource) Name() string { return "plex" }

func (s PlexSource) ActiveSessions(ctx context.Context) ([]plex.Session, error) {
	return s.Client.ActiveSessions(ctx)
}

// TautulliSource reads sessions through a Tautulli instance monitoring
// the Plex server.
type TautulliSource struct {
	Client *tautulli.Client
}

func (s TautulliSource) Name() string { return "tautulli" }

func (s TautulliSource) ActiveSessions(ctx context.Context) ([]plex.Session, error) {
	return s.Client.ActiveSessions(ctx)
}
