package limiter

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/mkopnsrc/plex-qbt-speed-limiter/plex"
	"github.com/mkopnsrc/plex-qbt-speed-limiter/qbittorrent"
)

// DefaultInterval is the poll interval used unless overridden.
const DefaultInterval = 30 * time.Second

// Loop polls a session source and keeps the limiter in the state
// Decide prescribes.
type Loop struct {
	source   SessionSource
	limits   LimitClient
	caps     qbittorrent.TransferLimits
	match    func(plex.Session) bool
	interval time.Duration
	dryRun   bool
	logger   zerolog.Logger
}

// NewLoop creates a loop that applies caps while the source reports
// active sessions.
func NewLoop(source SessionSource, limits LimitClient, caps qbittorrent.TransferLimits, logger zerolog.Logger) *Loop {
	return &Loop{
		source:   source,
		limits:   limits,
		caps:     caps,
		interval: DefaultInterval,
		logger:   logger,
	}
}

// SetInterval overrides the poll interval.
func (l *Loop) SetInterval(interval time.Duration) {
	if interval > 0 {
		l.interval = interval
	}
}

// SetMatch installs a predicate deciding which sessions count as
// streaming activity. A nil predicate counts every session.
func (l *Loop) SetMatch(match func(plex.Session) bool) {
	l.match = match
}

// SetDryRun makes the loop log limit changes without applying them.
func (l *Loop) SetDryRun(dryRun bool) {
	l.dryRun = dryRun
}

// Step runs one poll-decide-apply cycle and returns the resulting
// state. The input state is not modified; on failure the returned
// state keeps whatever the previous cycles established, so the caller
// can feed it straight into the next cycle.
func (l *Loop) Step(ctx context.Context, state State) (State, error) {
	sessions, err := l.source.ActiveSessions(ctx)
	if err != nil {
		return state, fmt.Errorf("%w: %w", ErrSessionQuery, err)
	}

	matched := sessions
	if l.match != nil {
		matched = make([]plex.Session, 0, len(sessions))
		for _, s := range sessions {
			if l.match(s) {
				matched = append(matched, s)
			}
		}
	}

	streaming := len(matched) > 0
	transition := !state.Known || state.Streaming != streaming

	for _, s := range matched {
		ev := l.logger.Debug()
		if transition {
			ev = l.logger.Info()
		}
		ev.Str("user", s.User).
			Str("player", s.Player).
			Str("library", s.Library).
			Str("title", s.DisplayTitle()).
			Msg("Active stream")
	}

	next := State{Streaming: streaming, Known: true, Applied: state.Applied}
	target := Decide(streaming, l.caps)

	if state.Applied != nil && *state.Applied == target {
		l.logger.Debug().
			Int("streams", len(matched)).
			Bool("streaming", streaming).
			Stringer("limits", target).
			Msg("Limits already in place")
		return next, nil
	}

	if l.dryRun {
		l.logger.Info().
			Int("streams", len(matched)).
			Bool("streaming", streaming).
			Stringer("limits", target).
			Msg("Dry run, would apply transfer limits")
		next.Applied = &target
		return next, nil
	}

	if err := l.limits.SetTransferLimits(ctx, target); err != nil {
		return next, fmt.Errorf("%w: %w", ErrLimiterApply, err)
	}

	next.Applied = &target
	l.logger.Info().
		Int("streams", len(matched)).
		Bool("streaming", streaming).
		Stringer("limits", target).
		Msg("Applied transfer limits")

	return next, nil
}

// Run executes Step immediately and then on every tick until the
// context is cancelled. Cycle errors are logged and do not stop the
// loop; the return value is always the context's error.
func (l *Loop) Run(ctx context.Context) error {
	state := l.step(ctx, State{})

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			state = l.step(ctx, state)
		}
	}
}

func (l *Loop) step(ctx context.Context, state State) State {
	next, err := l.Step(ctx, state)
	if err != nil {
		l.logger.Error().Err(err).Msg("Cycle failed")
	}
	return next
}
