package lumin

import (
	"context"

	"cdr.dev/slog/v3"
	"golang.org/x/sync/errgroup"
	"golang.org/x/xerrors"
)

// sessionState tracks where the tracker is in the app's foreground cycle.
// The machine cycles between active and backgrounded for the process
// lifetime; there is no terminal state.
type sessionState int

const (
	stateNoSession sessionState = iota
	stateActive
	stateBackgrounded
)

// startSession begins a foreground session and emits SESSION_START carrying
// the gap in seconds since the previous session ended, or null on the first
// ever session. The session start instant lives in memory only.
func (t *Tracker) startSession(ctx context.Context) error {
	now := t.clock.Now()
	t.mu.Lock()
	t.state = stateActive
	t.sessionStartedAt = now
	t.mu.Unlock()

	var sinceLast any
	end, found, err := t.readMarker(ctx, t.keys.endOfLastSession)
	switch {
	case err != nil:
		t.log.Warn(ctx, "read end of last session", slog.Error(err))
	case found:
		sinceLast = now.Sub(end).Seconds()
	}
	return t.track(ctx, EventSessionStart, map[string]any{
		"timeSinceLastSession": sinceLast,
	})
}

// endSession closes the current session, emits SESSION_END with the session
// duration in seconds and records the end instant for the next session's gap
// computation. Send and persist are independent; neither waits on the
// other's outcome.
func (t *Tracker) endSession(ctx context.Context) error {
	now := t.clock.Now()
	t.mu.Lock()
	startedAt := t.sessionStartedAt
	t.state = stateBackgrounded
	t.mu.Unlock()

	var eg errgroup.Group
	eg.Go(func() error {
		return t.track(ctx, EventSessionEnd, map[string]any{
			"duration": now.Sub(startedAt).Seconds(),
		})
	})
	eg.Go(func() error {
		if err := t.store.Set(ctx, t.keys.endOfLastSession, now.Format(markerFormat)); err != nil {
			return xerrors.Errorf("persist end of session: %w", err)
		}
		return nil
	})
	return eg.Wait()
}
