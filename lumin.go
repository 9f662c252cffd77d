// Package lumin is a privacy-first activity analytics SDK for Go host
// applications. It observes foreground/background transitions, derives
// per-install activity-cadence events (first open, session boundaries and
// daily/weekly/monthly/yearly active user) from locally persisted timestamps
// only, and POSTs structured event records to a collection endpoint. No
// device or user identifier is ever stored or sent.
//
// Delivery is fire-and-forget: there is no retry queue and no offline
// buffer. Events that fail to send are lost; duplicate suppression happens
// purely through the local cadence markers.
package lumin

import (
	"context"
	"net/url"
	"sync"
	"time"

	"cdr.dev/slog/v3"
	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"
	"golang.org/x/xerrors"

	"github.com/uselumin/lumin-go/storage"
)

const (
	// DefaultCollectionURL is the hosted collection service.
	DefaultCollectionURL = "https://api.uselumin.co"
	// DefaultEnvironment tags events when the host app does not set one.
	DefaultEnvironment = "default"

	eventsPath = "/api/events/create"

	// markerFormat is how persisted instants are rendered. Reading tolerates
	// anything time.Parse accepts for this layout.
	markerFormat = time.RFC3339Nano
)

// Options configures a Tracker. The zero value is usable: hosted collection
// URL, "default" environment, automatic active-user tracking on, in-memory
// storage and a plain HTTP transport.
type Options struct {
	// Logger receives diagnostic output. Discarded when unset.
	Logger slog.Logger
	// Environment tags every event (e.g. "production", "staging").
	Environment string
	// CollectionURL overrides the hosted collection endpoint.
	CollectionURL string
	// Intervals replaces calendar-boundary cadence windows with fixed
	// durations, per cadence.
	Intervals TrackingIntervals
	// DisableActiveUserTracking turns off the automatic cadence checks on
	// Initialize and on foreground transitions. First-open and session
	// events are still emitted.
	DisableActiveUserTracking bool
	// LogResponses logs collection endpoint response bodies at debug level.
	LogResponses bool
	// Store persists the cadence markers. Defaults to an in-memory store;
	// hosts that want markers to survive restarts wire sqlitestore.New or
	// their own platform store.
	Store storage.Store
	// Transport delivers serialized events. Defaults to HTTP POST.
	Transport Transport
	// Lifecycle supplies foreground/background transitions. When nil the
	// tracker only reacts to explicit Initialize/Close calls.
	Lifecycle LifecycleSource
	// Clock is injectable for testing.
	Clock quartz.Clock
}

// Tracker is the activity-cadence tracking engine. Wire at most one instance
// per process to the lifecycle source; a second one would double up session
// handling.
type Tracker struct {
	token        Token
	keys         storageKeys
	environment  string
	intervals    TrackingIntervals
	autoTrack    bool
	logResponses bool
	eventsURL    string

	log       slog.Logger
	store     storage.Store
	transport Transport
	lifecycle LifecycleSource
	clock     quartz.Clock

	// ctx outlives any one call; lifecycle callbacks run against it until
	// Close cancels it.
	ctx       context.Context
	cancelCtx context.CancelFunc

	mu               sync.Mutex
	state            sessionState
	sessionStartedAt time.Time
	unsubscribe      func()
}

// New parses the app token and applies option defaults. It touches neither
// storage nor the network; that starts with Initialize.
func New(rawToken string, opts *Options) (*Tracker, error) {
	token, err := ParseToken(rawToken)
	if err != nil {
		return nil, err
	}
	if opts == nil {
		opts = &Options{}
	}
	environment := opts.Environment
	if environment == "" {
		environment = DefaultEnvironment
	}
	collectionURL := opts.CollectionURL
	if collectionURL == "" {
		collectionURL = DefaultCollectionURL
	}
	base, err := url.Parse(collectionURL)
	if err != nil {
		return nil, xerrors.Errorf("parse collection url: %w", err)
	}
	eventsURL, err := base.Parse(eventsPath)
	if err != nil {
		return nil, xerrors.Errorf("parse events url: %w", err)
	}
	store := opts.Store
	if store == nil {
		store = storage.NewMemory()
	}
	transport := opts.Transport
	if transport == nil {
		transport = NewHTTPTransport(nil)
	}
	clock := opts.Clock
	if clock == nil {
		clock = quartz.NewReal()
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Tracker{
		token:        token,
		keys:         deriveStorageKeys(token.AppID),
		environment:  environment,
		intervals:    opts.Intervals,
		autoTrack:    !opts.DisableActiveUserTracking,
		logResponses: opts.LogResponses,
		eventsURL:    eventsURL.String(),
		log:          opts.Logger,
		store:        store,
		transport:    transport,
		lifecycle:    opts.Lifecycle,
		clock:        clock,
		ctx:          ctx,
		cancelCtx:    cancel,
		state:        stateNoSession,
	}, nil
}

// Initialize wires the lifecycle subscription, runs the first-open check and
// the four cadence checks concurrently, then starts the first session. It
// returns once the launch events have been sent (or failed); hosts that want
// fire-and-forget semantics run it in a goroutine and drop the error.
func (t *Tracker) Initialize(ctx context.Context) error {
	if t.lifecycle != nil {
		t.mu.Lock()
		if t.unsubscribe == nil {
			t.unsubscribe = t.lifecycle.Subscribe(t.onLifecycle)
		}
		t.mu.Unlock()
	}

	var eg errgroup.Group
	eg.Go(func() error {
		return t.trackFirstOpen(ctx)
	})
	if t.autoTrack {
		eg.Go(func() error {
			return t.TrackActiveUser(ctx)
		})
	}
	err := eg.Wait()
	if serr := t.startSession(ctx); serr != nil && err == nil {
		err = serr
	}
	return err
}

// onLifecycle reacts to edge transitions reported by the host app. It runs
// on the signal source's goroutine against the tracker's own context, since
// the call that created the subscription has long returned.
func (t *Tracker) onLifecycle(state AppState) {
	ctx := t.ctx
	t.mu.Lock()
	current := t.state
	t.mu.Unlock()

	switch {
	case state == StateActive && current != stateActive:
		if t.autoTrack {
			if err := t.TrackActiveUser(ctx); err != nil {
				t.log.Warn(ctx, "active user checks", slog.Error(err))
			}
		}
		if err := t.startSession(ctx); err != nil {
			t.log.Warn(ctx, "start session", slog.Error(err))
		}
	case state == StateBackground && current == stateActive:
		if err := t.endSession(ctx); err != nil {
			t.log.Warn(ctx, "end session", slog.Error(err))
		}
	}
}

// trackFirstOpen emits FIRST_OPEN exactly once per install. Unlike the
// cadence markers, the first-open instant is persisted before the send:
// repeating FIRST_OPEN after a crash would miscount installs. It runs
// regardless of DisableActiveUserTracking.
func (t *Tracker) trackFirstOpen(ctx context.Context) error {
	_, found, err := t.readMarker(ctx, t.keys.firstOpen)
	if err != nil {
		return xerrors.Errorf("first open marker: %w", err)
	}
	if found {
		return nil
	}
	if err := t.store.Set(ctx, t.keys.firstOpen, t.clock.Now().Format(markerFormat)); err != nil {
		return xerrors.Errorf("persist first open: %w", err)
	}
	return t.track(ctx, EventFirstOpen, nil)
}

// Reset deletes every locally persisted marker concurrently and waits for
// all deletes to settle, returning the install to a fresh state. It emits
// nothing and leaves the in-memory session untouched.
func (t *Tracker) Reset(ctx context.Context) error {
	var eg errgroup.Group
	for _, key := range t.keys.all() {
		eg.Go(func() error {
			if err := t.store.Delete(ctx, key); err != nil {
				return xerrors.Errorf("delete %s: %w", key, err)
			}
			return nil
		})
	}
	return eg.Wait()
}

// Close detaches the lifecycle subscription and, if a session is active,
// ends it. The tracker must not be used afterwards.
func (t *Tracker) Close() error {
	t.mu.Lock()
	unsubscribe := t.unsubscribe
	t.unsubscribe = nil
	active := t.state == stateActive
	t.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
	var err error
	if active {
		err = t.endSession(t.ctx)
	}
	t.cancelCtx()
	return err
}
