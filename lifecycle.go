package lumin

import "sync"

// AppState is the two-state lifecycle signal reported by the host app.
// Inactive and backgrounded are not distinguished.
type AppState int

const (
	StateBackground AppState = iota
	StateActive
)

func (s AppState) String() string {
	switch s {
	case StateActive:
		return "active"
	case StateBackground:
		return "background"
	default:
		return "unknown"
	}
}

// LifecycleSource emits app lifecycle transitions. The tracker subscribes
// exactly once for its lifetime; wiring two trackers to one source doubles
// up session handling and is not guarded against.
type LifecycleSource interface {
	Subscribe(fn func(AppState)) (unsubscribe func())
}

// Signal is a LifecycleSource driven by the host: call Set from whatever
// platform hook reports foreground/background changes. Subscribers see edge
// transitions only.
type Signal struct {
	mu    sync.Mutex
	state AppState
	subs  map[int]func(AppState)
	next  int
}

var _ LifecycleSource = (*Signal)(nil)

// NewSignal returns a Signal starting in the background state, so the first
// Set(StateActive) is delivered as a transition.
func NewSignal() *Signal {
	return &Signal{state: StateBackground, subs: map[int]func(AppState){}}
}

// Set reports the current app state. Subscribers run synchronously on the
// calling goroutine, in no particular order, and only when the state
// actually changed.
func (s *Signal) Set(state AppState) {
	s.mu.Lock()
	if s.state == state {
		s.mu.Unlock()
		return
	}
	s.state = state
	fns := make([]func(AppState), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(state)
	}
}

func (s *Signal) Subscribe(fn func(AppState)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.next
	s.next++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}
