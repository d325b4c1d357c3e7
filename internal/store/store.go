package store

import "sync"

// Mirror is the write-through persistence sink. Implementations own their
// error handling; a failed write must never surface into the dispatch path.
type Mirror interface {
	Write(State)
}

// Hook observes every applied action together with the states around it.
// Hooks run in dispatch order.
type Hook func(action Action, old, next State)

// Store owns the application state. Dispatches are serialized, so a
// transition is always atomic with respect to concurrent actions, and hooks
// observe mutations in the exact order they were applied.
type Store struct {
	mu     sync.Mutex
	state  State
	mirror Mirror
	hooks  []Hook
}

// New creates a store over the given initial state. mirror may be nil.
func New(initial State, mirror Mirror) *Store {
	return &Store{state: initial.Normalize(), mirror: mirror}
}

// AddHook registers a dispatch observer. Not safe to call concurrently with
// Dispatch; hooks are wired once at application startup.
func (s *Store) AddHook(h Hook) {
	s.hooks = append(s.hooks, h)
}

// State returns the current state. The reducer copies everything it changes,
// so the returned value is safe to read without further locking.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Dispatch applies the action and returns the resulting state. The mirror
// write and hook notifications happen under the dispatch lock so that the
// sync queue sees remote operations in local mutation order.
func (s *Store) Dispatch(action Action) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	old := s.state
	next := Reduce(old, action)
	s.state = next

	if s.mirror != nil {
		s.mirror.Write(next)
	}
	for _, h := range s.hooks {
		h(action, old, next)
	}
	return next
}
