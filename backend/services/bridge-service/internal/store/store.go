package store

import "sync"

// Intent is the desired actuator state relayed between the app and the lock.
type Intent string

// Recognized intent tokens. The actuator firmware parses these literally.
const (
	IntentLock   Intent = "LOCK"
	IntentUnlock Intent = "UNLOCK"
)

// ParseIntent validates a raw command token.
func ParseIntent(raw string) (Intent, bool) {
	switch Intent(raw) {
	case IntentLock:
		return IntentLock, true
	case IntentUnlock:
		return IntentUnlock, true
	default:
		return "", false
	}
}

// Store holds the single shared intent cell. It is in-memory only: a process
// restart resets the intent to LOCK, and callers must not assume otherwise.
// Concurrent writers resolve last-writer-wins.
type Store struct {
	mu      sync.RWMutex
	current Intent
}

// New returns a store initialized to the LOCK default.
func New() *Store {
	return &Store{current: IntentLock}
}

// Get returns the current intent.
func (s *Store) Get() Intent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Set replaces the current intent and returns the new value.
func (s *Store) Set(next Intent) Intent {
	s.mu.Lock()
	s.current = next
	s.mu.Unlock()
	return next
}
