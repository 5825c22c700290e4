// Package station owns live telemetry: an in-memory cell holding the most
// recent observation, and the UDP listener that feeds it.
package station

import (
	"sync"

	"github.com/nickdnj/TempestWeather/internal/domain"
)

// Store holds the single most recent observation. Writes come from one
// listener goroutine; reads come from any number of render requests. The
// critical section is a single assignment, so readers never wait long.
type Store struct {
	mu     sync.RWMutex
	latest domain.Observation
	has    bool
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{}
}

// Put replaces the current observation unconditionally (last write wins).
func (s *Store) Put(obs domain.Observation) {
	s.mu.Lock()
	s.latest = obs
	s.has = true
	s.mu.Unlock()
}

// Latest returns the most recent observation, or ok=false before the first
// packet arrives. It never returns a zero-value default as if it were data.
func (s *Store) Latest() (domain.Observation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest, s.has
}
