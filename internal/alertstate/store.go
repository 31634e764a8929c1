// Package alertstate keeps the last alert time of every instrument, optionally
// persisted so the cooldown survives a restart.
package alertstate

import (
	"fmt"
	"log"
	"sync"
	"time"

	"SignalSentinel/internal/model"
)

// Store is safe for concurrent use.
type Store struct {
	mu       sync.Mutex
	state    *model.AlertState
	filePath string
}

// NewStore creates a Store, loading state from filePath. An empty path keeps
// the state in memory only.
func NewStore(filePath string) (*Store, error) {
	state := &model.AlertState{LastAlert: map[string]time.Time{}}
	if filePath != "" {
		loaded, err := LoadState(filePath)
		if err != nil {
			return nil, fmt.Errorf("load alert state: %w", err)
		}
		state = loaded
	}
	return &Store{state: state, filePath: filePath}, nil
}

// Last returns the last alert time of symbol, zero if it was never alerted.
func (s *Store) Last(symbol string) time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.LastAlert[symbol]
}

// Reserve claims the alert slot of symbol when due reports true for its last
// alert time. The slot is stamped with now so a concurrent caller sees it
// taken; the caller stores the final time with Set.
func (s *Store) Reserve(symbol string, now time.Time, due func(last time.Time) bool) (last time.Time, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	last = s.state.LastAlert[symbol]
	if !due(last) {
		return last, false
	}
	s.state.LastAlert[symbol] = now
	return last, true
}

// Set records the alert time of symbol and persists the state.
func (s *Store) Set(symbol string, t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.LastAlert[symbol] = t
	if err := s.save(); err != nil {
		log.Printf("[ERROR] failed to save alert state: %v", err)
	}
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() model.AlertState {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := model.AlertState{LastAlert: make(map[string]time.Time, len(s.state.LastAlert)), UpdatedAt: s.state.UpdatedAt}
	for k, v := range s.state.LastAlert {
		out.LastAlert[k] = v
	}
	return out
}

func (s *Store) save() error {
	if s.filePath == "" {
		return nil
	}
	return SaveState(s.filePath, s.state)
}
