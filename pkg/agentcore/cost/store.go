package cost

import (
	"errors"
	"sync"
)

// ErrStoreClosed is returned by operations on a closed store.
var ErrStoreClosed = errors.New("cost store is closed")

// Store persists usage records so spend survives process restarts. The
// Tracker appends to it on every successful Record call.
type Store interface {
	// Append persists one usage record.
	Append(usage Usage) error

	// List returns all records for agentID in append order. An empty
	// agentID returns every record.
	List(agentID string) ([]Usage, error)

	// Close releases the store. Subsequent calls return ErrStoreClosed.
	Close() error
}

// MemoryStore keeps usage records in memory, for development and testing.
type MemoryStore struct {
	mu      sync.RWMutex
	records []Usage
	closed  bool
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Append implements Store.
func (s *MemoryStore) Append(usage Usage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStoreClosed
	}
	s.records = append(s.records, usage)
	return nil
}

// List implements Store.
func (s *MemoryStore) List(agentID string) ([]Usage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrStoreClosed
	}
	var out []Usage
	for _, rec := range s.records {
		if agentID == "" || rec.AgentID == agentID {
			out = append(out, rec)
		}
	}
	return out, nil
}

// Close implements Store.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStoreClosed
	}
	s.closed = true
	s.records = nil
	return nil
}
