// Package memory provides an in-process key/value store, used in tests and
// for ephemeral sessions.
package memory

import (
	"context"
	"sync"

	"github.com/agentstation/atlas/pkg/errors"
)

// Store is a map-backed key/value store safe for concurrent use.
type Store struct {
	mu     sync.RWMutex
	values map[string][]byte
	closed bool
}

// New returns an empty store.
func New() *Store {
	return &Store{values: make(map[string][]byte)}
}

// NewWith returns a store pre-populated with the given values.
func NewWith(values map[string]string) *Store {
	s := New()
	for k, v := range values {
		s.values[k] = []byte(v)
	}
	return s
}

// Get returns a copy of the value for key.
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, errors.ErrClosed
	}
	v, ok := s.values[key]
	if !ok {
		return nil, errors.NewNotFoundError("key", key)
	}
	return append([]byte(nil), v...), nil
}

// Put replaces the value for key.
func (s *Store) Put(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errors.ErrClosed
	}
	s.values[key] = append([]byte(nil), value...)
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errors.ErrClosed
	}
	delete(s.values, key)
	return nil
}

// Close marks the store closed.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
