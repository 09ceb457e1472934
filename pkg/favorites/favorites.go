// Package favorites keeps the persisted set of favorited record ids.
//
// The whole id -> bool mapping is stored under a single key and rewritten on
// every toggle. Key order in the stored JSON object is meaningful: the most
// recently toggled id is written last, which is what "recent favorites"
// ordering is derived from.
package favorites

import (
	"bytes"
	"context"
	"encoding/json"
	"slices"
	"sync"

	"github.com/tidwall/gjson"

	"github.com/agentstation/atlas/pkg/constants"
	"github.com/agentstation/atlas/pkg/errors"
	"github.com/agentstation/atlas/pkg/logging"
	"github.com/agentstation/atlas/pkg/storage"
)

// Order selects the direction of List.
type Order int

const (
	// NewestFirst lists the most recently favorited id first.
	NewestFirst Order = iota
	// OldestFirst lists ids in the order they were favorited.
	OldestFirst
)

// Store is the in-memory favorites mapping bound to a storage backend.
// It is safe for concurrent use.
type Store struct {
	kv  storage.Store
	key string

	mu     sync.RWMutex
	order  []string
	values map[string]bool
}

// Load reads the favorites snapshot. A missing or malformed snapshot yields
// an empty store; only backend read failures are returned.
func Load(ctx context.Context, kv storage.Store) (*Store, error) {
	s := &Store{
		kv:     kv,
		key:    constants.FavoritesKey,
		values: make(map[string]bool),
	}

	data, err := kv.Get(ctx, s.key)
	if errors.IsNotFound(err) {
		return s, nil
	}
	if err != nil {
		return nil, errors.WrapResource("load", "favorites", "", err)
	}

	if err := s.decode(data); err != nil {
		logging.FromContext(ctx).Warn().
			Err(err).
			Str("key", s.key).
			Msg("Ignoring malformed favorites snapshot")
		s.order, s.values = nil, make(map[string]bool)
	}
	return s, nil
}

// decode parses a JSON object while keeping key order. Entries whose value
// is not a boolean are skipped.
func (s *Store) decode(data []byte) error {
	if !gjson.ValidBytes(data) {
		return &errors.ParseError{Format: "json", Key: s.key, Message: "invalid JSON"}
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return &errors.ParseError{Format: "json", Key: s.key, Message: "expected an object"}
	}
	root.ForEach(func(k, v gjson.Result) bool {
		if v.Type != gjson.True && v.Type != gjson.False {
			return true
		}
		s.put(k.String(), v.Bool())
		return true
	})
	return nil
}

// put sets id and moves it to the end of the order. Caller holds the lock
// or owns s exclusively.
func (s *Store) put(id string, value bool) {
	if _, exists := s.values[id]; exists {
		if i := slices.Index(s.order, id); i >= 0 {
			s.order = slices.Delete(s.order, i, i+1)
		}
	}
	s.order = append(s.order, id)
	s.values[id] = value
}

// encode writes the mapping as a JSON object in order.
func (s *Store) encode() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, id := range s.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(id)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		if s.values[id] {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// IsFavorite reports whether id is currently a favorite.
func (s *Store) IsFavorite(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values[id]
}

// Toggle flips id and persists the full mapping before returning the new
// value. An id seen for the first time becomes true. On write failure the
// in-memory state is left unchanged.
func (s *Store) Toggle(ctx context.Context, id string) (bool, error) {
	if id == "" {
		return false, errors.NewValidationError("id", id, "cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prevOrder := slices.Clone(s.order)
	prev, existed := s.values[id]
	next := !prev
	s.put(id, next)

	data, err := s.encode()
	if err == nil {
		err = s.kv.Put(ctx, s.key, data)
	}
	if err != nil {
		s.order = prevOrder
		if existed {
			s.values[id] = prev
		} else {
			delete(s.values, id)
		}
		return prev, errors.WrapResource("toggle", "favorites", id, err)
	}

	logging.FromContext(ctx).Debug().
		Str("record_id", id).
		Bool("favorite", next).
		Msg("Favorite toggled")
	return next, nil
}

// List returns favorited ids ordered by recency. A positive limit keeps only
// the most recently favorited ids.
func (s *Store) List(limit int, order Order) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.order))
	for _, id := range s.order {
		if s.values[id] {
			ids = append(ids, id)
		}
	}
	if limit > 0 && len(ids) > limit {
		ids = ids[len(ids)-limit:]
	}
	if order == NewestFirst {
		slices.Reverse(ids)
	}
	return ids
}

// Snapshot returns a copy of the full mapping, including false entries.
func (s *Store) Snapshot() map[string]bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]bool, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// Len returns the number of ids currently favorited.
func (s *Store) Len() int {
	return len(s.List(0, OldestFirst))
}
