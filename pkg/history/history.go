// Package history keeps the search box's recent queries, newest first.
package history

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/agentstation/atlas/pkg/constants"
	"github.com/agentstation/atlas/pkg/errors"
	"github.com/agentstation/atlas/pkg/logging"
	"github.com/agentstation/atlas/pkg/storage"
)

// Entry is one saved query. Timestamp is Unix milliseconds.
type Entry struct {
	Query     string `json:"query"`
	Timestamp int64  `json:"timestamp"`
}

// Time returns the entry timestamp as a time.Time.
func (e Entry) Time() time.Time {
	return time.UnixMilli(e.Timestamp)
}

// Store is the persisted history list. It is safe for concurrent use.
type Store struct {
	kv    storage.Store
	key   string
	limit int
	now   func() time.Time

	mu      sync.RWMutex
	entries []Entry
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithLimit overrides the maximum number of entries.
func WithLimit(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.limit = n
		}
	}
}

// Load reads the history snapshot. Missing or malformed snapshots yield an
// empty history; only backend read failures are returned.
func Load(ctx context.Context, kv storage.Store, opts ...Option) (*Store, error) {
	s := &Store{
		kv:    kv,
		key:   constants.HistoryKey,
		limit: constants.HistoryLimit,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	data, err := kv.Get(ctx, s.key)
	if errors.IsNotFound(err) {
		return s, nil
	}
	if err != nil {
		return nil, errors.WrapResource("load", "history", "", err)
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		logging.FromContext(ctx).Warn().
			Err(err).
			Str("key", s.key).
			Msg("Ignoring malformed search history snapshot")
		return s, nil
	}
	if len(entries) > s.limit {
		entries = entries[:s.limit]
	}
	s.entries = entries
	return s, nil
}

// List returns all entries, newest first.
func (s *Store) List() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Entry(nil), s.entries...)
}

// Len returns the number of entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Filter returns entries whose query contains text, case-insensitively.
// An empty text returns every entry.
func (s *Store) Filter(text string) []Entry {
	needle := strings.ToLower(text)
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Entry, 0, len(s.entries))
	for _, e := range s.entries {
		if needle == "" || strings.Contains(strings.ToLower(e.Query), needle) {
			out = append(out, e)
		}
	}
	return out
}

// Add records query as the newest entry, dropping the oldest beyond the limit.
func (s *Store) Add(ctx context.Context, query string) (Entry, error) {
	if strings.TrimSpace(query) == "" {
		return Entry{}, errors.NewValidationError("query", query, "cannot be empty")
	}
	entry := Entry{Query: query, Timestamp: s.now().UnixMilli()}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]Entry, 0, s.limit)
	next = append(next, entry)
	next = append(next, s.entries...)
	if len(next) > s.limit {
		next = next[:s.limit]
	}
	if err := s.save(ctx, next); err != nil {
		return Entry{}, err
	}
	return entry, nil
}

// Remove deletes the entry at index (0 is the newest).
func (s *Store) Remove(ctx context.Context, index int) (Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.entries) {
		return Entry{}, errors.NewNotFoundError("history entry", strconv.Itoa(index))
	}
	removed := s.entries[index]
	next := make([]Entry, 0, len(s.entries)-1)
	next = append(next, s.entries[:index]...)
	next = append(next, s.entries[index+1:]...)
	if err := s.save(ctx, next); err != nil {
		return Entry{}, err
	}
	return removed, nil
}

// Clear removes every entry.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(ctx, []Entry{})
}

// save persists next and installs it. Caller holds the write lock.
func (s *Store) save(ctx context.Context, next []Entry) error {
	data, err := json.Marshal(next)
	if err != nil {
		return errors.WrapResource("save", "history", "", err)
	}
	if err := s.kv.Put(ctx, s.key, data); err != nil {
		return errors.WrapResource("save", "history", "", err)
	}
	s.entries = next
	return nil
}
