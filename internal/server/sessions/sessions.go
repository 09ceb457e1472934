// Package sessions keeps server-side result sessions for API clients.
//
// Each HTTP client that wants incremental results (query, tab and page
// changes, favorite toggles) creates a session and drives it by id. Idle
// sessions expire after a TTL.
package sessions

import (
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"

	"github.com/agentstation/atlas/pkg/errors"
	"github.com/agentstation/atlas/pkg/pipeline"
)

// DefaultTTL applies when New is given a non-positive ttl.
const DefaultTTL = 30 * time.Minute

// Registry maps session ids to live sessions.
type Registry struct {
	store   *gocache.Cache
	ttl     time.Duration
	logger  *zerolog.Logger
	mu      sync.Mutex
	onClose []func(id string)
}

// New creates a registry whose sessions expire after ttl of inactivity.
func New(ttl time.Duration, logger *zerolog.Logger) *Registry {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	r := &Registry{
		store:  gocache.New(ttl, ttl/2),
		ttl:    ttl,
		logger: logger,
	}
	r.store.OnEvicted(func(id string, _ any) {
		r.logger.Debug().Str("session_id", id).Msg("Session closed")
		r.mu.Lock()
		hooks := append([]func(string){}, r.onClose...)
		r.mu.Unlock()
		for _, fn := range hooks {
			fn(id)
		}
	})
	return r
}

// OnClose registers fn to run when a session is deleted or expires.
func (r *Registry) OnClose(fn func(id string)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onClose = append(r.onClose, fn)
}

// Add stores s. An existing session with the same id is an error.
func (r *Registry) Add(s *pipeline.Session) error {
	if err := r.store.Add(s.ID(), s, r.ttl); err != nil {
		return errors.NewDuplicateError("session", s.ID())
	}
	return nil
}

// Get returns a session and extends its lifetime.
func (r *Registry) Get(id string) (*pipeline.Session, error) {
	v, ok := r.store.Get(id)
	if !ok {
		return nil, errors.NewNotFoundError("session", id)
	}
	s := v.(*pipeline.Session)
	r.store.Set(id, s, r.ttl)
	return s, nil
}

// Delete closes a session.
func (r *Registry) Delete(id string) error {
	if _, ok := r.store.Get(id); !ok {
		return errors.NewNotFoundError("session", id)
	}
	r.store.Delete(id)
	return nil
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	return r.store.ItemCount()
}

// Each calls fn for every live session.
func (r *Registry) Each(fn func(*pipeline.Session)) {
	for _, item := range r.store.Items() {
		fn(item.Object.(*pipeline.Session))
	}
}

// RefreshAll recomputes every session, typically after a catalog reload.
func (r *Registry) RefreshAll(reason pipeline.Reason) int {
	n := 0
	r.Each(func(s *pipeline.Session) {
		s.Refresh(reason)
		n++
	})
	return n
}

// Close deletes every session, running OnClose hooks.
func (r *Registry) Close() {
	for id := range r.store.Items() {
		r.store.Delete(id)
	}
}
