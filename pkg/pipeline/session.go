package pipeline

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/agentstation/atlas/pkg/catalogs"
	"github.com/agentstation/atlas/pkg/constants"
	"github.com/agentstation/atlas/pkg/errors"
	"github.com/agentstation/atlas/pkg/filter"
	"github.com/agentstation/atlas/pkg/logging"
	"github.com/agentstation/atlas/pkg/pagination"
	"github.com/agentstation/atlas/pkg/search"
)

// Source supplies the current published records and search index.
// Implementations may swap both when the catalog is reloaded.
type Source interface {
	Published() []catalogs.Record
	Index() *search.Index
}

// FavoriteToggler reads and flips favorite flags.
type FavoriteToggler interface {
	FavoriteChecker
	Toggle(ctx context.Context, id string) (bool, error)
}

// Reason names what triggered a recomputation.
type Reason string

// Recomputation triggers. ReasonIndexReady recomputes a result that was
// served while the search index was still building.
const (
	ReasonInit       Reason = "init"
	ReasonQuery      Reason = "query"
	ReasonTab        Reason = "tab"
	ReasonFavorite   Reason = "favorite"
	ReasonReload     Reason = "reload"
	ReasonIndexReady Reason = "index_ready"
)

// ResultsChanged is published whenever the filtered result list is recomputed.
type ResultsChanged struct {
	SessionID string     `json:"sessionId"`
	Reason    Reason     `json:"reason"`
	Query     string     `json:"query"`
	Tab       filter.Tab `json:"tab"`
	// Items is the full filtered list before pagination.
	Items []Item `json:"items"`
	// Matches is the list before tab filtering, which summaries are built from.
	Matches    []Item `json:"matches"`
	TotalPages int    `json:"totalPages"`
	Loading    bool   `json:"loading"`
}

// Observer receives results-changed notifications. Observers run on the
// goroutine that changed the session, after the session lock is released.
type Observer func(ResultsChanged)

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithSessionID sets the session id. By default a random UUID is used.
func WithSessionID(id string) SessionOption {
	return func(s *Session) {
		s.id = id
	}
}

// WithPageSize sets the page size.
func WithPageSize(n int) SessionOption {
	return func(s *Session) {
		s.paginator = pagination.New(n)
	}
}

// WithObserver registers an observer before the first computation.
func WithObserver(o Observer) SessionOption {
	return func(s *Session) {
		s.addObserver(o)
	}
}

// WithInitialQuery sets the query used for the first computation.
func WithInitialQuery(q string) SessionOption {
	return func(s *Session) {
		s.query = q
	}
}

// WithInitialTab sets the tab used for the first computation.
func WithInitialTab(tab filter.Tab) SessionOption {
	return func(s *Session) {
		s.tab = tab
	}
}

// Session is the state of one results screen. It is safe for concurrent use,
// though each session is meant to be driven by a single user.
type Session struct {
	id        string
	source    Source
	favorites FavoriteToggler
	paginator *pagination.Paginator

	mu           sync.Mutex
	query        string
	tab          filter.Tab
	result       Result
	chartLoading bool
	lastActive   time.Time
	observers    map[int]Observer
	nextObserver int
}

// NewSession creates a session and computes its first page.
func NewSession(source Source, favorites FavoriteToggler, opts ...SessionOption) *Session {
	s := &Session{
		id:        uuid.NewString(),
		source:    source,
		favorites: favorites,
		paginator: pagination.New(constants.DefaultPageSize),
		observers: make(map[int]Observer),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.mu.Lock()
	ev := s.recompute(ReasonInit)
	obs := s.snapshotObservers()
	s.mu.Unlock()
	notify(obs, ev)
	return s
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// Query returns the current query.
func (s *Session) Query() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query
}

// Tab returns the current tab.
func (s *Session) Tab() filter.Tab {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tab
}

// Result returns the current result page. A result computed while the index
// was building is recomputed once the index is ready.
func (s *Session) Result() Result {
	s.mu.Lock()
	if !s.result.Loading || !s.source.Index().Ready() {
		res := s.result
		s.mu.Unlock()
		return res
	}
	ev := s.recompute(ReasonIndexReady)
	res := s.result
	obs := s.snapshotObservers()
	s.mu.Unlock()

	notify(obs, ev)
	return res
}

// LastActive returns when the session was last changed.
func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

// SetQuery changes the query, returning to page 1. Setting the current
// query again is a no-op.
func (s *Session) SetQuery(q string) Result {
	return s.change(ReasonQuery, func() bool {
		if q == s.query {
			return false
		}
		s.query = q
		return true
	})
}

// SetTab changes the tab, returning to page 1.
func (s *Session) SetTab(tab filter.Tab) Result {
	return s.change(ReasonTab, func() bool {
		if tab == s.tab {
			return false
		}
		s.tab = tab
		return true
	})
}

// Refresh recomputes from the current source, returning to page 1. Use it
// after the catalog is reloaded or favorites change outside the session.
func (s *Session) Refresh(reason Reason) Result {
	return s.change(reason, func() bool { return true })
}

// SetPage moves to page n, clamped to the valid range. Observers are not
// notified since the filtered list is unchanged.
func (s *Session) SetPage(n int) Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	page := s.paginator.SetPage(n)
	s.result = s.compute(page)
	s.lastActive = time.Now()
	return s.result
}

// ToggleFavorite flips the favorite flag for id and recomputes the results.
func (s *Session) ToggleFavorite(ctx context.Context, id string) (bool, Result, error) {
	if s.favorites == nil {
		return false, s.Result(), errors.ErrReadOnly
	}
	value, err := s.favorites.Toggle(ctx, id)
	if err != nil {
		return value, s.Result(), err
	}
	logging.FromContext(ctx).Debug().
		Str("session_id", s.id).
		Str("record_id", id).
		Bool("favorite", value).
		Msg("Session favorite toggled")
	return value, s.Refresh(ReasonFavorite), nil
}

// Subscribe registers an observer and returns a function that removes it.
func (s *Session) Subscribe(o Observer) (unsubscribe func()) {
	s.mu.Lock()
	id := s.addObserver(o)
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.observers, id)
		s.mu.Unlock()
	}
}

// ChartLoading reports whether the summary area is gated behind its loading state.
func (s *Session) ChartLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.chartLoading
}

// SetChartLoading sets the summary loading flag.
func (s *Session) SetChartLoading(loading bool) {
	s.mu.Lock()
	s.chartLoading = loading
	s.mu.Unlock()
}

// DelayChart marks the summary area loading for d. The returned function
// cancels the pending transition.
func (s *Session) DelayChart(d time.Duration) (cancel func() bool) {
	s.SetChartLoading(true)
	t := time.AfterFunc(d, func() { s.SetChartLoading(false) })
	return t.Stop
}

func (s *Session) change(reason Reason, apply func() bool) Result {
	s.mu.Lock()
	if !apply() {
		res := s.result
		s.mu.Unlock()
		return res
	}
	ev := s.recompute(reason)
	res := s.result
	obs := s.snapshotObservers()
	s.mu.Unlock()

	notify(obs, ev)
	return res
}

// recompute resets to page 1 and rebuilds the result. Caller holds s.mu.
func (s *Session) recompute(reason Reason) ResultsChanged {
	s.result = s.compute(1)
	s.paginator.Reset(len(s.result.Filtered))
	s.lastActive = time.Now()
	return ResultsChanged{
		SessionID:  s.id,
		Reason:     reason,
		Query:      s.query,
		Tab:        s.tab,
		Items:      s.result.Filtered,
		Matches:    s.result.Matches,
		TotalPages: s.result.Pagination.TotalPages,
		Loading:    s.result.Loading,
	}
}

func (s *Session) compute(page int) Result {
	var favs FavoriteChecker
	if s.favorites != nil {
		favs = s.favorites
	}
	return Compute(Input{
		Published: s.source.Published(),
		Index:     s.source.Index(),
		Favorites: favs,
		Query:     s.query,
		Tab:       s.tab,
		Page:      page,
		PageSize:  s.paginator.Size(),
	})
}

func (s *Session) addObserver(o Observer) int {
	if o == nil {
		return -1
	}
	id := s.nextObserver
	s.nextObserver++
	s.observers[id] = o
	return id
}

func (s *Session) snapshotObservers() []Observer {
	ids := make([]int, 0, len(s.observers))
	for id := range s.observers {
		ids = append(ids, id)
	}
	slices.Sort(ids) // registration order
	out := make([]Observer, len(ids))
	for i, id := range ids {
		out[i] = s.observers[id]
	}
	return out
}

func notify(observers []Observer, ev ResultsChanged) {
	for _, o := range observers {
		o(ev)
	}
}
