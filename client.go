// Package atlas is the entry point for the analytics catalog portal core.
// It loads a catalog of products, reports and datasets, indexes the
// published records for fuzzy search, and keeps the user's favorites and
// search history in a pluggable key/value store.
//
// Result screens are driven through sessions, which recompute a result page
// whenever the query, tab or favorites change:
//
//	client, err := atlas.New(ctx,
//	    atlas.WithCatalogFile("./analytics.yaml"),
//	    atlas.WithStorage(storage.BackendFiles, "~/.atlas"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	client.OnResultsChanged(func(ev pipeline.ResultsChanged) {
//	    log.Printf("%d results for %q", len(ev.Items), ev.Query)
//	})
//
//	session := client.NewSession()
//	page := session.SetQuery("salez")
//	for _, item := range page.Items {
//	    fmt.Println(item.ID, item.Title)
//	}
package atlas

import (
	"context"
	"math/rand/v2"
	"sync"

	"github.com/rs/zerolog"

	"github.com/agentstation/atlas/internal/embedded"
	"github.com/agentstation/atlas/pkg/catalogs"
	"github.com/agentstation/atlas/pkg/errors"
	"github.com/agentstation/atlas/pkg/favorites"
	"github.com/agentstation/atlas/pkg/history"
	"github.com/agentstation/atlas/pkg/logging"
	"github.com/agentstation/atlas/pkg/pipeline"
	"github.com/agentstation/atlas/pkg/search"
	"github.com/agentstation/atlas/pkg/storage"
)

// Compile-time interface checks.
var (
	_ Client          = (*client)(nil)
	_ pipeline.Source = (*client)(nil)
)

// EmbeddedSource is the catalog source name used when no catalog file is
// configured.
const EmbeddedSource = "embedded"

// Client is the portal core: catalog, search, favorites, history and sessions.
type Client interface {

	// Catalog provides access to the loaded records
	Catalog

	// Searcher runs searches and creates result sessions
	Searcher

	// Favorites reads and toggles favorites
	Favorites

	// History manages the saved search history
	History

	// Hooks provides access to event callback registration
	Hooks

	// Source exposes the published records and search index to sessions
	pipeline.Source

	// Reload re-reads the catalog file and rebuilds the search index.
	Reload(ctx context.Context) error

	// Close releases the storage backend if the client opened it.
	Close() error
}

// client is the internal implementation of the Client interface.
type client struct {
	options *options
	logger  *zerolog.Logger

	// catalog state, replaced wholesale on reload
	mu       sync.RWMutex
	catalog  *catalogs.Catalog
	source   string
	index    *search.Index // title, description, kind
	boxIndex *search.Index // search box variant, adds owner

	store     storage.Store
	favorites *favorites.Store
	history   *history.Store

	rngMu sync.Mutex
	rng   *rand.Rand

	indexing  sync.WaitGroup
	closeOnce sync.Once
	closeErr  error
	hooks     *hooks
}

// New creates a Client. Without options it serves the embedded sample
// catalog with in-memory state.
func New(ctx context.Context, opts ...Option) (Client, error) {
	o, err := defaults().apply(opts...)
	if err != nil {
		return nil, err
	}

	c := &client{
		options: o,
		logger:  o.logger,
		rng:     o.rng,
		hooks:   newHooks(),
	}
	if c.logger == nil {
		c.logger = logging.Default()
	}
	if c.rng == nil {
		c.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	ctx = logging.WithLogger(ctx, c.logger)

	cat, source, err := c.loadCatalog()
	if err != nil {
		return nil, err
	}
	c.catalog = cat
	c.source = source

	// indexes
	c.index = search.NewPending()
	c.boxIndex = search.NewPending(search.WithOwnerKey())
	if o.backgroundIndex {
		c.indexing.Add(1)
		go func() {
			defer c.indexing.Done()
			c.rebuild(cat)
			c.hooks.indexReady()
		}()
	} else {
		c.rebuild(cat)
	}

	// persisted state
	if err := c.openState(ctx); err != nil {
		c.indexing.Wait()
		return nil, err
	}

	c.logger.Debug().
		Str("source", source).
		Int("records", cat.Len()).
		Int("published", len(cat.Published())).
		Int("favorites", c.favorites.Len()).
		Int("history", c.history.Len()).
		Msg("Atlas client created")

	return c, nil
}

// loadCatalog resolves the initial catalog from options or the embedded sample.
func (c *client) loadCatalog() (*catalogs.Catalog, string, error) {
	o := c.options
	switch {
	case o.catalog != nil:
		source := o.catalog.Source()
		if source == "" {
			source = "memory"
		}
		return o.catalog, source, nil
	case o.catalogPath != "":
		cat, err := catalogs.Load(o.catalogPath)
		if err != nil {
			return nil, "", errors.WrapResource("load", "catalog", o.catalogPath, err)
		}
		return cat, cat.Source(), nil
	default:
		cat, err := catalogs.Parse(embedded.Catalog(), catalogs.FormatJSON)
		if err != nil {
			return nil, "", errors.WrapResource("load", "catalog", EmbeddedSource, err)
		}
		return cat, EmbeddedSource, nil
	}
}

// openState opens the store and loads favorites and history from it.
func (c *client) openState(ctx context.Context) error {
	o := c.options
	if o.store != nil {
		c.store = o.store
	} else {
		s, err := storage.Open(ctx, o.backend, o.stateDir)
		if err != nil {
			return errors.WrapResource("open", "storage", o.backend.String(), err)
		}
		c.store = s
		o.ownsStore = true
	}

	favs, err := favorites.Load(ctx, c.store)
	if err != nil {
		_ = c.closeOwnedStore()
		return err
	}
	c.favorites = favs

	var histOpts []history.Option
	if o.historyClock != nil {
		histOpts = append(histOpts, history.WithClock(o.historyClock))
	}
	hist, err := history.Load(ctx, c.store, histOpts...)
	if err != nil {
		_ = c.closeOwnedStore()
		return err
	}
	c.history = hist
	return nil
}

// rebuild indexes the published subset of cat.
func (c *client) rebuild(cat *catalogs.Catalog) {
	published := cat.Published()
	c.mu.RLock()
	index, boxIndex := c.index, c.boxIndex
	c.mu.RUnlock()
	index.Rebuild(published)
	boxIndex.Rebuild(published)
	c.logger.Debug().Int("records", len(published)).Msg("Search index ready")
}

// Published returns the published records in catalog order.
func (c *client) Published() []catalogs.Record {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.catalog.Published()
}

// Index returns the search index over the published records.
func (c *client) Index() *search.Index {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.index
}

// Reload re-reads the catalog file, rebuilds both indexes and notifies
// reload hooks. Clients without a catalog file cannot reload.
func (c *client) Reload(ctx context.Context) error {
	path := c.options.catalogPath
	if path == "" {
		return errors.NewConfigError("catalog", "no catalog file configured", errors.ErrReadOnly)
	}
	log := logging.FromContext(ctx)

	cat, err := catalogs.Load(path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("Catalog reload failed, keeping current catalog")
		return errors.WrapResource("reload", "catalog", path, err)
	}

	published := cat.Published()
	index := search.New(published)
	boxIndex := search.New(published, search.WithOwnerKey())

	c.indexing.Wait()
	c.mu.Lock()
	c.catalog = cat
	c.source = cat.Source()
	c.index = index
	c.boxIndex = boxIndex
	c.mu.Unlock()

	log.Info().
		Str("path", path).
		Int("records", cat.Len()).
		Int("published", len(published)).
		Msg("Catalog reloaded")

	c.hooks.catalogReloaded(cat)
	return nil
}

// Close waits for background indexing and closes an owned store. It is
// safe to call more than once.
func (c *client) Close() error {
	c.closeOnce.Do(func() {
		c.indexing.Wait()
		c.closeErr = c.closeOwnedStore()
	})
	return c.closeErr
}

func (c *client) closeOwnedStore() error {
	if c.store == nil || !c.options.ownsStore {
		return nil
	}
	if err := c.store.Close(); err != nil {
		return errors.WrapResource("close", "storage", c.options.backend.String(), err)
	}
	return nil
}

// sample draws up to n published records at random.
func (c *client) sample(n int) []catalogs.Record {
	published := c.Published()
	c.rngMu.Lock()
	defer c.rngMu.Unlock()
	return pipeline.Sample(published, n, c.rng)
}

// OnResultsChanged registers a callback for session result changes.
func (c *client) OnResultsChanged(fn ResultsChangedHook) { c.hooks.OnResultsChanged(fn) }

// OnFavoriteToggled registers a callback for favorite toggles.
func (c *client) OnFavoriteToggled(fn FavoriteToggledHook) { c.hooks.OnFavoriteToggled(fn) }

// OnHistoryChanged registers a callback for history changes.
func (c *client) OnHistoryChanged(fn HistoryChangedHook) { c.hooks.OnHistoryChanged(fn) }

// OnCatalogReloaded registers a callback for catalog reloads.
func (c *client) OnCatalogReloaded(fn CatalogReloadedHook) { c.hooks.OnCatalogReloaded(fn) }

// OnIndexReady registers a callback for background index completion.
func (c *client) OnIndexReady(fn IndexReadyHook) { c.hooks.OnIndexReady(fn) }
