package atlas

import (
	"math/rand/v2"
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/atlas/pkg/catalogs"
	"github.com/agentstation/atlas/pkg/constants"
	"github.com/agentstation/atlas/pkg/errors"
	"github.com/agentstation/atlas/pkg/storage"
)

// Option is a function that configures a Client.
type Option func(*options) error

// options holds the configuration applied by New.
type options struct {
	catalogPath string
	catalog     *catalogs.Catalog

	store        storage.Store
	backend      storage.Backend
	stateDir     string
	ownsStore    bool
	historyClock func() time.Time

	pageSize          int
	favoritesPageSize int
	chartDelay        time.Duration
	backgroundIndex   bool

	rng    *rand.Rand
	logger *zerolog.Logger
}

// defaults returns options for an embedded catalog with in-memory state.
func defaults() *options {
	return &options{
		backend:           storage.BackendMemory,
		pageSize:          constants.DefaultPageSize,
		favoritesPageSize: constants.FavoritesPageSize,
		chartDelay:        constants.DefaultChartDelay,
	}
}

// apply applies the given options in order.
func (o *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// WithCatalogFile loads the catalog from a JSON or YAML export on disk.
// The file can be reloaded later with Reload.
func WithCatalogFile(path string) Option {
	return func(o *options) error {
		o.catalogPath = path
		return nil
	}
}

// WithCatalog uses an already-loaded catalog. It takes precedence over
// WithCatalogFile for the initial load.
func WithCatalog(c *catalogs.Catalog) Option {
	return func(o *options) error {
		if c == nil {
			return errors.NewValidationError("catalog", nil, "catalog is nil")
		}
		o.catalog = c
		return nil
	}
}

// WithStore persists favorites and history in s. The caller keeps
// ownership and must close s after the client.
func WithStore(s storage.Store) Option {
	return func(o *options) error {
		o.store = s
		o.ownsStore = false
		return nil
	}
}

// WithStorage opens a storage backend under dir. The client closes it.
func WithStorage(backend storage.Backend, dir string) Option {
	return func(o *options) error {
		o.backend = backend
		o.stateDir = dir
		return nil
	}
}

// WithPageSize configures the search page size.
func WithPageSize(n int) Option {
	return func(o *options) error {
		if n <= 0 || n > constants.MaxPageSize {
			return errors.NewValidationError("page_size", n, "page size must be between 1 and 100")
		}
		o.pageSize = n
		return nil
	}
}

// WithFavoritesPageSize configures the favorites page size.
func WithFavoritesPageSize(n int) Option {
	return func(o *options) error {
		if n <= 0 || n > constants.MaxPageSize {
			return errors.NewValidationError("favorites_page_size", n, "page size must be between 1 and 100")
		}
		o.favoritesPageSize = n
		return nil
	}
}

// WithChartDelay configures how long new sessions keep the summary area in
// its loading state. Zero disables the delay.
func WithChartDelay(d time.Duration) Option {
	return func(o *options) error {
		if d < 0 {
			return errors.NewValidationError("chart_delay", d, "delay must not be negative")
		}
		o.chartDelay = d
		return nil
	}
}

// WithBackgroundIndex builds the search index on a background goroutine.
// Until it is ready, searches fall back to the unfiltered published list.
func WithBackgroundIndex() Option {
	return func(o *options) error {
		o.backgroundIndex = true
		return nil
	}
}

// WithRand sets the random source for prompt and shortcut sampling.
func WithRand(rng *rand.Rand) Option {
	return func(o *options) error {
		o.rng = rng
		return nil
	}
}

// WithHistoryClock sets the clock used to timestamp history entries.
func WithHistoryClock(now func() time.Time) Option {
	return func(o *options) error {
		o.historyClock = now
		return nil
	}
}

// WithLogger sets the client logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(o *options) error {
		o.logger = logger
		return nil
	}
}
