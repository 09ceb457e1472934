// Package app wires configuration, logging and the atlas client together
// for the atlas CLI. Commands receive the App through the
// application.Application interface.
package app

import (
	"context"
	"io"
	"sync"

	"github.com/rs/zerolog"

	"github.com/agentstation/atlas"
	"github.com/agentstation/atlas/cmd/application"
	"github.com/agentstation/atlas/pkg/constants"
	"github.com/agentstation/atlas/pkg/errors"
	"github.com/agentstation/atlas/pkg/storage"
)

var _ application.Application = (*App)(nil)

// App holds version information, configuration, the logger and the lazily
// created atlas client.
type App struct {
	version string
	commit  string
	date    string
	builtBy string

	config *Config
	logger *zerolog.Logger
	// fixedLogger keeps a logger passed with WithLogger across flag parsing
	fixedLogger bool

	// command output; nil uses the process stdout and stderr
	stdout io.Writer
	stderr io.Writer

	// client is created on first use and shared by every command
	mu     sync.RWMutex
	client atlas.Client
}

// New creates an App with configuration loaded from the default sources.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	if app.config == nil {
		config, err := LoadConfig("")
		if err != nil {
			return nil, errors.WrapResource("load", "config", "", err)
		}
		app.config = config
	}

	if app.logger == nil {
		logger := NewLogger(app.config)
		app.logger = &logger
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string { return a.version }

// Commit returns the git commit hash.
func (a *App) Commit() string { return a.commit }

// Date returns the build date.
func (a *App) Date() string { return a.date }

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string { return a.builtBy }

// Config returns the application configuration.
func (a *App) Config() *Config { return a.config }

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger { return a.logger }

// OutputFormat returns the configured output format.
func (a *App) OutputFormat() string { return a.config.Format }

// NoColor reports whether colored output is disabled.
func (a *App) NoColor() bool { return a.config.NoColor }

// CatalogPath returns the configured catalog file.
func (a *App) CatalogPath() string { return a.config.CatalogPath }

// Client returns the atlas client, creating it on first use.
func (a *App) Client() (atlas.Client, error) {
	a.mu.RLock()
	if a.client != nil {
		c := a.client
		a.mu.RUnlock()
		return c, nil
	}
	a.mu.RUnlock()

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.client != nil {
		return a.client, nil
	}

	opts, err := a.ClientOptions()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), constants.DefaultTimeout)
	defer cancel()

	c, err := atlas.New(ctx, opts...)
	if err != nil {
		return nil, errors.WrapResource("create", "client", "", err)
	}

	a.logger.Debug().
		Str("source", c.Source()).
		Str("storage", a.config.Storage).
		Str("state_dir", a.config.StateDir).
		Msg("atlas client ready")

	a.client = c
	return c, nil
}

// ClientOptions builds atlas options from the configuration.
func (a *App) ClientOptions() ([]atlas.Option, error) {
	backend, err := storage.ParseBackend(a.config.Storage)
	if err != nil {
		return nil, err
	}

	opts := []atlas.Option{
		atlas.WithStorage(backend, a.config.StateDir),
		atlas.WithPageSize(a.config.PageSize),
		atlas.WithFavoritesPageSize(a.config.FavoritesPageSize),
		atlas.WithChartDelay(a.config.ChartDelay),
		atlas.WithLogger(a.logger),
	}
	if a.config.CatalogPath != "" {
		opts = append(opts, atlas.WithCatalogFile(a.config.CatalogPath))
	}
	return opts, nil
}

// Shutdown closes the client if one was created.
func (a *App) Shutdown(_ context.Context) error {
	a.mu.Lock()
	c := a.client
	a.client = nil
	a.mu.Unlock()

	if c == nil {
		return nil
	}
	if err := c.Close(); err != nil {
		a.logger.Error().Err(err).Msg("Failed to close atlas client during shutdown")
		return err
	}
	return nil
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration instead of loading one.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		if config == nil {
			return errors.NewValidationError("config", nil, "config is nil")
		}
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		a.fixedLogger = logger != nil
		return nil
	}
}

// WithClient sets a prebuilt client, mostly for tests. Shutdown closes it.
func WithClient(c atlas.Client) Option {
	return func(a *App) error {
		a.client = c
		return nil
	}
}

// WithOutput redirects command output, mostly for tests.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(a *App) error {
		a.stdout = stdout
		a.stderr = stderr
		return nil
	}
}
