// Package serve provides the serve command that runs the HTTP API.
package serve

import (
	"context"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/agentstation/atlas/cmd/application"
	"github.com/agentstation/atlas/internal/cmd/cmdutil"
	"github.com/agentstation/atlas/internal/server"
	"github.com/agentstation/atlas/internal/server/middleware"
	"github.com/agentstation/atlas/internal/watch"
	"github.com/agentstation/atlas/pkg/errors"
	"github.com/agentstation/atlas/pkg/logging"
)

// Options are the configured defaults for the serve flags.
type Options struct {
	Server server.Config
	Watch  bool
}

// NewCommand creates the serve command.
func NewCommand(app application.Application, opts Options) *cobra.Command {
	cfg := opts.Server

	cmd := &cobra.Command{
		Use:     "serve",
		GroupID: "server",
		Short:   "Serve the REST API with WebSocket and SSE updates",
		Long: `Start the atlas HTTP API.

Features:
  - Search, record, favorites, history and suggestion endpoints
  - Result sessions that recompute when the query, tab or favorites change
  - WebSocket (/api/v1/updates/ws) and SSE (/api/v1/updates/stream) updates
  - Response caching, rate limiting, optional CORS and API key auth
  - Catalog reload on file change with --watch

The API key for --auth is read from ` + middleware.APIKeyEnv + `.`,
		Example: `  # Start on the default port 8080
  atlas serve

  # Reload the catalog whenever the file changes
  atlas serve --catalog ./analytics.yaml --watch

  # Require an API key and allow a browser origin
  ATLAS_API_KEY=secret atlas serve --auth --cors-origins https://portal.example.com`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("cors-origins") && len(cfg.CORSOrigins) > 0 {
				cfg.CORSEnabled = true
			}
			return run(cmd.Context(), app, cfg, cmdutil.MustGetBool(cmd, "watch"))
		},
	}

	cmd.Flags().IntVarP(&cfg.Port, "port", "p", cfg.Port, "Server port")
	cmd.Flags().StringVar(&cfg.Host, "host", cfg.Host, "Bind address")
	cmd.Flags().StringVar(&cfg.PathPrefix, "prefix", cfg.PathPrefix, "API path prefix")

	cmd.Flags().BoolVar(&cfg.CORSEnabled, "cors", cfg.CORSEnabled, "Enable CORS")
	cmd.Flags().StringSliceVar(&cfg.CORSOrigins, "cors-origins", cfg.CORSOrigins, "Allowed CORS origins (implies --cors)")

	cmd.Flags().BoolVar(&cfg.AuthEnabled, "auth", cfg.AuthEnabled, "Require the API key from "+middleware.APIKeyEnv)
	cmd.Flags().StringVar(&cfg.AuthHeader, "auth-header", cfg.AuthHeader, "Authentication header name")

	cmd.Flags().IntVar(&cfg.RateLimit, "rate-limit", cfg.RateLimit, "Requests per minute per IP (0 to disable)")
	cmd.Flags().DurationVar(&cfg.CacheTTL, "cache-ttl", cfg.CacheTTL, "Response cache TTL")
	cmd.Flags().DurationVar(&cfg.SessionTTL, "session-ttl", cfg.SessionTTL, "Idle result session lifetime")

	cmd.Flags().DurationVar(&cfg.ReadTimeout, "read-timeout", cfg.ReadTimeout, "HTTP read timeout")
	cmd.Flags().DurationVar(&cfg.WriteTimeout, "write-timeout", cfg.WriteTimeout, "HTTP write timeout (0 keeps streams open)")
	cmd.Flags().DurationVar(&cfg.IdleTimeout, "idle-timeout", cfg.IdleTimeout, "HTTP idle timeout")

	cmd.Flags().Bool("watch", opts.Watch, "Reload the catalog when its file changes")

	return cmd
}

func run(ctx context.Context, app application.Application, cfg server.Config, watchCatalog bool) error {
	logger := app.Logger()
	ctx = logging.WithLogger(ctx, logger)

	if cfg.AuthEnabled && os.Getenv(middleware.APIKeyEnv) == "" {
		return errors.NewValidationError("auth", true, middleware.APIKeyEnv+" must be set when --auth is enabled")
	}

	client, err := app.Client()
	if err != nil {
		return err
	}

	var watcher *watch.Watcher
	if watchCatalog {
		if app.CatalogPath() == "" {
			return errors.NewValidationError("watch", true, "--watch needs --catalog")
		}
		watcher, err = watch.New(app.CatalogPath(), client.Reload)
		if err != nil {
			return err
		}
	}

	srv, err := server.New(app, cfg)
	if err != nil {
		return errors.WrapResource("create", "server", "", err)
	}

	logger.Info().
		Str("addr", srv.Addr()).
		Str("catalog", client.Source()).
		Int("published", len(client.Published())).
		Bool("cors", cfg.CORSEnabled).
		Bool("auth", cfg.AuthEnabled).
		Int("rate_limit", cfg.RateLimit).
		Bool("watch", watcher != nil).
		Msg("Starting API server")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Run(gctx)
	})
	if watcher != nil {
		g.Go(func() error {
			return watcher.Run(gctx)
		})
	}

	start := time.Now()
	err = g.Wait()
	logger.Info().Dur("uptime", time.Since(start)).Msg("API server stopped")
	return err
}
