package app

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/agentstation/atlas/internal/config"
	"github.com/agentstation/atlas/internal/server"
	"github.com/agentstation/atlas/pkg/constants"
	"github.com/agentstation/atlas/pkg/errors"
	"github.com/agentstation/atlas/pkg/storage"
)

// Config holds the application configuration loaded from config files,
// environment variables, .env files and finally command-line flags.
type Config struct {
	// Global flags
	Verbose  bool
	Quiet    bool
	NoColor  bool
	Format   string
	LogLevel string

	// Config file actually read, empty when none was found
	ConfigFile string

	// Catalog and state
	CatalogPath       string
	StateDir          string
	Storage           string
	PageSize          int
	FavoritesPageSize int
	ChartDelay        time.Duration
	Watch             bool

	// Server settings used by `atlas serve`
	Server server.Config

	// Logging configuration. EnvLogLevel comes from LOG_LEVEL and ranks
	// below the -v/-q shortcuts; LogLevel is the explicit --log-level.
	EnvLogLevel string
	LogFormat   string
	LogOutput   string
}

// LoadConfig loads configuration in order of precedence:
//  1. Command-line flags (applied later by the root command)
//  2. ATLAS_* environment variables
//  3. .env and .env.local
//  4. Config file (path, $ATLAS_CONFIG, or ~/.atlas.yaml / ./.atlas.yaml)
//  5. Defaults
func LoadConfig(path string) (*Config, error) {
	loadEnvFiles()

	v := config.New()
	setDefaults(v)

	if path == "" {
		path = v.GetString("config")
	}
	if err := config.ReadFile(v, path); err != nil {
		return nil, errors.NewConfigError("config", "cannot read config file", err)
	}

	stateDir, err := config.ExpandPath(v.GetString("state_dir"))
	if err != nil {
		return nil, errors.WrapIO("expand", v.GetString("state_dir"), err)
	}
	catalogPath, err := config.ExpandPath(v.GetString("catalog_path"))
	if err != nil {
		return nil, errors.WrapIO("expand", v.GetString("catalog_path"), err)
	}

	cfg := &Config{
		Verbose: v.GetBool("verbose"),
		Quiet:   v.GetBool("quiet"),
		NoColor: v.GetBool("no_color"),
		Format:  v.GetString("format"),

		ConfigFile: v.ConfigFileUsed(),

		CatalogPath:       catalogPath,
		StateDir:          stateDir,
		Storage:           v.GetString("storage"),
		PageSize:          v.GetInt("page_size"),
		FavoritesPageSize: v.GetInt("favorites_page_size"),
		ChartDelay:        v.GetDuration("chart_delay"),
		Watch:             v.GetBool("watch"),

		Server: server.Config{
			Host:         v.GetString("serve.host"),
			Port:         v.GetInt("serve.port"),
			PathPrefix:   v.GetString("serve.prefix"),
			CORSEnabled:  v.GetBool("serve.cors"),
			CORSOrigins:  v.GetStringSlice("serve.cors_origins"),
			AuthEnabled:  v.GetBool("serve.auth"),
			AuthHeader:   v.GetString("serve.auth_header"),
			RateLimit:    v.GetInt("serve.rate_limit"),
			CacheTTL:     v.GetDuration("serve.cache_ttl"),
			SessionTTL:   v.GetDuration("serve.session_ttl"),
			ReadTimeout:  v.GetDuration("serve.read_timeout"),
			WriteTimeout: v.GetDuration("serve.write_timeout"),
			IdleTimeout:  v.GetDuration("serve.idle_timeout"),
		},

		// LOG_* variables are shared with other tools, so they are read unprefixed.
		EnvLogLevel: config.GetString(v, "LOG_LEVEL"),
		LogFormat:   getEnvOrDefault("LOG_FORMAT", "auto"),
		LogOutput:   getEnvOrDefault("LOG_OUTPUT", "stderr"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail deep inside the client.
func (c *Config) Validate() error {
	if _, err := storage.ParseBackend(c.Storage); err != nil {
		return err
	}
	if c.PageSize <= 0 || c.PageSize > constants.MaxPageSize {
		return errors.NewValidationError("page_size", c.PageSize, "must be between 1 and 100")
	}
	if c.FavoritesPageSize <= 0 || c.FavoritesPageSize > constants.MaxPageSize {
		return errors.NewValidationError("favorites_page_size", c.FavoritesPageSize, "must be between 1 and 100")
	}
	if c.ChartDelay < 0 {
		return errors.NewValidationError("chart_delay", c.ChartDelay, "must not be negative")
	}
	return nil
}

// UpdateFromFlags updates config values from parsed command flags.
// Empty strings leave the loaded value in place.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, format, logLevel string) {
	c.Verbose = verbose
	c.Quiet = quiet
	c.NoColor = c.NoColor || noColor
	if format != "" {
		c.Format = format
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

func setDefaults(v *viper.Viper) {
	defaults := server.DefaultConfig()

	v.SetDefault("state_dir", constants.DefaultStateDir)
	v.SetDefault("storage", string(storage.BackendFiles))
	v.SetDefault("page_size", constants.DefaultPageSize)
	v.SetDefault("favorites_page_size", constants.FavoritesPageSize)
	v.SetDefault("chart_delay", constants.DefaultChartDelay)
	v.SetDefault("watch", false)

	v.SetDefault("serve.host", defaults.Host)
	v.SetDefault("serve.port", defaults.Port)
	v.SetDefault("serve.prefix", defaults.PathPrefix)
	v.SetDefault("serve.cors", defaults.CORSEnabled)
	v.SetDefault("serve.cors_origins", defaults.CORSOrigins)
	v.SetDefault("serve.auth", defaults.AuthEnabled)
	v.SetDefault("serve.auth_header", defaults.AuthHeader)
	v.SetDefault("serve.rate_limit", defaults.RateLimit)
	v.SetDefault("serve.cache_ttl", defaults.CacheTTL)
	v.SetDefault("serve.session_ttl", defaults.SessionTTL)
	v.SetDefault("serve.read_timeout", defaults.ReadTimeout)
	v.SetDefault("serve.write_timeout", defaults.WriteTimeout)
	v.SetDefault("serve.idle_timeout", defaults.IdleTimeout)
}

// loadEnvFiles loads .env.local then .env. godotenv never overrides a
// variable that is already set, so the real environment wins and
// .env.local wins over .env.
func loadEnvFiles() {
	for _, envFile := range []string{".env.local", ".env"} {
		_ = godotenv.Load(envFile)
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
