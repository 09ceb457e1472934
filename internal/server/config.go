package server

import "time"

// Config holds server configuration.
type Config struct {
	Host string
	Port int

	// PathPrefix is prepended to every API route.
	PathPrefix string

	CORSEnabled bool
	CORSOrigins []string

	// AuthEnabled requires the key from ATLAS_API_KEY on every non-health route.
	AuthEnabled bool
	AuthHeader  string

	// RateLimit is requests per minute per IP; 0 disables limiting.
	RateLimit int
	// CacheTTL bounds how long computed responses are reused.
	CacheTTL time.Duration
	// SessionTTL is how long an idle result session is kept.
	SessionTTL time.Duration

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DefaultConfig returns the defaults used by `atlas serve`.
func DefaultConfig() Config {
	return Config{
		Host:         "localhost",
		Port:         8080,
		PathPrefix:   "/api/v1",
		CORSOrigins:  []string{},
		AuthHeader:   "X-API-Key",
		RateLimit:    100,
		CacheTTL:     5 * time.Minute,
		SessionTTL:   30 * time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 0, // streams stay open
		IdleTimeout:  120 * time.Second,
	}
}
