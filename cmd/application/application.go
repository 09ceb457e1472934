// Package application provides the application interface for atlas commands
// and the HTTP server.
//
// Commands and handlers accept this interface rather than the concrete App
// from cmd/atlas/app, which keeps them testable with Mock:
//
//	mock := &application.Mock{
//	    ClientFunc: func() (atlas.Client, error) {
//	        return testClient, nil
//	    },
//	}
//	cmd := search.NewCommand(mock)
package application

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/atlas"
)

// Application provides what commands need from the running program.
//
// Thread Safety: All methods must be safe for concurrent access.
type Application interface {
	// Client returns the shared atlas client, creating it on first use.
	Client() (atlas.Client, error)

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (table, json, yaml, wide).
	OutputFormat() string

	// NoColor reports whether colored output is disabled.
	NoColor() bool

	// CatalogPath returns the configured catalog file, empty for the embedded catalog.
	CatalogPath() string

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}
