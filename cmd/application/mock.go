package application

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/atlas"
	"github.com/agentstation/atlas/pkg/errors"
)

// Mock is an Application for tests. Each method returns the result of the
// matching function field, or a default when the field is nil.
type Mock struct {
	ClientFunc       func() (atlas.Client, error)
	LoggerFunc       func() *zerolog.Logger
	OutputFormatFunc func() string
	NoColorFunc      func() bool
	CatalogPathFunc  func() string
	VersionFunc      func() string
}

// Client returns the mock client, or ErrNotReady when none is configured.
func (m *Mock) Client() (atlas.Client, error) {
	if m.ClientFunc != nil {
		return m.ClientFunc()
	}
	return nil, errors.NewNotReadyError("client")
}

// Logger returns the mock logger or a no-op logger.
func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerFunc != nil {
		return m.LoggerFunc()
	}
	logger := zerolog.Nop()
	return &logger
}

// OutputFormat returns the mock format or "json".
func (m *Mock) OutputFormat() string {
	if m.OutputFormatFunc != nil {
		return m.OutputFormatFunc()
	}
	return "json"
}

// NoColor returns the mock setting or true.
func (m *Mock) NoColor() bool {
	if m.NoColorFunc != nil {
		return m.NoColorFunc()
	}
	return true
}

// CatalogPath returns the mock path or "".
func (m *Mock) CatalogPath() string {
	if m.CatalogPathFunc != nil {
		return m.CatalogPathFunc()
	}
	return ""
}

// Version returns the mock version or "dev".
func (m *Mock) Version() string {
	if m.VersionFunc != nil {
		return m.VersionFunc()
	}
	return "dev"
}

// Commit returns "unknown".
func (m *Mock) Commit() string { return "unknown" }

// Date returns "unknown".
func (m *Mock) Date() string { return "unknown" }

// BuiltBy returns "test".
func (m *Mock) BuiltBy() string { return "test" }

// Ensure Mock implements Application at compile time.
var _ Application = (*Mock)(nil)
