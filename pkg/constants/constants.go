// Package constants provides shared constants used throughout atlas.
// This includes timeouts, limits, file permissions, persisted key names and
// search defaults that must agree between the library, the CLI and the server.
package constants

import "time"

// Timeout constants
const (
	// DefaultTimeout is the standard timeout for general operations
	DefaultTimeout = 10 * time.Second

	// DefaultChartDelay is how long the summary area stays in its loading state
	DefaultChartDelay = 3 * time.Second

	// ReloadDebounce coalesces bursts of catalog file events into one reload
	ReloadDebounce = 250 * time.Millisecond

	// StoreBusyTimeout is the sqlite busy timeout
	StoreBusyTimeout = 5 * time.Second
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644

	// SecureFilePermissions is for state files that should stay private (rw-------)
	SecureFilePermissions = 0600
)

// Limit constants
const (
	// DefaultPageSize is the number of results per page on the search screen
	DefaultPageSize = 10

	// FavoritesPageSize is the number of cards per page on the favorites screen
	FavoritesPageSize = 12

	// MaxPageSize bounds caller-provided page sizes
	MaxPageSize = 100

	// HistoryLimit is the maximum number of saved search history entries
	HistoryLimit = 10

	// ShortcutLimit is the number of recommended or recent favorite shortcuts
	ShortcutLimit = 7

	// PromptLimit is the maximum number of prompt suggestions
	PromptLimit = 10

	// SuggestionLimit is the maximum number of "did you mean" identifiers
	SuggestionLimit = 3
)

// Search defaults
const (
	// SearchThreshold is the maximum accepted match score (0 exact, 1 anything)
	SearchThreshold = 0.3

	// SearchDistance scales the penalty for matches far from the start of a field
	SearchDistance = 100

	// MinMatchCharLength is the minimum run of consecutive matched characters
	MinMatchCharLength = 2
)

// Persisted keys
const (
	// FavoritesKey holds the id -> bool favorites snapshot
	FavoritesKey = "favorites"

	// HistoryKey holds the search history list
	HistoryKey = "searchHistory"
)

// Path constants
const (
	// DefaultStateDir is where favorites and history are stored
	DefaultStateDir = "~/.atlas"

	// SQLiteFile is the database file name inside the state directory
	SQLiteFile = "atlas.db"
)

// Format constants
const (
	// TimeFormatISO8601 is the ISO 8601 time format
	TimeFormatISO8601 = time.RFC3339

	// TimeFormatHuman is a human-readable time format
	TimeFormatHuman = "Jan 2, 2006 at 3:04pm MST"
)
