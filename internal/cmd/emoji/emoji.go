// Package emoji provides the symbols used in atlas terminal output.
package emoji

// Status symbols.
const (
	// Success marks a completed operation.
	Success = "✓"

	// Error marks a failed operation.
	Error = "✗"

	// Warning marks a non-fatal problem.
	Warning = "!"

	// Info marks an informational line.
	Info = "i"

	// Spinner stands in for an area that is still loading.
	Spinner = "..."
)

// Record symbols.
const (
	// Favorite marks a record the user has starred.
	Favorite = "★"

	// NotFavorite is the empty star shown next to other records.
	NotFavorite = "☆"

	// New marks a record flagged as new.
	New = "●"

	// History marks a suggestion that came from the search history.
	History = "↺"

	// Result marks a suggestion that came from the search index.
	Result = "→"
)

// Star returns Favorite or NotFavorite.
func Star(favorite bool) string {
	if favorite {
		return Favorite
	}
	return NotFavorite
}
