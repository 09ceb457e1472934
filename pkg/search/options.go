package search

import (
	"github.com/agentstation/atlas/pkg/constants"
)

// Default searchable keys.
var (
	DefaultKeys   = []string{"title", "description", "kind"}
	SearchBoxKeys = []string{"title", "description", "kind", "owner"}
)

// Options configures matching.
type Options struct {
	// Keys are the record fields that are searched.
	Keys []string
	// Threshold is the maximum accepted score: 0 requires an exact match,
	// 1 accepts anything.
	Threshold float64
	// Distance scales how far from the start of a field a match may begin
	// before it is penalized out.
	Distance int
	// MinMatchCharLength is the minimum run of consecutive matched characters.
	MinMatchCharLength int
}

// Option configures an Index.
type Option func(*Options)

// DefaultOptions returns the portal's matching defaults.
func DefaultOptions() Options {
	return Options{
		Keys:               append([]string(nil), DefaultKeys...),
		Threshold:          constants.SearchThreshold,
		Distance:           constants.SearchDistance,
		MinMatchCharLength: constants.MinMatchCharLength,
	}
}

// WithKeys replaces the searched keys.
func WithKeys(keys ...string) Option {
	return func(o *Options) {
		o.Keys = append([]string(nil), keys...)
	}
}

// WithOwnerKey also searches the record owner, as the search box does.
func WithOwnerKey() Option {
	return WithKeys(SearchBoxKeys...)
}

// WithThreshold sets the acceptance threshold, clamped to [0, 1].
func WithThreshold(t float64) Option {
	return func(o *Options) {
		o.Threshold = min(max(t, 0), 1)
	}
}

// WithDistance sets the location penalty scale. Values below 1 are ignored.
func WithDistance(d int) Option {
	return func(o *Options) {
		if d > 0 {
			o.Distance = d
		}
	}
}

// WithMinMatchCharLength sets the minimum matched run.
func WithMinMatchCharLength(n int) Option {
	return func(o *Options) {
		if n > 0 {
			o.MinMatchCharLength = n
		}
	}
}
